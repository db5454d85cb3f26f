package ftp

import "fmt"

// StatusKind is the semantic classification of a three-digit FTP reply code.
// The set is closed: codes without a dedicated meaning for this client map to
// KindUnknown rather than failing, so classification is total.
type StatusKind int

const (
	// KindUnknown is returned for every code not listed below.
	KindUnknown StatusKind = iota

	// KindTransferStarted is code 125: data connection already open,
	// transfer starting.
	KindTransferStarted

	// KindTransferAboutToStart is code 150: file status okay, about to
	// open data connection.
	KindTransferAboutToStart

	// KindOk is code 200: command okay.
	KindOk

	// KindFeatureNotImplemented is code 202: command not implemented,
	// superfluous at this site.
	KindFeatureNotImplemented

	// KindSystemStatus is code 211: system status or help reply.
	KindSystemStatus

	// KindHelpMessage is code 214: help message.
	KindHelpMessage

	// KindNameSystemType is code 215: NAME system type.
	KindNameSystemType

	// KindReadyForNewUser is code 220: service ready for new user.
	KindReadyForNewUser

	// KindClosingControlConnection is code 221: service closing control
	// connection.
	KindClosingControlConnection

	// KindRequestActionCompleted is code 226: closing data connection,
	// requested file action successful.
	KindRequestActionCompleted

	// KindEnteredPassiveMode is code 227: entering passive mode.
	KindEnteredPassiveMode

	// KindEnteredExtendedPassiveMode is code 229: entering extended
	// passive mode.
	KindEnteredExtendedPassiveMode

	// KindUserLoggedIn is code 230: user logged in, proceed.
	KindUserLoggedIn

	// KindRequestFileActionCompleted is code 250: requested file action
	// okay, completed.
	KindRequestFileActionCompleted

	// KindPathCreated is code 257: pathname created (also the PWD reply).
	KindPathCreated

	// KindPasswordRequired is code 331: user name okay, need password.
	KindPasswordRequired

	// KindRequestActionPending is code 350: requested file action pending
	// further information.
	KindRequestActionPending

	// KindCommandUnrecognized is code 500: syntax error, command
	// unrecognized.
	KindCommandUnrecognized

	// KindSecurityMechanismNotImplemented is code 504: command not
	// implemented for that parameter.
	KindSecurityMechanismNotImplemented

	// KindRequestActionDenied is code 550: requested action not taken,
	// file unavailable.
	KindRequestActionDenied

	// KindFileNameNotAllowed is code 553: requested action not taken,
	// file name not allowed.
	KindFileNameNotAllowed
)

// Kind classifies a reply code. It is a total function: any code outside the
// table yields KindUnknown.
func Kind(code int) StatusKind {
	switch code {
	case 125:
		return KindTransferStarted
	case 150:
		return KindTransferAboutToStart
	case 200:
		return KindOk
	case 202:
		return KindFeatureNotImplemented
	case 211:
		return KindSystemStatus
	case 214:
		return KindHelpMessage
	case 215:
		return KindNameSystemType
	case 220:
		return KindReadyForNewUser
	case 221:
		return KindClosingControlConnection
	case 226:
		return KindRequestActionCompleted
	case 227:
		return KindEnteredPassiveMode
	case 229:
		return KindEnteredExtendedPassiveMode
	case 230:
		return KindUserLoggedIn
	case 250:
		return KindRequestFileActionCompleted
	case 257:
		return KindPathCreated
	case 331:
		return KindPasswordRequired
	case 350:
		return KindRequestActionPending
	case 500:
		return KindCommandUnrecognized
	case 504:
		return KindSecurityMechanismNotImplemented
	case 550:
		return KindRequestActionDenied
	case 553:
		return KindFileNameNotAllowed
	default:
		return KindUnknown
	}
}

// String returns a readable name for the kind, used in error messages and
// debug logs.
func (k StatusKind) String() string {
	switch k {
	case KindTransferStarted:
		return "TransferStarted"
	case KindTransferAboutToStart:
		return "TransferAboutToStart"
	case KindOk:
		return "Ok"
	case KindFeatureNotImplemented:
		return "FeatureNotImplemented"
	case KindSystemStatus:
		return "SystemStatus"
	case KindHelpMessage:
		return "HelpMessage"
	case KindNameSystemType:
		return "NameSystemType"
	case KindReadyForNewUser:
		return "ReadyForNewUser"
	case KindClosingControlConnection:
		return "ClosingControlConnection"
	case KindRequestActionCompleted:
		return "RequestActionCompleted"
	case KindEnteredPassiveMode:
		return "EnteredPassiveMode"
	case KindEnteredExtendedPassiveMode:
		return "EnteredExtendedPassiveMode"
	case KindUserLoggedIn:
		return "UserLoggedIn"
	case KindRequestFileActionCompleted:
		return "RequestFileActionCompleted"
	case KindPathCreated:
		return "PathCreated"
	case KindPasswordRequired:
		return "PasswordRequired"
	case KindRequestActionPending:
		return "RequestActionPending"
	case KindCommandUnrecognized:
		return "CommandUnrecognized"
	case KindSecurityMechanismNotImplemented:
		return "SecurityMechanismNotImplemented"
	case KindRequestActionDenied:
		return "RequestActionDenied"
	case KindFileNameNotAllowed:
		return "FileNameNotAllowed"
	case KindUnknown:
		return "Unknown"
	default:
		return fmt.Sprintf("StatusKind(%d)", int(k))
	}
}
