package ftp

import (
	"fmt"
	"strings"
)

// UnexpectedStatusError reports a reply whose kind was neither in the
// accepted set for the command nor numerically positive. It carries the full
// context of the command/reply conversation for debugging.
type UnexpectedStatusError struct {
	// Command is the FTP command that was sent (e.g., "RETR file.txt")
	Command string

	// Code is the numeric reply code received (e.g., 550)
	Code int

	// Message is the text of the reply received from the server
	Message string

	// Expected is the set of reply kinds the command accepts
	Expected []StatusKind
}

// Error implements the error interface.
func (e *UnexpectedStatusError) Error() string {
	names := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		names[i] = k.String()
	}
	return fmt.Sprintf("ftp: %s: got %d %q, expected [%s]",
		e.Command, e.Code, e.Message, strings.Join(names, ", "))
}

// Is4xx returns true if the received code is in the 4xx range (temporary failure).
func (e *UnexpectedStatusError) Is4xx() bool {
	return e.Code >= 400 && e.Code < 500
}

// Is5xx returns true if the received code is in the 5xx range (permanent failure).
func (e *UnexpectedStatusError) Is5xx() bool {
	return e.Code >= 500 && e.Code < 600
}

// IsTemporary returns true if the error is a temporary failure (4xx).
// This can be used to implement retry logic at the caller; the client itself
// never retries.
func (e *UnexpectedStatusError) IsTemporary() bool {
	return e.Is4xx()
}

// IsPermanent returns true if the error is a permanent failure (5xx).
func (e *UnexpectedStatusError) IsPermanent() bool {
	return e.Is5xx()
}

// AddrDecodeError reports a PASV or EPSV reply whose text does not match the
// expected address grammar.
type AddrDecodeError struct {
	// Command is the negotiation command that produced the reply ("PASV" or "EPSV")
	Command string

	// Text is the offending reply text
	Text string
}

// Error implements the error interface.
func (e *AddrDecodeError) Error() string {
	return fmt.Sprintf("ftp: cannot decode data connection address from %s reply: %q", e.Command, e.Text)
}

// SerializationError reports a data-connection payload that was not valid
// text where text was required (directory listings).
type SerializationError struct {
	// Op is the operation whose payload failed to decode (e.g., "LIST")
	Op string

	// Reason describes the decode failure
	Reason string
}

// Error implements the error interface.
func (e *SerializationError) Error() string {
	return fmt.Sprintf("ftp: %s: %s", e.Op, e.Reason)
}

// NotImplementedError marks an operation that is deliberately outside this
// client's protocol surface (active mode, transfer restart, abort, allocate).
// It is distinguishable from a runtime failure: the server was never asked.
type NotImplementedError struct {
	// Op is the unsupported operation
	Op string
}

// Error implements the error interface.
func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("ftp: %s is not implemented by this client", e.Op)
}
