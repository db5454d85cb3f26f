package ftp

import (
	"crypto/tls"
	"fmt"
	"net"
	"regexp"
	"strconv"

	"github.com/hashicorp/go-multierror"
)

var (
	// pasvRegex matches the PASV host-port tuple: (h1,h2,h3,h4,p1,p2)
	pasvRegex = regexp.MustCompile(`\((\d+),(\d+),(\d+),(\d+),(\d+),(\d+)\)`)

	// epsvRegex matches the EPSV delimited port: |||port|
	epsvRegex = regexp.MustCompile(`\|\|\|(\d+)\|`)
)

// parsePASVAddr decodes a PASV reply into a dialable "host:port" address.
// Example: "Entering Passive Mode (127,0,0,1,19,136)" -> "127.0.0.1:5000"
// (19*256 + 136 = 5000).
func parsePASVAddr(text string) (string, error) {
	matches := pasvRegex.FindStringSubmatch(text)
	if len(matches) != 7 {
		return "", &AddrDecodeError{Command: "PASV", Text: text}
	}

	var h [4]int
	for i := 0; i < 4; i++ {
		val, err := strconv.Atoi(matches[i+1])
		if err != nil || val < 0 || val > 255 {
			return "", &AddrDecodeError{Command: "PASV", Text: text}
		}
		h[i] = val
	}

	p1, err1 := strconv.Atoi(matches[5])
	p2, err2 := strconv.Atoi(matches[6])
	if err1 != nil || err2 != nil || p1 < 0 || p1 > 255 || p2 < 0 || p2 > 255 {
		return "", &AddrDecodeError{Command: "PASV", Text: text}
	}

	host := fmt.Sprintf("%d.%d.%d.%d", h[0], h[1], h[2], h[3])
	return net.JoinHostPort(host, strconv.Itoa(p1*256+p2)), nil
}

// parseEPSVPort decodes an EPSV reply into a port number. The server does
// not re-send the host: EPSV works uniformly for IPv4 and IPv6 by reusing
// the control connection's peer address, which the caller supplies.
// Example: "Entering Extended Passive Mode (|||6446|)" -> 6446.
func parseEPSVPort(text string) (int, error) {
	matches := epsvRegex.FindStringSubmatch(text)
	if len(matches) != 2 {
		return 0, &AddrDecodeError{Command: "EPSV", Text: text}
	}

	port, err := strconv.Atoi(matches[1])
	if err != nil || port < 0 || port > 65535 {
		return 0, &AddrDecodeError{Command: "EPSV", Text: text}
	}
	return port, nil
}

// resolveDataAddr substitutes the control connection host when the server
// reports 0.0.0.0 in its PASV reply (common with NATed servers).
func resolveDataAddr(pasvAddr, controlHost string) string {
	host, port, err := net.SplitHostPort(pasvAddr)
	if err != nil {
		return pasvAddr
	}
	if host == "0.0.0.0" {
		return net.JoinHostPort(controlHost, port)
	}
	return pasvAddr
}

// peerHost returns the host part of the control connection's remote address.
func (c *Client) peerHost() string {
	if addr := c.conn.RemoteAddr(); addr != nil {
		if host, _, err := net.SplitHostPort(addr.String()); err == nil {
			return host
		}
	}
	return c.host
}

// openDataConn negotiates and opens a new data connection according to the
// session's mode. Active mode is declared unsupported: it requires the
// client to accept inbound connections, which is outside this client's
// protocol surface.
func (c *Client) openDataConn() (net.Conn, error) {
	switch c.mode {
	case ModePassive:
		return c.openPassive()
	case ModeExtendedPassive:
		return c.openExtendedPassive()
	case ModeActive:
		return nil, &NotImplementedError{Op: "active mode"}
	default:
		return nil, fmt.Errorf("ftp: unknown data connection mode %d", int(c.mode))
	}
}

// openPassive negotiates a data connection with PASV.
func (c *Client) openPassive() (net.Conn, error) {
	reply, err := c.cmdExpecting("PASV", KindEnteredPassiveMode)
	if err != nil {
		return nil, err
	}

	addr, err := parsePASVAddr(reply.Message)
	if err != nil {
		return nil, err
	}

	return c.dialData(resolveDataAddr(addr, c.host))
}

// openExtendedPassive negotiates a data connection with EPSV. Servers that
// reject EPSV outright downgrade the session to PASV for its remaining
// lifetime.
func (c *Client) openExtendedPassive() (net.Conn, error) {
	if c.disableEPSV {
		return c.openPassive()
	}

	reply, err := c.sendCommand("EPSV")
	if err != nil {
		return nil, err
	}

	if reply.Failure() {
		c.logger.Debug("EPSV rejected, falling back to PASV", "code", reply.Code)
		c.disableEPSV = true
		return c.openPassive()
	}

	if _, err := c.acceptReply("EPSV", reply, KindEnteredExtendedPassiveMode); err != nil {
		return nil, err
	}

	port, err := parseEPSVPort(reply.Message)
	if err != nil {
		return nil, err
	}

	return c.dialData(net.JoinHostPort(c.peerHost(), strconv.Itoa(port)))
}

// dialData opens the data connection and applies the session's transport
// wrappers: TLS if the control connection is secured, deadlines, and the
// bandwidth limiter.
func (c *Client) dialData(addr string) (net.Conn, error) {
	conn, err := c.dialer.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to data port: %w", err)
	}

	if c.tlsConfig != nil {
		tlsConn := tls.Client(conn, c.tlsConfig)
		if err := tlsConn.Handshake(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("data connection TLS handshake failed: %w", err)
		}
		conn = tlsConn
	}

	if c.timeout > 0 {
		conn = &deadlineConn{Conn: conn, timeout: c.timeout}
	}
	if c.limiter != nil {
		conn = &rateLimitedConn{Conn: conn, limiter: c.limiter}
	}
	return conn, nil
}

// openTransfer starts a composite transfer operation: it opens the data
// connection first, then sends the transfer command, expecting a preliminary
// reply. On any failure the data connection is closed before returning.
func (c *Client) openTransfer(command string, args ...string) (net.Conn, error) {
	dataConn, err := c.openDataConn()
	if err != nil {
		return nil, err
	}

	reply, err := c.sendCommand(command, args...)
	if err != nil {
		dataConn.Close()
		return nil, err
	}
	if _, err := c.acceptReply(command, reply, KindTransferStarted, KindTransferAboutToStart); err != nil {
		dataConn.Close()
		return nil, err
	}

	return dataConn, nil
}

// finishTransfer releases the data connection and reads the completion reply.
//
// Ordering invariant: the completion reply is read only after the data
// connection has been fully drained (downloads) or fully written and closed
// (uploads). Reading it earlier desynchronizes the control channel and
// corrupts every subsequent command.
func (c *Client) finishTransfer(dataConn net.Conn, command string, accepted ...StatusKind) (*Reply, error) {
	closeErr := dataConn.Close()

	// The completion reply is consumed even when the close fails, or the
	// control channel would stay one reply behind for the rest of the
	// session.
	if len(accepted) == 0 {
		accepted = []StatusKind{KindRequestActionCompleted}
	}
	reply, replyErr := c.readReplyExpecting(command, accepted...)

	if closeErr != nil {
		var result *multierror.Error
		result = multierror.Append(result, fmt.Errorf("failed to close data connection: %w", closeErr))
		if replyErr != nil {
			result = multierror.Append(result, replyErr)
		}
		return reply, result.ErrorOrNil()
	}
	return reply, replyErr
}
