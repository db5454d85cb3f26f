package ftp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Reply represents one server reply on the control connection.
type Reply struct {
	// Code is the three-digit reply code (e.g., 220, 550)
	Code int

	// Kind is the semantic classification of Code
	Kind StatusKind

	// Message is the human-readable text after the code, surrounding
	// whitespace trimmed. Multi-line replies join their lines with "\n".
	Message string
}

// Positive returns true if the code is in the 2xx-3xx range. Preliminary
// (1xx) codes are neither positive nor failure.
func (r *Reply) Positive() bool {
	return r.Code >= 200 && r.Code < 400
}

// Failure returns true if the code is in the 4xx-5xx range.
func (r *Reply) Failure() bool {
	return r.Code >= 400 && r.Code < 600
}

// String returns the reply as it would read on the wire, without the
// terminator.
func (r *Reply) String() string {
	return fmt.Sprintf("%03d %s", r.Code, r.Message)
}

// parseReply parses a single reply line, stripped of its terminator.
// The line must start with three ASCII digits followed by a space or hyphen
// separator; anything else is a recoverable parse error.
func parseReply(line string) (*Reply, error) {
	if len(line) < 4 {
		return nil, fmt.Errorf("ftp: short reply line: %q", line)
	}

	code, err := strconv.Atoi(line[0:3])
	if err != nil {
		return nil, fmt.Errorf("ftp: invalid reply code: %q", line[0:3])
	}

	if line[3] != ' ' && line[3] != '-' {
		return nil, fmt.Errorf("ftp: invalid reply separator: %q", line)
	}

	return &Reply{
		Code:    code,
		Kind:    Kind(code),
		Message: strings.TrimSpace(line[4:]),
	}, nil
}

// readReply reads one complete reply from the reader.
//
// Single-line format: "220 Welcome\r\n"
// Multi-line format:
//
//	"220-Welcome\r\n"
//	"220-Second line\r\n"
//	"220 Ready\r\n"
//
// A multi-line reply ends when a line starts with the same code followed by
// a space.
func readReply(r *bufio.Reader) (*Reply, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	line = strings.TrimRight(line, "\r\n")

	reply, err := parseReply(line)
	if err != nil {
		return nil, err
	}

	// Common case: single-line reply.
	if line[3] == ' ' {
		return reply, nil
	}

	// Dash continuation: collect lines until "CODE " terminates the reply.
	codeStr := line[0:3]
	messages := []string{reply.Message}
	for {
		line, err = r.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("ftp: unexpected EOF in multi-line reply")
			}
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")

		// Continuation text that does not repeat the code (RFC 2389 style).
		if !strings.HasPrefix(line, codeStr) || len(line) < 4 {
			messages = append(messages, strings.TrimSpace(line))
			continue
		}

		messages = append(messages, strings.TrimSpace(line[4:]))
		if line[3] == ' ' {
			reply.Message = strings.Join(messages, "\n")
			return reply, nil
		}
		if line[3] != '-' {
			return nil, fmt.Errorf("ftp: invalid reply continuation: %q", line)
		}
	}
}

// writeCommand serializes COMMAND\r\n or COMMAND ARG...\r\n on the control
// connection. Arguments are joined with single spaces and not escaped; path
// validity is the caller's responsibility.
func (c *Client) writeCommand(command string, args ...string) error {
	line := command
	if len(args) > 0 {
		line = command + " " + strings.Join(args, " ")
	}

	c.logger.Debug("ftp command", "cmd", redactCommand(line))

	if c.timeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
			return fmt.Errorf("failed to set write deadline: %w", err)
		}
	}

	if _, err := fmt.Fprintf(c.conn, "%s\r\n", line); err != nil {
		return fmt.Errorf("failed to send %s: %w", command, err)
	}
	return nil
}

// readNextReply reads one reply from the control connection, applying the
// transport timeout.
func (c *Client) readNextReply() (*Reply, error) {
	if c.timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return nil, fmt.Errorf("failed to set read deadline: %w", err)
		}
	}

	reply, err := readReply(c.reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read reply: %w", err)
	}

	c.logger.Debug("ftp reply", "code", reply.Code, "kind", reply.Kind, "message", reply.Message)
	return reply, nil
}

// sendCommand sends one command and reads its reply. The client mutex keeps
// interleaved writes from two goroutines off the wire; issuing concurrent
// commands on one session remains a caller error.
func (c *Client) sendCommand(command string, args ...string) (*Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writeCommand(command, args...); err != nil {
		return nil, err
	}
	return c.readNextReply()
}

// acceptReply applies the acceptance policy: the reply passes if its kind is
// in the accepted set, or, liberally, if its code is numerically positive.
// The liberal path is logged so deviant-but-successful servers are visible.
func (c *Client) acceptReply(command string, reply *Reply, accepted ...StatusKind) (*Reply, error) {
	for _, k := range accepted {
		if reply.Kind == k {
			return reply, nil
		}
	}

	if reply.Positive() {
		c.logger.Warn("accepted unexpected positive reply",
			"cmd", command, "code", reply.Code, "kind", reply.Kind, "expected", kindNames(accepted))
		return reply, nil
	}

	return nil, &UnexpectedStatusError{
		Command:  command,
		Code:     reply.Code,
		Message:  reply.Message,
		Expected: accepted,
	}
}

// cmdExpecting sends a bare command and checks the reply against the
// accepted kinds.
func (c *Client) cmdExpecting(command string, accepted ...StatusKind) (*Reply, error) {
	reply, err := c.sendCommand(command)
	if err != nil {
		return nil, err
	}
	return c.acceptReply(command, reply, accepted...)
}

// cmdArgExpecting sends a command with one argument and checks the reply
// against the accepted kinds.
func (c *Client) cmdArgExpecting(command, arg string, accepted ...StatusKind) (*Reply, error) {
	reply, err := c.sendCommand(command, arg)
	if err != nil {
		return nil, err
	}
	return c.acceptReply(command, reply, accepted...)
}

// readReplyExpecting reads the next reply off the control connection without
// sending anything, and checks it. Used for transfer completion replies,
// which arrive only after the data connection has been drained or released.
func (c *Client) readReplyExpecting(command string, accepted ...StatusKind) (*Reply, error) {
	reply, err := c.readNextReply()
	if err != nil {
		return nil, err
	}
	return c.acceptReply(command, reply, accepted...)
}

// cmdPositive sends a command and accepts any numerically positive reply.
// Used for extension commands (SIZE, MDTM) whose codes are outside the
// classification table.
func (c *Client) cmdPositive(command string, args ...string) (*Reply, error) {
	reply, err := c.sendCommand(command, args...)
	if err != nil {
		return nil, err
	}
	if !reply.Positive() {
		return nil, &UnexpectedStatusError{
			Command: command,
			Code:    reply.Code,
			Message: reply.Message,
		}
	}
	return reply, nil
}

func kindNames(kinds []StatusKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ",")
}

// redactCommand hides the PASS argument from debug logs.
func redactCommand(line string) string {
	if strings.HasPrefix(line, "PASS ") {
		return "PASS ****"
	}
	return line
}
