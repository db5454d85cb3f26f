package ftp

import (
	"fmt"
	"strings"
	"time"
)

// ChangeDir changes the working directory of the session.
func (c *Client) ChangeDir(path string) error {
	_, err := c.cmdArgExpecting("CWD", path, KindRequestFileActionCompleted)
	return err
}

// CdUp moves the working directory to its parent.
func (c *Client) CdUp() error {
	_, err := c.cmdExpecting("CDUP", KindRequestFileActionCompleted)
	return err
}

// CurrentDir returns the working directory reported by PWD.
// The reply quotes the path ("257 "/home/user" ..."); the quoted portion is
// returned when present, the raw message otherwise.
func (c *Client) CurrentDir() (string, error) {
	reply, err := c.cmdExpecting("PWD", KindPathCreated)
	if err != nil {
		return "", err
	}
	return unquotePath(reply.Message), nil
}

// unquotePath extracts the first double-quoted segment of a 257 reply.
func unquotePath(message string) string {
	start := strings.Index(message, `"`)
	if start == -1 {
		return message
	}
	end := strings.Index(message[start+1:], `"`)
	if end == -1 {
		return message
	}
	return message[start+1 : start+1+end]
}

// MakeDir creates a directory on the server.
func (c *Client) MakeDir(path string) error {
	_, err := c.cmdArgExpecting("MKD", path, KindPathCreated)
	return err
}

// RemoveDir removes a directory on the server.
func (c *Client) RemoveDir(path string) error {
	_, err := c.cmdArgExpecting("RMD", path, KindRequestFileActionCompleted)
	return err
}

// Delete removes a file on the server.
func (c *Client) Delete(path string) error {
	_, err := c.cmdArgExpecting("DELE", path, KindRequestFileActionCompleted)
	return err
}

// Rename moves a file or directory. RNFR and RNTO form a two-step
// operation; a failure on either step aborts the rename.
func (c *Client) Rename(from, to string) error {
	if _, err := c.cmdArgExpecting("RNFR", from, KindRequestActionPending); err != nil {
		return err
	}
	_, err := c.cmdArgExpecting("RNTO", to, KindRequestFileActionCompleted)
	return err
}

// List returns the raw directory listing for path, in whatever format the
// server chooses. An empty path lists the working directory.
// See ListEntries for a parsed view.
func (c *Client) List(path string) (string, error) {
	return c.retrieveText("LIST", path)
}

// ListEntries returns the listing for path parsed into entries. Lines in a
// format the parser does not know survive as entries of type EntryUnknown
// with the raw line preserved.
func (c *Client) ListEntries(path string) ([]*Entry, error) {
	text, err := c.List(path)
	if err != nil {
		return nil, err
	}

	var entries []*Entry
	for _, line := range splitListing(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, parseListLine(line))
	}
	return entries, nil
}

// NameList returns the names in path, one per NLST output line, preserving
// server order. The result is empty when the server sends no output.
func (c *Client) NameList(path string) ([]string, error) {
	text, err := c.retrieveText("NLST", path)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, line := range splitListing(text) {
		names = append(names, line)
	}
	return names, nil
}

// splitListing splits data-connection text into lines, tolerating both CRLF
// and bare LF terminators. A trailing terminator does not produce an empty
// final line.
func splitListing(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Size returns the size in bytes of a remote file (RFC 3659 SIZE).
func (c *Client) Size(path string) (int64, error) {
	reply, err := c.cmdPositive("SIZE", path)
	if err != nil {
		return 0, err
	}

	var size int64
	if _, err := fmt.Sscanf(reply.Message, "%d", &size); err != nil {
		return 0, fmt.Errorf("invalid SIZE reply: %q", reply.Message)
	}
	return size, nil
}

// ModTime returns the modification time of a remote file (RFC 3659 MDTM).
// Times are in UTC per RFC 3659 section 2.3.
func (c *Client) ModTime(path string) (time.Time, error) {
	reply, err := c.cmdPositive("MDTM", path)
	if err != nil {
		return time.Time{}, err
	}

	timestamp := strings.TrimSpace(reply.Message)
	modTime, err := time.Parse("20060102150405", timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid MDTM reply: %q", reply.Message)
	}
	return modTime.UTC(), nil
}
