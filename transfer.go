package ftp

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"unicode/utf8"
)

// Retrieve downloads the remote file at path into w. The transfer runs in
// binary mode.
//
// The data connection is read to exhaustion and released before the
// completion reply is consumed, per RFC959.
func (c *Client) Retrieve(path string, w io.Writer) error {
	if err := c.Binary(); err != nil {
		return err
	}

	dataConn, err := c.openTransfer("RETR", path)
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(w, dataConn)
	_, finishErr := c.finishTransfer(dataConn, "RETR")

	if copyErr != nil {
		return fmt.Errorf("download failed: %w", copyErr)
	}
	return finishErr
}

// RetrieveBytes downloads the remote file at path into memory.
func (c *Client) RetrieveBytes(path string) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Retrieve(path, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Store uploads r to the remote path, creating or replacing the file. The
// transfer runs in binary mode.
//
// All payload bytes are written and the data connection closed before the
// completion reply is consumed.
func (c *Client) Store(path string, r io.Reader) error {
	return c.upload("STOR", path, r, KindRequestActionCompleted)
}

// StoreBytes uploads an in-memory payload to the remote path.
func (c *Client) StoreBytes(path string, data []byte) error {
	return c.Store(path, bytes.NewReader(data))
}

// Append appends r to the remote path, creating the file if absent.
func (c *Client) Append(path string, r io.Reader) error {
	return c.upload("APPE", path, r,
		KindRequestActionCompleted, KindRequestFileActionCompleted)
}

// StoreUnique uploads r under a server-chosen unique name (STOU) and returns
// the completion reply message, which names the created file.
func (c *Client) StoreUnique(r io.Reader) (string, error) {
	if err := c.Binary(); err != nil {
		return "", err
	}

	dataConn, err := c.openTransfer("STOU")
	if err != nil {
		return "", err
	}

	_, copyErr := io.Copy(dataConn, r)
	reply, finishErr := c.finishTransfer(dataConn, "STOU")

	if copyErr != nil {
		return "", fmt.Errorf("upload failed: %w", copyErr)
	}
	if finishErr != nil {
		return "", finishErr
	}
	return reply.Message, nil
}

// upload drives STOR and APPE: open the data connection, send the command,
// write the payload, release the connection, then read the completion reply.
func (c *Client) upload(command, path string, r io.Reader, accepted ...StatusKind) error {
	if err := c.Binary(); err != nil {
		return err
	}

	dataConn, err := c.openTransfer(command, path)
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(dataConn, r)
	_, finishErr := c.finishTransfer(dataConn, command, accepted...)

	if copyErr != nil {
		return fmt.Errorf("upload failed: %w", copyErr)
	}
	return finishErr
}

// retrieveText drives LIST and NLST: the payload is drained like a download
// and must decode as valid UTF-8. A decode failure is a serialization error,
// not a protocol error, since the exchange itself completed.
func (c *Client) retrieveText(command, path string) (string, error) {
	var (
		dataConn net.Conn
		err      error
	)
	if path == "" {
		dataConn, err = c.openTransfer(command)
	} else {
		dataConn, err = c.openTransfer(command, path)
	}
	if err != nil {
		return "", err
	}

	data, readErr := io.ReadAll(dataConn)
	_, finishErr := c.finishTransfer(dataConn, command)

	if readErr != nil {
		return "", fmt.Errorf("failed to read %s data: %w", command, readErr)
	}
	if finishErr != nil {
		return "", finishErr
	}

	if !utf8.Valid(data) {
		return "", &SerializationError{
			Op:     command,
			Reason: "listing is not valid UTF-8",
		}
	}
	return string(data), nil
}

// Restart would resume an interrupted transfer. Not implemented: resuming
// transfers is outside this client's protocol surface.
func (c *Client) Restart(offset int64) error {
	return &NotImplementedError{Op: "transfer restart"}
}

// Abort would cancel an in-flight transfer. Not implemented.
func (c *Client) Abort() error {
	return &NotImplementedError{Op: "transfer abort"}
}

// Allocate would reserve space on the server before an upload. Not
// implemented: modern servers allocate on demand.
func (c *Client) Allocate(size int64) error {
	return &NotImplementedError{Op: "allocate"}
}
