package ftp

import (
	"bytes"
	"net"
	"testing"
	"time"
)

// bufferConn is a minimal in-memory net.Conn for exercising connection
// wrappers without sockets.
type bufferConn struct {
	readBuf  bytes.Buffer
	writeBuf bytes.Buffer
}

func (c *bufferConn) Read(b []byte) (int, error)         { return c.readBuf.Read(b) }
func (c *bufferConn) Write(b []byte) (int, error)        { return c.writeBuf.Write(b) }
func (c *bufferConn) Close() error                       { return nil }
func (c *bufferConn) LocalAddr() net.Addr                { return nil }
func (c *bufferConn) RemoteAddr() net.Addr               { return nil }
func (c *bufferConn) SetDeadline(t time.Time) error      { return nil }
func (c *bufferConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *bufferConn) SetWriteDeadline(t time.Time) error { return nil }

func TestRateLimitedConn_Write(t *testing.T) {
	t.Parallel()

	inner := &bufferConn{}
	// A generous limit: the test verifies correctness, not throttling.
	conn := &rateLimitedConn{Conn: inner, limiter: newRateLimiter(1 << 30)}

	payload := bytes.Repeat([]byte("x"), 3*rateChunk+17)
	n, err := conn.Write(payload)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(payload) {
		t.Errorf("wrote %d bytes, want %d", n, len(payload))
	}
	if !bytes.Equal(inner.writeBuf.Bytes(), payload) {
		t.Error("payload corrupted by chunked writes")
	}
}

func TestRateLimitedConn_Read(t *testing.T) {
	t.Parallel()

	inner := &bufferConn{}
	inner.readBuf.WriteString("hello")
	conn := &rateLimitedConn{Conn: inner, limiter: newRateLimiter(1 << 30)}

	buf := make([]byte, 64)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if string(buf[:n]) != "hello" {
		t.Errorf("read %q, want %q", buf[:n], "hello")
	}
}

func TestNewRateLimiter_Burst(t *testing.T) {
	t.Parallel()

	// The burst must cover a full chunk even for tiny rates, or WaitN
	// would block forever.
	limiter := newRateLimiter(10)
	if limiter.Burst() < rateChunk {
		t.Errorf("burst = %d, want at least %d", limiter.Burst(), rateChunk)
	}

	limiter = newRateLimiter(1 << 20)
	if limiter.Burst() != 1<<20 {
		t.Errorf("burst = %d, want %d", limiter.Burst(), 1<<20)
	}
}
