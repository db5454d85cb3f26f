package ftp

import (
	"context"
	"net"
	"time"

	"golang.org/x/time/rate"
)

// deadlineConn wraps a net.Conn and refreshes the read/write deadline before
// every operation.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *deadlineConn) Read(b []byte) (n int, err error) {
	if c.timeout > 0 {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Read(b)
}

func (c *deadlineConn) Write(b []byte) (n int, err error) {
	if c.timeout > 0 {
		if err := c.Conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Write(b)
}

// rateChunk bounds single reads and writes so the limiter stays accurate
// without excessive waits.
const rateChunk = 32 * 1024

// rateLimitedConn throttles data-connection throughput with a shared token
// bucket. All data connections of one session draw from the same limiter,
// so the configured rate caps the session no matter how many transfers run.
type rateLimitedConn struct {
	net.Conn
	limiter *rate.Limiter
}

func (c *rateLimitedConn) Read(b []byte) (n int, err error) {
	if len(b) > rateChunk {
		b = b[:rateChunk]
	}
	n, err = c.Conn.Read(b)
	if n > 0 {
		if werr := c.limiter.WaitN(context.Background(), n); werr != nil && err == nil {
			err = werr
		}
	}
	return n, err
}

func (c *rateLimitedConn) Write(b []byte) (n int, err error) {
	for len(b) > 0 {
		chunk := b
		if len(chunk) > rateChunk {
			chunk = chunk[:rateChunk]
		}
		if err := c.limiter.WaitN(context.Background(), len(chunk)); err != nil {
			return n, err
		}
		written, err := c.Conn.Write(chunk)
		n += written
		if err != nil {
			return n, err
		}
		b = b[written:]
	}
	return n, nil
}

// newRateLimiter builds a limiter for the given bytes-per-second cap. The
// burst is at least one chunk so WaitN can always be satisfied.
func newRateLimiter(bytesPerSecond int64) *rate.Limiter {
	burst := int(bytesPerSecond)
	if burst < rateChunk {
		burst = rateChunk
	}
	return rate.NewLimiter(rate.Limit(bytesPerSecond), burst)
}
