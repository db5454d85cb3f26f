package ftp

import (
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"time"
)

// Option configures a Client during Dial, Open or Connect.
type Option func(*Client) error

// WithTimeout sets the timeout applied to the initial dial and to every
// read and write on the control and data connections. Zero disables
// deadlines.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout < 0 {
			return errors.New("ftp: timeout must not be negative")
		}
		c.timeout = timeout
		return nil
	}
}

// WithLogger sets the structured logger used for command and reply traces.
// Commands log at Debug with passwords redacted. Unexpected but positive
// replies log at Warn. The default logger discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			return errors.New("ftp: logger must not be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithDialer sets the net.Dialer used for the control and data connections.
func WithDialer(dialer *net.Dialer) Option {
	return func(c *Client) error {
		if dialer == nil {
			return errors.New("ftp: dialer must not be nil")
		}
		c.dialer = dialer
		return nil
	}
}

// WithTLS enables implicit TLS on the control connection and on every data
// connection, using the given configuration.
func WithTLS(config *tls.Config) Option {
	return func(c *Client) error {
		if config == nil {
			return errors.New("ftp: TLS config must not be nil")
		}
		c.tlsConfig = config
		return nil
	}
}

// WithMode sets the data connection mode. The default is
// ModeExtendedPassive, which falls back to ModePassive when the server
// rejects EPSV.
func WithMode(mode Mode) Option {
	return func(c *Client) error {
		switch mode {
		case ModeExtendedPassive, ModePassive, ModeActive:
			c.mode = mode
			return nil
		}
		return errors.New("ftp: unknown data connection mode")
	}
}

// WithDisableEPSV skips EPSV entirely and negotiates data connections
// with PASV only.
func WithDisableEPSV() Option {
	return func(c *Client) error {
		c.disableEPSV = true
		return nil
	}
}

// WithRateLimit caps the aggregate data connection throughput, in bytes
// per second. The control connection is not limited.
func WithRateLimit(bytesPerSecond int64) Option {
	return func(c *Client) error {
		if bytesPerSecond <= 0 {
			return errors.New("ftp: rate limit must be positive")
		}
		c.limiter = newRateLimiter(bytesPerSecond)
		return nil
	}
}
