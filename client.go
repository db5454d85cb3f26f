package ftp

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/time/rate"
)

// DefaultPort is the control connection port used when the caller does not
// supply one.
const DefaultPort = "21"

// Mode selects how data connections are negotiated.
//
// Extended passive mode is the default: it is the passive handshake that
// works uniformly for IPv4 and IPv6. Active mode, where the client listens
// and the server connects out, is declared unsupported by design.
type Mode int

const (
	// ModeExtendedPassive negotiates data connections with EPSV,
	// downgrading to PASV if the server rejects it.
	ModeExtendedPassive Mode = iota

	// ModePassive negotiates data connections with PASV.
	ModePassive

	// ModeActive is not implemented by this client; every operation that
	// needs a data connection fails with a NotImplementedError.
	ModeActive
)

// Client is an FTP session. It owns exactly one control connection; data
// connections are transient, created and destroyed within the scope of a
// single operation.
//
// A Client must not be used concurrently: FTP's control protocol is strictly
// half-duplex request/reply, so callers needing parallel transfers should
// open one session per transfer.
type Client struct {
	// conn is the control connection, plain or TLS-wrapped
	conn net.Conn

	// reader buffers control-channel line reads
	reader *bufio.Reader

	// tlsConfig secures the control and data connections when set
	tlsConfig *tls.Config

	// timeout applies to connects, reads and writes on both channels
	timeout time.Duration

	// logger receives command/reply traffic at debug level
	logger *slog.Logger

	// dialer establishes control and data connections
	dialer *net.Dialer

	// host and port of the server
	host string
	port string

	// mode selects PASV vs EPSV negotiation
	mode Mode

	// disableEPSV forces PASV, either configured or learned from a
	// server that rejected EPSV
	disableEPSV bool

	// limiter throttles data-connection throughput when set
	limiter *rate.Limiter

	// welcome is the server greeting, captured once at connect time
	welcome string

	// currentType tracks the transfer type to skip redundant TYPE commands
	currentType string

	// mu serializes control-channel command/reply exchanges
	mu sync.Mutex
}

// Dial connects to an FTP server at "host:port" and consumes the greeting.
// The caller must Login before issuing other commands.
//
// Example:
//
//	client, err := ftp.Dial("ftp.example.com:21")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Quit()
func Dial(addr string, options ...Option) (*Client, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}

	c := &Client{
		host:    host,
		port:    port,
		timeout: 30 * time.Second,
		mode:    ModeExtendedPassive,
		dialer:  &net.Dialer{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range options {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	c.dialer.Timeout = c.timeout

	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

// Open connects to host (port 21 unless the host string carries one) and
// logs in. This is the common entry point for applications.
//
// Example:
//
//	client, err := ftp.Open("ftp.example.com", "demo", "password")
func Open(host, user, password string, options ...Option) (*Client, error) {
	addr := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		addr = net.JoinHostPort(host, DefaultPort)
	}

	c, err := Dial(addr, options...)
	if err != nil {
		return nil, err
	}

	if err := c.Login(user, password); err != nil {
		_ = c.Quit()
		return nil, err
	}
	return c, nil
}

// OpenSecure is Open over TLS. The handshake happens at connect time; from
// then on the engine sees an opaque encrypted byte stream.
func OpenSecure(host, user, password string, options ...Option) (*Client, error) {
	serverName := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		serverName = h
	}
	options = append([]Option{WithTLS(&tls.Config{ServerName: serverName})}, options...)
	return Open(host, user, password, options...)
}

// Connect connects using a URL of the form
// scheme://[user:password@]host[:port][/path].
// Supported schemes: "ftp" (port 21) and "ftps" (implicit TLS, port 990).
// Missing credentials default to anonymous. A path, when present, becomes
// the initial working directory.
func Connect(urlStr string, options ...Option) (*Client, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	host := u.Hostname()
	port := u.Port()

	switch strings.ToLower(u.Scheme) {
	case "ftp":
		if port == "" {
			port = DefaultPort
		}
	case "ftps":
		if port == "" {
			port = "990"
		}
		options = append([]Option{WithTLS(&tls.Config{ServerName: host})}, options...)
	default:
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	if user == "" {
		user = "anonymous"
		pass = "anonymous@"
	}

	c, err := Open(net.JoinHostPort(host, port), user, pass, options...)
	if err != nil {
		return nil, err
	}

	if u.Path != "" && u.Path != "/" {
		if err := c.ChangeDir(u.Path); err != nil {
			_ = c.Quit()
			return nil, err
		}
	}
	return c, nil
}

// connect establishes the control connection, resolving the TLS/plaintext
// duality into a single net.Conn, and consumes the 220 greeting.
func (c *Client) connect() error {
	addr := net.JoinHostPort(c.host, c.port)
	c.logger.Debug("connecting", "addr", addr, "tls", c.tlsConfig != nil)

	conn, err := c.dialer.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	if c.tlsConfig != nil {
		tlsConn := tls.Client(conn, c.tlsConfig)
		if c.timeout > 0 {
			if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
				conn.Close()
				return fmt.Errorf("failed to set deadline: %w", err)
			}
		}
		if err := tlsConn.Handshake(); err != nil {
			conn.Close()
			return fmt.Errorf("TLS handshake failed: %w", err)
		}
		conn = tlsConn
	}

	c.conn = conn
	c.reader = bufio.NewReader(conn)

	greeting, err := c.readNextReply()
	if err != nil {
		c.conn.Close()
		return fmt.Errorf("failed to read greeting: %w", err)
	}
	if _, err := c.acceptReply("CONNECT", greeting, KindReadyForNewUser); err != nil {
		c.conn.Close()
		return err
	}

	c.welcome = greeting.Message
	return nil
}

// Welcome returns the greeting message the server sent at connect time.
func (c *Client) Welcome() string {
	return c.welcome
}

// Login authenticates the session. Many public servers expect an anonymous
// login such as Login("anonymous", "anonymous@example.com").
//
// USER and PASS form a two-step operation: PASS is only sent when USER asks
// for a password. A server that accepts USER alone short-circuits the
// sequence.
func (c *Client) Login(user, password string) error {
	reply, err := c.sendCommand("USER", user)
	if err != nil {
		return err
	}

	// Some servers log the user in without a password.
	if reply.Kind == KindUserLoggedIn {
		return nil
	}

	if _, err := c.acceptReply("USER", reply, KindPasswordRequired); err != nil {
		return err
	}

	_, err = c.cmdArgExpecting("PASS", password, KindUserLoggedIn)
	return err
}

// Quit ends the session: it sends QUIT and closes the control connection.
// The Client is unusable afterwards.
func (c *Client) Quit() error {
	if c.conn == nil {
		return nil
	}

	var result *multierror.Error
	if _, err := c.cmdExpecting("QUIT", KindClosingControlConnection); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.conn.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	c.conn = nil
	return result.ErrorOrNil()
}

// Noop sends a NOOP, useful as a keepalive between transfers.
func (c *Client) Noop() error {
	_, err := c.cmdExpecting("NOOP", KindOk)
	return err
}

// Help returns the server's help text.
func (c *Client) Help() (string, error) {
	reply, err := c.cmdExpecting("HELP", KindSystemStatus, KindHelpMessage)
	if err != nil {
		return "", err
	}
	return reply.Message, nil
}

// Stat returns the server's current status. It can be issued between
// transfers.
func (c *Client) Stat() (string, error) {
	reply, err := c.cmdExpecting("STAT", KindSystemStatus)
	if err != nil {
		return "", err
	}
	return reply.Message, nil
}

// Syst returns the server's operating system type.
func (c *Client) Syst() (string, error) {
	reply, err := c.cmdExpecting("SYST", KindNameSystemType)
	if err != nil {
		return "", err
	}
	return reply.Message, nil
}

// Site queries the server for the site-specific services it provides, as
// described in RFC959. Servers without any reply a not-implemented code,
// which is accepted.
func (c *Client) Site() (string, error) {
	reply, err := c.cmdExpecting("SITE", KindOk, KindFeatureNotImplemented)
	if err != nil {
		return "", err
	}
	return reply.Message, nil
}

// Ascii sets the transfer type to ASCII (TYPE A).
func (c *Client) Ascii() error {
	return c.setType("A")
}

// Binary sets the transfer type to image/binary (TYPE I).
func (c *Client) Binary() error {
	return c.setType("I")
}

// setType issues TYPE, skipping the command when the type is already set.
func (c *Client) setType(transferType string) error {
	if c.currentType == transferType {
		c.logger.Debug("transfer type already set", "type", transferType)
		return nil
	}

	if _, err := c.cmdArgExpecting("TYPE", transferType, KindOk); err != nil {
		return err
	}
	c.currentType = transferType
	return nil
}
