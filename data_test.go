package ftp

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestParsePASVAddr(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{
			name: "standard reply",
			text: "Entering Passive Mode (127,0,0,1,19,136)",
			want: "127.0.0.1:5000",
		},
		{
			name: "bare tuple",
			text: "(192,168,1,100,4,1)",
			want: "192.168.1.100:1025",
		},
		{
			name: "tuple embedded in prose",
			text: "227 ok, use (10,0,0,5,0,21) for data.",
			want: "10.0.0.5:21",
		},
		{
			name:    "no tuple",
			text:    "Entering Passive Mode",
			wantErr: true,
		},
		{
			name:    "octet out of range",
			text:    "(300,0,0,1,19,136)",
			wantErr: true,
		},
		{
			name:    "port byte out of range",
			text:    "(127,0,0,1,300,136)",
			wantErr: true,
		},
		{
			name:    "too few fields",
			text:    "(127,0,0,1,19)",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePASVAddr(tt.text)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parsePASVAddr(%q) = %q, want error", tt.text, got)
				}
				var decodeErr *AddrDecodeError
				if !errors.As(err, &decodeErr) {
					t.Fatalf("error type = %T, want *AddrDecodeError", err)
				}
				if decodeErr.Command != "PASV" {
					t.Errorf("AddrDecodeError.Command = %q, want PASV", decodeErr.Command)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePASVAddr(%q) failed: %v", tt.text, err)
			}
			if got != tt.want {
				t.Errorf("parsePASVAddr(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseEPSVPort(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		text    string
		want    int
		wantErr bool
	}{
		{
			name: "standard reply",
			text: "Entering Extended Passive Mode (|||6446|)",
			want: 6446,
		},
		{
			name: "low port",
			text: "(|||21|)",
			want: 21,
		},
		{
			name:    "missing delimiters",
			text:    "Entering Extended Passive Mode 6446",
			wantErr: true,
		},
		{
			name:    "port out of range",
			text:    "(|||70000|)",
			wantErr: true,
		},
		{
			name:    "empty port",
			text:    "(||||)",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseEPSVPort(tt.text)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseEPSVPort(%q) = %d, want error", tt.text, got)
				}
				var decodeErr *AddrDecodeError
				if !errors.As(err, &decodeErr) {
					t.Fatalf("error type = %T, want *AddrDecodeError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseEPSVPort(%q) failed: %v", tt.text, err)
			}
			if got != tt.want {
				t.Errorf("parseEPSVPort(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

// failingCloseConn errors on Close to exercise the release path.
type failingCloseConn struct {
	bufferConn
}

func (c *failingCloseConn) Close() error {
	return errors.New("close refused")
}

func TestFinishTransferConsumesReplyOnCloseError(t *testing.T) {
	t.Parallel()

	c := &Client{
		reader: bufio.NewReader(strings.NewReader("226 Transfer complete.\r\n")),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	reply, err := c.finishTransfer(&failingCloseConn{}, "RETR")
	if err == nil {
		t.Fatal("finishTransfer ignored the close failure")
	}
	if !strings.Contains(err.Error(), "close refused") {
		t.Errorf("error %q does not name the close failure", err)
	}

	// The completion reply must have been consumed regardless, keeping
	// the control channel in sync.
	if reply == nil || reply.Code != 226 {
		t.Errorf("completion reply = %v, want code 226", reply)
	}
	if c.reader.Buffered() != 0 {
		t.Errorf("%d reply bytes left unread on the control channel", c.reader.Buffered())
	}
}

func TestResolveDataAddr(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		pasvAddr    string
		controlHost string
		want        string
	}{
		{
			name:        "wildcard host replaced",
			pasvAddr:    "0.0.0.0:5000",
			controlHost: "ftp.example.com",
			want:        "ftp.example.com:5000",
		},
		{
			name:        "real host kept",
			pasvAddr:    "203.0.113.7:5000",
			controlHost: "ftp.example.com",
			want:        "203.0.113.7:5000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveDataAddr(tt.pasvAddr, tt.controlHost); got != tt.want {
				t.Errorf("resolveDataAddr(%q, %q) = %q, want %q",
					tt.pasvAddr, tt.controlHost, got, tt.want)
			}
		})
	}
}
