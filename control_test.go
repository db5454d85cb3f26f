package ftp

import (
	"bufio"
	"strings"
	"testing"
)

func TestParseReply(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		line    string
		code    int
		kind    StatusKind
		message string
		wantErr bool
	}{
		{
			name:    "single line",
			line:    "220 Service ready",
			code:    220,
			kind:    KindReadyForNewUser,
			message: "Service ready",
		},
		{
			name:    "continuation separator",
			line:    "230-Welcome",
			code:    230,
			kind:    KindUserLoggedIn,
			message: "Welcome",
		},
		{
			name:    "empty message",
			line:    "200 ",
			code:    200,
			kind:    KindOk,
			message: "",
		},
		{
			name:    "unlisted code",
			line:    "451 Requested action aborted",
			code:    451,
			kind:    KindUnknown,
			message: "Requested action aborted",
		},
		{
			name:    "too short",
			line:    "22",
			wantErr: true,
		},
		{
			name:    "non-numeric code",
			line:    "2a0 hello",
			wantErr: true,
		},
		{
			name:    "missing separator",
			line:    "220hello",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := parseReply(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseReply(%q) succeeded, want error", tt.line)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseReply(%q) failed: %v", tt.line, err)
			}
			if reply.Code != tt.code {
				t.Errorf("Code = %d, want %d", reply.Code, tt.code)
			}
			if reply.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", reply.Kind, tt.kind)
			}
			if reply.Message != tt.message {
				t.Errorf("Message = %q, want %q", reply.Message, tt.message)
			}
		})
	}
}

func TestReadReply_SingleLine(t *testing.T) {
	t.Parallel()
	r := bufio.NewReader(strings.NewReader("220 Service ready\r\n"))

	reply, err := readReply(r)
	if err != nil {
		t.Fatal(err)
	}
	if reply.Code != 220 || reply.Message != "Service ready" {
		t.Errorf("got %d %q", reply.Code, reply.Message)
	}
}

func TestReadReply_MultiLine(t *testing.T) {
	t.Parallel()
	raw := "220-Welcome to the server\r\n" +
		"220-Unauthorized access prohibited\r\n" +
		"220 Ready\r\n"
	r := bufio.NewReader(strings.NewReader(raw))

	reply, err := readReply(r)
	if err != nil {
		t.Fatal(err)
	}
	if reply.Code != 220 {
		t.Errorf("Code = %d, want 220", reply.Code)
	}
	want := "Welcome to the server\nUnauthorized access prohibited\nReady"
	if reply.Message != want {
		t.Errorf("Message = %q, want %q", reply.Message, want)
	}
}

func TestReadReply_MultiLineWithoutCodePrefix(t *testing.T) {
	t.Parallel()
	// RFC 2389 style: continuation lines indented, no repeated code.
	raw := "211-Extensions supported:\r\n" +
		" SIZE\r\n" +
		" MDTM\r\n" +
		"211 END\r\n"
	r := bufio.NewReader(strings.NewReader(raw))

	reply, err := readReply(r)
	if err != nil {
		t.Fatal(err)
	}
	want := "Extensions supported:\nSIZE\nMDTM\nEND"
	if reply.Message != want {
		t.Errorf("Message = %q, want %q", reply.Message, want)
	}
}

func TestReadReply_TruncatedMultiLine(t *testing.T) {
	t.Parallel()
	r := bufio.NewReader(strings.NewReader("220-Welcome\r\n"))

	if _, err := readReply(r); err == nil {
		t.Fatal("readReply succeeded on truncated multi-line reply")
	}
}

func TestReplyPositiveFailure(t *testing.T) {
	t.Parallel()
	tests := []struct {
		code     int
		positive bool
		failure  bool
	}{
		{150, false, false}, // preliminary, neither
		{200, true, false},
		{331, true, false},
		{399, true, false},
		{400, false, true},
		{550, false, true},
		{599, false, true},
	}

	for _, tt := range tests {
		r := &Reply{Code: tt.code}
		if got := r.Positive(); got != tt.positive {
			t.Errorf("Reply{%d}.Positive() = %v, want %v", tt.code, got, tt.positive)
		}
		if got := r.Failure(); got != tt.failure {
			t.Errorf("Reply{%d}.Failure() = %v, want %v", tt.code, got, tt.failure)
		}
	}
}

func TestReplyString(t *testing.T) {
	t.Parallel()
	r := &Reply{Code: 220, Message: "Ready"}
	if got := r.String(); got != "220 Ready" {
		t.Errorf("Reply.String() = %q, want %q", got, "220 Ready")
	}
}

func TestRedactCommand(t *testing.T) {
	t.Parallel()
	if got := redactCommand("PASS hunter2"); got != "PASS ****" {
		t.Errorf("redactCommand leaked password: %q", got)
	}
	if got := redactCommand("USER demo"); got != "USER demo" {
		t.Errorf("redactCommand altered non-PASS command: %q", got)
	}
}
