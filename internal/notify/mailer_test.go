package notify

import (
	"context"
	"errors"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"
)

// fakeSMTP accepts plain (no TLS, no AUTH) SMTP sessions and reports each
// DATA payload on the returned channel.
func fakeSMTP(t *testing.T) (string, int, <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	got := make(chan string, 4)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveSMTP(conn, got)
		}
	}()
	addr := ln.Addr().(*net.TCPAddr)
	return "127.0.0.1", addr.Port, got
}

func serveSMTP(conn net.Conn, got chan<- string) {
	tp := textproto.NewConn(conn)
	defer tp.Close()
	_ = tp.PrintfLine("220 fake ESMTP")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		cmd := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			_ = tp.PrintfLine("250-fake")
			_ = tp.PrintfLine("250 8BITMIME")
		case strings.HasPrefix(cmd, "MAIL"), strings.HasPrefix(cmd, "RCPT"), strings.HasPrefix(cmd, "NOOP"):
			_ = tp.PrintfLine("250 OK")
		case strings.HasPrefix(cmd, "DATA"):
			_ = tp.PrintfLine("354 go ahead")
			data, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			got <- string(data)
			_ = tp.PrintfLine("250 queued")
		case strings.HasPrefix(cmd, "QUIT"):
			_ = tp.PrintfLine("221 bye")
			return
		default:
			_ = tp.PrintfLine("502 not implemented")
		}
	}
}

func TestSMTPMailer_Send(t *testing.T) {
	host, port, got := fakeSMTP(t)
	m := NewSMTPMailer(SMTPConfig{Host: host, Port: port, From: "bot@coffee.example", Timeout: 5 * time.Second})

	id, err := m.Send(context.Background(), Message{
		To:      []string{"ops@coffee.example"},
		Subject: "Coffee Robusta Price Report",
		HTML:    "<h2>report</h2>",
		Text:    "report",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.HasPrefix(id, "<") || !strings.HasSuffix(id, "@coffee.example>") {
		t.Fatalf("message id=%q", id)
	}

	select {
	case data := <-got:
		for _, want := range []string{
			"From: bot@coffee.example",
			"To: ops@coffee.example",
			"Subject: Coffee Robusta Price Report",
			"Message-ID: " + id,
			"multipart/alternative",
			"<h2>report</h2>",
		} {
			if !strings.Contains(data, want) {
				t.Errorf("message missing %q", want)
			}
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("server received nothing")
	}
}

func TestSMTPMailer_Verify(t *testing.T) {
	host, port, _ := fakeSMTP(t)
	m := NewSMTPMailer(SMTPConfig{Host: host, Port: port, From: "bot@coffee.example"})
	if err := m.Verify(context.Background()); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestSMTPMailer_Errors(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "127.0.0.1", Port: 1, From: "bot@coffee.example", Timeout: time.Second})
	if _, err := m.Send(context.Background(), Message{Subject: "x"}); !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("expected ErrNoRecipients, got %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()
	m = NewSMTPMailer(SMTPConfig{Host: "127.0.0.1", Port: port, From: "bot@coffee.example", Timeout: time.Second})
	if err := m.Verify(context.Background()); err == nil || !strings.Contains(err.Error(), "smtp dial 127.0.0.1:"+strconv.Itoa(port)) {
		t.Fatalf("expected dial error, got %v", err)
	}
}

func TestBuildMessage(t *testing.T) {
	now := time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)
	raw, err := buildMessage("bot@x.io", "<id@x.io>", Message{
		To:      []string{"a@x.io", "b@x.io"},
		Subject: "Giá cà phê",
		Text:    "line1\nline2",
	}, now)
	if err != nil {
		t.Fatal(err)
	}
	s := string(raw)
	if !strings.Contains(s, "To: a@x.io, b@x.io\r\n") {
		t.Errorf("recipients header wrong")
	}
	if !strings.Contains(s, "Subject: =?utf-8?q?") {
		t.Errorf("non-ascii subject not encoded: %s", s)
	}
	if !strings.Contains(s, "line1\r\nline2") {
		t.Errorf("newlines not normalised")
	}
	if strings.Contains(s, "text/html") {
		t.Errorf("empty html part should be omitted")
	}
}

func TestMessageDomain(t *testing.T) {
	cases := []struct{ in, want string }{
		{"bot@coffee.example", "coffee.example"},
		{"Bot <bot@coffee.example>", "coffee.example"},
		{"nobody", "coffeepulse.local"},
		{"trailing@", "coffeepulse.local"},
	}
	for _, c := range cases {
		if got := messageDomain(c.in); got != c.want {
			t.Errorf("messageDomain(%q)=%q, want %q", c.in, got, c.want)
		}
	}
}
