package mail

import (
	"bufio"
	"context"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMail struct {
	from  string
	rcpts []string
	data  string
}

// fakeSMTPServer speaks just enough SMTP for one delivery without TLS or AUTH.
func fakeSMTPServer(t *testing.T) (addr string, result <-chan capturedMail) {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	out := make(chan capturedMail, 1)
	var once sync.Once

	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		tp := textproto.NewConn(conn)
		var got capturedMail
		_ = tp.PrintfLine("220 localhost ESMTP")

		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			cmd := strings.ToUpper(line)
			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				_ = tp.PrintfLine("250 localhost")
			case strings.HasPrefix(cmd, "MAIL FROM:"):
				got.from = strings.Trim(line[len("MAIL FROM:"):], "<> ")
				_ = tp.PrintfLine("250 OK")
			case strings.HasPrefix(cmd, "RCPT TO:"):
				got.rcpts = append(got.rcpts, strings.Trim(line[len("RCPT TO:"):], "<> "))
				_ = tp.PrintfLine("250 OK")
			case cmd == "DATA":
				_ = tp.PrintfLine("354 go ahead")
				data, err := tp.ReadDotBytes()
				if err != nil {
					return
				}
				got.data = string(data)
				_ = tp.PrintfLine("250 OK")
			case cmd == "QUIT":
				_ = tp.PrintfLine("221 bye")
				once.Do(func() { out <- got })
				return
			default:
				_ = tp.PrintfLine("502 not implemented")
			}
		}
	}()

	return l.Addr().String(), out
}

func TestNewSMTP(t *testing.T) {
	t.Parallel()

	_, err := NewSMTP(SMTPConfig{})
	assert.ErrorIs(t, err, ErrSMTPHostPortRequired)

	s, err := NewSMTP(SMTPConfig{Host: "smtp.example.com", Port: 465})
	require.NoError(t, err)
	assert.True(t, s.implicitTLS)
	assert.Equal(t, "smtp.example.com:465", s.addr)
}

func TestSMTP_Send(t *testing.T) {
	t.Parallel()

	addr, result := fakeSMTPServer(t)
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)

	s, err := NewSMTP(SMTPConfig{Host: host, Port: mustAtoi(t, port), From: "noreply@example.com"})
	require.NoError(t, err)

	err = s.Send(context.Background(), Message{
		To:       []string{"alice@example.com", "alice@example.com"},
		Bcc:      []string{"audit@example.com"},
		Subject:  "Your OTP Verification Code",
		TextBody: "code 123456",
		HTMLBody: "<p>code 123456</p>",
	})
	require.NoError(t, err)

	got := <-result
	assert.Equal(t, "noreply@example.com", got.from)
	assert.Equal(t, []string{"alice@example.com", "audit@example.com"}, got.rcpts)
	assert.Contains(t, got.data, "Subject: Your OTP Verification Code")
	assert.Contains(t, got.data, "multipart/alternative")
	assert.NotContains(t, got.data, "audit@example.com")
	require.NoError(t, s.Close())
}

func TestSMTP_SendValidation(t *testing.T) {
	t.Parallel()

	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 2525})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Send(context.Background(), Message{}), ErrSMTPNoRecipients)
	assert.ErrorIs(t, s.Send(context.Background(), Message{To: []string{"a@example.com"}}), ErrSMTPNoSender)
}

func TestBuildBody(t *testing.T) {
	t.Parallel()

	body, ct := buildBody(Message{TextBody: "plain"})
	assert.Equal(t, "plain", body)
	assert.Equal(t, "text/plain; charset=UTF-8", ct)

	body, ct = buildBody(Message{HTMLBody: "<b>x</b>"})
	assert.Equal(t, "<b>x</b>", body)
	assert.Equal(t, "text/html; charset=UTF-8", ct)

	body, ct = buildBody(Message{HTMLBody: "<b>x</b>", TextBody: "x"})
	assert.True(t, strings.HasPrefix(ct, "multipart/alternative; boundary=goaccount-boundary-"))
	sc := bufio.NewScanner(strings.NewReader(body))
	parts := 0
	for sc.Scan() {
		if strings.HasPrefix(sc.Text(), "Content-Type:") {
			parts++
		}
	}
	assert.Equal(t, 2, parts)
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()

	n := 0
	for _, r := range s {
		require.True(t, r >= '0' && r <= '9')
		n = n*10 + int(r-'0')
	}
	return n
}
