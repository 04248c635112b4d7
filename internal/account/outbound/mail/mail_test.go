package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/goaccount/internal/pkg/instrument"
	"github.com/shandysiswandi/goaccount/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	sent []mail.Message
	err  error
}

func (f *fakeClient) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeClient) Close() error { return nil }

func newTestMail(client mail.Mail) *Mail {
	return New(client, instrument.NewNoop(), Config{AppName: "GoAccount", TokenTTL: 30 * time.Minute, OTPValid: 5 * time.Minute})
}

func TestMail_SendVerification(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	link := "https://accounts.example.com/api/v1/account/verification?token=a.b.c"
	require.NoError(t, newTestMail(client).SendVerification(context.Background(), "alice@example.com", "alice", link))

	require.Len(t, client.sent, 1)
	msg := client.sent[0]
	assert.Equal(t, []string{"alice@example.com"}, msg.To)
	assert.Equal(t, SubjectVerification, msg.Subject)
	assert.Contains(t, msg.HTMLBody, `href="https://accounts.example.com/api/v1/account/verification?token=a.b.c"`)
	assert.Contains(t, msg.HTMLBody, "30 minutes")
	assert.Contains(t, msg.TextBody, link)
}

func TestMail_SendOTP(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	require.NoError(t, newTestMail(client).SendOTP(context.Background(), "alice@example.com", "alice", "123456"))

	require.Len(t, client.sent, 1)
	msg := client.sent[0]
	assert.Equal(t, SubjectOTP, msg.Subject)
	assert.Contains(t, msg.HTMLBody, "123456")
	assert.Contains(t, msg.HTMLBody, "valid for 5 minutes")
}

func TestMail_EscapesUsername(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	require.NoError(t, newTestMail(client).SendOTP(context.Background(), "x@example.com", "<b>x</b>", "123456"))
	assert.NotContains(t, client.sent[0].HTMLBody, "<b>x</b>")
}

func TestMail_SendError(t *testing.T) {
	t.Parallel()

	boom := errors.New("smtp down")
	err := newTestMail(&fakeClient{err: boom}).SendOTP(context.Background(), "x@example.com", "x", "123456")
	assert.ErrorIs(t, err, boom)
}
