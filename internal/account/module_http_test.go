package account

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/goaccount/internal/account/outbound/db"
	pkgmail "github.com/shandysiswandi/goaccount/internal/pkg/mail"
)

var reOTPCode = regexp.MustCompile(`code is (\d{6})\.`)

type successEnvelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	Message string            `json:"message"`
	Error   map[string]string `json:"error"`
}

type inbox struct {
	mu   sync.Mutex
	sent []pkgmail.Message
}

func (i *inbox) Send(_ context.Context, msg pkgmail.Message) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.sent = append(i.sent, msg)
	return nil
}

func (i *inbox) Close() error { return nil }

func (i *inbox) last(t *testing.T, subject string) pkgmail.Message {
	t.Helper()
	i.mu.Lock()
	defer i.mu.Unlock()
	for n := len(i.sent) - 1; n >= 0; n-- {
		if i.sent[n].Subject == subject {
			return i.sent[n]
		}
	}
	t.Fatalf("no mail with subject %q", subject)
	return pkgmail.Message{}
}

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T) (*client, *inbox) {
	t.Helper()

	box := &inbox{}
	dep := testDependency(t, db.DriverMemory, box)
	require.NoError(t, New(dep))

	srv := httptest.NewServer(dep.Router)
	t.Cleanup(srv.Close)

	return &client{t: t, base: srv.URL, http: &http.Client{Timeout: 5 * time.Second}}, box
}

func (c *client) do(method, path string, payload any, token string) (int, []byte) {
	c.t.Helper()

	var body io.Reader
	if payload != nil {
		buf := &bytes.Buffer{}
		require.NoError(c.t, json.NewEncoder(buf).Encode(payload))
		body = buf
	}

	req, err := http.NewRequest(method, c.base+path, body)
	require.NoError(c.t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	return resp.StatusCode, respBody
}

func decodeSuccess(t *testing.T, body []byte, out any) successEnvelope {
	t.Helper()

	var env successEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	if out != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

func decodeError(t *testing.T, body []byte) errorEnvelope {
	t.Helper()

	var env errorEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

func registerPayload(username string) map[string]string {
	return map[string]string{
		"username":      username,
		"email":         username + "@example.com",
		"password":      "Str0ng!Pwd",
		"name":          "Liddell",
		"firstname":     "Alice",
		"date_of_birth": "1990-04-12",
		"phone_number":  "+237650000000",
		"address":       "1 Rabbit Hole, Douala",
	}
}

func verificationPath(t *testing.T, msg pkgmail.Message) string {
	t.Helper()

	idx := strings.Index(msg.TextBody, "http://")
	require.GreaterOrEqual(t, idx, 0)
	link, err := url.Parse(strings.TrimSpace(msg.TextBody[idx:]))
	require.NoError(t, err)
	return link.RequestURI()
}

func TestAccountHTTP_RegisterVerifyLogin(t *testing.T) {
	t.Parallel()

	c, box := newClient(t)

	status, body := c.do(http.MethodPost, "/api/v1/account/register", registerPayload("alice"), "")
	require.Equal(t, http.StatusCreated, status, string(body))
	env := decodeSuccess(t, body, nil)
	assert.Contains(t, env.Message, "Hello alice")

	status, body = c.do(http.MethodPost, "/api/v1/account/register", registerPayload("alice"), "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "account already registered", decodeError(t, body).Message)

	status, body = c.do(http.MethodPost, "/api/v1/account/token",
		map[string]string{"username": "alice", "password": "Str0ng!Pwd"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid username or password", decodeError(t, body).Message)

	verify := verificationPath(t, box.last(t, "Account Verification"))
	for _, want := range []string{"verified", "already_verified"} {
		var out struct {
			Username string `json:"username"`
			Outcome  string `json:"outcome"`
		}
		status, body = c.do(http.MethodGet, verify, nil, "")
		require.Equal(t, http.StatusOK, status, string(body))
		decodeSuccess(t, body, &out)
		assert.Equal(t, "alice", out.Username)
		assert.Equal(t, want, out.Outcome)
	}

	status, body = c.do(http.MethodPost, "/api/v1/account/token",
		map[string]string{"username": "alice", "password": "Str0ng!Pwd"}, "")
	require.Equal(t, http.StatusOK, status, string(body))
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decodeSuccess(t, body, &tok)
	assert.Equal(t, "bearer", tok.TokenType)

	match := reOTPCode.FindStringSubmatch(box.last(t, "Your OTP Verification Code").TextBody)
	require.Len(t, match, 2)
	code := match[1]

	status, body = c.do(http.MethodGet, "/api/v1/account/me?otp_code="+code, nil, tok.AccessToken)
	require.Equal(t, http.StatusOK, status, string(body))
	var me map[string]any
	decodeSuccess(t, body, &me)
	assert.Equal(t, "alice", me["username"])
	assert.Equal(t, true, me["is_verified"])
	assert.NotContains(t, string(body), "password")

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	status, body = c.do(http.MethodGet, "/api/v1/account/me?otp_code="+wrong, nil, tok.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "could not validate credentials", decodeError(t, body).Message)
}

func TestAccountHTTP_InvalidCredentials(t *testing.T) {
	t.Parallel()

	c, _ := newClient(t)

	status, body := c.do(http.MethodPost, "/api/v1/account/register", registerPayload("alice"), "")
	require.Equal(t, http.StatusCreated, status, string(body))

	status, wrongPwd := c.do(http.MethodPost, "/api/v1/account/token",
		map[string]string{"username": "alice", "password": "WrongPwd"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, noUser := c.do(http.MethodPost, "/api/v1/account/token",
		map[string]string{"username": "nobody", "password": "anything"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, decodeError(t, wrongPwd), decodeError(t, noUser))
}

func TestAccountHTTP_Validation(t *testing.T) {
	t.Parallel()

	c, _ := newClient(t)

	payload := registerPayload("al")
	payload["password"] = "weak"
	status, body := c.do(http.MethodPost, "/api/v1/account/register", payload, "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	env := decodeError(t, body)
	assert.Contains(t, env.Error, "username")
	assert.Contains(t, env.Error, "password")
}
