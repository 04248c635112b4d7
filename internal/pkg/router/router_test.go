package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/goaccount/internal/pkg/config"
	"github.com/shandysiswandi/goaccount/internal/pkg/goerror"
	"github.com/shandysiswandi/goaccount/internal/pkg/instrument"
	"github.com/shandysiswandi/goaccount/internal/pkg/validator"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type created struct {
	Name string `json:"name"`
}

func (created) StatusCode() int { return http.StatusCreated }
func (created) Message() string { return "created" }

type principalKey struct{}

func newTestRouter(t *testing.T, cfg config.Config) *Router {
	t.Helper()

	return NewRouter(Config{Config: cfg, UUID: fixedID("cid-1"), Instrument: instrument.NewNoop()})
}

func serve(ro http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, req)

	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestRouter_Success(t *testing.T) {
	t.Parallel()

	ro := newTestRouter(t, nil)
	ro.POST("/things", func(r *Request) (any, error) {
		var in created
		if err := r.DecodeBody(&in); err != nil {
			return nil, err
		}
		return in, nil
	})

	rec, body := serve(ro, httptest.NewRequest(http.MethodPost, "/things", strings.NewReader(`{"name":"x"}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "created", body["message"])
	assert.Equal(t, map[string]any{"name": "x"}, body["data"])
	assert.Equal(t, "cid-1", rec.Header().Get(HeaderCorrelationID))

	rec, body = serve(ro, httptest.NewRequest(http.MethodPost, "/things", strings.NewReader(`{"name":"x","extra":1}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", body["message"])
}

func TestRouter_Errors(t *testing.T) {
	t.Parallel()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	ro := newTestRouter(t, nil)
	ro.GET("/unauthorized", func(*Request) (any, error) {
		return nil, goerror.NewBusiness("could not validate credentials", goerror.CodeUnauthorized)
	})
	ro.GET("/plain", func(*Request) (any, error) {
		return nil, errors.New("boom")
	})
	ro.GET("/invalid", func(*Request) (any, error) {
		in := struct {
			Username string `json:"username" validate:"required"`
		}{}
		return nil, goerror.NewInvalidInput(v.Validate(in))
	})
	ro.GET("/panic", func(*Request) (any, error) {
		panic("kaboom")
	})

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{path: "/unauthorized", status: http.StatusUnauthorized, message: "could not validate credentials"},
		{path: "/plain", status: http.StatusInternalServerError, message: "Internal server error"},
		{path: "/invalid", status: http.StatusUnprocessableEntity, message: "Validation error"},
		{path: "/panic", status: http.StatusInternalServerError, message: "Internal server error"},
		{path: "/missing", status: http.StatusNotFound, message: "endpoint not found"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			rec, body := serve(ro, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, body["message"])
		})
	}

	_, body := serve(ro, httptest.NewRequest(http.MethodGet, "/invalid", nil))
	assert.Contains(t, body["error"], "username")
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	rec, body := serve(newTestRouter(t, nil), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "ok"}, body["data"])
}

func TestRouter_Maintenance(t *testing.T) {
	t.Parallel()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  maintenance:\n    endpoints: /blocked\n"))
	require.NoError(t, err)

	ro := newTestRouter(t, cfg)
	ro.GET("/blocked", func(*Request) (any, error) { return nil, nil })
	ro.GET("/open", func(*Request) (any, error) { return nil, nil })

	rec, _ := serve(ro, httptest.NewRequest(http.MethodGet, "/blocked", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec, _ = serve(ro, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	ro := newTestRouter(t, nil)
	auth := Authenticate(func(r *Request) (context.Context, error) {
		if r.BearerToken() != "good" {
			return nil, goerror.NewBusiness("could not validate credentials", goerror.CodeUnauthorized)
		}
		return context.WithValue(r.Context(), principalKey{}, "alice"), nil
	})
	ro.GET("/me", func(r *Request) (any, error) {
		return map[string]string{"username": r.Context().Value(principalKey{}).(string)}, nil
	}, auth)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec, body := serve(ro, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"username": "alice"}, body["data"])

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic good")
	rec, _ = serve(ro, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequest_Helpers(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/token?otp_code=%20123456%20", strings.NewReader("username=alice&password=p"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")
	r := &Request{Request: req}

	assert.Equal(t, "123456", r.GetQuery("otp_code"))
	assert.True(t, r.IsForm())

	got, err := r.FormField("username")
	require.NoError(t, err)
	assert.Equal(t, "alice", got)

	req.Header.Set("Content-Type", "application/json")
	assert.False(t, r.IsForm())
	assert.Empty(t, r.BearerToken())
}

func TestChain_Order(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "h") }), mw("a"), mw("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"a", "b", "h"}, order)
}

func TestClientAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
		ok      bool
	}{
		{name: "true client ip first", headers: map[string]string{"True-Client-IP": "203.0.113.9", "X-Real-IP": "198.51.100.1"}, remote: "10.0.0.1:5000", want: "203.0.113.9", ok: true},
		{name: "forwarded for takes the client", headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"}, remote: "10.0.0.1:5000", want: "203.0.113.7", ok: true},
		{name: "garbage header falls back", headers: map[string]string{"X-Real-IP": "not-an-ip"}, remote: "192.0.2.4:443", want: "192.0.2.4", ok: true},
		{name: "unparsable remote", remote: "pipe", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			addr, ok := clientAddr(req)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, addr.String())
			}
		})
	}
}

func TestIncomingCorrelationID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, incomingCorrelationID(req))

	req.Header.Set(HeaderRequestID, "  req-7 ")
	assert.Equal(t, "req-7", incomingCorrelationID(req))

	req.Header.Set(HeaderCorrelationID, "cid-9")
	assert.Equal(t, "cid-9", incomingCorrelationID(req))

	req.Header.Set(HeaderCorrelationID, strings.Repeat("x", 200))
	assert.Len(t, incomingCorrelationID(req), maxCorrelationIDLen)
}
