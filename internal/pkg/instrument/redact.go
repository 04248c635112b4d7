package instrument

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

const redacted = "***"

// compactJWT matches a bare or "Bearer "-prefixed JWS compact serialization.
// Signed tokens carry the login OTP seed, so they are redacted wherever they
// show up, whatever the attribute key.
var compactJWT = regexp.MustCompile(`^(Bearer\s+)?eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*$`)

// redactor replaces the values of configured keys with "***". It walks slog
// groups, map and slice values, and strings or byte slices holding JSON.
type redactor struct {
	keys map[string]struct{}
}

func newRedactor(fields []string) *redactor {
	keys := lo.FilterMap(fields, func(f string, _ int) (string, bool) {
		f = strings.ToLower(strings.TrimSpace(f))
		return f, f != ""
	})
	return &redactor{keys: lo.Keyify(keys)}
}

func (r *redactor) secret(key string) bool {
	_, ok := r.keys[strings.ToLower(key)]
	return ok
}

func (r *redactor) attr(a slog.Attr) slog.Attr {
	if r.secret(a.Key) {
		return slog.String(a.Key, redacted)
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		a.Value = slog.GroupValue(lo.Map(a.Value.Group(), func(g slog.Attr, _ int) slog.Attr { return r.attr(g) })...)
	case slog.KindString:
		if s, ok := r.text(a.Value.String()); ok {
			a.Value = slog.StringValue(s)
		}
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case map[string]any, []any:
			a.Value = slog.AnyValue(r.data(v))
		case map[string]string:
			a.Value = slog.AnyValue(r.data(lo.MapValues(v, func(s string, _ string) any { return s })))
		case []byte:
			if s, ok := r.text(string(v)); ok {
				a.Value = slog.StringValue(s)
			}
		}
	}

	return a
}

// text redacts a signed token outright and masks keys inside a JSON document.
// ok is false when s is left as is.
func (r *redactor) text(s string) (string, bool) {
	if compactJWT.MatchString(s) {
		return redacted, true
	}
	if len(r.keys) == 0 || s == "" || (s[0] != '{' && s[0] != '[') {
		return "", false
	}

	var doc any
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return "", false
	}
	b, err := json.Marshal(r.data(doc))
	if err != nil {
		return "", false
	}
	return string(b), true
}

func (r *redactor) data(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			if r.secret(k) {
				out[k] = redacted
				continue
			}
			out[k] = r.data(child)
		}
		return out
	case []any:
		return lo.Map(val, func(child any, _ int) any { return r.data(child) })
	case string:
		if compactJWT.MatchString(val) {
			return redacted
		}
		return val
	default:
		return v
	}
}
