package router

import (
	"context"
	"net/http"
)

// AuthFunc authenticates a request and returns the context carrying the
// resolved principal. Returned errors are rendered through the error codec.
type AuthFunc func(r *Request) (context.Context, error)

// Authenticate guards a single route with fn.
func Authenticate(fn AuthFunc) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := fn(&Request{Request: r})
			if err != nil {
				writeError(r.Context(), w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
