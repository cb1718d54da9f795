// Package middleware provides HTTP middleware for the Anvaya server.
//
// A middleware wraps a handler to act before and/or after it:
//
//	func MyMiddleware(next http.Handler) http.Handler {
//	    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	        // before
//	        next.ServeHTTP(w, r)
//	        // after
//	    })
//	}
//
// Chain(RequestID, Logger(l))(h) runs RequestID first, then Logger, then h.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
)

// Middleware is a function that wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain combines middleware so that Chain(mw1, mw2)(h) is mw1(mw2(h)):
// the first one given is the outermost.
func Chain(mws ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			final = mws[i](final)
		}
		return final
	}
}

// contextKey is private so keys cannot collide with other packages.
type contextKey string

const (
	ctxRequestID contextKey = "request_id"
	ctxAdmin     contextKey = "admin"
)

// RequestIDFromCtx returns the id set by RequestID, or "".
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestID).(string)
	return id
}

// AdminFromCtx returns the username set by Authenticate, or "".
func AdminFromCtx(ctx context.Context) string {
	name, _ := ctx.Value(ctxAdmin).(string)
	return name
}

// WithAdmin stores an authenticated admin in ctx, as Authenticate does.
func WithAdmin(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ctxAdmin, username)
}

// writeDetail writes the API's error body.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"detail":      detail,
		"status_code": status,
	})
}
