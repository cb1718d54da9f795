package middleware

import (
	"net/http"
	"strings"

	"github.com/anvaya-club/anvaya/internal/auth"
)

// AdminChecker decides whether a token subject is the admin.
type AdminChecker interface {
	IsAdmin(subject string) bool
}

// Authenticate guards admin routes.
//
//  1. Read "Authorization: Bearer <token>".
//  2. Verify the JWT with secret.
//  3. Check that its subject is the admin.
//  4. Store the username in the request context and call next.
//
// Every failure is a 401 carrying "WWW-Authenticate: Bearer".
func Authenticate(secret string, admins AdminChecker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				unauthorized(w, "Not authenticated")
				return
			}

			claims, err := auth.ParseToken(token, secret)
			if err != nil {
				unauthorized(w, "Could not validate credentials")
				return
			}
			if !admins.IsAdmin(claims.Subject) {
				unauthorized(w, "Invalid authentication credentials")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), claims.Subject)))
		})
	}
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, detail)
}
