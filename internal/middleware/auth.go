package middleware

import (
	"net/http"
	"strings"

	"genius/internal/auth"
	"genius/internal/httputil"
)

// sessionCookie is the cookie Clerk's frontend SDK stores the session token in
const sessionCookie = "__session"

// AuthMiddleware attaches the verified session to the request when one is
// present. It never rejects: routes decide whether identity is required, so
// public routes (webhook, pages, health) share the same chain.
func AuthMiddleware(verifier auth.SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token != "" {
				if claims, err := verifier.VerifyToken(token); err == nil {
					r = httputil.WithClaims(r, claims)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sessionToken reads the bearer token, falling back to the session cookie
func sessionToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}
