package httputil

import (
	"context"
	"net/http"

	"genius/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	claimsKey    contextKey = "claims"
	requestIDKey contextKey = "requestID"
)

// WithClaims adds the verified session claims to the request context
func WithClaims(r *http.Request, claims *models.ClerkClaims) *http.Request {
	ctx := context.WithValue(r.Context(), claimsKey, claims)
	return r.WithContext(ctx)
}

// GetClaims retrieves the session claims, nil when the caller is anonymous
func GetClaims(r *http.Request) *models.ClerkClaims {
	claims, _ := r.Context().Value(claimsKey).(*models.ClerkClaims)
	return claims
}

// GetUserID retrieves the caller's user ID, returns empty string if anonymous
func GetUserID(r *http.Request) string {
	if claims := GetClaims(r); claims != nil {
		return claims.GetUserID()
	}
	return ""
}

// WithRequestID adds a request ID to the request context
func WithRequestID(r *http.Request, requestID string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDKey, requestID)
	return r.WithContext(ctx)
}

// GetRequestID retrieves the request ID, empty if none was assigned
func GetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}
