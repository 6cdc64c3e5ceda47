package auth

import "genius/internal/domain/models"

// SessionVerifier defines the interface for session token verification.
// The middleware stays agnostic to how tokens are checked.
type SessionVerifier interface {
	// VerifyToken validates a session token and returns the parsed claims.
	// Returns domain.ErrUnauthorized if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.ClerkClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
