package models

import "github.com/golang-jwt/jwt/v5"

// ClerkClaims represents the session token claims issued by Clerk.
// See: https://clerk.com/docs/backend-requests/resources/session-tokens
type ClerkClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, exp, nbf, iat)
	SessionID            string `json:"sid"`
	AuthorizedParty      string `json:"azp"` // Origin that requested the token
	Email                string `json:"email,omitempty"` // Present when the session template adds it
}

// GetUserID returns the user ID from the JWT subject claim ("user_...").
func (c *ClerkClaims) GetUserID() string {
	return c.Subject
}
