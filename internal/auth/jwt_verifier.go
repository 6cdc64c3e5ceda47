package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"genius/internal/domain"
	"genius/internal/domain/models"
)

// clockSkew tolerates small clock drift between Clerk and this server.
const clockSkew = 5 * time.Second

// ClerkJWTVerifier implements SessionVerifier using Clerk's JWKS endpoint.
type ClerkJWTVerifier struct {
	keyfunc           jwt.Keyfunc
	authorizedParties []string
	logger            *slog.Logger
}

// NewJWTVerifier creates a verifier that fetches public keys from the Clerk JWKS endpoint.
// keyfunc v3 caches the keys and refreshes them in the background.
// When authorizedParties is non-empty, tokens must carry one of them in "azp".
func NewJWTVerifier(ctx context.Context, jwksURL string, authorizedParties []string, logger *slog.Logger) (SessionVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("session verifier initialized", "jwks_url", jwksURL, "authorized_parties", authorizedParties)

	return NewJWTVerifierWithKeyfunc(jwks.Keyfunc, authorizedParties, logger), nil
}

// NewJWTVerifierWithKeyfunc creates a verifier with a caller-supplied key lookup.
func NewJWTVerifierWithKeyfunc(kf jwt.Keyfunc, authorizedParties []string, logger *slog.Logger) *ClerkJWTVerifier {
	return &ClerkJWTVerifier{
		keyfunc:           kf,
		authorizedParties: authorizedParties,
		logger:            logger,
	}
}

// VerifyToken validates a session token and extracts Clerk claims.
func (v *ClerkJWTVerifier) VerifyToken(tokenString string) (*models.ClerkClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.ClerkClaims{}, v.keyfunc,
		// Prevent algorithm confusion attacks - Clerk signs with RS256
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
	)
	if err != nil {
		v.logger.Debug("session token rejected", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.ClerkClaims)
	if !ok || !token.Valid {
		v.logger.Error("failed to extract claims from token")
		return nil, domain.ErrUnauthorized
	}

	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}

	if len(v.authorizedParties) > 0 && claims.AuthorizedParty != "" &&
		!slices.Contains(v.authorizedParties, claims.AuthorizedParty) {
		v.logger.Warn("token from unauthorized party",
			"azp", claims.AuthorizedParty,
			"user_id", claims.Subject,
		)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close releases resources held by the verifier.
// keyfunc v3 stops its refresh goroutine when the constructor context ends.
func (v *ClerkJWTVerifier) Close() error {
	v.logger.Info("session verifier closed")
	return nil
}
