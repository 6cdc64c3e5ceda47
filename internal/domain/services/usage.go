package services

import (
	"context"

	"genius/internal/domain/models"
)

// UsageService enforces the free tier.
type UsageService interface {
	// CheckAPILimit returns true while the user has free generations left
	CheckAPILimit(ctx context.Context, userID string) (bool, error)

	// IncreaseAPILimit records one successful free generation
	IncreaseAPILimit(ctx context.Context, userID string) error

	// IsPro reports whether the user has an active subscription
	IsPro(ctx context.Context, userID string) (bool, error)

	// GetUsage returns the counter, the free allowance and the pro flag
	GetUsage(ctx context.Context, userID string) (*models.Usage, error)
}
