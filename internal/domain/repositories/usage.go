package repositories

import (
	"context"

	"genius/internal/domain/models"
)

// APILimitRepository defines data access for free-tier usage counters
type APILimitRepository interface {
	// GetByUserID returns the user's counter.
	// Returns nil if the user has never generated anything.
	GetByUserID(ctx context.Context, userID string) (*models.UserAPILimit, error)

	// Increment adds one to the user's counter, creating it at 1 if missing.
	// Must be atomic with respect to concurrent increments for the same user.
	Increment(ctx context.Context, userID string) error
}

// SubscriptionRepository defines data access for user subscriptions
type SubscriptionRepository interface {
	// GetByUserID returns the user's subscription or nil if none exists
	GetByUserID(ctx context.Context, userID string) (*models.UserSubscription, error)

	// Create inserts a subscription created by a completed checkout.
	// A second checkout for the same user replaces the Stripe fields.
	Create(ctx context.Context, sub *models.UserSubscription) error

	// UpdateBySubscriptionID refreshes price and period end after a renewal.
	// Returns domain.ErrNotFound if no row has that subscription ID.
	UpdateBySubscriptionID(ctx context.Context, sub *models.UserSubscription) error
}
