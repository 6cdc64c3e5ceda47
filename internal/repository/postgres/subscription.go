package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"genius/internal/domain"
	"genius/internal/domain/models"
	"genius/internal/domain/repositories"
	"genius/internal/repository/schema"
)

// PostgresSubscriptionRepository implements the SubscriptionRepository interface
type PostgresSubscriptionRepository struct {
	pool   *pgxpool.Pool
	tables *schema.TableNames
	logger *slog.Logger
}

// NewSubscriptionRepository creates a new PostgresSubscriptionRepository
func NewSubscriptionRepository(config *RepositoryConfig) repositories.SubscriptionRepository {
	return &PostgresSubscriptionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByUserID retrieves a user's subscription
func (r *PostgresSubscriptionRepository) GetByUserID(ctx context.Context, userID string) (*models.UserSubscription, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, stripe_customer_id, stripe_subscription_id,
		       stripe_price_id, stripe_current_period_end, created_at, updated_at
		FROM %s
		WHERE user_id = $1
	`, r.tables.Subscriptions)

	var sub models.UserSubscription
	db := executor(ctx, r.pool)
	err := db.QueryRow(ctx, query, userID).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.StripeCustomerID,
		&sub.StripeSubscriptionID,
		&sub.StripePriceID,
		&sub.StripeCurrentPeriodEnd,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	return &sub, nil
}

// Create inserts the subscription, replacing the Stripe fields of an existing row
func (r *PostgresSubscriptionRepository) Create(ctx context.Context, sub *models.UserSubscription) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, stripe_customer_id, stripe_subscription_id,
		                stripe_price_id, stripe_current_period_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			stripe_customer_id = EXCLUDED.stripe_customer_id,
			stripe_subscription_id = EXCLUDED.stripe_subscription_id,
			stripe_price_id = EXCLUDED.stripe_price_id,
			stripe_current_period_end = EXCLUDED.stripe_current_period_end,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, r.tables.Subscriptions)

	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}

	db := executor(ctx, r.pool)
	err := db.QueryRow(ctx, query,
		sub.ID,
		sub.UserID,
		sub.StripeCustomerID,
		sub.StripeSubscriptionID,
		sub.StripePriceID,
		sub.StripeCurrentPeriodEnd,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("subscription already linked to another user: %w", domain.ErrValidation)
		}
		return fmt.Errorf("create subscription: %w", err)
	}

	return nil
}

// UpdateBySubscriptionID refreshes price and period end for a Stripe subscription
func (r *PostgresSubscriptionRepository) UpdateBySubscriptionID(ctx context.Context, sub *models.UserSubscription) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET stripe_price_id = $2,
		    stripe_current_period_end = $3,
		    updated_at = NOW()
		WHERE stripe_subscription_id = $1
	`, r.tables.Subscriptions)

	db := executor(ctx, r.pool)
	tag, err := db.Exec(ctx, query,
		sub.StripeSubscriptionID,
		sub.StripePriceID,
		sub.StripeCurrentPeriodEnd,
	)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("subscription %v: %w", deref(sub.StripeSubscriptionID), domain.ErrNotFound)
	}

	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
