package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"genius/internal/domain"
	"genius/internal/domain/models"
	"genius/internal/domain/repositories"
)

// SubscriptionRepository implements repositories.SubscriptionRepository on SQLite.
type SubscriptionRepository struct {
	store *Store
}

// NewSubscriptionRepository creates a subscription repository backed by store.
func NewSubscriptionRepository(store *Store) repositories.SubscriptionRepository {
	return &SubscriptionRepository{store: store}
}

func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID string) (*models.UserSubscription, error) {
	query := fmt.Sprintf(`
SELECT id, user_id, stripe_customer_id, stripe_subscription_id, stripe_price_id,
       stripe_current_period_end_unix_ms, created_at_unix_ms, updated_at_unix_ms
FROM %s
WHERE user_id = ?
`, r.store.tables.Subscriptions)

	var (
		sub                        models.UserSubscription
		customerID, subID, priceID sql.NullString
		periodEnd                  sql.NullInt64
		created, updated           int64
	)
	err := r.store.db.QueryRowContext(ctx, query, userID).Scan(
		&sub.ID,
		&sub.UserID,
		&customerID,
		&subID,
		&priceID,
		&periodEnd,
		&created,
		&updated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	sub.StripeCustomerID = nullString(customerID)
	sub.StripeSubscriptionID = nullString(subID)
	sub.StripePriceID = nullString(priceID)
	if periodEnd.Valid {
		end := fromMs(periodEnd.Int64)
		sub.StripeCurrentPeriodEnd = &end
	}
	sub.CreatedAt = fromMs(created)
	sub.UpdatedAt = fromMs(updated)
	return &sub, nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.UserSubscription) error {
	query := fmt.Sprintf(`
INSERT INTO %s (id, user_id, stripe_customer_id, stripe_subscription_id, stripe_price_id,
                stripe_current_period_end_unix_ms, created_at_unix_ms, updated_at_unix_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
	stripe_customer_id = excluded.stripe_customer_id,
	stripe_subscription_id = excluded.stripe_subscription_id,
	stripe_price_id = excluded.stripe_price_id,
	stripe_current_period_end_unix_ms = excluded.stripe_current_period_end_unix_ms,
	updated_at_unix_ms = excluded.updated_at_unix_ms
`, r.store.tables.Subscriptions)

	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	now := r.store.nowMs()

	_, err := r.store.db.ExecContext(ctx, query,
		sub.ID,
		sub.UserID,
		sub.StripeCustomerID,
		sub.StripeSubscriptionID,
		sub.StripePriceID,
		msPtr(sub.StripeCurrentPeriodEnd),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}

	// An existing row keeps its id and created_at.
	stored, err := r.GetByUserID(ctx, sub.UserID)
	if err != nil {
		return err
	}
	sub.ID = stored.ID
	sub.CreatedAt = stored.CreatedAt
	sub.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *SubscriptionRepository) UpdateBySubscriptionID(ctx context.Context, sub *models.UserSubscription) error {
	query := fmt.Sprintf(`
UPDATE %s
SET stripe_price_id = ?,
    stripe_current_period_end_unix_ms = ?,
    updated_at_unix_ms = ?
WHERE stripe_subscription_id = ?
`, r.store.tables.Subscriptions)

	res, err := r.store.db.ExecContext(ctx, query,
		sub.StripePriceID,
		msPtr(sub.StripeCurrentPeriodEnd),
		r.store.nowMs(),
		sub.StripeSubscriptionID,
	)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update subscription: %w", domain.ErrNotFound)
	}
	return nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func msPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}
