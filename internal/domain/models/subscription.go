package models

import "time"

// subscriptionGracePeriod keeps a subscription valid for a day past its period end.
const subscriptionGracePeriod = 24 * time.Hour

// UserSubscription links a user to their Stripe customer and subscription.
type UserSubscription struct {
	ID                     string     `json:"id" db:"id"`
	UserID                 string     `json:"user_id" db:"user_id"`
	StripeCustomerID       *string    `json:"stripe_customer_id" db:"stripe_customer_id"`
	StripeSubscriptionID   *string    `json:"stripe_subscription_id" db:"stripe_subscription_id"`
	StripePriceID          *string    `json:"stripe_price_id" db:"stripe_price_id"`
	StripeCurrentPeriodEnd *time.Time `json:"stripe_current_period_end" db:"stripe_current_period_end"`
	CreatedAt              time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the subscription grants pro access at now.
func (s *UserSubscription) IsActive(now time.Time) bool {
	if s == nil || s.StripePriceID == nil || *s.StripePriceID == "" || s.StripeCurrentPeriodEnd == nil {
		return false
	}
	return s.StripeCurrentPeriodEnd.Add(subscriptionGracePeriod).After(now)
}

// HasCustomer reports whether the user already has a Stripe customer (portal instead of checkout).
func (s *UserSubscription) HasCustomer() bool {
	return s != nil && s.StripeCustomerID != nil && *s.StripeCustomerID != ""
}

// UserAPILimit counts free-tier generations for a user.
type UserAPILimit struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Count     int       `json:"count" db:"count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Usage is the caller-facing view of the free tier.
type Usage struct {
	Count         int  `json:"count"`
	MaxFreeCounts int  `json:"max_free_counts"`
	IsPro         bool `json:"is_pro"`
}
