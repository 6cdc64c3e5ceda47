package services

import "context"

// BillingUser identifies the caller for billing flows.
type BillingUser struct {
	ID    string
	Email string // Optional; prefilled on checkout
}

// BillingService hands out hosted billing URLs and applies webhook events.
type BillingService interface {
	// SessionURL returns a billing portal URL for existing customers and a
	// checkout URL for everyone else.
	SessionURL(ctx context.Context, user BillingUser) (string, error)

	// HandleWebhook verifies the payload signature and applies the event.
	// Signature failures wrap domain.ErrValidation.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}
