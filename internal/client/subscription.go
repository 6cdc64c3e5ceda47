package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
)

// Button variants.
const (
	VariantDefault = "default"
	VariantPremium = "premium"
)

// SubscriptionLabel is the button text for the given plan.
func SubscriptionLabel(isPro bool) string {
	if isPro {
		return "Manage Subscription"
	}
	return "Upgrade"
}

// SubscriptionVariant is the button style for the given plan.
func SubscriptionVariant(isPro bool) string {
	if isPro {
		return VariantDefault
	}
	return VariantPremium
}

// BillingURLSource fetches the hosted billing URL.
type BillingURLSource interface {
	BillingURL(ctx context.Context) (string, error)
}

// Navigator sends the user to an external URL.
type Navigator interface {
	Navigate(url string) error
}

// SubscriptionButton opens Stripe checkout or the billing portal.
type SubscriptionButton struct {
	IsPro bool

	api      BillingURLSource
	nav      Navigator
	notifier Notifier
	logger   *slog.Logger
	loading  atomic.Bool
}

// NewSubscriptionButton creates a button. notifier and logger may be nil.
func NewSubscriptionButton(api BillingURLSource, isPro bool, nav Navigator, notifier Notifier, logger *slog.Logger) *SubscriptionButton {
	if notifier == nil {
		notifier = noopHooks{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SubscriptionButton{
		IsPro:    isPro,
		api:      api,
		nav:      nav,
		notifier: notifier,
		logger:   logger,
	}
}

// Label returns the button text.
func (b *SubscriptionButton) Label() string { return SubscriptionLabel(b.IsPro) }

// Variant returns the button style.
func (b *SubscriptionButton) Variant() string { return SubscriptionVariant(b.IsPro) }

// Loading is true while Click is running.
func (b *SubscriptionButton) Loading() bool { return b.loading.Load() }

// Click fetches the billing URL and navigates to it. Any failure is logged
// and shown as the generic toast.
func (b *SubscriptionButton) Click(ctx context.Context) error {
	b.loading.Store(true)
	defer b.loading.Store(false)

	url, err := b.api.BillingURL(ctx)
	if err == nil {
		err = b.nav.Navigate(url)
		if err != nil {
			err = fmt.Errorf("navigate to %s: %w", url, err)
		}
	}
	if err != nil {
		b.logger.Error("billing error", "error", err)
		b.notifier.Error(MsgSomethingWentWrong)
		return err
	}
	return nil
}
