package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"genius/internal/domain"
	"genius/internal/domain/models"
	"genius/internal/domain/repositories"
	"genius/internal/domain/services"
)

// metadataUserID carries the app user through checkout to the webhook.
const metadataUserID = "userId"

// Service implements services.BillingService on top of Stripe.
type Service struct {
	gateway       Gateway
	subRepo       repositories.SubscriptionRepository
	webhookSecret string
	settingsURL   string
	logger        *slog.Logger
}

// NewService creates a billing service. appURL is the public base URL;
// Stripe sends users back to its /settings page.
func NewService(
	gateway Gateway,
	subRepo repositories.SubscriptionRepository,
	webhookSecret string,
	appURL string,
	logger *slog.Logger,
) services.BillingService {
	return &Service{
		gateway:       gateway,
		subRepo:       subRepo,
		webhookSecret: webhookSecret,
		settingsURL:   appURL + "/settings",
		logger:        logger,
	}
}

// SessionURL returns a portal URL for users with a Stripe customer and a
// checkout URL otherwise.
func (s *Service) SessionURL(ctx context.Context, user services.BillingUser) (string, error) {
	sub, err := s.subRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("get subscription: %w", err)
	}

	if sub.HasCustomer() {
		s.logger.Debug("creating billing portal session", "user_id", user.ID)
		return s.gateway.CreatePortalSession(ctx, *sub.StripeCustomerID, s.settingsURL)
	}

	s.logger.Debug("creating checkout session", "user_id", user.ID)
	return s.gateway.CreateCheckoutSession(ctx, &CheckoutRequest{
		UserID:     user.ID,
		Email:      user.Email,
		SuccessURL: s.settingsURL,
		CancelURL:  s.settingsURL,
		Plan:       ProPlan,
	})
}

// HandleWebhook verifies the Stripe signature and applies subscription events.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return domain.NewValidationError("Webhook Error: " + err.Error())
	}

	s.logger.Info("stripe webhook received", "event_id", event.ID, "type", event.Type)

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return domain.NewValidationError("Webhook Error: " + err.Error())
		}
		return s.handleCheckoutCompleted(ctx, &session)

	case stripe.EventTypeInvoicePaymentSucceeded:
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return domain.NewValidationError("Webhook Error: " + err.Error())
		}
		return s.handleInvoicePaid(ctx, &invoice)

	default:
		return nil
	}
}

func (s *Service) handleCheckoutCompleted(ctx context.Context, session *stripe.CheckoutSession) error {
	if session.Subscription == nil || session.Subscription.ID == "" {
		return domain.NewValidationError("Webhook Error: checkout session has no subscription")
	}

	sub, err := s.gateway.GetSubscription(ctx, session.Subscription.ID)
	if err != nil {
		return err
	}

	userID := session.Metadata[metadataUserID]
	if userID == "" {
		return domain.NewValidationError(domain.MsgUserIDRequired)
	}

	record := toRecord(sub)
	record.UserID = userID
	if err := s.subRepo.Create(ctx, record); err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}

	s.logger.Info("subscription created", "user_id", userID, "subscription_id", sub.ID)
	return nil
}

func (s *Service) handleInvoicePaid(ctx context.Context, invoice *stripe.Invoice) error {
	if invoice.Subscription == nil || invoice.Subscription.ID == "" {
		// One-off invoices carry no subscription.
		return nil
	}

	sub, err := s.gateway.GetSubscription(ctx, invoice.Subscription.ID)
	if err != nil {
		return err
	}

	err = s.subRepo.UpdateBySubscriptionID(ctx, toRecord(sub))
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("invoice for unknown subscription", "subscription_id", sub.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}

	s.logger.Info("subscription renewed", "subscription_id", sub.ID)
	return nil
}

// toRecord copies the Stripe fields the app keeps.
func toRecord(sub *stripe.Subscription) *models.UserSubscription {
	record := &models.UserSubscription{
		StripeSubscriptionID: stringPtr(sub.ID),
	}
	if sub.Customer != nil {
		record.StripeCustomerID = stringPtr(sub.Customer.ID)
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		record.StripePriceID = stringPtr(sub.Items.Data[0].Price.ID)
	}
	if sub.CurrentPeriodEnd > 0 {
		end := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		record.StripeCurrentPeriodEnd = &end
	}
	return record
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
