package billing

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Gateway is the slice of the Stripe API the billing flows use.
type Gateway interface {
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	CreateCheckoutSession(ctx context.Context, req *CheckoutRequest) (string, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error)
}

// CheckoutRequest describes a subscription checkout for one user.
type CheckoutRequest struct {
	UserID     string
	Email      string
	SuccessURL string
	CancelURL  string
	Plan       Plan
}

// Plan is the single recurring product sold.
type Plan struct {
	Name        string
	Description string
	Currency    string
	UnitAmount  int64 // minor units
	Interval    string
}

// ProPlan is "Genius Pro", USD 20.00 per month.
var ProPlan = Plan{
	Name:        "Genius Pro",
	Description: "Unlimited AI Generations",
	Currency:    "USD",
	UnitAmount:  2000,
	Interval:    "month",
}

// StripeGateway implements Gateway with the stripe-go client.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway creates a gateway authenticated with the given secret key.
func NewStripeGateway(apiKey string) *StripeGateway {
	return NewStripeGatewayWithURL(apiKey, "")
}

// NewStripeGatewayWithURL creates a gateway whose API calls go to baseURL.
// An empty baseURL uses api.stripe.com.
func NewStripeGatewayWithURL(apiKey, baseURL string) *StripeGateway {
	return &StripeGateway{api: client.New(apiKey, newBackends(baseURL))}
}

// newBackends disables stripe-go's network retries: each billing call is
// made once and its error returned to the caller. Errors are logged by the
// handlers, so the SDK's own logger is silenced.
func newBackends(baseURL string) *stripe.Backends {
	// GetBackendWithConfig fills in the default URL, so each backend gets its own config.
	backend := func(kind stripe.SupportedBackend) stripe.Backend {
		cfg := &stripe.BackendConfig{
			MaxNetworkRetries: stripe.Int64(0),
			LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
		}
		if baseURL != "" {
			cfg.URL = stripe.String(baseURL)
		}
		return stripe.GetBackendWithConfig(kind, cfg)
	}
	return &stripe.Backends{
		API:     backend(stripe.APIBackend),
		Connect: backend(stripe.ConnectBackend),
		Uploads: backend(stripe.UploadsBackend),
	}
}

func (g *StripeGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	session, err := g.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create billing portal session: %w", err)
	}
	return session.URL, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req *CheckoutRequest) (string, error) {
	params := &stripe.CheckoutSessionParams{
		SuccessURL:               stripe.String(req.SuccessURL),
		CancelURL:                stripe.String(req.CancelURL),
		PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),
		Mode:                     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		BillingAddressCollection: stripe.String("auto"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Plan.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(req.Plan.Name),
						Description: stripe.String(req.Plan.Description),
					},
					UnitAmount: stripe.Int64(req.Plan.UnitAmount),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String(req.Plan.Interval),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.AddMetadata(metadataUserID, req.UserID)
	params.Context = ctx

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return session.URL, nil
}

func (g *StripeGateway) GetSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := g.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("get subscription %s: %w", subscriptionID, err)
	}
	return sub, nil
}

var _ Gateway = (*StripeGateway)(nil)
