package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"genius/internal/config"
	"genius/internal/domain"
	"genius/internal/domain/services"
	"genius/internal/httputil"
)

const (
	stripeErrorTag  = "[STRIPE_ERROR]"
	webhookErrorTag = "[WEBHOOK_ERROR]"
)

// EmailLookup resolves a user's email when the session token carries none.
type EmailLookup interface {
	PrimaryEmail(ctx context.Context, userID string) (string, error)
}

// BillingHandler serves the Stripe routes.
type BillingHandler struct {
	billing services.BillingService
	emails  EmailLookup
	logger  *slog.Logger
}

// NewBillingHandler creates a billing handler. emails may be nil.
func NewBillingHandler(billing services.BillingService, emails EmailLookup, logger *slog.Logger) *BillingHandler {
	return &BillingHandler{
		billing: billing,
		emails:  emails,
		logger:  logger,
	}
}

// sessionResponse is the body of GET /api/stripe
type sessionResponse struct {
	URL string `json:"url"`
}

// GetSession returns a hosted billing URL: the portal for existing
// customers, a new checkout otherwise.
// GET /api/stripe
func (h *BillingHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	user := services.BillingUser{ID: userID}
	if claims := httputil.GetClaims(r); claims != nil {
		user.Email = claims.Email
	}
	if user.Email == "" && h.emails != nil {
		email, err := h.emails.PrimaryEmail(r.Context(), userID)
		if err != nil {
			// Checkout still works without a prefilled email.
			h.logger.Warn("failed to look up user email", "user_id", userID, "error", err)
		}
		user.Email = email
	}

	url, err := h.billing.SessionURL(r.Context(), user)
	if err != nil {
		handleError(w, r, h.logger, stripeErrorTag, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, sessionResponse{URL: url})
}

// Webhook applies a signed Stripe event. Public: the signature is the auth.
// POST /api/webhook
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, config.MaxWebhookBodyBytes))
	if err != nil {
		httputil.RespondText(w, http.StatusBadRequest, domain.MsgInvalidRequestBody)
		return
	}

	if err := h.billing.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		handleError(w, r, h.logger, webhookErrorTag, err)
		return
	}

	httputil.RespondEmpty(w, http.StatusOK)
}
