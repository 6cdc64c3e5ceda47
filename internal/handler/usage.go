package handler

import (
	"log/slog"
	"net/http"

	"genius/internal/domain/services"
	"genius/internal/httputil"
)

// UsageHandler reports the caller's free-tier usage.
type UsageHandler struct {
	usage  services.UsageService
	logger *slog.Logger
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(usage services.UsageService, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{
		usage:  usage,
		logger: logger,
	}
}

// GetUsage returns the generation counter, the free allowance and the pro flag
// GET /api/usage
func (h *UsageHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	usage, err := h.usage.GetUsage(r.Context(), userID)
	if err != nil {
		handleError(w, r, h.logger, "[USAGE_ERROR]", err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, usage)
}
