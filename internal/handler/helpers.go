package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"genius/internal/domain"
	"genius/internal/httputil"
)

// handleError converts domain errors to plain-text HTTP responses.
// Anything unclassified is logged under tag and answered with a generic 500.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, tag string, err error) {
	var httpErr domain.HTTPError

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondText(w, http.StatusUnauthorized, domain.MsgUnauthorized)
	case errors.As(err, &httpErr):
		// Validation, quota and provider-configuration errors carry their own status
		httputil.RespondText(w, httpErr.StatusCode(), httpErr.Error())
	default:
		logger.Error(tag,
			"error", err,
			"path", r.URL.Path,
			"request_id", httputil.GetRequestID(r),
		)
		httputil.RespondText(w, http.StatusInternalServerError, domain.MsgInternalServerError)
	}
}

// requireUser returns the caller's user ID, writing 401 when anonymous.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondText(w, http.StatusUnauthorized, domain.MsgUnauthorized)
		return "", false
	}
	return userID, true
}
