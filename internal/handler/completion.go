package handler

import (
	"log/slog"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"genius/internal/domain"
	"genius/internal/domain/models/llm"
	"genius/internal/domain/services"
	"genius/internal/httputil"
)

// CompletionHandler serves one generation tool (conversation or code).
type CompletionHandler struct {
	completion services.CompletionService
	toolID     string
	errorTag   string
	logger     *slog.Logger
}

// NewCompletionHandler creates a handler bound to toolID.
// Unexpected failures are logged as "[<TOOL>_ERROR]".
func NewCompletionHandler(completion services.CompletionService, toolID string, logger *slog.Logger) *CompletionHandler {
	return &CompletionHandler{
		completion: completion,
		toolID:     toolID,
		errorTag:   "[" + strings.ToUpper(toolID) + "_ERROR]",
		logger:     logger,
	}
}

// completionRequest is the body posted by the conversation pages.
type completionRequest struct {
	Messages []llm.ChatMessage `json:"messages"`
}

// Validate implements validation.Validatable
func (r completionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Messages),
	)
}

// Complete forwards the caller's messages to the tool's model and returns
// the first choice.
// POST /api/conversation, POST /api/code
func (h *CompletionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.completion.EnsureConfigured(h.toolID); err != nil {
		handleError(w, r, h.logger, h.errorTag, err)
		return
	}

	var req completionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondText(w, http.StatusBadRequest, domain.MsgInvalidRequestBody)
		return
	}

	// Absent and null both decode to nil; an empty list is passed through.
	if req.Messages == nil {
		httputil.RespondText(w, http.StatusBadRequest, domain.MsgMessagesRequired)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.RespondText(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.completion.Complete(r.Context(), &services.CompletionRequest{
		ToolID:   h.toolID,
		UserID:   userID,
		Messages: req.Messages,
	})
	if err != nil {
		handleError(w, r, h.logger, h.errorTag, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, reply)
}
