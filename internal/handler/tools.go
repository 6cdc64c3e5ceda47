package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"genius/internal/domain"
	"genius/internal/domain/services"
	"genius/internal/httputil"
	llmservice "genius/internal/service/llm"
	"genius/internal/tools"
)

// ToolLister lists the registered generation tools
type ToolLister interface {
	List() []tools.Tool
}

// ToolsHandler describes the generation tools to clients.
type ToolsHandler struct {
	tools      ToolLister
	completion services.CompletionService
	logger     *slog.Logger
}

// NewToolsHandler creates a new tools handler
func NewToolsHandler(toolList ToolLister, completion services.CompletionService, logger *slog.Logger) *ToolsHandler {
	return &ToolsHandler{
		tools:      toolList,
		completion: completion,
		logger:     logger,
	}
}

// toolResponse is one entry of GET /api/tools
type toolResponse struct {
	tools.Tool
	Provider   string `json:"provider"`
	Configured bool   `json:"configured"`
}

// ListTools returns every tool with its provider and whether its key is set
// GET /api/tools
func (h *ToolsHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	list := h.tools.List()
	out := make([]toolResponse, 0, len(list))

	for _, tool := range list {
		entry := toolResponse{Tool: tool}
		if info, err := llmservice.ParseModel(tool.Model); err == nil {
			entry.Provider = llmservice.DisplayName(info.Provider)
		}

		err := h.completion.EnsureConfigured(tool.ID)
		switch {
		case err == nil:
			entry.Configured = true
		case !errors.Is(err, domain.ErrProviderNotConfigured):
			h.logger.Warn("tool provider unavailable", "tool", tool.ID, "error", err)
		}

		out = append(out, entry)
	}

	httputil.RespondJSON(w, http.StatusOK, out)
}
