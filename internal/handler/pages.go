package handler

import (
	"log/slog"
	"net/http"

	"genius/internal/client"
	"genius/internal/domain/models"
	"genius/internal/domain/services"
	"genius/internal/httputil"
	"genius/internal/tools"
	"genius/internal/web"
)

// ToolSource looks up and lists the generation tools
type ToolSource interface {
	ToolLister
	Get(id string) (*tools.Tool, error)
}

// PagesHandler serves the server-rendered page shells. Pages render for
// anyone; user-specific parts appear when a session is present.
type PagesHandler struct {
	renderer *web.Renderer
	tools    ToolSource
	usage    services.UsageService
	logger   *slog.Logger
}

// NewPagesHandler creates a new pages handler
func NewPagesHandler(renderer *web.Renderer, toolSource ToolSource, usage services.UsageService, logger *slog.Logger) *PagesHandler {
	return &PagesHandler{
		renderer: renderer,
		tools:    toolSource,
		usage:    usage,
		logger:   logger,
	}
}

// Landing renders the marketing page
// GET /{$}
func (h *PagesHandler) Landing(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, web.PageLanding, web.LandingData{SignedIn: httputil.GetUserID(r) != ""})
}

// Dashboard renders the tool overview
// GET /dashboard
func (h *PagesHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := web.DashboardData{Tools: h.tools.List()}
	if userID := httputil.GetUserID(r); userID != "" {
		data.SignedIn = true
		data.Usage = h.lookupUsage(r, userID)
	}
	h.render(w, r, web.PageDashboard, data)
}

// Tool renders the conversation page of toolID
// GET /conversation, GET /code
func (h *PagesHandler) Tool(toolID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tool, err := h.tools.Get(toolID)
		if err != nil {
			handleError(w, r, h.logger, "[PAGE_ERROR]", err)
			return
		}
		h.render(w, r, web.PageTool, web.NewToolData(tool, client.RouteForTool(toolID)))
	}
}

// Settings renders the subscription settings
// GET /settings
func (h *PagesHandler) Settings(w http.ResponseWriter, r *http.Request) {
	var data web.SettingsData
	if userID := httputil.GetUserID(r); userID != "" {
		data.SignedIn = true
		if usage := h.lookupUsage(r, userID); usage != nil {
			data.IsPro = usage.IsPro
		}
	}
	data.Label = client.SubscriptionLabel(data.IsPro)
	data.Variant = client.SubscriptionVariant(data.IsPro)

	h.render(w, r, web.PageSettings, data)
}

// lookupUsage returns nil when the store fails; pages still render.
func (h *PagesHandler) lookupUsage(r *http.Request, userID string) *models.Usage {
	usage, err := h.usage.GetUsage(r.Context(), userID)
	if err != nil {
		h.logger.Warn("failed to load usage for page", "user_id", userID, "error", err)
		return nil
	}
	return usage
}

func (h *PagesHandler) render(w http.ResponseWriter, r *http.Request, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, page, data); err != nil {
		handleError(w, r, h.logger, "[PAGE_ERROR]", err)
	}
}
