package web

import (
	"genius/internal/domain/models"
	"genius/internal/tools"
)

// EmptyTranscriptText is shown on a tool page before the first reply.
const EmptyTranscriptText = "No conversation started."

// LandingData renders "/".
type LandingData struct {
	SignedIn bool
}

// DashboardData renders "/dashboard".
type DashboardData struct {
	SignedIn bool
	Tools    []tools.Tool
	Usage    *models.Usage // nil when anonymous
}

// ToolData renders a conversation or code page.
type ToolData struct {
	Route       string
	Title       string
	Description string
	Placeholder string
	EmptyText   string
}

// NewToolData builds the page for a tool posting to route.
func NewToolData(tool *tools.Tool, route string) ToolData {
	return ToolData{
		Route:       route,
		Title:       tool.Label,
		Description: tool.Description,
		Placeholder: tool.Placeholder,
		EmptyText:   EmptyTranscriptText,
	}
}

// SettingsData renders "/settings".
type SettingsData struct {
	SignedIn bool
	IsPro    bool
	Label    string
	Variant  string
}
