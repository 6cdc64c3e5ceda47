// Package web renders the root layout and the server-side page shells.
package web

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"genius/internal/tools"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// Page names.
const (
	PageLanding   = "landing"
	PageDashboard = "dashboard"
	PageTool      = "tool"
	PageSettings  = "settings"
)

const (
	siteTitle       = "Genius"
	siteDescription = "AI Platform"

	// clerkScriptPath is appended to the instance's frontend API host.
	clerkScriptPath = "/npm/@clerk/clerk-js@5/dist/clerk.browser.js"
	// clerkFallbackScript is used when the key does not encode a host.
	clerkFallbackScript = "https://cdn.jsdelivr.net" + clerkScriptPath
)

// LayoutConfig holds the third-party keys the layout embeds.
// Empty keys omit the matching script.
type LayoutConfig struct {
	ClerkPublishableKey string
	CrispWebsiteID      string
	// Tools are listed in the upgrade modal.
	Tools []tools.Tool
}

// layoutData is what the layout template sees under .Layout
type layoutData struct {
	Title               string
	Description         string
	ClerkPublishableKey string
	ClerkScriptURL      string
	CrispWebsiteID      string
	Tools               []tools.Tool
}

// Renderer executes a page inside the root layout.
type Renderer struct {
	layout layoutData
	pages  map[string]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer(cfg LayoutConfig) (*Renderer, error) {
	layout, err := template.ParseFS(templateFiles, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{PageLanding, PageDashboard, PageTool, PageSettings} {
		clone, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		page, err := clone.ParseFS(templateFiles, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = page
	}

	return &Renderer{
		layout: layoutData{
			Title:               siteTitle,
			Description:         siteDescription,
			ClerkPublishableKey: cfg.ClerkPublishableKey,
			ClerkScriptURL:      clerkScriptURL(cfg.ClerkPublishableKey),
			CrispWebsiteID:      cfg.CrispWebsiteID,
			Tools:               cfg.Tools,
		},
		pages: pages,
	}, nil
}

// Render writes page wrapped in the layout. The page is fully rendered
// before anything is written to w.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "layout", struct {
		Layout layoutData
		Page   any
	}{r.layout, data})
	if err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	_, err = buf.WriteTo(w)
	return err
}

// StaticHandler serves the embedded stylesheet and script under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// clerkScriptURL derives the clerk-js URL from a publishable key, which is
// "pk_<env>_" followed by the base64 of "<frontend-api-host>$".
func clerkScriptURL(publishableKey string) string {
	parts := strings.SplitN(publishableKey, "_", 3)
	if len(parts) != 3 || parts[0] != "pk" {
		return clerkFallbackScript
	}

	decoded, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(parts[2], "="))
	if err != nil {
		return clerkFallbackScript
	}

	host := strings.TrimSuffix(string(decoded), "$")
	if host == "" || strings.ContainsAny(host, "/ ") {
		return clerkFallbackScript
	}
	return "https://" + host + clerkScriptPath
}
