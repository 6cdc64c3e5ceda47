package cli

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/glamour"

	"genius/internal/domain/models"
)

// terminalHooks are the page side effects rendered for a terminal.
type terminalHooks struct {
	out   io.Writer
	usage usageSource
	ctx   context.Context
}

type usageSource interface {
	Usage(ctx context.Context) (*models.Usage, error)
}

// Error prints the toast in red.
func (h *terminalHooks) Error(msg string) {
	fmt.Fprintln(h.out, errorStyle.Render(msg))
}

// Open prints the upsell.
func (h *terminalHooks) Open() {
	fmt.Fprintln(h.out, premiumStyle.Render("Free trial has expired. Upgrade to Genius Pro for unlimited generations."))
	fmt.Fprintln(h.out, mutedStyle.Render("Run `genius billing` to upgrade."))
}

// Refresh prints the remaining free generations.
func (h *terminalHooks) Refresh() {
	if h.usage == nil {
		return
	}
	usage, err := h.usage.Usage(h.ctx)
	if err != nil {
		return
	}
	fmt.Fprintln(h.out, mutedStyle.Render(formatUsage(usage)))
}

func formatUsage(u *models.Usage) string {
	if u.IsPro {
		return "Pro plan"
	}
	return fmt.Sprintf("%d / %d Free Generations", u.Count, u.MaxFreeCounts)
}

// browserNavigator prints the URL and tries the platform opener.
type browserNavigator struct {
	out  io.Writer
	open func(url string) error
}

func (n browserNavigator) Navigate(url string) error {
	fmt.Fprintln(n.out, "Opening", url)
	if n.open == nil {
		return nil
	}
	if err := n.open(url); err != nil {
		// The URL is already on screen; a missing opener is not fatal.
		fmt.Fprintln(n.out, mutedStyle.Render("Could not open a browser: "+err.Error()))
	}
	return nil
}

// openBrowser starts the platform URL opener.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// markdownRenderer renders replies; nil falls back to plain text.
type markdownRenderer struct {
	renderer *glamour.TermRenderer
}

func newMarkdownRenderer(enabled bool, wrap int) *markdownRenderer {
	if !enabled {
		return &markdownRenderer{}
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return &markdownRenderer{}
	}
	return &markdownRenderer{renderer: r}
}

func (m *markdownRenderer) Render(blocks []string) string {
	text := strings.Join(blocks, "\n\n")
	if m.renderer == nil {
		return text
	}
	rendered, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}
