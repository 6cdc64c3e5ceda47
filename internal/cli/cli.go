// Package cli is the genius terminal front-end: chat and code REPLs, billing,
// usage and tool listings against a Genius server.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"genius/internal/client"
	"genius/internal/tools"
)

const usageText = `Usage: genius [flags] <command>

Commands:
  chat            Start a conversation
  code            Generate code
  billing         Upgrade or manage your subscription
  usage           Show free generations used
  tools           List generation tools
  login <token>   Save a session token to the config file

Flags:
`

// App runs genius commands.
type App struct {
	out    io.Writer
	errOut io.Writer

	// newReader builds the line reader for the REPLs.
	newReader func() LineReader
	// open launches a browser for billing URLs.
	open func(url string) error
}

// NewApp creates an App writing to out and errOut.
func NewApp(out, errOut io.Writer) *App {
	return &App{
		out:       out,
		errOut:    errOut,
		newReader: func() LineReader { return newHistoryReader() },
		open:      openBrowser,
	}
}

// Run executes args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := NewApp(stdout, stderr).Run(ctx, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, errorStyle.Render("Error: "+err.Error()))
		return 1
	}
	return 0
}

// Run parses global flags and dispatches the command.
func (a *App) Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("genius", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	fs.Usage = func() {
		fmt.Fprint(a.errOut, usageText)
		fs.PrintDefaults()
	}

	defaultPath, _ := ConfigPath()
	configPath := fs.String("config", defaultPath, "Path to config.toml")
	server := fs.String("server", "", "Genius server URL (overrides config)")
	token := fs.String("token", "", "Session token (overrides config)")
	plain := fs.Bool("plain", false, "Print replies without markdown rendering")
	verbose := fs.Bool("verbose", false, "Log requests to stderr")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *server != "" {
		cfg.Server = *server
	}
	if *token != "" {
		cfg.Token = *token
	}
	if *plain {
		cfg.Markdown = false
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *verbose {
		logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	api := client.New(cfg.Server, client.WithToken(cfg.Token))

	switch cmd := fs.Arg(0); cmd {
	case "chat", tools.ToolConversation:
		return a.chat(ctx, api, cfg, tools.ToolConversation, logger)
	case tools.ToolCode:
		return a.chat(ctx, api, cfg, tools.ToolCode, logger)
	case "billing":
		return a.billing(ctx, api, logger)
	case "usage":
		return a.usage(ctx, api)
	case "tools":
		return a.tools(ctx, api)
	case "login":
		return a.login(cfg, *configPath, fs.Arg(1))
	case "":
		fs.Usage()
		return flag.ErrHelp
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *App) chat(ctx context.Context, api *client.Client, cfg *Config, toolID string, logger *slog.Logger) error {
	hooks := &terminalHooks{out: a.out, usage: api, ctx: ctx}
	reader := a.newReader()
	defer reader.Close()

	session := &chatSession{
		title:    a.toolLabel(ctx, api, toolID),
		route:    client.RouteForTool(toolID),
		api:      api,
		hooks:    client.PageHooks{Notifier: hooks, Upgrade: hooks, Refresher: hooks},
		reader:   reader,
		out:      a.out,
		markdown: newMarkdownRenderer(cfg.Markdown, cfg.WordWrap),
		logger:   logger,
	}
	return session.run(ctx)
}

// toolLabel asks the server for the tool's label, falling back to the ID.
func (a *App) toolLabel(ctx context.Context, api *client.Client, toolID string) string {
	list, err := api.Tools(ctx)
	if err != nil {
		return toolID
	}
	for _, t := range list {
		if t.ID == toolID {
			return t.Label
		}
	}
	return toolID
}

func (a *App) billing(ctx context.Context, api *client.Client, logger *slog.Logger) error {
	usage, err := api.Usage(ctx)
	if err != nil {
		return err
	}

	hooks := &terminalHooks{out: a.out}
	button := client.NewSubscriptionButton(api, usage.IsPro, browserNavigator{out: a.out, open: a.open}, hooks, logger)
	fmt.Fprintln(a.out, premiumStyle.Render(button.Label()))
	return button.Click(ctx)
}

func (a *App) usage(ctx context.Context, api *client.Client) error {
	usage, err := api.Usage(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, formatUsage(usage))
	return nil
}

func (a *App) tools(ctx context.Context, api *client.Client) error {
	list, err := api.Tools(ctx)
	if err != nil {
		return err
	}
	for _, t := range list {
		status := "ready"
		if !t.Configured {
			status = "not configured"
		}
		fmt.Fprintf(a.out, "%s  %s\n", titleStyle.Render(t.Label), mutedStyle.Render(fmt.Sprintf("(%s, %s %s: %s)", t.ID, t.Provider, t.Model, status)))
		if t.Description != "" {
			fmt.Fprintln(a.out, "  "+t.Description)
		}
	}
	return nil
}

func (a *App) login(cfg *Config, path, token string) error {
	if token == "" {
		return errors.New("usage: genius login <token>")
	}
	if path == "" {
		return errors.New("no config path; pass -config")
	}
	cfg.Token = token
	if err := SaveConfig(cfg, path); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Saved token to", path)
	return nil
}
