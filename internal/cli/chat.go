package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/peterh/liner"

	"genius/internal/client"
	"genius/internal/domain/models/llm"
)

// LineReader reads one line of input.
type LineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// historyReader is a liner-backed LineReader with persistent history.
type historyReader struct {
	line        *liner.State
	historyFile string
}

func newHistoryReader() *historyReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	r := &historyReader{line: line}
	if dir, err := ConfigDir(); err == nil {
		r.historyFile = filepath.Join(dir, "history")
		if f, err := os.Open(r.historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}
	return r
}

func (r *historyReader) Prompt(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

func (r *historyReader) Close() error {
	if r.historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(r.historyFile), 0o700); err == nil {
			if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
				r.line.WriteHistory(f)
				f.Close()
			}
		}
	}
	return r.line.Close()
}

// chatSession is one REPL on a conversation page.
type chatSession struct {
	title    string
	route    string
	api      client.Completer
	hooks    client.PageHooks
	reader   LineReader
	out      io.Writer
	markdown *markdownRenderer
	logger   *slog.Logger

	page *client.ConversationPage
}

func (s *chatSession) reset() {
	s.page = client.NewConversationPage(s.api, s.route, s.hooks, s.logger)
}

// run reads prompts until /quit or EOF.
func (s *chatSession) run(ctx context.Context) error {
	s.reset()
	fmt.Fprintln(s.out, titleStyle.Render(s.title))
	fmt.Fprintln(s.out, mutedStyle.Render(client.EmptyPlaceholder+" Type /help for commands."))

	for {
		input, err := s.reader.Prompt(promptStyle.Render("> "))
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			return err
		}

		switch cmd := strings.TrimSpace(input); cmd {
		case "":
			continue
		case "/quit", "/q", "/exit":
			return nil
		case "/clear", "/c":
			s.reset()
			fmt.Fprintln(s.out, mutedStyle.Render(client.EmptyPlaceholder))
			continue
		case "/history":
			s.printTranscript()
			continue
		case "/help", "/h":
			fmt.Fprintln(s.out, mutedStyle.Render("/clear  start over\n/history  show the transcript\n/quit  exit"))
			continue
		}

		before := len(s.page.Messages())
		if err := s.page.Submit(ctx, input); err != nil {
			// Request failures were already shown by the hooks.
			var invalid validation.Errors
			if errors.As(err, &invalid) {
				fmt.Fprintln(s.out, errorStyle.Render(err.Error()))
			}
			continue
		}

		view := s.page.View()
		for _, entry := range view.Entries[before:] {
			if entry.Role == llm.RoleAssistant {
				fmt.Fprintln(s.out, s.markdown.Render(entry.Blocks))
			}
		}
	}
}

func (s *chatSession) printTranscript() {
	view := s.page.View()
	if view.Placeholder != "" {
		fmt.Fprintln(s.out, mutedStyle.Render(view.Placeholder))
		return
	}
	for _, entry := range view.Entries {
		if entry.Role == llm.RoleUser {
			fmt.Fprintln(s.out, userStyle.Render("you: "+strings.Join(entry.Blocks, "\n")))
			continue
		}
		fmt.Fprintln(s.out, s.markdown.Render(entry.Blocks))
	}
}
