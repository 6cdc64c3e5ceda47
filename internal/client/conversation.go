package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"genius/internal/domain/models/llm"
)

// Fixed user-facing texts.
const (
	MsgSomethingWentWrong = "Something went wrong."
	EmptyPlaceholder      = "No conversation started."
)

// ErrSubmitInProgress is returned when a submit starts while another is in flight.
var ErrSubmitInProgress = errors.New("a submit is already in progress")

// Completer posts a transcript to a completion route.
type Completer interface {
	Complete(ctx context.Context, route string, messages []llm.ChatMessage) (*llm.ChatMessage, error)
}

// Notifier shows a toast.
type Notifier interface {
	Error(msg string)
}

// UpgradePrompter opens the upgrade modal.
type UpgradePrompter interface {
	Open()
}

// Refresher reloads server-derived state (usage, subscription) after a submit.
type Refresher interface {
	Refresh()
}

// PageHooks are the UI side effects of a submit. Nil hooks are no-ops.
type PageHooks struct {
	Notifier  Notifier
	Upgrade   UpgradePrompter
	Refresher Refresher
}

type noopHooks struct{}

func (noopHooks) Error(string) {}
func (noopHooks) Open()        {}
func (noopHooks) Refresh()     {}

// Entry is one transcript message with a stable display key.
type Entry struct {
	Key     string
	Message llm.ChatMessage
}

// ConversationPage holds the transcript of one conversation or code page.
// The transcript lives only as long as the page.
type ConversationPage struct {
	api    Completer
	route  string
	hooks  PageHooks
	logger *slog.Logger

	mu      sync.RWMutex
	form    PromptForm
	entries []Entry

	loading atomic.Bool
}

// NewConversationPage creates a page posting to route.
func NewConversationPage(api Completer, route string, hooks PageHooks, logger *slog.Logger) *ConversationPage {
	if hooks.Notifier == nil {
		hooks.Notifier = noopHooks{}
	}
	if hooks.Upgrade == nil {
		hooks.Upgrade = noopHooks{}
	}
	if hooks.Refresher == nil {
		hooks.Refresher = noopHooks{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ConversationPage{
		api:    api,
		route:  route,
		hooks:  hooks,
		logger: logger,
	}
}

// Submit sends prompt with the transcript so far. On success the user
// message and the reply are appended and the form is reset. Validation
// failures return before any request is made. Request failures are surfaced
// through the hooks and also returned; the transcript is left unchanged.
func (p *ConversationPage) Submit(ctx context.Context, prompt string) error {
	p.mu.Lock()
	p.form.Prompt = prompt
	form := p.form
	p.mu.Unlock()

	if err := form.Validate(); err != nil {
		return err
	}

	if !p.loading.CompareAndSwap(false, true) {
		return ErrSubmitInProgress
	}
	defer p.loading.Store(false)
	defer p.hooks.Refresher.Refresh()

	userMessage := llm.NewTextMessage(llm.RoleUser, form.Prompt)
	candidate := append(p.Messages(), userMessage)

	reply, err := p.api.Complete(ctx, p.route, candidate)
	if err != nil {
		if HasStatus(err, http.StatusForbidden) {
			p.hooks.Upgrade.Open()
		} else {
			p.logger.Error("submit failed", "route", p.route, "error", err)
			p.hooks.Notifier.Error(MsgSomethingWentWrong)
		}
		return err
	}

	p.mu.Lock()
	p.entries = append(p.entries,
		Entry{Key: uuid.NewString(), Message: userMessage},
		Entry{Key: uuid.NewString(), Message: *reply},
	)
	p.form.Reset()
	p.mu.Unlock()

	return nil
}

// Loading is true exactly while a submit request is in flight.
func (p *ConversationPage) Loading() bool {
	return p.loading.Load()
}

// Prompt returns the current form value.
func (p *ConversationPage) Prompt() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.form.Prompt
}

// Messages returns a copy of the transcript messages in order.
func (p *ConversationPage) Messages() []llm.ChatMessage {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]llm.ChatMessage, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.Message
	}
	return out
}

// EntryView is one rendered transcript entry.
type EntryView struct {
	Key    string
	Role   llm.Role
	Blocks []string
}

// PageView is what the page displays.
type PageView struct {
	Loading bool
	// Placeholder is EmptyPlaceholder when the transcript is empty and
	// nothing is loading, "" otherwise.
	Placeholder string
	Entries     []EntryView
}

// View returns the render model of the page.
func (p *ConversationPage) View() PageView {
	p.mu.RLock()
	defer p.mu.RUnlock()

	view := PageView{Loading: p.loading.Load()}
	if len(p.entries) == 0 && !view.Loading {
		view.Placeholder = EmptyPlaceholder
	}
	for _, e := range p.entries {
		view.Entries = append(view.Entries, EntryView{
			Key:    e.Key,
			Role:   e.Message.Role,
			Blocks: RenderContent(e.Message.Content),
		})
	}
	return view
}
