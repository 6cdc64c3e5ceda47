package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genius/internal/config"
	"genius/internal/domain/models/llm"
)

type fakeCompleter struct {
	reply   *llm.ChatMessage
	err     error
	calls   [][]llm.ChatMessage
	routes  []string
	block   chan struct{}
	started chan struct{}
}

func (f *fakeCompleter) Complete(ctx context.Context, route string, messages []llm.ChatMessage) (*llm.ChatMessage, error) {
	f.calls = append(f.calls, messages)
	f.routes = append(f.routes, route)
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	return f.reply, f.err
}

// recorder captures hook calls in order.
type recorder struct {
	events []string
	toasts []string
	page   *ConversationPage
	// loadingAtRefresh records Loading() when Refresh fires.
	loadingAtRefresh []bool
}

func (r *recorder) Error(msg string) {
	r.events = append(r.events, "toast")
	r.toasts = append(r.toasts, msg)
}
func (r *recorder) Open() { r.events = append(r.events, "upgrade") }
func (r *recorder) Refresh() {
	r.events = append(r.events, "refresh")
	if r.page != nil {
		r.loadingAtRefresh = append(r.loadingAtRefresh, r.page.Loading())
	}
}

func newPage(api Completer) (*ConversationPage, *recorder) {
	rec := &recorder{}
	page := NewConversationPage(api, RouteConversation, PageHooks{Notifier: rec, Upgrade: rec, Refresher: rec}, nil)
	rec.page = page
	return page, rec
}

func TestSubmit_AppendsUserAndReply(t *testing.T) {
	reply := llm.NewTextMessage(llm.RoleAssistant, "4")
	api := &fakeCompleter{reply: &reply}
	page, rec := newPage(api)

	require.NoError(t, page.Submit(context.Background(), "2+2?"))

	require.Len(t, api.calls, 1)
	require.Len(t, api.calls[0], 1)
	assert.Equal(t, llm.RoleUser, api.calls[0][0].Role)
	assert.Equal(t, "2+2?", api.calls[0][0].Content.Text())
	assert.Equal(t, RouteConversation, api.routes[0])

	msgs := page.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, llm.RoleUser, msgs[0].Role)
	assert.Equal(t, "2+2?", msgs[0].Content.Text())
	assert.Equal(t, llm.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "4", msgs[1].Content.Text())

	assert.Empty(t, page.Prompt())
	assert.False(t, page.Loading())
	assert.Equal(t, []string{"refresh"}, rec.events)
	assert.Equal(t, []bool{true}, rec.loadingAtRefresh)
}

func TestSubmit_SendsWholeTranscript(t *testing.T) {
	reply := llm.NewTextMessage(llm.RoleAssistant, "ok")
	api := &fakeCompleter{reply: &reply}
	page, _ := newPage(api)

	require.NoError(t, page.Submit(context.Background(), "one"))
	require.NoError(t, page.Submit(context.Background(), "two"))

	require.Len(t, api.calls, 2)
	assert.Len(t, api.calls[1], 3)
	assert.Equal(t, "two", api.calls[1][2].Content.Text())
	assert.Len(t, page.Messages(), 4)
}

func TestSubmit_RejectsBlankPrompt(t *testing.T) {
	api := &fakeCompleter{}
	page, rec := newPage(api)

	for _, prompt := range []string{"", "   ", "\n\t"} {
		err := page.Submit(context.Background(), prompt)
		require.Error(t, err, "%q", prompt)
	}

	assert.Empty(t, api.calls)
	assert.Empty(t, rec.events)
	assert.Empty(t, page.Messages())
}

func TestSubmit_RejectsOverlongPrompt(t *testing.T) {
	api := &fakeCompleter{}
	page, _ := newPage(api)

	err := page.Submit(context.Background(), strings.Repeat("a", config.MaxPromptLength+1))
	assert.Error(t, err)
	assert.Empty(t, api.calls)
}

func TestSubmit_ForbiddenOpensUpgrade(t *testing.T) {
	api := &fakeCompleter{err: &StatusError{StatusCode: http.StatusForbidden, Message: "Free trial has expired. Please upgrade to pro."}}
	page, rec := newPage(api)

	err := page.Submit(context.Background(), "hi")
	assert.True(t, HasStatus(err, http.StatusForbidden))

	assert.Equal(t, []string{"upgrade", "refresh"}, rec.events)
	assert.Empty(t, page.Messages())
	assert.Equal(t, "hi", page.Prompt())
}

func TestSubmit_OtherFailureToasts(t *testing.T) {
	for _, apiErr := range []error{
		&StatusError{StatusCode: http.StatusInternalServerError, Message: "Internal Server Error"},
		&StatusError{StatusCode: http.StatusUnauthorized, Message: "Unauthorized"},
		errors.New("connection refused"),
	} {
		page, rec := newPage(&fakeCompleter{err: apiErr})

		require.Error(t, page.Submit(context.Background(), "hi"))
		assert.Equal(t, []string{"toast", "refresh"}, rec.events)
		assert.Equal(t, []string{"Something went wrong."}, rec.toasts)
		assert.Empty(t, page.Messages())
	}
}

func TestSubmit_OneAtATime(t *testing.T) {
	reply := llm.NewTextMessage(llm.RoleAssistant, "done")
	api := &fakeCompleter{reply: &reply, block: make(chan struct{}), started: make(chan struct{})}
	page, _ := newPage(api)

	done := make(chan error, 1)
	go func() { done <- page.Submit(context.Background(), "first") }()

	select {
	case <-api.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first submit did not start")
	}
	assert.True(t, page.Loading())
	assert.True(t, page.View().Loading)
	assert.Empty(t, page.View().Placeholder)

	assert.ErrorIs(t, page.Submit(context.Background(), "second"), ErrSubmitInProgress)

	close(api.block)
	require.NoError(t, <-done)
	assert.False(t, page.Loading())
	assert.Len(t, page.Messages(), 2)
}

func TestView(t *testing.T) {
	page, _ := newPage(&fakeCompleter{reply: &llm.ChatMessage{
		Role:    llm.RoleAssistant,
		Content: llm.PartsContent(llm.TextPart("```go"), llm.TextPart("x := 1")),
	}})

	view := page.View()
	assert.False(t, view.Loading)
	assert.Equal(t, "No conversation started.", view.Placeholder)
	assert.Empty(t, view.Entries)

	require.NoError(t, page.Submit(context.Background(), "same"))
	require.NoError(t, page.Submit(context.Background(), "same"))

	view = page.View()
	assert.Empty(t, view.Placeholder)
	require.Len(t, view.Entries, 4)
	assert.Equal(t, []string{"same"}, view.Entries[0].Blocks)
	assert.Equal(t, []string{"```go", "x := 1"}, view.Entries[1].Blocks)
	assert.Equal(t, llm.RoleAssistant, view.Entries[1].Role)

	keys := map[string]bool{}
	for _, e := range view.Entries {
		keys[e.Key] = true
	}
	assert.Len(t, keys, 4, "duplicate content still gets distinct keys")
}
