package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReader replays lines then reports EOF.
type scriptedReader struct {
	lines  []string
	closed bool
}

func (r *scriptedReader) Prompt(string) (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

type fakeServer struct {
	mu       sync.Mutex
	requests []map[string]json.RawMessage
	status   int
	isPro    bool
	count    int
}

func (f *fakeServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/conversation", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.mu.Lock()
		f.requests = append(f.requests, body)
		status := f.status
		f.count++
		f.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			io.WriteString(w, "Free trial has expired. Please upgrade to pro.")
			return
		}
		io.WriteString(w, `{"role":"assistant","content":"4"}`)
	})
	mux.HandleFunc("GET /api/usage", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"count": f.count, "max_free_counts": 5, "is_pro": f.isPro})
	})
	mux.HandleFunc("GET /api/tools", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":"conversation","label":"Conversation","model":"gpt-3.5-turbo","provider":"OpenAI","configured":true},
			{"id":"code","label":"Code Generation","model":"gpt-3.5-turbo","provider":"OpenAI","configured":false}]`)
	})
	mux.HandleFunc("GET /api/stripe", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"url":"https://billing.example/session/abc"}`)
	})
	return mux
}

func newTestApp(reader *scriptedReader) (*App, *bytes.Buffer, *[]string) {
	var out bytes.Buffer
	opened := &[]string{}
	app := &App{
		out:       &out,
		errOut:    &out,
		newReader: func() LineReader { return reader },
		open: func(url string) error {
			*opened = append(*opened, url)
			return nil
		},
	}
	return app, &out, opened
}

func baseArgs(t *testing.T, srv *httptest.Server) []string {
	t.Setenv("GENIUS_SERVER", "")
	t.Setenv("GENIUS_TOKEN", "")
	t.Setenv("GENIUS_MARKDOWN", "")
	return []string{"-config", filepath.Join(t.TempDir(), "config.toml"), "-server", srv.URL, "-token", "tok", "-plain"}
}

func TestChat(t *testing.T) {
	fake := &fakeServer{}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	reader := &scriptedReader{lines: []string{"2+2?", "   ", "/history", "/quit"}}
	app, out, _ := newTestApp(reader)

	require.NoError(t, app.Run(context.Background(), append(baseArgs(t, srv), "chat")))

	require.Len(t, fake.requests, 1)
	assert.JSONEq(t, `[{"role":"user","content":"2+2?"}]`, string(fake.requests[0]["messages"]))
	assert.Contains(t, out.String(), "Conversation")
	assert.Contains(t, out.String(), "4")
	assert.Contains(t, out.String(), "1 / 5 Free Generations")
	assert.Contains(t, out.String(), "you: 2+2?")
	assert.True(t, reader.closed)
}

func TestChat_ForbiddenShowsUpsell(t *testing.T) {
	fake := &fakeServer{status: http.StatusForbidden}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	app, out, _ := newTestApp(&scriptedReader{lines: []string{"hi"}})
	require.NoError(t, app.Run(context.Background(), append(baseArgs(t, srv), "chat")))

	assert.Contains(t, out.String(), "Upgrade to Genius Pro")
	assert.NotContains(t, out.String(), "Something went wrong.")
}

func TestChat_ServerErrorToasts(t *testing.T) {
	fake := &fakeServer{status: http.StatusInternalServerError}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	app, out, _ := newTestApp(&scriptedReader{lines: []string{"hi", "/history"}})
	require.NoError(t, app.Run(context.Background(), append(baseArgs(t, srv), "chat")))

	assert.Contains(t, out.String(), "Something went wrong.")
	assert.Contains(t, out.String(), "No conversation started.")
}

func TestBilling(t *testing.T) {
	srv := httptest.NewServer((&fakeServer{}).handler(t))
	defer srv.Close()

	app, out, opened := newTestApp(nil)
	require.NoError(t, app.Run(context.Background(), append(baseArgs(t, srv), "billing")))

	assert.Equal(t, []string{"https://billing.example/session/abc"}, *opened)
	assert.Contains(t, out.String(), "Upgrade")
	assert.Contains(t, out.String(), "Opening https://billing.example/session/abc")
}

func TestBilling_Pro(t *testing.T) {
	srv := httptest.NewServer((&fakeServer{isPro: true}).handler(t))
	defer srv.Close()

	app, out, _ := newTestApp(nil)
	require.NoError(t, app.Run(context.Background(), append(baseArgs(t, srv), "billing")))
	assert.Contains(t, out.String(), "Manage Subscription")
}

func TestUsageAndTools(t *testing.T) {
	srv := httptest.NewServer((&fakeServer{count: 3}).handler(t))
	defer srv.Close()

	app, out, _ := newTestApp(nil)
	require.NoError(t, app.Run(context.Background(), append(baseArgs(t, srv), "usage")))
	assert.Contains(t, out.String(), "3 / 5 Free Generations")

	out.Reset()
	require.NoError(t, app.Run(context.Background(), append(baseArgs(t, srv), "tools")))
	assert.Contains(t, out.String(), "Code Generation")
	assert.Contains(t, out.String(), "not configured")
}

func TestLogin(t *testing.T) {
	t.Setenv("GENIUS_TOKEN", "")
	t.Setenv("GENIUS_SERVER", "")
	path := filepath.Join(t.TempDir(), "config.toml")

	app, out, _ := newTestApp(nil)
	require.NoError(t, app.Run(context.Background(), []string{"-config", path, "login", "sess_123"}))
	assert.Contains(t, out.String(), "Saved token")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sess_123", cfg.Token)
}

func TestUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	t.Setenv("GENIUS_SERVER", "")
	code := Run(context.Background(), []string{"-config", filepath.Join(t.TempDir(), "c.toml"), "paint"}, &out, &out)
	assert.Equal(t, 1, code)
	assert.True(t, strings.Contains(out.String(), `unknown command "paint"`))
}
