package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genius/internal/domain/models/llm"
)

func TestComplete_PostsMessages(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, RouteConversation, r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"role":"assistant","content":"4"}`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", WithToken("tok"))
	reply, err := c.Complete(context.Background(), RouteConversation, []llm.ChatMessage{
		llm.NewTextMessage(llm.RoleUser, "2+2?"),
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"messages":[{"role":"user","content":"2+2?"}]}`, gotBody)
	assert.Equal(t, llm.RoleAssistant, reply.Role)
	assert.Equal(t, "4", reply.Content.Text())
}

func TestComplete_EmptyTranscriptSendsArray(t *testing.T) {
	var body map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		io.WriteString(w, `{"role":"assistant","content":""}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Complete(context.Background(), RouteCode, nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body["messages"]))
}

func TestStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, "Free trial has expired. Please upgrade to pro.\n")
	}))
	defer srv.Close()

	_, err := New(srv.URL).Complete(context.Background(), RouteCode, nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, "Free trial has expired. Please upgrade to pro.", statusErr.Message)
	assert.True(t, HasStatus(err, http.StatusForbidden))
	assert.False(t, HasStatus(err, http.StatusInternalServerError))
}

func TestBillingURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, RouteBilling, r.URL.Path)
		io.WriteString(w, `{"url":"https://billing.example/session/abc"}`)
	}))
	defer srv.Close()

	url, err := New(srv.URL).BillingURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://billing.example/session/abc", url)
}

func TestBillingURL_Missing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).BillingURL(context.Background())
	assert.Error(t, err)
}

func TestUsageAndTools(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case RouteUsage:
			io.WriteString(w, `{"count":2,"max_free_counts":5,"is_pro":true}`)
		case RouteTools:
			io.WriteString(w, `[{"id":"code","label":"Code Generation","model":"gpt-3.5-turbo","provider":"OpenAI","configured":true}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	usage, err := c.Usage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, usage.Count)
	assert.True(t, usage.IsPro)

	tools, err := c.Tools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "Code Generation", tools[0].Label)
	assert.True(t, tools[0].Configured)

	assert.True(t, HasStatus(c.Ping(context.Background()), http.StatusNotFound))
}

func TestRouteForTool(t *testing.T) {
	assert.Equal(t, RouteCode, RouteForTool("code"))
	assert.Equal(t, RouteConversation, RouteForTool("conversation"))
}
