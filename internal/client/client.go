// Package client talks to the Genius server and holds the client-side state
// of the conversation pages and the subscription button.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"genius/internal/domain/models"
	"genius/internal/domain/models/llm"
)

// Server routes.
const (
	RouteConversation = "/api/conversation"
	RouteCode         = "/api/code"
	RouteBilling      = "/api/stripe"
	RouteUsage        = "/api/usage"
	RouteTools        = "/api/tools"
)

const maxErrorBody = 4096

// RouteForTool returns the completion route serving a tool ID.
func RouteForTool(toolID string) string {
	return "/api/" + toolID
}

// StatusError is a non-2xx response. Message is the plain-text body.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// HasStatus reports whether err is a StatusError with the given code.
func HasStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}

// Client calls the Genius HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends token as the bearer session token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the server at baseURL.
// No timeout is set on completions: a slow provider blocks until ctx ends.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// completionBody is the request body of the completion routes
type completionBody struct {
	Messages []llm.ChatMessage `json:"messages"`
}

// Complete posts the transcript to a completion route and returns the reply.
func (c *Client) Complete(ctx context.Context, route string, messages []llm.ChatMessage) (*llm.ChatMessage, error) {
	if messages == nil {
		messages = []llm.ChatMessage{}
	}
	var reply llm.ChatMessage
	if err := c.do(ctx, http.MethodPost, route, completionBody{Messages: messages}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// BillingURL returns the hosted checkout or portal URL for the caller.
func (c *Client) BillingURL(ctx context.Context) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodGet, RouteBilling, nil, &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", errors.New("billing response has no url")
	}
	return resp.URL, nil
}

// Usage returns the caller's free-tier usage.
func (c *Client) Usage(ctx context.Context) (*models.Usage, error) {
	var usage models.Usage
	if err := c.do(ctx, http.MethodGet, RouteUsage, nil, &usage); err != nil {
		return nil, err
	}
	return &usage, nil
}

// ToolInfo is one entry of the tools route.
type ToolInfo struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Model       string `json:"model"`
	Provider    string `json:"provider"`
	Configured  bool   `json:"configured"`
}

// Tools lists the server's generation tools.
func (c *Client) Tools(ctx context.Context) ([]ToolInfo, error) {
	var tools []ToolInfo
	if err := c.do(ctx, http.MethodGet, RouteTools, nil, &tools); err != nil {
		return nil, err
	}
	return tools, nil
}

// Ping checks the server answers its health probe within a short timeout.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, route string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+route, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, route, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", route, err)
	}
	return nil
}
