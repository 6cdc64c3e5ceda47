package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"genius/internal/domain/models/llm"
	domainllm "genius/internal/domain/services/llm"
)

// defaultMaxTokens is sent when the request leaves MaxTokens at zero; the
// Messages API requires a value.
const defaultMaxTokens = 4096

// Provider implements the LLMProvider interface for Anthropic (Claude) models.
type Provider struct {
	client anthropic.Client
}

// NewProvider creates a new Anthropic provider with the given API key.
func NewProvider(apiKey string, opts ...option.RequestOption) (*Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	// Requests are single-shot; the SDK retries twice unless told otherwise.
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	return &Provider{client: anthropic.NewClient(opts...)}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "anthropic"
}

// SupportsModel returns true if this provider supports the given model.
// Anthropic models start with "claude-"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "claude-")
}

// GenerateResponse generates a response from Claude.
func (p *Provider) GenerateResponse(ctx context.Context, req *domainllm.GenerateRequest) (*domainllm.GenerateResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by Anthropic provider", req.Model)
	}

	system, messages := convertMessages(req.Messages)
	if len(messages) == 0 {
		return nil, fmt.Errorf("at least one user or assistant message is required")
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: int64(maxTokens),
		Messages:  messages,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(tb.Text)
		}
	}

	return &domainllm.GenerateResponse{
		Message:      llm.NewTextMessage(llm.RoleAssistant, text.String()),
		Model:        string(msg.Model),
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
		StopReason:   string(msg.StopReason),
	}, nil
}

// convertMessages splits out system messages, which Anthropic takes as a
// separate parameter, and converts the rest in order.
func convertMessages(messages []llm.ChatMessage) (string, []anthropic.MessageParam) {
	var system []string
	out := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		if msg.Role == llm.RoleSystem {
			if text := strings.TrimSpace(msg.Content.PlainText()); text != "" {
				system = append(system, text)
			}
			continue
		}

		blocks := convertContent(msg.Content)
		if len(blocks) == 0 {
			continue
		}
		if msg.Role == llm.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		} else {
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}

	return strings.Join(system, "\n\n"), out
}

func convertContent(content llm.MessageContent) []anthropic.ContentBlockParamUnion {
	if !content.IsStructured() {
		if content.Text() == "" {
			return nil
		}
		return []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(content.Text())}
	}

	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(content.Parts()))
	for _, part := range content.Parts() {
		switch part.Type {
		case llm.PartTypeText:
			blocks = append(blocks, anthropic.NewTextBlock(part.Text))
		case llm.PartTypeImageURL:
			if url := part.ImageURL(); url != "" {
				blocks = append(blocks, anthropic.NewImageBlock(anthropic.URLImageSourceParam{URL: url}))
			}
		}
	}
	return blocks
}

var _ domainllm.LLMProvider = (*Provider)(nil)
