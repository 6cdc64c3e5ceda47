package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"genius/internal/domain/models/llm"
	domainllm "genius/internal/domain/services/llm"
)

// Provider implements the LLMProvider interface for OpenAI chat completions.
type Provider struct {
	client openai.Client
}

// NewProvider creates a new OpenAI provider with the given API key.
// Extra options (base URL, HTTP client) are passed to the SDK client.
func NewProvider(apiKey string, opts ...option.RequestOption) (*Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	// Requests are single-shot; the SDK retries twice unless told otherwise.
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	return &Provider{client: openai.NewClient(opts...)}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "openai"
}

// SupportsModel returns true for GPT and o-series models.
func (p *Provider) SupportsModel(model string) bool {
	m := strings.ToLower(model)
	return strings.HasPrefix(m, "gpt-") || strings.HasPrefix(m, "o1-") || strings.HasPrefix(m, "o3-")
}

// GenerateResponse sends one chat completion and returns the first choice
// as {role: "assistant", content}. The choice's refusal and tool_calls are
// dropped; a refusal-only answer comes back with empty content.
func (p *Provider) GenerateResponse(ctx context.Context, req *domainllm.GenerateRequest) (*domainllm.GenerateResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by OpenAI provider", req.Model)
	}

	messages, err := convertMessages(req.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	choice := resp.Choices[0]
	return &domainllm.GenerateResponse{
		Message:      llm.NewTextMessage(llm.RoleAssistant, choice.Message.Content),
		Model:        resp.Model,
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
		StopReason:   string(choice.FinishReason),
	}, nil
}

func convertMessages(messages []llm.ChatMessage) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content.PlainText()))
		case llm.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content.PlainText()))
		case llm.RoleUser:
			if !msg.Content.IsStructured() {
				out = append(out, openai.UserMessage(msg.Content.Text()))
				continue
			}
			out = append(out, openai.UserMessage(convertParts(msg.Content.Parts())))
		default:
			return nil, fmt.Errorf("unsupported role: %s", msg.Role)
		}
	}
	return out, nil
}

// convertParts keeps text and image parts. Other kinds are dropped.
func convertParts(parts []llm.ContentPart) []openai.ChatCompletionContentPartUnionParam {
	out := make([]openai.ChatCompletionContentPartUnionParam, 0, len(parts))
	for _, part := range parts {
		switch part.Type {
		case llm.PartTypeText:
			out = append(out, openai.TextContentPart(part.Text))
		case llm.PartTypeImageURL:
			if url := part.ImageURL(); url != "" {
				out = append(out, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: url}))
			}
		}
	}
	return out
}

var _ domainllm.LLMProvider = (*Provider)(nil)
