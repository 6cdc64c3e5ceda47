package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"genius/internal/domain/models/llm"
	domainllm "genius/internal/domain/services/llm"
)

type modelsClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Provider implements the LLMProvider interface for Google Gemini models.
type Provider struct {
	models modelsClient
}

// NewProvider creates a Gemini API client for the given key.
func NewProvider(ctx context.Context, apiKey string) (*Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Provider{models: client.Models}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "gemini"
}

// SupportsModel returns true for "gemini-" models.
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "gemini-")
}

// GenerateResponse generates one response and returns the first candidate's text.
func (p *Provider) GenerateResponse(ctx context.Context, req *domainllm.GenerateRequest) (*domainllm.GenerateResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by Gemini provider", req.Model)
	}

	contents, config := buildRequest(req)
	if len(contents) == 0 {
		return nil, fmt.Errorf("at least one user or assistant message is required")
	}

	resp, err := p.models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	out := &domainllm.GenerateResponse{
		Message: llm.NewTextMessage(llm.RoleAssistant, extractText(resp)),
		Model:   req.Model,
	}
	if resp.UsageMetadata != nil {
		out.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		out.StopReason = string(resp.Candidates[0].FinishReason)
	}
	return out, nil
}

func buildRequest(req *domainllm.GenerateRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	contents := make([]*genai.Content, 0, len(req.Messages))
	var system []string

	for _, msg := range req.Messages {
		text := msg.Content.PlainText()
		switch msg.Role {
		case llm.RoleSystem:
			if t := strings.TrimSpace(text); t != "" {
				system = append(system, t)
			}
		case llm.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: text}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: text}},
			})
		}
	}

	config := &genai.GenerateContentConfig{}
	if len(system) > 0 {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}},
		}
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	return contents, config
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

var _ domainllm.LLMProvider = (*Provider)(nil)
