package lorem

import (
	"context"
	"strings"

	llmprovider "github.com/haowjy/meridian-llm-go"
	"github.com/haowjy/meridian-llm-go/providers/lorem"

	"genius/internal/domain/models/llm"
	domainllm "genius/internal/domain/services/llm"
)

// Provider wraps the library's lorem ipsum provider. It needs no API key and
// backs "lorem-*" models for offline development and tests.
type Provider struct {
	provider llmprovider.Provider
}

// NewProvider creates a lorem provider.
func NewProvider() *Provider {
	return &Provider{provider: lorem.NewProvider()}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return p.provider.Name().String()
}

// SupportsModel returns true if this provider supports the given model.
func (p *Provider) SupportsModel(model string) bool {
	return p.provider.SupportsModel(model)
}

// GenerateResponse converts the chat to library messages and returns the
// generated text as one assistant message.
func (p *Provider) GenerateResponse(ctx context.Context, req *domainllm.GenerateRequest) (*domainllm.GenerateResponse, error) {
	libResp, err := p.provider.GenerateResponse(ctx, toLibraryRequest(req))
	if err != nil {
		return nil, err
	}

	var text []string
	for _, block := range libResp.Blocks {
		if block != nil && block.TextContent != nil {
			text = append(text, *block.TextContent)
		}
	}

	return &domainllm.GenerateResponse{
		Message:      llm.NewTextMessage(llm.RoleAssistant, strings.Join(text, "\n\n")),
		Model:        libResp.Model,
		InputTokens:  libResp.InputTokens,
		OutputTokens: libResp.OutputTokens,
		StopReason:   libResp.StopReason,
	}, nil
}

func toLibraryRequest(req *domainllm.GenerateRequest) *llmprovider.GenerateRequest {
	messages := make([]llmprovider.Message, 0, len(req.Messages))
	for _, msg := range req.Messages {
		text := msg.Content.PlainText()
		messages = append(messages, llmprovider.Message{
			Role: string(msg.Role),
			Blocks: []*llmprovider.Block{{
				BlockType:   "text",
				TextContent: &text,
			}},
		})
	}

	return &llmprovider.GenerateRequest{
		Messages: messages,
		Model:    req.Model,
	}
}

var _ domainllm.LLMProvider = (*Provider)(nil)
