package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"genius/internal/domain/models/llm"
	domainllm "genius/internal/domain/services/llm"
)

type fakeModels struct {
	gotModel    string
	gotContents []*genai.Content
	gotConfig   *genai.GenerateContentConfig
	resp        *genai.GenerateContentResponse
	err         error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	f.gotContents = contents
	f.gotConfig = config
	return f.resp, f.err
}

func TestGenerateResponse(t *testing.T) {
	fake := &fakeModels{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "thinking...", Thought: true},
				{Text: "4"},
			}},
			FinishReason: genai.FinishReasonStop,
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{PromptTokenCount: 7, CandidatesTokenCount: 1},
	}}
	p := &Provider{models: fake}

	resp, err := p.GenerateResponse(context.Background(), &domainllm.GenerateRequest{
		Model:     "gemini-2.0-flash",
		MaxTokens: 64,
		Messages: []llm.ChatMessage{
			llm.NewTextMessage(llm.RoleSystem, "be brief"),
			llm.NewTextMessage(llm.RoleUser, "2+2?"),
			llm.NewTextMessage(llm.RoleAssistant, "4"),
			llm.NewTextMessage(llm.RoleUser, "and 3+3?"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "4", resp.Message.Content.Text())
	assert.Equal(t, 7, resp.InputTokens)
	assert.Equal(t, "STOP", resp.StopReason)

	assert.Equal(t, "gemini-2.0-flash", fake.gotModel)
	require.Len(t, fake.gotContents, 3)
	assert.Equal(t, genai.RoleModel, fake.gotContents[1].Role)
	require.NotNil(t, fake.gotConfig.SystemInstruction)
	assert.Equal(t, "be brief", fake.gotConfig.SystemInstruction.Parts[0].Text)
	assert.EqualValues(t, 64, fake.gotConfig.MaxOutputTokens)
}

func TestGenerateResponse_Error(t *testing.T) {
	p := &Provider{models: &fakeModels{err: errors.New("quota")}}

	_, err := p.GenerateResponse(context.Background(), &domainllm.GenerateRequest{
		Model:    "gemini-2.0-flash",
		Messages: []llm.ChatMessage{llm.NewTextMessage(llm.RoleUser, "hi")},
	})
	assert.Error(t, err)
}

func TestExtractText_Empty(t *testing.T) {
	assert.Empty(t, extractText(nil))
	assert.Empty(t, extractText(&genai.GenerateContentResponse{}))
}
