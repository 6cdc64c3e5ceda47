package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptForm(t *testing.T) {
	assert.NoError(t, PromptForm{Prompt: "How do I calculate the radius of a circle?"}.Validate())
	assert.NoError(t, PromptForm{Prompt: "  padded  "}.Validate())

	err := PromptForm{Prompt: "   "}.Validate()
	assert.EqualError(t, err, "prompt: cannot be blank.")

	f := PromptForm{Prompt: "x"}
	f.Reset()
	assert.Empty(t, f.Prompt)
}
