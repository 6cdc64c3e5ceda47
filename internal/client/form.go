package client

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"genius/internal/config"
)

// PromptForm is the single-field form of the conversation pages.
type PromptForm struct {
	Prompt string
}

// Validate implements validation.Validatable. Whitespace-only prompts are rejected.
func (f PromptForm) Validate() error {
	trimmed := strings.TrimSpace(f.Prompt)
	return validation.Errors{
		"prompt": validation.Validate(trimmed,
			validation.Required,
			validation.RuneLength(0, config.MaxPromptLength),
		),
	}.Filter()
}

// Reset clears the form after a successful submit.
func (f *PromptForm) Reset() {
	f.Prompt = ""
}
