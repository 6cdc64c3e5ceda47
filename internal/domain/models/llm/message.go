package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage is a role-tagged unit of conversation content exchanged with the provider.
// Wire shape: {"role": "...", "content": "..." | [{"type": "text", "text": "..."}, ...]}
type ChatMessage struct {
	Role    Role           `json:"role"`
	Content MessageContent `json:"content"`
}

// NewTextMessage creates a message with plain string content.
func NewTextMessage(role Role, text string) ChatMessage {
	return ChatMessage{Role: role, Content: TextContent(text)}
}

// Validate implements validation.Validatable
func (m ChatMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Role,
			validation.Required,
			validation.In(RoleUser, RoleAssistant, RoleSystem).Error("must be one of user, assistant, system"),
		),
	)
}

// MessageContent is either a plain string or an ordered list of typed parts.
// The zero value is JSON null (e.g. an assistant message that only carried a refusal).
type MessageContent struct {
	text       string
	parts      []ContentPart
	structured bool
	present    bool
}

// TextContent returns string content.
func TextContent(text string) MessageContent {
	return MessageContent{text: text, present: true}
}

// PartsContent returns structured content made of parts.
func PartsContent(parts ...ContentPart) MessageContent {
	return MessageContent{parts: parts, structured: true, present: true}
}

// IsNull reports whether the content was absent or JSON null.
func (c MessageContent) IsNull() bool { return !c.present }

// IsStructured reports whether the content is a list of parts.
func (c MessageContent) IsStructured() bool { return c.structured }

// Text returns the string form. Empty for structured content.
func (c MessageContent) Text() string { return c.text }

// Parts returns the parts of structured content. Nil for string content.
func (c MessageContent) Parts() []ContentPart { return c.parts }

// PlainText flattens the content to text: the string itself, or the text
// parts joined by newlines. Non-text parts contribute nothing.
func (c MessageContent) PlainText() string {
	if !c.structured {
		return c.text
	}
	texts := make([]string, 0, len(c.parts))
	for _, p := range c.parts {
		if p.Type == PartTypeText {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// MarshalJSON implements json.Marshaler.
func (c MessageContent) MarshalJSON() ([]byte, error) {
	switch {
	case !c.present:
		return []byte("null"), nil
	case c.structured:
		parts := c.parts
		if parts == nil {
			parts = []ContentPart{}
		}
		return json.Marshal(parts)
	default:
		return json.Marshal(c.text)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *MessageContent) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*c = MessageContent{}

	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*c = TextContent(s)
		return nil
	case '[':
		var parts []ContentPart
		if err := json.Unmarshal(trimmed, &parts); err != nil {
			return err
		}
		*c = PartsContent(parts...)
		return nil
	default:
		return fmt.Errorf("content must be a string or an array of parts")
	}
}
