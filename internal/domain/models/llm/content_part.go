package llm

import (
	"encoding/json"
)

// Part types defined by the provider. Only text is rendered; the others are
// carried through unchanged.
const (
	PartTypeText       = "text"
	PartTypeImageURL   = "image_url"
	PartTypeInputAudio = "input_audio"
	PartTypeFile       = "file"
)

// ContentPart is one typed element of structured message content.
type ContentPart struct {
	Type string
	Text string

	// raw keeps the original JSON of the part so non-text kinds survive a round trip.
	raw json.RawMessage
}

// TextPart creates a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: PartTypeText, Text: text}
}

// Raw returns the original JSON of the part, if it was decoded from JSON.
func (p ContentPart) Raw() json.RawMessage { return p.raw }

type contentPartWire struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (p ContentPart) MarshalJSON() ([]byte, error) {
	if p.Type != PartTypeText && len(p.raw) > 0 {
		return p.raw, nil
	}
	return json.Marshal(contentPartWire{Type: p.Type, Text: p.Text})
}

// UnmarshalJSON implements json.Unmarshaler
func (p *ContentPart) UnmarshalJSON(data []byte) error {
	var wire contentPartWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	p.Type = wire.Type
	p.Text = wire.Text
	p.raw = append(json.RawMessage(nil), data...)
	return nil
}

// ImageURL returns the URL of an image_url part, or "" for other kinds.
func (p ContentPart) ImageURL() string {
	if p.Type != PartTypeImageURL || len(p.raw) == 0 {
		return ""
	}
	var wire struct {
		ImageURL struct {
			URL string `json:"url"`
		} `json:"image_url"`
	}
	if err := json.Unmarshal(p.raw, &wire); err != nil {
		return ""
	}
	return wire.ImageURL.URL
}
