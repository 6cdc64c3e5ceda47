package client

import "genius/internal/domain/models/llm"

// RenderContent turns message content into display blocks: string content
// is one block, structured content is one block per text part. Other part
// kinds are skipped.
func RenderContent(content llm.MessageContent) []string {
	if !content.IsStructured() {
		if content.IsNull() {
			return nil
		}
		return []string{content.Text()}
	}

	var blocks []string
	for _, part := range content.Parts() {
		if part.Type == llm.PartTypeText {
			blocks = append(blocks, part.Text)
		}
	}
	return blocks
}
