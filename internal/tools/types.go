package tools

import "gopkg.in/yaml.v3"

// Tool IDs served by the completion routes.
const (
	ToolConversation = "conversation"
	ToolCode         = "code"
)

// Tool is one generation route: a fixed model plus an optional system instruction.
type Tool struct {
	// Tool identifier (set during YAML unmarshaling)
	ID string `yaml:"-" json:"id"`

	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description"`
	Placeholder string `yaml:"placeholder" json:"placeholder,omitempty"`

	// Model string, "provider/model" or inferred from the prefix
	Model string `yaml:"model" json:"model"`

	// MaxTokens caps replies; 0 leaves it to the provider
	MaxTokens int `yaml:"max_tokens" json:"-"`

	// SystemPrompt is prepended as a system message when non-empty
	SystemPrompt string `yaml:"system_prompt" json:"-"`
}

// toolFile is the on-disk layout of config/tools.yaml.
type toolFile struct {
	Tools []Tool
}

// UnmarshalYAML keeps tools in file order and stamps each with its key.
func (f *toolFile) UnmarshalYAML(node *yaml.Node) error {
	var m struct {
		Tools map[string]Tool `yaml:"tools"`
	}
	if err := node.Decode(&m); err != nil {
		return err
	}

	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value != "tools" {
			continue
		}
		toolsNode := node.Content[i+1]
		for j := 0; j < len(toolsNode.Content); j += 2 {
			id := toolsNode.Content[j].Value
			if tool, ok := m.Tools[id]; ok {
				tool.ID = id
				f.Tools = append(f.Tools, tool)
			}
		}
		break
	}

	return nil
}
