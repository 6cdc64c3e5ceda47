package tools

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"genius/internal/domain"
)

//go:embed config/*.yaml
var configFiles embed.FS

const toolsFile = "config/tools.yaml"

// Registry holds the generation tools loaded from the embedded YAML.
// It is immutable once built.
type Registry struct {
	tools []Tool
	byID  map[string]int
}

// ModelOverride replaces the YAML model of one tool. An empty Model keeps
// the YAML value.
type ModelOverride struct {
	ToolID string
	Model  string
}

// NewRegistry creates a registry from the embedded tool definitions
func NewRegistry(overrides ...ModelOverride) (*Registry, error) {
	data, err := configFiles.ReadFile(toolsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", toolsFile, err)
	}
	return NewRegistryFromYAML(data, overrides...)
}

// NewRegistryFromYAML parses tool definitions from raw YAML and applies the
// model overrides. Overriding an unknown tool is an error.
func NewRegistryFromYAML(data []byte, overrides ...ModelOverride) (*Registry, error) {
	var file toolFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tools: %w", err)
	}

	r := &Registry{byID: make(map[string]int)}
	for _, tool := range file.Tools {
		r.byID[tool.ID] = len(r.tools)
		r.tools = append(r.tools, tool)
	}

	for _, o := range overrides {
		if o.Model == "" {
			continue
		}
		i, ok := r.byID[o.ToolID]
		if !ok {
			return nil, fmt.Errorf("model override for unknown tool %s", o.ToolID)
		}
		r.tools[i].Model = o.Model
	}

	for _, tool := range r.tools {
		if tool.Model == "" {
			return nil, fmt.Errorf("tool %s has no model", tool.ID)
		}
	}
	return r, nil
}

// Get returns the tool with the given ID, or domain.ErrNotFound
func (r *Registry) Get(id string) (*Tool, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("tool %s: %w", id, domain.ErrNotFound)
	}
	tool := r.tools[i]
	return &tool, nil
}

// List returns all tools, ordered as defined in YAML
func (r *Registry) List() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}
