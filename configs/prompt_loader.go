package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var embeddedPrompts []byte

// RoutePrompt is the instruction template for one assistant route.
type RoutePrompt struct {
	Role     string `yaml:"role"`
	Template string `yaml:"template"`
}

// TemplateExample is one input/output pair of a registered template.
type TemplateExample struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// TemplateRegistration describes the template stored in the watsonx prompt registry.
type TemplateRegistration struct {
	Name           string            `yaml:"name"`
	ModelID        string            `yaml:"model_id"`
	DecodingMethod string            `yaml:"decoding_method"`
	Description    string            `yaml:"description"`
	TaskIDs        []string          `yaml:"task_ids"`
	InputVariables []string          `yaml:"input_variables"`
	Instruction    string            `yaml:"instruction"`
	InputPrefix    string            `yaml:"input_prefix"`
	OutputPrefix   string            `yaml:"output_prefix"`
	InputText      string            `yaml:"input_text"`
	Examples       []TemplateExample `yaml:"examples"`
}

// PromptCatalog is the parsed prompts.yaml.
type PromptCatalog struct {
	Metadata struct {
		Version     string `yaml:"version"`
		Author      string `yaml:"author"`
		LastUpdated string `yaml:"last_updated"`
	} `yaml:"metadata"`

	Routes               map[string]RoutePrompt `yaml:"routes"`
	TemplateRegistration TemplateRegistration   `yaml:"template_registration"`
}

// LoadPromptCatalog reads the prompt catalogue from path, or the embedded copy when path is empty.
func LoadPromptCatalog(path string) (*PromptCatalog, error) {
	data := embeddedPrompts
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt catalogue %s: %w", path, err)
		}
		data = raw
	}
	return ParsePromptCatalog(data)
}

// ParsePromptCatalog parses catalogue YAML.
func ParsePromptCatalog(data []byte) (*PromptCatalog, error) {
	var catalog PromptCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse prompt catalogue: %w", err)
	}
	if len(catalog.Routes) == 0 {
		return nil, fmt.Errorf("prompt catalogue defines no routes")
	}
	return &catalog, nil
}

// Route returns the prompt for a route name.
func (c *PromptCatalog) Route(name string) (RoutePrompt, bool) {
	p, ok := c.Routes[name]
	return p, ok
}
