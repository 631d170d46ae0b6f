package services

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	config "farm-ai-api/configs"
)

// PromptData is what a route template can reference.
type PromptData struct {
	Prompt string
	Data   string
}

// PromptAssembler renders route templates from the prompt catalogue.
type PromptAssembler struct {
	templates map[string]*template.Template
	roles     map[string]string
}

// NewPromptAssembler parses every catalogue template and checks that each route has one.
func NewPromptAssembler(catalog *config.PromptCatalog, routes ...Route) (*PromptAssembler, error) {
	a := &PromptAssembler{
		templates: make(map[string]*template.Template, len(catalog.Routes)),
		roles:     make(map[string]string, len(catalog.Routes)),
	}
	for name, p := range catalog.Routes {
		tmpl, err := template.New(name).Option("missingkey=error").Parse(p.Template)
		if err != nil {
			return nil, fmt.Errorf("invalid template for route %s: %w", name, err)
		}
		a.templates[name] = tmpl
		a.roles[name] = p.Role
	}
	for _, r := range routes {
		if _, ok := a.templates[r.Name]; !ok {
			return nil, fmt.Errorf("prompt catalogue has no template for route %s", r.Name)
		}
	}
	return a, nil
}

// Assemble renders the route's template.
func (a *PromptAssembler) Assemble(route string, data PromptData) (string, error) {
	tmpl, ok := a.templates[route]
	if !ok {
		return "", fmt.Errorf("no prompt template for route %s", route)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt for route %s: %w", route, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Role is the role description of a route, for logs.
func (a *PromptAssembler) Role(route string) string {
	return a.roles[route]
}
