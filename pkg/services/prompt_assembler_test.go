package services

import (
	"testing"

	config "farm-ai-api/configs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPromptAssemblerCoversEveryRoute(t *testing.T) {
	catalog, err := config.LoadPromptCatalog("")
	require.NoError(t, err)

	_, err = NewPromptAssembler(catalog, append(AssistantRoutes, ForecastRoute)...)
	assert.NoError(t, err)
}

func TestNewPromptAssemblerErrors(t *testing.T) {
	catalog := &config.PromptCatalog{Routes: map[string]config.RoutePrompt{
		"test": {Template: "{{.Prompt}}"},
	}}
	_, err := NewPromptAssembler(catalog, Route{Name: "twitter"})
	assert.EqualError(t, err, "prompt catalogue has no template for route twitter")

	catalog.Routes["broken"] = config.RoutePrompt{Template: "{{.Prompt"}
	_, err = NewPromptAssembler(catalog)
	assert.ErrorContains(t, err, "invalid template for route broken")
}

func TestAssemble(t *testing.T) {
	catalog := &config.PromptCatalog{Routes: map[string]config.RoutePrompt{
		"echo":     {Role: "echo", Template: "  {{.Prompt}}  "},
		"combined": {Template: "Data: {{.Data}}{{if .Prompt}}\n\n{{.Prompt}}{{end}}"},
		"unknown":  {Template: "{{.Missing}}"},
	}}
	assembler, err := NewPromptAssembler(catalog)
	require.NoError(t, err)

	out, err := assembler.Assemble("echo", PromptData{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
	assert.Equal(t, "echo", assembler.Role("echo"))

	out, err = assembler.Assemble("combined", PromptData{Data: "a,b"})
	require.NoError(t, err)
	assert.Equal(t, "Data: a,b", out)

	out, err = assembler.Assemble("combined", PromptData{Data: "a,b", Prompt: "why?"})
	require.NoError(t, err)
	assert.Equal(t, "Data: a,b\n\nwhy?", out)

	_, err = assembler.Assemble("nope", PromptData{})
	assert.EqualError(t, err, "no prompt template for route nope")

	_, err = assembler.Assemble("unknown", PromptData{})
	assert.ErrorContains(t, err, "failed to render prompt for route unknown")
}
