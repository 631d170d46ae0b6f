package services

import (
	"context"
	"testing"

	config "farm-ai-api/configs"
	"farm-ai-api/pkg/watsonx"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPromptTemplate(t *testing.T) {
	catalog, err := config.LoadPromptCatalog("")
	require.NoError(t, err)

	got := BuildPromptTemplate(catalog.TemplateRegistration)

	assert.Equal(t, "Agronomist Assistant", got.Name)
	assert.Equal(t, "structured", got.InputMode)
	assert.Equal(t, []string{"generation"}, got.TaskIDs)
	assert.Equal(t, "google/flan-t5-xxl", got.Prompt.ModelID)
	assert.Equal(t, map[string]any{"decoding_method": "sample"}, got.Prompt.ModelParameters)

	wantInput := [][]string{{"What is {object} and how does it benefit crop production?", ""}}
	if diff := cmp.Diff(wantInput, got.Prompt.Input); diff != "" {
		t.Errorf("input mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, map[string]map[string]any{"object": {}}, got.PromptVariables)
	assert.Equal(t, "Farmer", got.Prompt.Data.InputPrefix)
	assert.Equal(t, "Agronomist Assistant", got.Prompt.Data.OutputPrefix)
	require.Len(t, got.Prompt.Data.Examples, 1)
	assert.Contains(t, got.Prompt.Data.Examples[0][1], "Crop rotation")
}

func TestRegisterPromptTemplateRequiresName(t *testing.T) {
	client := watsonx.NewClient(watsonx.Options{})
	_, err := RegisterPromptTemplate(context.Background(), client, config.TemplateRegistration{})
	assert.EqualError(t, err, "prompt catalogue has no template registration")
}

func TestNewWatsonxService(t *testing.T) {
	service := NewWatsonxService(&config.Config{
		WatsonxURL:     "https://example.invalid",
		WatsonxModelID: "ibm/granite-13b-chat-v2",
	}, nil)

	assert.NotNil(t, service.Client())
	assert.Equal(t, "ibm/granite-13b-chat-v2", service.ModelID())
	assert.Equal(t, DefaultGenerationParams, service.params)
}
