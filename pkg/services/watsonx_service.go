package services

import (
	"context"
	"fmt"

	config "farm-ai-api/configs"
	"farm-ai-api/pkg/watsonx"

	"github.com/sirupsen/logrus"
)

// DefaultGenerationParams is the decoding configuration shared by every route.
var DefaultGenerationParams = watsonx.GenerationParams{
	DecodingMethod: "greedy",
	MinNewTokens:   1,
	MaxNewTokens:   1000,
}

// WatsonxService binds the watsonx client to one model and the fixed decoding configuration.
type WatsonxService struct {
	client  *watsonx.Client
	modelID string
	params  watsonx.GenerationParams
}

// NewWatsonxService creates the inference service from configuration.
func NewWatsonxService(cfg *config.Config, logger logrus.FieldLogger) *WatsonxService {
	client := watsonx.NewClient(watsonx.Options{
		BaseURL:    cfg.WatsonxURL,
		IAMURL:     cfg.IAMURL,
		APIKey:     cfg.WatsonxAPIKey,
		ProjectID:  cfg.WatsonxProjectID,
		APIVersion: cfg.WatsonxAPIVersion,
		Logger:     logger,
	})
	return &WatsonxService{
		client:  client,
		modelID: cfg.WatsonxModelID,
		params:  DefaultGenerationParams,
	}
}

// Client exposes the underlying REST client.
func (ws *WatsonxService) Client() *watsonx.Client {
	return ws.client
}

// ModelID is the model used for generation.
func (ws *WatsonxService) ModelID() string {
	return ws.modelID
}

// GenerateText sends prompt to the model with the fixed decoding configuration.
func (ws *WatsonxService) GenerateText(ctx context.Context, prompt string) (string, error) {
	return ws.client.GenerateText(ctx, ws.modelID, prompt, ws.params)
}

// RegisterPromptTemplate stores the catalogue's template in the watsonx prompt registry.
func RegisterPromptTemplate(ctx context.Context, client *watsonx.Client, reg config.TemplateRegistration) (*watsonx.StoredPromptTemplate, error) {
	if reg.Name == "" {
		return nil, fmt.Errorf("prompt catalogue has no template registration")
	}
	return client.StorePromptTemplate(ctx, BuildPromptTemplate(reg))
}

// BuildPromptTemplate converts the catalogue entry to the registry's wire format.
func BuildPromptTemplate(reg config.TemplateRegistration) watsonx.PromptTemplate {
	examples := make([][]string, 0, len(reg.Examples))
	for _, ex := range reg.Examples {
		examples = append(examples, []string{ex.Input, ex.Output})
	}

	variables := make(map[string]map[string]any, len(reg.InputVariables))
	for _, v := range reg.InputVariables {
		variables[v] = map[string]any{}
	}

	var modelParams map[string]any
	if reg.DecodingMethod != "" {
		modelParams = map[string]any{"decoding_method": reg.DecodingMethod}
	}

	return watsonx.PromptTemplate{
		Name:        reg.Name,
		Description: reg.Description,
		TaskIDs:     reg.TaskIDs,
		InputMode:   "structured",
		Prompt: watsonx.PromptTemplateBody{
			Input:           [][]string{{reg.InputText, ""}},
			ModelID:         reg.ModelID,
			ModelParameters: modelParams,
			Data: watsonx.PromptTemplateData{
				Instruction:  reg.Instruction,
				InputPrefix:  reg.InputPrefix,
				OutputPrefix: reg.OutputPrefix,
				Examples:     examples,
			},
		},
		PromptVariables: variables,
	}
}
