package services

import (
	"fmt"
	"strings"

	"farm-ai-api/pkg/models"
)

// Augmentation selects how a route enriches the prompt before inference.
type Augmentation int

const (
	// AugmentNone sends the caller's prompt through the route template only.
	AugmentNone Augmentation = iota
	// AugmentData interpolates a request field (CSV or descriptive text).
	AugmentData
	// AugmentSoil interpolates soil properties looked up for lat/lon.
	AugmentSoil
	// AugmentForecast interpolates a forecast summary.
	AugmentForecast
)

// Route is one assistant endpoint variant.
type Route struct {
	Name             string
	Path             string
	Required         []string
	DataField        string
	Augment          Augmentation
	RequiresLocation bool
}

// AssistantRoutes are the prompt-to-completion endpoints.
var AssistantRoutes = []Route{
	{Name: "test", Path: "/test_ai", Required: []string{"prompt"}},
	{Name: "crop_planning", Path: "/my_farm/crop_planning", Required: []string{"prompt"}, DataField: "farm_data", Augment: AugmentData},
	{Name: "cash_flow_forecast", Path: "/financial_analysis/cash_flow_forecast", Required: []string{"prompt"}, DataField: "financial_data", Augment: AugmentData},
	{Name: "early_detection", Path: "/disease_analysis/early_detection", Required: []string{"prompt"}, DataField: "crop_data", Augment: AugmentData},
	{Name: "twitter", Path: "/twitter_ai", Required: []string{"prompt"}},
	{Name: "linkedin", Path: "/linkedin_ai", Required: []string{"prompt"}},
	{Name: "finance", Path: "/finance_ai", Required: []string{"prompt"}, DataField: "data", Augment: AugmentData},
	{Name: "customer", Path: "/customer_ai", Required: []string{"prompt"}, DataField: "data", Augment: AugmentData},
	{Name: "feedback", Path: "/feedback_ai", Required: []string{"prompt"}, DataField: "data", Augment: AugmentData},
	{Name: "disease", Path: "/disease_ai", Required: []string{"prompt"}, DataField: "data", Augment: AugmentData},
	{Name: "agronomist", Path: "/agronomist_ai", Required: []string{"prompt"}, Augment: AugmentSoil, RequiresLocation: true},
}

// ForecastRoute is the time-series forecast endpoint.
var ForecastRoute = Route{Name: "forecast", Path: "/forecast", Required: []string{"data"}, DataField: "data", Augment: AugmentForecast}

// Validate checks that every required field of req is present.
func (r Route) Validate(req models.PromptRequest) error {
	for _, field := range r.Required {
		if strings.TrimSpace(req.Field(field)) == "" {
			return &ValidationError{Message: missingFieldMessage(field)}
		}
	}
	if r.RequiresLocation && (req.Lat == nil || req.Lon == nil) {
		return &ValidationError{Message: "lat and lon are required"}
	}
	return nil
}

func missingFieldMessage(field string) string {
	switch field {
	case "prompt":
		return "No prompt provided"
	case "data":
		return "No CSV data provided"
	}
	return fmt.Sprintf("No %s provided", field)
}
