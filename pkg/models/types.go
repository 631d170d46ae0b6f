package models

// PromptRequest is the JSON body accepted by the assistant routes.
// Each route reads the subset of fields it needs.
type PromptRequest struct {
	Prompt        string   `json:"prompt"`
	Data          string   `json:"data,omitempty"`
	FarmData      string   `json:"farm_data,omitempty"`
	FinancialData string   `json:"financial_data,omitempty"`
	CropData      string   `json:"crop_data,omitempty"`
	Lat           *float64 `json:"lat,omitempty"`
	Lon           *float64 `json:"lon,omitempty"`
}

// Field returns the named text field of the request.
func (r PromptRequest) Field(name string) string {
	switch name {
	case "prompt":
		return r.Prompt
	case "data":
		return r.Data
	case "farm_data":
		return r.FarmData
	case "financial_data":
		return r.FinancialData
	case "crop_data":
		return r.CropData
	}
	return ""
}

// ForecastRequest is the body of the forecast route.
type ForecastRequest struct {
	Data   string `json:"data"`
	Prompt string `json:"prompt,omitempty"`
}

// ForecastPoint is one fitted or predicted value with its uncertainty interval.
type ForecastPoint struct {
	DS        string  `json:"ds"`
	YHat      float64 `json:"yhat"`
	YHatLower float64 `json:"yhat_lower"`
	YHatUpper float64 `json:"yhat_upper"`
}

// GenerationResponse wraps generated text.
type GenerationResponse struct {
	Response string `json:"response"`
}

// ForecastResponse is returned by the forecast routes.
type ForecastResponse struct {
	Forecast      []ForecastPoint `json:"forecast"`
	AIExplanation string          `json:"ai_explanation"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
