package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"farm-ai-api/pkg/models"

	"github.com/sirupsen/logrus"
)

// forecastSummaryPoints is how many leading forecast points go into the explanation prompt.
const forecastSummaryPoints = 5

// TextGenerator produces a completion for a fully assembled prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// SoilFetcher looks up soil properties for a coordinate.
type SoilFetcher interface {
	FetchSoilProperties(ctx context.Context, lat, lon float64) (string, error)
}

// AssistantService runs the validate, augment, assemble, infer pipeline shared by every route.
type AssistantService struct {
	generator  TextGenerator
	soil       SoilFetcher
	forecaster *ForecastService
	prompts    *PromptAssembler
	logger     logrus.FieldLogger
}

// NewAssistantService wires the pipeline. soil may be nil when no soil key is configured.
func NewAssistantService(generator TextGenerator, soil SoilFetcher, forecaster *ForecastService, prompts *PromptAssembler, logger logrus.FieldLogger) *AssistantService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AssistantService{
		generator:  generator,
		soil:       soil,
		forecaster: forecaster,
		prompts:    prompts,
		logger:     logger,
	}
}

// Complete validates req for route, augments it and returns the model's text.
func (s *AssistantService) Complete(ctx context.Context, route Route, req models.PromptRequest) (string, error) {
	if err := route.Validate(req); err != nil {
		return "", err
	}

	data, err := s.augment(ctx, route, req)
	if err != nil {
		return "", err
	}

	prompt, err := s.prompts.Assemble(route.Name, PromptData{
		Prompt: strings.TrimSpace(req.Prompt),
		Data:   data,
	})
	if err != nil {
		return "", upstream("assemble", err)
	}

	return s.generate(ctx, route.Name, prompt)
}

// ForecastCSV parses CSV text, forecasts it and asks the model to explain the result.
func (s *AssistantService) ForecastCSV(ctx context.Context, req models.ForecastRequest) (*models.ForecastResponse, error) {
	if err := ForecastRoute.Validate(models.PromptRequest{Data: req.Data}); err != nil {
		return nil, err
	}

	observations, err := ParseObservationsCSV(req.Data)
	if err != nil {
		if IsClientError(err) {
			return nil, err
		}
		return nil, upstream("parse", err)
	}
	return s.Forecast(ctx, observations, req.Prompt)
}

// Forecast runs the forecaster over observations and attaches an explanation.
func (s *AssistantService) Forecast(ctx context.Context, observations []Observation, prompt string) (*models.ForecastResponse, error) {
	points, err := s.forecaster.Forecast(observations)
	if err != nil {
		return nil, upstream("forecast", err)
	}

	explanation, err := s.ExplainForecast(ctx, prompt, points)
	if err != nil {
		return nil, err
	}

	return &models.ForecastResponse{
		Forecast:      points,
		AIExplanation: explanation,
	}, nil
}

// ExplainForecast asks the model to interpret the leading points of a forecast.
func (s *AssistantService) ExplainForecast(ctx context.Context, prompt string, points []models.ForecastPoint) (string, error) {
	summary, err := summarizeForecast(points, forecastSummaryPoints)
	if err != nil {
		return "", upstream("forecast", err)
	}

	full, err := s.prompts.Assemble(ForecastRoute.Name, PromptData{
		Prompt: strings.TrimSpace(prompt),
		Data:   summary,
	})
	if err != nil {
		return "", upstream("assemble", err)
	}
	return s.generate(ctx, ForecastRoute.Name, full)
}

func (s *AssistantService) augment(ctx context.Context, route Route, req models.PromptRequest) (string, error) {
	switch route.Augment {
	case AugmentData:
		return strings.TrimSpace(req.Field(route.DataField)), nil
	case AugmentSoil:
		if s.soil == nil {
			return "", upstream("soil", fmt.Errorf("soil data service is not configured"))
		}
		soil, err := s.soil.FetchSoilProperties(ctx, *req.Lat, *req.Lon)
		if err != nil {
			return "", upstream("soil", err)
		}
		return soil, nil
	default:
		return "", nil
	}
}

func (s *AssistantService) generate(ctx context.Context, route, prompt string) (string, error) {
	start := time.Now()
	text, err := s.generator.GenerateText(ctx, prompt)

	entry := s.logger.WithFields(logrus.Fields{
		"route":         route,
		"role":          s.prompts.Role(route),
		"prompt_length": len(prompt),
		"latency_ms":    time.Since(start).Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Error("inference failed")
		return "", upstream("inference", err)
	}
	entry.Info("inference completed")
	return text, nil
}

// summarizeForecast renders the first n points as indented JSON.
func summarizeForecast(points []models.ForecastPoint, n int) (string, error) {
	if len(points) > n {
		points = points[:n]
	}
	out, err := json.MarshalIndent(points, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to summarize forecast: %w", err)
	}
	return string(out), nil
}
