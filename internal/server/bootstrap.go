package server

import (
	"context"
	"fmt"
	"time"

	config "farm-ai-api/configs"
	"farm-ai-api/pkg/services"

	"github.com/sirupsen/logrus"
)

const registrationTimeout = 30 * time.Second

// Build wires config into services and returns the router dependencies
// together with the inference service.
func Build(cfg *config.Config, logger logrus.FieldLogger) (Dependencies, *services.WatsonxService, error) {
	catalog, err := config.LoadPromptCatalog(cfg.PromptsFile)
	if err != nil {
		return Dependencies{}, nil, fmt.Errorf("failed to load prompt catalogue: %w", err)
	}

	routes := append([]services.Route{services.ForecastRoute}, services.AssistantRoutes...)
	prompts, err := services.NewPromptAssembler(catalog, routes...)
	if err != nil {
		return Dependencies{}, nil, err
	}

	isda := cfg.ISDA
	if isda == nil {
		isda = &config.ISDAConfig{}
	}

	watsonxService := services.NewWatsonxService(cfg, logger)
	soilService := services.NewSoilService(isda, logger)
	forecaster := services.NewForecastService(logger)
	assistant := services.NewAssistantService(watsonxService, soilService, forecaster, prompts, logger)

	if cfg.WatsonxAPIKey == "" {
		logger.Warn("WATSONX_API_KEY is not set; inference calls will fail")
	}
	if isda.APIKey == "" {
		logger.Warn("ISDA_API_KEY is not set; soil lookups will be rejected upstream")
	}

	return Dependencies{
		Config:     cfg,
		Logger:     logger,
		Assistant:  assistant,
		Monitoring: services.NewMonitoringService(logger),
	}, watsonxService, nil
}

// RegisterTemplate stores the catalogue's prompt template when enabled.
// Failures are logged and do not stop the server.
func RegisterTemplate(ctx context.Context, cfg *config.Config, watsonxService *services.WatsonxService, logger logrus.FieldLogger) {
	if !cfg.RegisterPromptTemplate || cfg.WatsonxAPIKey == "" {
		return
	}

	catalog, err := config.LoadPromptCatalog(cfg.PromptsFile)
	if err != nil {
		logger.WithError(err).Warn("prompt template registration skipped")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, registrationTimeout)
	defer cancel()

	stored, err := services.RegisterPromptTemplate(ctx, watsonxService.Client(), catalog.TemplateRegistration)
	if err != nil {
		logger.WithError(err).Warn("prompt template registration failed")
		return
	}
	logger.WithFields(logrus.Fields{
		"id":   stored.ID,
		"name": catalog.TemplateRegistration.Name,
	}).Info("prompt template registered")
}
