//go:build ignore

package main

import (
	"context"
	"time"

	config "farm-ai-api/configs"
	"farm-ai-api/pkg/logging"
	"farm-ai-api/pkg/services"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logging.InitLogger(logrus.InfoLevel, false)

	if err := godotenv.Load(); err != nil {
		logger.WithError(err).Warn(".env file not found")
	}
	cfg := config.LoadConfig()

	catalog, err := config.LoadPromptCatalog(cfg.PromptsFile)
	if err != nil {
		logger.WithError(err).Fatal("failed to load prompt catalogue")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client := services.NewWatsonxService(cfg, logger).Client()
	stored, err := services.RegisterPromptTemplate(ctx, client, catalog.TemplateRegistration)
	if err != nil {
		logger.WithError(err).Fatal("prompt template registration failed")
	}

	logger.WithFields(logrus.Fields{
		"id":          stored.ID,
		"name":        stored.Name,
		"is_template": stored.IsTemplate,
		"project_id":  cfg.WatsonxProjectID,
	}).Info("prompt template registered")
}
