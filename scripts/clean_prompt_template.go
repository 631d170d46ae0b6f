//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	config "farm-ai-api/configs"
	"farm-ai-api/pkg/logging"
	"farm-ai-api/pkg/services"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Usage: go run scripts/clean_prompt_template.go <prompt-id>...
func main() {
	logger := logging.InitLogger(logrus.InfoLevel, false)

	ids := os.Args[1:]
	if len(ids) == 0 {
		logger.Fatal("usage: clean_prompt_template <prompt-id>...")
	}

	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			logger.WithError(err).Warn(".env file not found")
		}
	}
	cfg := config.LoadConfig()
	client := services.NewWatsonxService(cfg, logger).Client()

	logger.WithField("project_id", cfg.WatsonxProjectID).Infof("deleting %d prompt template(s)", len(ids))
	for _, id := range ids {
		logger.Infof("  - %s", id)
	}

	fmt.Print("\nDelete these prompt templates? (yes/no): ")
	var response string
	fmt.Scanln(&response)
	if strings.ToLower(strings.TrimSpace(response)) != "yes" {
		logger.Info("cancelled")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	failed := 0
	for _, id := range ids {
		if err := client.DeletePromptTemplate(ctx, id); err != nil {
			logger.WithError(err).WithField("id", id).Error("delete failed")
			failed++
			continue
		}
		logger.WithField("id", id).Info("deleted")
	}

	logger.WithFields(logrus.Fields{
		"deleted": len(ids) - failed,
		"failed":  failed,
	}).Info("cleanup finished")
	if failed > 0 {
		os.Exit(1)
	}
}
