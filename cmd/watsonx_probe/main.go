// Command watsonx_probe sends one prompt to watsonx.ai and prints the generated text.
// HTTPS_PROXY is honoured by the default transport.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	config "farm-ai-api/configs"
	"farm-ai-api/pkg/logging"
	"farm-ai-api/pkg/services"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	var prompt string

	cmd := &cobra.Command{
		Use:   "watsonx_probe",
		Short: "Smoke-test watsonx.ai text generation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil {
				return fmt.Errorf(".env file not found or could not be loaded: %w", err)
			}
			cfg := config.LoadConfig()
			logger := logging.InitLogger(logrus.DebugLevel, false)

			if cfg.WatsonxAPIKey == "" || cfg.WatsonxProjectID == "" {
				return fmt.Errorf("WATSONX_API_KEY and WATSONX_PROJECT_ID must be set")
			}

			logger.WithFields(logrus.Fields{
				"url":   cfg.WatsonxURL,
				"model": cfg.WatsonxModelID,
			}).Info("sending probe prompt")

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			start := time.Now()
			text, err := services.NewWatsonxService(cfg, logger).GenerateText(ctx, prompt)
			if err != nil {
				return err
			}
			logger.WithField("latency", time.Since(start).String()).Info("probe succeeded")
			fmt.Println(text)
			return nil
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "Hello!", "Prompt to send")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
