// Command soil_probe queries iSDAsoil for a few coordinates and prints the compacted response.
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

type probePoint struct {
	name     string
	lat, lon float64
}

var points = []probePoint{
	{"Nairobi", -1.2921, 36.8219},
	{"Kumasi", 6.6885, -1.6244},
	{"Morogoro", -6.8278, 37.6591},
}

func main() {
	var lat, lon float64

	cmd := &cobra.Command{
		Use:   "soil_probe",
		Short: "Smoke-test the iSDAsoil soil property API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()
			logger := logging.InitLogger(logrus.DebugLevel, false)

			cfg := config.GetISDAConfig()
			if cfg.APIKey == "" {
				return fmt.Errorf("ISDA_API_KEY is not set")
			}
			soil := services.NewSoilService(cfg, logger)

			targets := points
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				targets = []probePoint{{"custom", lat, lon}}
			}

			failed := 0
			for _, p := range targets {
				ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
				body, err := soil.FetchSoilProperties(ctx, p.lat, p.lon)
				cancel()

				entry := logger.WithFields(logrus.Fields{"name": p.name, "lat": p.lat, "lon": p.lon})
				if err != nil {
					entry.WithError(err).Error("soil lookup failed")
					failed++
					continue
				}
				entry.WithField("bytes", len(body)).Info("soil lookup succeeded")
				fmt.Println(body)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d soil lookups failed", failed, len(targets))
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude to query instead of the built-in points")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude to query instead of the built-in points")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
