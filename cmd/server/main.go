package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "farm-ai-api/configs"
	"farm-ai-api/internal/server"
	"farm-ai-api/pkg/logging"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var (
	port    string
	envFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:           "farm-ai-api",
	Short:         "Farm AI gateway: watsonx prompts, soil lookups and forecasts over HTTP",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServer,
}

func init() {
	rootCmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides PORT)")
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "Environment file to load before reading config")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging and gin debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	envErr := godotenv.Load(envFile)

	cfg := config.LoadConfig()
	if port != "" {
		cfg.Port = port
	}

	logger := logging.InitLogger(logging.ParseLevel(cfg.LogLevel, debug), cfg.IsProduction())
	if envErr != nil {
		logger.WithField("file", envFile).Warn(".env file not found or could not be loaded")
	}
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	deps, watsonxService, err := server.Build(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server.RegisterTemplate(ctx, cfg, watsonxService, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serve(ctx, srv, logger)
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server, logger logrus.FieldLogger) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.WithField("addr", srv.Addr).Info("starting farm-ai-api server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
