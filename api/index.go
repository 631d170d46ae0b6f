// Package handler is the Vercel serverless entry point.
package handler

import (
	"net/http"
	"sync"

	config "farm-ai-api/configs"
	"farm-ai-api/internal/server"
	"farm-ai-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

var (
	app     http.Handler
	initErr error
	once    sync.Once
)

// setupApp builds the router once per function instance.
// Environment variables come from the Vercel project settings, so no .env is read here.
func setupApp() (http.Handler, error) {
	once.Do(func() {
		cfg := config.LoadConfig()
		logger := logging.InitLogger(logging.ParseLevel(cfg.LogLevel, false), true)
		gin.SetMode(gin.ReleaseMode)

		deps, _, err := server.Build(cfg, logger)
		if err != nil {
			logger.WithError(err).Error("failed to initialise application")
			initErr = err
			return
		}
		app = server.NewRouter(deps)
	})
	return app, initErr
}

// Handler serves every request routed to the function.
func Handler(w http.ResponseWriter, r *http.Request) {
	h, err := setupApp()
	if err != nil {
		http.Error(w, `{"error":"service unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	h.ServeHTTP(w, r)
}
