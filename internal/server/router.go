// Package server assembles the HTTP surface shared by the standalone server and the serverless entry.
package server

import (
	"crypto/subtle"
	"net/http"

	config "farm-ai-api/configs"
	"farm-ai-api/pkg/handlers"
	"farm-ai-api/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxUploadBytes = 10 << 20

// Dependencies are the long-lived objects the router serves from.
type Dependencies struct {
	Config     *config.Config
	Logger     logrus.FieldLogger
	Assistant  *services.AssistantService
	Monitoring *services.MonitoringService
}

// NewRouter builds the gin engine with every route, CORS and the optional API key check.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxUploadBytes
	r.Use(gin.Recovery())
	r.Use(deps.Monitoring.LoggingMiddleware())
	r.Use(corsMiddleware())

	maintenance := &handlers.Maintenance{}
	assistantHandler := handlers.NewAssistantHandler(deps.Assistant, deps.Logger)
	forecastHandler := handlers.NewForecastHandler(deps.Assistant, deps.Logger)
	adminHandler := handlers.NewAdminHandler(deps.Config, maintenance, deps.Logger)
	monitoringHandler := handlers.NewMonitoringHandler(deps.Monitoring)

	r.GET("/health", handlers.HealthCheck(maintenance))
	r.GET("/hello", handlers.Hello)

	api := r.Group("/")
	api.Use(authMiddleware(deps.Config.APIKey))
	for _, route := range services.AssistantRoutes {
		api.POST(route.Path, assistantHandler.Handle(route))
		r.OPTIONS(route.Path, handlers.Preflight)
	}
	api.POST(services.ForecastRoute.Path, forecastHandler.Forecast)
	api.POST(services.ForecastRoute.Path+"/upload", forecastHandler.Upload)
	r.OPTIONS(services.ForecastRoute.Path, handlers.Preflight)
	r.OPTIONS(services.ForecastRoute.Path+"/upload", handlers.Preflight)

	admin := api.Group("/admin")
	{
		admin.GET("/health-status", adminHandler.GetHealthStatus)
		admin.POST("/maintenance/start", adminHandler.StartMaintenance)
		admin.POST("/maintenance/stop", adminHandler.StopMaintenance)
	}

	monitoring := api.Group("/monitoring")
	{
		monitoring.GET("/logs", monitoringHandler.GetLogs)
	}

	return r
}

// corsMiddleware adds CORS headers to actual requests. Preflights fall through
// to handlers.Preflight so every OPTIONS answer has the same body.
func corsMiddleware() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Content-Type", "X-API-KEY"}
	cfg.ExposeHeaders = []string{services.RequestIDHeader}
	cfg.OptionsResponseStatusCode = http.StatusOK
	handle := cors.New(cfg)

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		handle(c)
	}
}

// authMiddleware requires X-API-KEY to match apiKey. An empty apiKey disables the check.
func authMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		provided := c.GetHeader("X-API-KEY")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
