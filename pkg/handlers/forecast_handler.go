package handlers

import (
	"fmt"
	"net/http"

	"farm-ai-api/pkg/models"
	"farm-ai-api/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ForecastHandler serves the time-series forecast routes.
type ForecastHandler struct {
	assistant *services.AssistantService
	logger    logrus.FieldLogger
}

// NewForecastHandler creates a forecast handler.
func NewForecastHandler(assistant *services.AssistantService, logger logrus.FieldLogger) *ForecastHandler {
	return &ForecastHandler{
		assistant: assistant,
		logger:    logger,
	}
}

// Forecast forecasts CSV text posted as JSON.
func (h *ForecastHandler) Forecast(c *gin.Context) {
	var req models.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, invalidBody(err))
		return
	}

	resp, err := h.assistant.ForecastCSV(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Upload forecasts a .csv or .xlsx file sent as multipart field "file".
// An optional "prompt" form field replaces the default explanation request.
func (h *ForecastHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, h.logger, &services.ValidationError{Message: "No file provided"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, h.logger, fmt.Errorf("failed to open uploaded file: %w", err))
		return
	}
	defer file.Close()

	observations, err := services.ParseObservationsFile(fileHeader.Filename, file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"file":         fileHeader.Filename,
		"size":         fileHeader.Size,
		"observations": len(observations),
	}).Info("forecast file received")

	resp, err := h.assistant.Forecast(c.Request.Context(), observations, c.PostForm("prompt"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
