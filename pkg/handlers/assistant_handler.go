package handlers

import (
	"net/http"

	"farm-ai-api/pkg/models"
	"farm-ai-api/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AssistantHandler serves the prompt-to-completion routes.
type AssistantHandler struct {
	assistant *services.AssistantService
	logger    logrus.FieldLogger
}

// NewAssistantHandler creates the handler for every assistant route.
func NewAssistantHandler(assistant *services.AssistantService, logger logrus.FieldLogger) *AssistantHandler {
	return &AssistantHandler{
		assistant: assistant,
		logger:    logger,
	}
}

// Handle returns the gin handler for one route variant.
func (h *AssistantHandler) Handle(route services.Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.PromptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, h.logger, invalidBody(err))
			return
		}

		text, err := h.assistant.Complete(c.Request.Context(), route, req)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}

		c.JSON(http.StatusOK, models.GenerationResponse{Response: text})
	}
}
