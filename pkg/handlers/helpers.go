package handlers

import (
	"net/http"

	"farm-ai-api/pkg/models"
	"farm-ai-api/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError maps err onto the uniform error envelope.
// Client errors answer 400, everything else 500 with the message unchanged.
func respondError(c *gin.Context, logger logrus.FieldLogger, err error) {
	status := http.StatusInternalServerError
	if services.IsClientError(err) {
		status = http.StatusBadRequest
	}

	entry := logger.WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"path":       c.Request.URL.Path,
		"status":     status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("invalid request")
	}

	c.JSON(status, models.ErrorResponse{Error: err.Error()})
}

// Preflight answers a CORS preflight request.
func Preflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Header("Access-Control-Allow-Methods", "POST")
	c.JSON(http.StatusOK, gin.H{"message": "OK"})
}

// Hello is the liveness greeting.
func Hello(c *gin.Context) {
	c.String(http.StatusOK, "Hello")
}

func invalidBody(err error) error {
	return &services.ValidationError{Message: "Invalid JSON body: " + err.Error()}
}
