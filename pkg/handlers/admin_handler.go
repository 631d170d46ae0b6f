package handlers

import (
	"crypto/subtle"
	"net/http"
	"sync/atomic"

	config "farm-ai-api/configs"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Maintenance is the process-wide maintenance switch.
type Maintenance struct {
	enabled atomic.Bool
}

// Enabled reports whether maintenance mode is on.
func (m *Maintenance) Enabled() bool {
	return m.enabled.Load()
}

// AdminHandler toggles maintenance mode for operators.
type AdminHandler struct {
	username    string
	password    string
	maintenance *Maintenance
	logger      logrus.FieldLogger
}

// NewAdminHandler creates an admin handler with credentials from cfg.
func NewAdminHandler(cfg *config.Config, maintenance *Maintenance, logger logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{
		username:    cfg.AdminUsername,
		password:    cfg.AdminPassword,
		maintenance: maintenance,
		logger:      logger,
	}
}

// AdminCredentials is the body of the maintenance endpoints.
type AdminCredentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// StartMaintenance turns maintenance mode on.
func (h *AdminHandler) StartMaintenance(c *gin.Context) {
	h.setMaintenance(c, true)
}

// StopMaintenance turns maintenance mode off.
func (h *AdminHandler) StopMaintenance(c *gin.Context) {
	h.setMaintenance(c, false)
}

func (h *AdminHandler) setMaintenance(c *gin.Context, enabled bool) {
	var input AdminCredentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}
	if !h.authorized(input) {
		h.logger.WithField("username", input.Username).Warn("rejected admin credentials")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	h.maintenance.enabled.Store(enabled)
	h.logger.WithField("maintenance", enabled).Info("maintenance mode changed")

	message := "Maintenance mode stopped"
	if enabled {
		message = "Maintenance mode started"
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// authorized compares credentials in constant time. An empty admin password disables the endpoints.
func (h *AdminHandler) authorized(input AdminCredentials) bool {
	if h.password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(input.Username), []byte(h.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(input.Password), []byte(h.password)) == 1
	return userOK && passOK
}

// GetHealthStatus reports the maintenance flag.
func (h *AdminHandler) GetHealthStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"isMaintenanceMode": h.maintenance.Enabled()})
}

// HealthCheck answers load balancer probes; 503 while in maintenance.
func HealthCheck(maintenance *Maintenance) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maintenance.Enabled() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": "Server is in maintenance mode"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
