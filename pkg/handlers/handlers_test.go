package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	config "farm-ai-api/configs"
	"farm-ai-api/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestPreflight(t *testing.T) {
	router := newTestEngine()
	router.OPTIONS("/twitter_ai", Preflight)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/twitter_ai", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"OK"}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "POST", w.Header().Get("Access-Control-Allow-Methods"))
}

func TestHello(t *testing.T) {
	router := newTestEngine()
	router.GET("/hello", Hello)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello", w.Body.String())
}

func TestRespondError(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"validation", &services.ValidationError{Message: "No prompt provided"}, http.StatusBadRequest, `{"error":"No prompt provided"}`},
		{"schema", &services.SchemaError{Missing: []string{"ds"}}, http.StatusBadRequest, `{"error":"missing required columns: ds"}`},
		{"upstream", &services.UpstreamError{Op: "inference", Err: errors.New("timeout")}, http.StatusInternalServerError, `{"error":"timeout"}`},
		{"plain", errors.New("boom"), http.StatusInternalServerError, `{"error":"boom"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			router := newTestEngine()
			router.GET("/fail", func(c *gin.Context) { respondError(c, logger, tc.err) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.JSONEq(t, tc.wantBody, w.Body.String())
			assert.Len(t, hook.AllEntries(), 1)
		})
	}
}

func TestHealthCheckMaintenance(t *testing.T) {
	logger, _ := test.NewNullLogger()
	maintenance := &Maintenance{}
	admin := NewAdminHandler(&config.Config{AdminUsername: "admin", AdminPassword: "pw"}, maintenance, logger)

	router := newTestEngine()
	router.GET("/health", HealthCheck(maintenance))
	router.POST("/admin/maintenance/start", admin.StartMaintenance)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/admin/maintenance/start", strings.NewReader(`{"username":"admin","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, maintenance.Enabled())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdminRequiresConfiguredPassword(t *testing.T) {
	logger, _ := test.NewNullLogger()
	maintenance := &Maintenance{}
	admin := NewAdminHandler(&config.Config{AdminUsername: "admin"}, maintenance, logger)

	router := newTestEngine()
	router.POST("/admin/maintenance/start", admin.StartMaintenance)

	req := httptest.NewRequest(http.MethodPost, "/admin/maintenance/start", strings.NewReader(`{"username":"admin","password":"anything"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, maintenance.Enabled())
}

func TestGetLogsPeriods(t *testing.T) {
	handler := NewMonitoringHandler(services.NewMonitoringService(nil))
	router := newTestEngine()
	router.GET("/monitoring/logs", handler.GetLogs)

	for query, wantBuckets := range map[string]int{"period=1h": 1, "period=7d": 168, "": 24, "period=bogus": 24} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/monitoring/logs?"+query, nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, wantBuckets, strings.Count(w.Body.String(), `"requests":`), query)
	}
}
