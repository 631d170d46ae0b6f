package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	config "farm-ai-api/configs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSoilProperties(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/soilproperty", r.URL.Path)
		assert.Equal(t, "-1.2921", r.URL.Query().Get("lat"))
		assert.Equal(t, "36.8219", r.URL.Query().Get("lon"))
		assert.Equal(t, "soil-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{\n  \"property\": {\n    \"ph\": [ {\"value\": 6.1} ]\n  }\n}"))
	}))
	defer server.Close()

	service := NewSoilService(&config.ISDAConfig{APIKey: "soil-key", BaseURL: server.URL}, nil)
	soil, err := service.FetchSoilProperties(context.Background(), -1.2921, 36.8219)
	require.NoError(t, err)
	assert.Equal(t, `{"property":{"ph":[{"value":6.1}]}}`, soil)
}

func TestFetchSoilPropertiesFailures(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"bad key"}`, "soil API returned unexpected status code: 401"},
		{"not json", http.StatusOK, "<html>", "failed to parse soil JSON"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			service := NewSoilService(&config.ISDAConfig{BaseURL: server.URL}, nil)
			_, err := service.FetchSoilProperties(context.Background(), 0, 0)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
