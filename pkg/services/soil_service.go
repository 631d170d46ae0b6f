package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	config "farm-ai-api/configs"

	"github.com/sirupsen/logrus"
)

// SoilService looks up soil properties from the iSDAsoil API.
type SoilService struct {
	client  *http.Client
	apiKey  string
	baseURL string
	logger  logrus.FieldLogger
}

// NewSoilService creates a soil data service
func NewSoilService(cfg *config.ISDAConfig, logger logrus.FieldLogger) *SoilService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SoilService{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		logger:  logger,
	}
}

// FetchSoilProperties returns the raw soil property JSON for a coordinate, compacted.
func (ss *SoilService) FetchSoilProperties(ctx context.Context, lat, lon float64) (string, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("key", ss.apiKey)
	endpoint := fmt.Sprintf("%s/v1/soilproperty?%s", ss.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create soil request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := ss.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch soil data: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read soil response body: %w", err)
	}

	ss.logger.WithFields(logrus.Fields{
		"lat":     lat,
		"lon":     lon,
		"status":  resp.StatusCode,
		"latency": time.Since(start).String(),
	}).Debug("soil property lookup")

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("soil API returned unexpected status code: %d", resp.StatusCode)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return "", fmt.Errorf("failed to parse soil JSON: %w", err)
	}
	return compact.String(), nil
}
