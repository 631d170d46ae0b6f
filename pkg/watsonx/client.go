// Package watsonx is a REST client for the IBM watsonx.ai text generation and prompt registry APIs.
package watsonx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	iamGrantType   = "urn:ibm:params:oauth:grant-type:apikey"
	tokenRefreshIn = 60 * time.Second
)

// Client manages requests to watsonx.ai. It is safe for concurrent use; the only mutable
// state is the cached IAM bearer token.
type Client struct {
	baseURL    string
	iamURL     string
	apiKey     string
	projectID  string
	apiVersion string
	httpClient *http.Client
	logger     logrus.FieldLogger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
	now         func() time.Time
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	IAMURL     string
	APIKey     string
	ProjectID  string
	APIVersion string
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

// NewClient creates a new watsonx.ai client.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	apiVersion := opts.APIVersion
	if apiVersion == "" {
		apiVersion = "2023-05-29"
	}

	return &Client{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		iamURL:     strings.TrimSuffix(opts.IAMURL, "/"),
		apiKey:     opts.APIKey,
		projectID:  opts.ProjectID,
		apiVersion: apiVersion,
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

// --- data structures ---

// GenerationParams are the decoding parameters of a text generation call.
type GenerationParams struct {
	DecodingMethod string   `json:"decoding_method,omitempty"`
	MinNewTokens   int      `json:"min_new_tokens,omitempty"`
	MaxNewTokens   int      `json:"max_new_tokens,omitempty"`
	StopSequences  []string `json:"stop_sequences,omitempty"`
}

// GenerationRequest text generation request
type GenerationRequest struct {
	ModelID    string           `json:"model_id"`
	Input      string           `json:"input"`
	ProjectID  string           `json:"project_id"`
	Parameters GenerationParams `json:"parameters"`
}

// GenerationResult is one generated candidate.
type GenerationResult struct {
	GeneratedText       string `json:"generated_text"`
	GeneratedTokenCount int    `json:"generated_token_count"`
	InputTokenCount     int    `json:"input_token_count"`
	StopReason          string `json:"stop_reason"`
}

// GenerationResponse text generation response
type GenerationResponse struct {
	ModelID   string             `json:"model_id"`
	CreatedAt string             `json:"created_at"`
	Results   []GenerationResult `json:"results"`
}

// PromptTemplate is a structured prompt stored in the prompt registry.
type PromptTemplate struct {
	Name            string                    `json:"name"`
	Description     string                    `json:"description,omitempty"`
	TaskIDs         []string                  `json:"task_ids,omitempty"`
	ProjectID       string                    `json:"project_id"`
	InputMode       string                    `json:"input_mode"`
	Prompt          PromptTemplateBody        `json:"prompt"`
	PromptVariables map[string]map[string]any `json:"prompt_variables,omitempty"`
}

// PromptTemplateBody holds the model binding and the structured prompt data.
type PromptTemplateBody struct {
	Input           [][]string         `json:"input"`
	ModelID         string             `json:"model_id"`
	ModelParameters map[string]any     `json:"model_parameters,omitempty"`
	Data            PromptTemplateData `json:"data"`
}

// PromptTemplateData is the freeform/structured section of a prompt template.
type PromptTemplateData struct {
	Instruction  string     `json:"instruction,omitempty"`
	InputPrefix  string     `json:"input_prefix,omitempty"`
	OutputPrefix string     `json:"output_prefix,omitempty"`
	Examples     [][]string `json:"examples,omitempty"`
}

// StoredPromptTemplate is the registry's answer to a store request.
type StoredPromptTemplate struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CreatedAt  int64  `json:"created_at"`
	IsTemplate bool   `json:"is_template"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	Expiration  int64  `json:"expiration"`
}

// ErrorResponse is the watsonx error envelope.
type ErrorResponse struct {
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
	Trace      string `json:"trace"`
	StatusCode int    `json:"status_code"`
}

// --- methods ---

// GenerateText runs a synchronous text generation and returns the first result's text.
func (c *Client) GenerateText(ctx context.Context, modelID, prompt string, params GenerationParams) (string, error) {
	endpoint := fmt.Sprintf("%s/ml/v1/text/generation?version=%s", c.baseURL, url.QueryEscape(c.apiVersion))

	request := GenerationRequest{
		ModelID:    modelID,
		Input:      prompt,
		ProjectID:  c.projectID,
		Parameters: params,
	}

	var response GenerationResponse
	if err := c.doJSON(ctx, http.MethodPost, endpoint, request, &response); err != nil {
		return "", err
	}
	if len(response.Results) == 0 {
		return "", fmt.Errorf("watsonx returned no generation results")
	}

	result := response.Results[0]
	c.logger.WithFields(logrus.Fields{
		"model":         modelID,
		"input_tokens":  result.InputTokenCount,
		"output_tokens": result.GeneratedTokenCount,
		"stop_reason":   result.StopReason,
	}).Debug("text generation completed")

	return result.GeneratedText, nil
}

// StorePromptTemplate stores a prompt template in the project's prompt registry.
func (c *Client) StorePromptTemplate(ctx context.Context, template PromptTemplate) (*StoredPromptTemplate, error) {
	endpoint := fmt.Sprintf("%s/ml/v1/prompts?version=%s", c.baseURL, url.QueryEscape(c.apiVersion))
	if template.ProjectID == "" {
		template.ProjectID = c.projectID
	}
	if template.InputMode == "" {
		template.InputMode = "structured"
	}

	var stored StoredPromptTemplate
	if err := c.doJSON(ctx, http.MethodPost, endpoint, template, &stored); err != nil {
		return nil, fmt.Errorf("failed to store prompt template: %w", err)
	}
	stored.IsTemplate = len(template.PromptVariables) > 0
	return &stored, nil
}

// DeletePromptTemplate removes a stored prompt template.
func (c *Client) DeletePromptTemplate(ctx context.Context, id string) error {
	endpoint := fmt.Sprintf("%s/ml/v1/prompts/%s?version=%s&project_id=%s",
		c.baseURL, url.PathEscape(id), url.QueryEscape(c.apiVersion), url.QueryEscape(c.projectID))
	if err := c.doJSON(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("failed to delete prompt template %s: %w", id, err)
	}
	return nil
}

// bearerToken returns a cached IAM token, exchanging the API key when it is missing or about to expire.
func (c *Client) bearerToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Add(tokenRefreshIn).Before(c.tokenExpiry) {
		return c.token, nil
	}
	if c.apiKey == "" {
		return "", fmt.Errorf("watsonx API key is not configured")
	}

	form := url.Values{}
	form.Set("grant_type", iamGrantType)
	form.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.iamURL+"/identity/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create IAM token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("IAM token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read IAM token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("IAM token request failed (status: %d): %s", resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("failed to parse IAM token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("IAM token response did not contain an access token")
	}

	c.token = token.AccessToken
	switch {
	case token.Expiration > 0:
		c.tokenExpiry = time.Unix(token.Expiration, 0)
	case token.ExpiresIn > 0:
		c.tokenExpiry = c.now().Add(time.Duration(token.ExpiresIn) * time.Second)
	default:
		c.tokenExpiry = c.now().Add(time.Hour)
	}
	c.logger.WithField("expires_at", c.tokenExpiry.Format(time.RFC3339)).Debug("refreshed IAM token")

	return c.token, nil
}

// doJSON performs an authenticated JSON request and decodes the response into responseData.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, requestData, responseData any) error {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if requestData != nil {
		requestBody, err := json.Marshal(requestData)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(requestBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("watsonx request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read watsonx response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errorResp ErrorResponse
		if err := json.Unmarshal(respBody, &errorResp); err == nil && len(errorResp.Errors) > 0 {
			return fmt.Errorf("watsonx API error (status: %d): %s", resp.StatusCode, errorResp.Errors[0].Message)
		}
		return fmt.Errorf("watsonx API error (status: %d): %s", resp.StatusCode, string(respBody))
	}

	if responseData == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, responseData); err != nil {
		return fmt.Errorf("failed to parse watsonx response: %w", err)
	}
	return nil
}
