package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL     = "https://api.deepseek.com"
	DefaultModel       = "deepseek-chat"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 500

	// maxResponseBytes bounds how much of an upstream reply is read and logged.
	maxResponseBytes = 1 << 20

	DefaultSystemPrompt = "You are a nutrition expert assistant. Provide information about calories and nutritional content of food items. Be concise and helpful."
)

// Settings configures an upstream provider.
type Settings struct {
	APIKey       string
	BaseURL      string
	Model        string
	Temperature  *float64 // nil selects DefaultTemperature
	MaxTokens    int
	SystemPrompt string
}

func (s Settings) withDefaults() Settings {
	if s.BaseURL == "" {
		s.BaseURL = DefaultBaseURL
	}
	if s.Model == "" {
		s.Model = DefaultModel
	}
	if s.Temperature == nil {
		t := float64(DefaultTemperature)
		s.Temperature = &t
	}
	if s.MaxTokens == 0 {
		s.MaxTokens = DefaultMaxTokens
	}
	if s.SystemPrompt == "" {
		s.SystemPrompt = DefaultSystemPrompt
	}
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	return s
}

// OpenAI talks to any OpenAI-compatible chat completions endpoint
// (DeepSeek by default).
type OpenAI struct {
	settings Settings
	client   *http.Client
}

// OpenAIOption configures the OpenAI client.
type OpenAIOption func(*OpenAI)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) OpenAIOption {
	return func(o *OpenAI) {
		o.client = client
	}
}

// NewOpenAI returns a client. An empty API key is rejected.
func NewOpenAI(settings Settings, opts ...OpenAIOption) (*OpenAI, error) {
	if settings.APIKey == "" {
		return nil, ErrNotConfigured
	}
	o := &OpenAI{
		settings: settings.withDefaults(),
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

type apiRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type apiResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends one request. There are no retries: a failure here is
// answered by the fallback responder.
func (o *OpenAI) Complete(ctx context.Context, messages []Message) (string, error) {
	body := apiRequest{
		Model:       o.settings.Model,
		Messages:    append([]Message{{Role: RoleSystem, Content: o.settings.SystemPrompt}}, messages...),
		Temperature: *o.settings.Temperature,
		MaxTokens:   o.settings.MaxTokens,
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := o.settings.BaseURL + "/v1/chat/completions"
	ex := Exchange{Endpoint: endpoint, Method: http.MethodPost, Request: string(jsonBody), Started: time.Now()}
	defer func() {
		ex.Duration = time.Since(ex.Started)
		Observe(ctx, ex)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.settings.APIKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()
	ex.Status = resp.StatusCode

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if len(data) > maxResponseBytes {
		ex.Response = string(data[:maxResponseBytes])
		return "", fmt.Errorf("%w: body exceeds %d bytes", ErrResponseTooLarge, maxResponseBytes)
	}
	ex.Response = string(data)

	var apiResp apiResponse
	if err := json.Unmarshal(data, &apiResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, data)
		}
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	// An error payload wins even with a 200.
	if apiResp.Error != nil {
		return "", fmt.Errorf("API error (%s): %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, data)
	}
	if len(apiResp.Choices) == 0 || strings.TrimSpace(apiResp.Choices[0].Message.Content) == "" {
		return "", ErrMalformedResponse
	}

	return apiResp.Choices[0].Message.Content, nil
}
