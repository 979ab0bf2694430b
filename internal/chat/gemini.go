package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// Gemini completes conversations with Google's Gemini API.
type Gemini struct {
	settings Settings
	client   *genai.Client
}

// NewGemini returns a Gemini client. BaseURL is ignored.
func NewGemini(ctx context.Context, settings Settings) (*Gemini, error) {
	if settings.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if settings.Model == "" || settings.Model == DefaultModel {
		settings.Model = DefaultGeminiModel
	}
	settings = settings.withDefaults()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  settings.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Gemini{settings: settings, client: client}, nil
}

// Complete maps assistant turns to the model role and sends one request.
func (g *Gemini) Complete(ctx context.Context, messages []Message) (string, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		var role genai.Role = genai.RoleUser
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(g.settings.SystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(float32(*g.settings.Temperature)),
		MaxOutputTokens:   int32(g.settings.MaxTokens),
	}

	request, _ := json.Marshal(messages)
	ex := Exchange{
		Endpoint: "models/" + g.settings.Model + ":generateContent",
		Method:   "POST",
		Request:  string(request),
		Started:  time.Now(),
	}
	defer func() {
		ex.Duration = time.Since(ex.Started)
		Observe(ctx, ex)
	}()

	resp, err := g.client.Models.GenerateContent(ctx, g.settings.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	ex.Status = 200

	text := responseText(resp)
	ex.Response = text
	if strings.TrimSpace(text) == "" {
		return "", ErrMalformedResponse
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
