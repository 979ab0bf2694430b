package chat

import (
	"context"
	"fmt"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// New builds the upstream client for provider. With no API key it returns
// (nil, nil): the caller answers from the fallback responder only.
func New(ctx context.Context, provider string, settings Settings) (Completer, error) {
	if settings.APIKey == "" {
		return nil, nil
	}
	switch provider {
	case "", ProviderOpenAI:
		c, err := NewOpenAI(settings)
		if err != nil {
			return nil, err
		}
		return c, nil
	case ProviderGemini:
		c, err := NewGemini(ctx, settings)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown chat provider %q", provider)
	}
}
