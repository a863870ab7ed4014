package suggest

import (
	"context"
	"fmt"
	"strings"
)

// Provider names accepted by NewProvider.
const (
	ProviderAuto   = "auto"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// ProviderConfig selects and configures a provider.
type ProviderConfig struct {
	Name          string
	Model         string
	GeminiAPIKey  string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIBaseURL string
}

// NewProvider builds the configured provider. With "auto" it prefers Gemini,
// then OpenAI, and returns Unavailable when neither key is set. An explicit
// name without its key is an error.
func NewProvider(ctx context.Context, cfg ProviderConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case "", ProviderAuto:
		switch {
		case cfg.GeminiAPIKey != "":
			return NewGemini(ctx, cfg.GeminiAPIKey, cfg.Model, cfg.GeminiBaseURL)
		case cfg.OpenAIAPIKey != "":
			return NewOpenAI(cfg.OpenAIAPIKey, cfg.Model, cfg.OpenAIBaseURL)
		default:
			return Unavailable{Reason: "set GEMINI_API_KEY or OPENAI_API_KEY"}, nil
		}
	case ProviderGemini:
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.Model, cfg.GeminiBaseURL)
	case ProviderOpenAI:
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.Model, cfg.OpenAIBaseURL)
	case ProviderNone:
		return Unavailable{Reason: "provider disabled"}, nil
	default:
		return nil, fmt.Errorf("unknown suggestion provider %q", cfg.Name)
	}
}
