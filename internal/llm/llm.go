// Package llm wraps the hosted text-generation backends behind one interface.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider names accepted by New.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var (
	// ErrBackend marks transport or provider failures. It is never retried by
	// the generation loop.
	ErrBackend = errors.New("llm backend failure")
	// ErrUnknownProvider is returned by New for an unsupported provider.
	ErrUnknownProvider = errors.New("unknown llm provider")
	// ErrMissingAPIKey is returned by New when no key is configured.
	ErrMissingAPIKey = errors.New("llm api key missing")
)

// Backend turns a prompt into free text.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func adapts a plain function to Backend.
type Func func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Model describes a model offered by a provider.
type Model struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
}

// ModelLister is implemented by backends that can enumerate their models.
type ModelLister interface {
	ListModels(ctx context.Context) ([]Model, error)
}

// Settings selects and configures a provider.
type Settings struct {
	Provider string
	Model    string
	APIKey   string
	// BaseURL overrides the provider endpoint.
	BaseURL string
}

// DefaultModel returns the model used when Settings.Model is empty.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return defaultOpenAIModel
	case ProviderAnthropic:
		return defaultAnthropicModel
	default:
		return defaultGeminiModel
	}
}

// New builds the backend for s.Provider.
func New(s Settings) (Backend, error) {
	provider := strings.ToLower(strings.TrimSpace(s.Provider))
	if provider == "" {
		provider = ProviderGemini
	}
	if s.APIKey == "" {
		return nil, fmt.Errorf("%w for provider %s", ErrMissingAPIKey, provider)
	}
	if s.Model == "" {
		s.Model = DefaultModel(provider)
	}

	switch provider {
	case ProviderGemini:
		return NewGemini(s), nil
	case ProviderOpenAI:
		return NewOpenAI(s), nil
	case ProviderAnthropic:
		return NewAnthropic(s), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, s.Provider)
	}
}

func backendError(provider string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrBackend, provider, err)
}
