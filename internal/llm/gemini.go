package llm

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// Gemini calls the Gemini API through the genai SDK.
type Gemini struct {
	model  string
	config *genai.ClientConfig
}

// NewGemini creates a Gemini backend.
func NewGemini(s Settings) *Gemini {
	cfg := &genai.ClientConfig{
		APIKey:  s.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if s.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: s.BaseURL}
	}

	return &Gemini{model: s.Model, config: cfg}
}

func (g *Gemini) client(ctx context.Context) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, g.config)
	if err != nil {
		return nil, backendError(ProviderGemini, err)
	}

	return client, nil
}

// Generate sends a single-turn prompt.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := g.client(ctx)
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", backendError(ProviderGemini, err)
	}

	return resp.Text(), nil
}

// ListModels returns the models that support content generation.
func (g *Gemini) ListModels(ctx context.Context) ([]Model, error) {
	client, err := g.client(ctx)
	if err != nil {
		return nil, err
	}

	var models []Model
	for m, err := range client.Models.All(ctx) {
		if err != nil {
			return nil, backendError(ProviderGemini, err)
		}
		if !supportsGenerate(m.SupportedActions) {
			continue
		}
		models = append(models, Model{
			Name:        strings.TrimPrefix(m.Name, "models/"),
			DisplayName: m.DisplayName,
		})
	}

	return models, nil
}

func supportsGenerate(actions []string) bool {
	if len(actions) == 0 {
		return true
	}
	for _, a := range actions {
		if a == "generateContent" {
			return true
		}
	}

	return false
}
