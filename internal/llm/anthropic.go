package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultAnthropicModel = string(anthropic.ModelClaudeSonnet4_5_20250929)
	anthropicMaxTokens    = 4096
)

// Anthropic calls the Messages API.
type Anthropic struct {
	model anthropic.Model
	opts  []option.RequestOption
}

// NewAnthropic creates an Anthropic backend.
func NewAnthropic(s Settings) *Anthropic {
	opts := []option.RequestOption{option.WithAPIKey(s.APIKey)}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}

	return &Anthropic{model: anthropic.Model(s.Model), opts: opts}
}

// Generate sends a single user message and joins the returned text blocks.
func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	client := anthropic.NewClient(a.opts...)

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", backendError(ProviderAnthropic, err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(text.Text)
		}
	}

	return b.String(), nil
}

// ListModels returns the models available to the key.
func (a *Anthropic) ListModels(ctx context.Context) ([]Model, error) {
	client := anthropic.NewClient(a.opts...)

	var models []Model
	iter := client.Models.ListAutoPaging(ctx, anthropic.ModelListParams{})
	for iter.Next() {
		m := iter.Current()
		models = append(models, Model{Name: m.ID, DisplayName: m.DisplayName})
	}
	if err := iter.Err(); err != nil {
		return nil, backendError(ProviderAnthropic, err)
	}

	return models, nil
}
