package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAI calls the chat completions endpoint.
type OpenAI struct {
	model string
	opts  []option.RequestOption
}

// NewOpenAI creates an OpenAI backend.
func NewOpenAI(s Settings) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(s.APIKey)}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}

	return &OpenAI{model: s.Model, opts: opts}
}

// Generate sends a single user message.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	client := openai.NewClient(o.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", backendError(ProviderOpenAI, err)
	}
	if len(resp.Choices) == 0 {
		return "", backendError(ProviderOpenAI, errors.New("empty choices"))
	}

	return resp.Choices[0].Message.Content, nil
}

// ListModels returns every model visible to the key.
func (o *OpenAI) ListModels(ctx context.Context) ([]Model, error) {
	client := openai.NewClient(o.opts...)

	var models []Model
	iter := client.Models.ListAutoPaging(ctx)
	for iter.Next() {
		models = append(models, Model{Name: iter.Current().ID})
	}
	if err := iter.Err(); err != nil {
		return nil, backendError(ProviderOpenAI, err)
	}

	return models, nil
}
