package llm_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alkime/carepost/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("defaults to gemini", func(t *testing.T) {
		b, err := llm.New(llm.Settings{APIKey: "k"})
		require.NoError(t, err)
		assert.IsType(t, &llm.Gemini{}, b)
	})

	t.Run("provider is case insensitive", func(t *testing.T) {
		b, err := llm.New(llm.Settings{Provider: " OpenAI ", APIKey: "k"})
		require.NoError(t, err)
		assert.IsType(t, &llm.OpenAI{}, b)

		b, err = llm.New(llm.Settings{Provider: "anthropic", APIKey: "k"})
		require.NoError(t, err)
		assert.IsType(t, &llm.Anthropic{}, b)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := llm.New(llm.Settings{Provider: "gemini"})
		assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := llm.New(llm.Settings{Provider: "mistral", APIKey: "k"})
		assert.ErrorIs(t, err, llm.ErrUnknownProvider)
	})
}

func TestDefaultModel(t *testing.T) {
	assert.Equal(t, "gemini-2.0-flash", llm.DefaultModel(llm.ProviderGemini))
	assert.Equal(t, "gpt-4o-mini", llm.DefaultModel(llm.ProviderOpenAI))
	assert.NotEmpty(t, llm.DefaultModel(llm.ProviderAnthropic))
}

func TestOpenAI_Generate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "프롬프트")

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","created":0,"model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"응답"}}]}`)
	}))
	defer ts.Close()

	b := llm.NewOpenAI(llm.Settings{APIKey: "k", Model: "gpt-4o-mini", BaseURL: ts.URL + "/"})

	text, err := b.Generate(context.Background(), "프롬프트")

	require.NoError(t, err)
	assert.Equal(t, "응답", text)
}

func TestOpenAI_GenerateError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"message":"bad request","type":"invalid_request_error"}}`)
	}))
	defer ts.Close()

	b := llm.NewOpenAI(llm.Settings{APIKey: "k", Model: "m", BaseURL: ts.URL + "/"})

	_, err := b.Generate(context.Background(), "x")

	assert.ErrorIs(t, err, llm.ErrBackend)
}

func TestAnthropic_Generate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"m1","type":"message","role":"assistant","model":"claude",
			"content":[{"type":"text","text":"첫 "},{"type":"text","text":"둘"}],
			"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":2}}`)
	}))
	defer ts.Close()

	b := llm.NewAnthropic(llm.Settings{APIKey: "k", Model: "claude", BaseURL: ts.URL})

	text, err := b.Generate(context.Background(), "x")

	require.NoError(t, err)
	assert.Equal(t, "첫 둘", text)
}

func TestGemini_Generate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.0-flash:generateContent")

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"안녕하세요"}]}}]}`)
	}))
	defer ts.Close()

	b := llm.NewGemini(llm.Settings{APIKey: "k", Model: "gemini-2.0-flash", BaseURL: ts.URL + "/"})

	text, err := b.Generate(context.Background(), "x")

	require.NoError(t, err)
	assert.Equal(t, "안녕하세요", text)
}

func TestFunc(t *testing.T) {
	b := llm.Func(func(_ context.Context, prompt string) (string, error) {
		return "echo: " + prompt, nil
	})

	text, err := b.Generate(context.Background(), "hi")

	require.NoError(t, err)
	assert.Equal(t, "echo: hi", text)
}

func TestWithRetry(t *testing.T) {
	transient := errors.New("503 unavailable")

	t.Run("disabled returns backend unchanged", func(t *testing.T) {
		calls := 0
		b := llm.WithRetry(llm.Func(func(context.Context, string) (string, error) {
			calls++
			return "", transient
		}), llm.RetryOptions{})

		_, err := b.Generate(context.Background(), "x")

		assert.ErrorIs(t, err, transient)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds after retries", func(t *testing.T) {
		calls := 0
		var waits []time.Duration
		b := llm.WithRetry(llm.Func(func(context.Context, string) (string, error) {
			calls++
			if calls < 3 {
				return "", transient
			}
			return "ok", nil
		}), llm.RetryOptions{
			MaxRetries: 3,
			BaseDelay:  time.Millisecond,
			MaxDelay:   5 * time.Millisecond,
			OnRetry:    func(_ int, wait time.Duration, _ error) { waits = append(waits, wait) },
		})

		text, err := b.Generate(context.Background(), "x")

		require.NoError(t, err)
		assert.Equal(t, "ok", text)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, waits)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		b := llm.WithRetry(llm.Func(func(context.Context, string) (string, error) {
			calls++
			return "", transient
		}), llm.RetryOptions{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond})

		_, err := b.Generate(context.Background(), "x")

		assert.ErrorIs(t, err, transient)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		b := llm.WithRetry(llm.Func(func(context.Context, string) (string, error) {
			calls++
			cancel()
			return "", transient
		}), llm.RetryOptions{MaxRetries: 5, BaseDelay: time.Hour})

		_, err := b.Generate(ctx, "x")

		assert.ErrorIs(t, err, transient)
		assert.Equal(t, 1, calls)
	})
}

func TestWithTimeout(t *testing.T) {
	slow := llm.Func(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	_, err := llm.WithTimeout(slow, 10*time.Millisecond).Generate(context.Background(), "x")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	fast := llm.Func(func(context.Context, string) (string, error) { return "ok", nil })
	text, err := llm.WithTimeout(fast, 0).Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}
