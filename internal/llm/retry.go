package llm

import (
	"context"
	"math/rand"
	"strings"
	"time"
)

// RetryOptions configures WithRetry. MaxRetries of zero disables retrying.
type RetryOptions struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Jitter     float64
	OnRetry    func(attempt int, wait time.Duration, err error)
}

// WithRetry retries failed calls with exponential backoff. Rate-limit errors
// wait at least attempt² seconds. Waiting stops when ctx is done.
func WithRetry(b Backend, opts RetryOptions) Backend {
	if opts.MaxRetries <= 0 {
		return b
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 500 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 8 * time.Second
	}
	opts.Jitter = min(max(opts.Jitter, 0), 1)

	return Func(func(ctx context.Context, prompt string) (string, error) {
		var lastErr error
		for attempt := 1; attempt <= opts.MaxRetries+1; attempt++ {
			text, err := b.Generate(ctx, prompt)
			if err == nil {
				return text, nil
			}
			lastErr = err
			if attempt > opts.MaxRetries || ctx.Err() != nil {
				break
			}

			wait := backoffDuration(attempt, opts.BaseDelay, opts.MaxDelay, opts.Jitter)
			if isRateLimitError(err) {
				wait = max(wait, time.Duration(attempt*attempt)*time.Second)
				wait = min(applyJitter(wait, 0.35), 60*time.Second)
			}
			if opts.OnRetry != nil {
				opts.OnRetry(attempt, wait, err)
			}
			if err := sleep(ctx, wait); err != nil {
				break
			}
		}

		return "", lastErr
	})
}

// WithTimeout bounds each call by d. A non-positive d returns b unchanged.
func WithTimeout(b Backend, d time.Duration) Backend {
	if d <= 0 {
		return b
	}

	return Func(func(ctx context.Context, prompt string) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		return b.Generate(ctx, prompt)
	})
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int, base, maxDelay time.Duration, jitter float64) time.Duration {
	shift := min(max(attempt-1, 0), 30)
	delay := base << shift
	if delay > maxDelay || delay < 0 {
		delay = maxDelay
	}

	return max(applyJitter(delay, jitter), 0)
}

func applyJitter(delay time.Duration, jitter float64) time.Duration {
	if jitter <= 0 {
		return delay
	}
	jitter = min(jitter, 1)
	factor := 1 - jitter + rand.Float64()*2*jitter

	return time.Duration(float64(delay) * factor)
}

func isRateLimitError(err error) bool {
	s := strings.ToLower(err.Error())

	return strings.Contains(s, "429") || strings.Contains(s, "rate limit") ||
		strings.Contains(s, "resource_exhausted")
}
