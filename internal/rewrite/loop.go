// Package rewrite turns a source article into a validated, center-specific
// post: it drives the generative backend through a bounded attempt loop and
// repairs the result deterministically.
package rewrite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alkime/carepost/internal/content"
	"github.com/alkime/carepost/internal/llm"
)

// State is a terminal state of the loop.
type State string

const (
	// StateAccepted means an attempt passed every check.
	StateAccepted State = "accepted"
	// StateExhausted means every attempt failed; the last document is kept.
	StateExhausted State = "exhausted"
)

// LoopInput parameterizes Loop.Run.
type LoopInput struct {
	Prompt      string
	CenterName  string
	Criteria    content.Criteria
	MaxAttempts int
	// MinChars is repeated in the corrective suffix.
	MinChars int
}

// Outcome is the terminal state of a run.
type Outcome struct {
	State    State
	Document string
	Attempts int
	Verdict  content.Verdict
}

// attempt is the value folded over by Run.
type attempt struct {
	n        int
	document string
	verdict  content.Verdict
}

// Loop calls the backend until a document passes validation or the attempt
// budget runs out.
type Loop struct {
	backend  llm.Backend
	observer Observer
	logger   *slog.Logger
}

// NewLoop creates a loop over backend. A nil observer or logger is replaced
// by a no-op.
func NewLoop(backend llm.Backend, observer Observer, logger *slog.Logger) *Loop {
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Loop{backend: backend, observer: observer, logger: logger}
}

// Run executes the loop. Backend errors abort immediately and are never
// counted as attempts.
func (l *Loop) Run(ctx context.Context, in LoopInput) (Outcome, error) {
	maxAttempts := max(in.MaxAttempts, 1)

	var last attempt
	for n := 0; n < maxAttempts; n++ {
		next, err := l.step(ctx, in, n, last)
		if err != nil {
			return Outcome{}, err
		}
		last = next

		if last.verdict.OK() {
			return l.finish(StateAccepted, last), nil
		}
	}

	return l.finish(StateExhausted, last), nil
}

func (l *Loop) step(ctx context.Context, in LoopInput, n int, prev attempt) (attempt, error) {
	prompt := in.Prompt
	if n > 0 {
		prompt += content.CorrectiveSuffix(in.Criteria.Keyword, in.MinChars, prev.verdict.Failures())
	}

	start := time.Now()
	raw, err := l.backend.Generate(ctx, prompt)
	l.observer.BackendCalled(time.Since(start), err)
	if err != nil {
		return attempt{}, classifyBackendError(ctx, err)
	}

	doc := content.Clean(raw, in.CenterName)
	verdict := content.Evaluate(doc, in.Criteria)
	l.observer.AttemptFinished(n+1, verdict.Failures())

	l.logger.Info("Generation attempt finished",
		"attempt", n+1,
		"accepted", verdict.OK(),
		"failures", verdict.Failures(),
		"keyword_hits", verdict.KeywordHits,
		"body_chars", verdict.BodyChars,
	)

	return attempt{n: n + 1, document: doc, verdict: verdict}, nil
}

func (l *Loop) finish(state State, last attempt) Outcome {
	l.observer.LoopFinished(string(state))

	return Outcome{
		State:    state,
		Document: last.document,
		Attempts: last.n,
		Verdict:  last.verdict,
	}
}

func classifyBackendError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("generation stopped: %w", ctxErr)
	}
	if errors.Is(err, llm.ErrBackend) {
		return err
	}

	return fmt.Errorf("%w: %w", llm.ErrBackend, err)
}
