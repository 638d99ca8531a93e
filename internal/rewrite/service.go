package rewrite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alkime/carepost/internal/audit"
	"github.com/alkime/carepost/internal/catalog"
	"github.com/alkime/carepost/internal/config"
	"github.com/alkime/carepost/internal/content"
	"github.com/alkime/carepost/internal/llm"
)

// Directory resolves the records a rewrite needs.
type Directory interface {
	FindCenter(ctx context.Context, id string) (catalog.Center, error)
	FindSourceArticle(ctx context.Context, url string) (catalog.SourceArticle, error)
}

// AuditSink records successful generations.
type AuditSink interface {
	Append(ctx context.Context, e audit.Entry) error
}

// Request is a rewrite request as received from a client.
type Request struct {
	CenterID    string `json:"centerId"`
	Keyword1    string `json:"keyword1"`
	SourcePcURL string `json:"sourcePcUrl"`
	Service     string `json:"service"`
	RequestID   string `json:"-"`
}

// Meta is the resolved metadata returned with the text.
type Meta struct {
	CenterID   string `json:"centerId"`
	CenterName string `json:"centerName"`
	Keyword1   string `json:"keyword1"`
	Tel        string `json:"tel"`
	Addr       string `json:"addr"`
	Mode       string `json:"mode"`
	State      State  `json:"state"`
	Attempts   int    `json:"attempts"`
}

// Result is a finished rewrite.
type Result struct {
	Text string `json:"text"`
	Meta Meta   `json:"meta"`
}

// Options configures a Service.
type Options struct {
	Rules          config.Rules
	RecruitmentTag string
	// Deadline bounds a whole Rewrite call when positive.
	Deadline time.Duration
	Observer Observer
	Logger   *slog.Logger
	// Now is used for audit timestamps.
	Now func() time.Time
}

// Service runs the full rewrite pipeline for one request.
type Service struct {
	dir  Directory
	loop *Loop
	sink AuditSink
	opts Options
}

// NewService wires a service. Zero-valued options fall back to defaults.
func NewService(dir Directory, backend llm.Backend, sink AuditSink, opts Options) *Service {
	if opts.Rules == (config.Rules{}) {
		opts.Rules = config.DefaultRules()
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{
		dir:  dir,
		loop: NewLoop(backend, opts.Observer, opts.Logger),
		sink: sink,
		opts: opts,
	}
}

// WithObserver returns a copy of s that also reports events to o.
func (s *Service) WithObserver(o Observer) *Service {
	cp := *s
	cp.opts.Observer = Observers(s.opts.Observer, o)
	cp.loop = NewLoop(s.loop.backend, cp.opts.Observer, s.opts.Logger)

	return &cp
}

// MaxAttempts is the attempt bound applied to every request.
func (s *Service) MaxAttempts() int {
	return max(s.opts.Rules.MaxAttempts, 1)
}

func (r Request) normalized() Request {
	return Request{
		CenterID:    strings.TrimSpace(r.CenterID),
		Keyword1:    strings.TrimSpace(r.Keyword1),
		SourcePcURL: strings.TrimSpace(r.SourcePcURL),
		Service:     strings.TrimSpace(r.Service),
		RequestID:   r.RequestID,
	}
}

// Validate reports every missing required field.
func (r Request) Validate() error {
	var missing []string
	if r.CenterID == "" {
		missing = append(missing, "centerId")
	}
	if r.Keyword1 == "" {
		missing = append(missing, "keyword1")
	}
	if r.SourcePcURL == "" {
		missing = append(missing, "sourcePcUrl")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	return nil
}

// Rewrite generates, validates, corrects and records a post.
func (s *Service) Rewrite(ctx context.Context, req Request) (Result, error) {
	req = req.normalized()
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	if s.opts.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Deadline)
		defer cancel()
	}

	logger := s.opts.Logger.With("center_id", req.CenterID, "keyword", req.Keyword1)
	if req.RequestID != "" {
		logger = logger.With("request_id", req.RequestID)
	}

	center, err := s.dir.FindCenter(ctx, req.CenterID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve center: %w", err)
	}
	source, err := s.dir.FindSourceArticle(ctx, req.SourcePcURL)
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve source article: %w", err)
	}

	rules := s.opts.Rules
	mode := content.ModeForService(req.Service, s.opts.RecruitmentTag)
	criteria := content.Criteria{
		Keyword:      req.Keyword1,
		CenterName:   center.Name,
		Telephone:    center.Telephone,
		KeywordMin:   rules.Keyword.Min,
		KeywordMax:   rules.Keyword.Max,
		MinBodyChars: rules.MinBodyChars,
	}

	prompt := content.BuildPrompt(content.PromptInput{
		Mode:        mode,
		CenterName:  center.Name,
		Telephone:   center.Telephone,
		Address:     center.Address,
		RegionHint:  center.RegionHint(),
		Keyword:     req.Keyword1,
		SourceTitle: source.Title,
		SourceBody:  source.Body,
		MinChars:    rules.PromptMinChars,
		KeywordMin:  rules.Keyword.Min,
		KeywordMax:  rules.Keyword.Max,
	})

	outcome, err := s.loop.Run(ctx, LoopInput{
		Prompt:      prompt,
		CenterName:  center.Name,
		Criteria:    criteria,
		MaxAttempts: rules.MaxAttempts,
		MinChars:    rules.PromptMinChars,
	})
	if err != nil {
		return Result{}, err
	}

	text := content.EnsureKeywordCount(outcome.Document, content.CorrectorInput{
		Keyword:   req.Keyword1,
		Telephone: center.Telephone,
		Mode:      mode,
		Min:       rules.Keyword.Min,
		Max:       rules.Keyword.Max,
	})
	s.opts.Observer.CorrectorApplied(text != outcome.Document)

	if err := revalidate(text, criteria); err != nil {
		logger.Warn("Corrected document rejected", "state", outcome.State, "error", err)
		return Result{}, err
	}

	err = s.sink.Append(ctx, audit.Entry{
		RequestID:   req.RequestID,
		Time:        s.opts.Now(),
		CenterID:    req.CenterID,
		CenterName:  center.Name,
		Mode:        mode,
		Keyword:     req.Keyword1,
		SourceTitle: source.Title,
		SourceURL:   req.SourcePcURL,
		Text:        text,
	})
	s.opts.Observer.AuditAppended(err)
	if err != nil {
		logger.Error("Audit append failed", "error", err)
		return Result{}, err
	}

	logger.Info("Rewrite completed", "state", outcome.State, "attempts", outcome.Attempts)

	return Result{
		Text: text,
		Meta: Meta{
			CenterID:   req.CenterID,
			CenterName: center.Name,
			Keyword1:   req.Keyword1,
			Tel:        center.Telephone,
			Addr:       center.Address,
			Mode:       string(mode),
			State:      outcome.State,
			Attempts:   outcome.Attempts,
		},
	}, nil
}

// revalidate checks what the corrector is responsible for: keyword count in
// range and telephone present in the body.
func revalidate(doc string, c content.Criteria) error {
	body := content.ExtractBody(doc)
	if body == "" {
		return fmt.Errorf("%w: body section missing", ErrValidationExhausted)
	}

	hits := content.CountOccurrences(body, c.Keyword)
	if hits < c.KeywordMin || hits > c.KeywordMax {
		return fmt.Errorf("%w: keyword %q appears %d times, want %d-%d",
			ErrValidationExhausted, c.Keyword, hits, c.KeywordMin, c.KeywordMax)
	}
	if !strings.Contains(body, c.Telephone) {
		return fmt.Errorf("%w: telephone %s missing from body", ErrValidationExhausted, c.Telephone)
	}

	return nil
}
