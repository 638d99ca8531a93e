// Package reference generates informational posts from a topic, the best
// matching past posts and the service fact tables.
package reference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alkime/carepost/internal/catalog"
	"github.com/alkime/carepost/internal/content"
	"github.com/alkime/carepost/internal/llm"
	"github.com/alkime/carepost/internal/sheets"
)

// Modes reported in Result.Mode.
const (
	ModeReference = "reference"
	ModeLegacy    = "legacy"
)

// ErrMissingInput means neither the structured fields nor a free prompt were
// supplied.
var ErrMissingInput = errors.New("missing prompt or required fields")

// Request selects between structured and free-prompt generation. The
// structured path needs centerName, service, topic_tag and targetKeyword1.
type Request struct {
	CenterName string `json:"centerName"`
	Service    string `json:"service"`
	TopicTag   string `json:"topic_tag"`
	Keyword1   string `json:"targetKeyword1"`
	Keyword2   string `json:"targetKeyword2"`
	Prompt     string `json:"prompt"`
}

func (r Request) structured() bool {
	return r.CenterName != "" && r.Service != "" && r.TopicTag != "" && r.Keyword1 != ""
}

// Debug describes the material a structured generation used.
type Debug struct {
	UsedReferences []string `json:"usedReferences"`
	FactTabs       []string `json:"ssotTabs"`
	TopicName      string   `json:"topicName"`
}

// Result is the generated text and how it was produced.
type Result struct {
	Text  string `json:"text"`
	Mode  string `json:"mode"`
	Debug *Debug `json:"debug,omitempty"`
}

// Catalog is the subset of catalog.Catalog used here.
type Catalog interface {
	FindTopic(ctx context.Context, tag string) (catalog.Topic, error)
	SourceArticles(ctx context.Context) ([]catalog.SourceArticle, error)
}

// Generator runs reference-driven generation.
type Generator struct {
	catalog   Catalog
	facts     sheets.Store
	backend   llm.Backend
	refCap    int
	telephone string
	logger    *slog.Logger
}

// NewGenerator creates a generator. refCap bounds each embedded reference.
func NewGenerator(cat Catalog, facts sheets.Store, backend llm.Backend, refCap int, telephone string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Generator{
		catalog:   cat,
		facts:     facts,
		backend:   backend,
		refCap:    refCap,
		telephone: telephone,
		logger:    logger,
	}
}

// Generate dispatches to the structured or the legacy path.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	req = Request{
		CenterName: strings.TrimSpace(req.CenterName),
		Service:    strings.TrimSpace(req.Service),
		TopicTag:   strings.TrimSpace(req.TopicTag),
		Keyword1:   strings.TrimSpace(req.Keyword1),
		Keyword2:   strings.TrimSpace(req.Keyword2),
		Prompt:     req.Prompt,
	}

	if req.structured() {
		return g.generateFromReferences(ctx, req)
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return Result{}, ErrMissingInput
	}

	text, err := g.backend.Generate(ctx, LegacyPrompt(req.Prompt, g.telephone))
	if err != nil {
		return Result{}, err
	}

	return Result{Text: strings.TrimSpace(text), Mode: ModeLegacy}, nil
}

func (g *Generator) generateFromReferences(ctx context.Context, req Request) (Result, error) {
	topic, err := g.catalog.FindTopic(ctx, req.TopicTag)
	if err != nil {
		return Result{}, err
	}

	posts, err := g.catalog.SourceArticles(ctx)
	if err != nil {
		return Result{}, err
	}
	refs := SelectReferences(posts, req.Service, topic.DisplayName, topic.Keywords)

	extracted, err := g.backend.Generate(ctx,
		ExtractionPrompt(req.Service, topic.DisplayName, req.Keyword1, req.Keyword2, refs, g.refCap))
	if err != nil {
		return Result{}, fmt.Errorf("reference extraction failed: %w", err)
	}
	outline, facts := ParseExtraction(strings.TrimSpace(extracted))

	tabs := FactTabs(req.Service)
	tables, err := LoadFacts(ctx, g.facts, tabs)
	if err != nil {
		return Result{}, err
	}

	text, err := g.backend.Generate(ctx, FinalPrompt(FinalInput{
		CenterName: req.CenterName,
		Service:    req.Service,
		TopicName:  topic.DisplayName,
		Keyword1:   req.Keyword1,
		Keyword2:   req.Keyword2,
		Telephone:  g.telephone,
		Outline:    outline,
		Facts:      facts,
		FactTables: FactsBlock(tables),
	}))
	if err != nil {
		return Result{}, err
	}

	used := make([]string, len(refs))
	for i, r := range refs {
		used[i] = r.Article.Title
	}
	g.logger.Info("Reference generation completed",
		"topic", topic.Tag,
		"references", len(refs),
		"fact_tabs", len(tables),
	)

	return Result{
		Text: content.Clean(text, req.CenterName),
		Mode: ModeReference,
		Debug: &Debug{
			UsedReferences: used,
			FactTabs:       tabs,
			TopicName:      topic.DisplayName,
		},
	}, nil
}
