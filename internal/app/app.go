// Package app assembles the row store, backend and services from config.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/alkime/carepost/internal/audit"
	"github.com/alkime/carepost/internal/catalog"
	"github.com/alkime/carepost/internal/config"
	"github.com/alkime/carepost/internal/llm"
	"github.com/alkime/carepost/internal/metrics"
	"github.com/alkime/carepost/internal/reference"
	"github.com/alkime/carepost/internal/rewrite"
	"github.com/alkime/carepost/internal/sheets"
)

// App holds the wired services shared by the server and the CLI.
type App struct {
	Rules     config.Rules
	Store     sheets.Store
	Catalog   *catalog.Catalog
	Backend   llm.Backend
	Models    llm.ModelLister
	Metrics   *metrics.Metrics
	Rewriter  *rewrite.Service
	Generator *reference.Generator
}

// New builds the application from cfg using the Google Sheets row store.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := sheets.NewGoogleStore(cfg.ServiceAccountEmail, cfg.ServiceAccountKey(), cfg.SpreadsheetID())
	if err != nil {
		return nil, fmt.Errorf("failed to create row store: %w", err)
	}

	raw, err := llm.New(llm.Settings{
		Provider: cfg.Provider(),
		Model:    cfg.LLMModel,
		APIKey:   cfg.APIKey(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create generative backend: %w", err)
	}

	return Assemble(cfg, logger, store, raw)
}

// Assemble wires services around an existing store and backend.
func Assemble(cfg *config.Config, logger *slog.Logger, store sheets.Store, raw llm.Backend) (*App, error) {
	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	rules = rules.ApplyConfig(cfg)

	m := metrics.New()
	backend := llm.WithRetry(llm.WithTimeout(raw, cfg.CallTimeout), llm.RetryOptions{
		MaxRetries: cfg.TransientRetry,
		Jitter:     0.2,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			logger.Warn("Retrying backend call", "attempt", attempt, "wait", wait, "error", err)
		},
	})

	cat := catalog.New(store, cfg.DefaultTelephone)
	a := &App{
		Rules:   rules,
		Store:   store,
		Catalog: cat,
		Backend: backend,
		Metrics: m,
		Rewriter: rewrite.NewService(cat, backend, audit.NewSink(store, catalog.LogRange), rewrite.Options{
			Rules:          rules,
			RecruitmentTag: cfg.RecruitmentTag,
			Deadline:       cfg.GenerateDeadline,
			Observer:       m,
			Logger:         logger,
		}),
		Generator: reference.NewGenerator(cat, store, backend, rules.ReferenceCap, cfg.DefaultTelephone, logger),
	}
	if lister, ok := raw.(llm.ModelLister); ok {
		a.Models = lister
	}

	logger.Debug("Application assembled",
		"provider", cfg.Provider(),
		"max_attempts", rules.MaxAttempts,
		"keyword_min", rules.Keyword.Min,
		"keyword_max", rules.Keyword.Max,
	)

	return a, nil
}
