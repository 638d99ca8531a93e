package main

import (
	"log"

	"github.com/alkime/carepost/internal/app"
	"github.com/alkime/carepost/internal/config"
	"github.com/alkime/carepost/internal/logger"
	"github.com/alkime/carepost/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	l := logger.SetupLogger(cfg)

	if err := cfg.Validate(); err != nil {
		l.Error("Invalid configuration", "error", err)
		log.Fatalf("Fatal: %v", err)
	}

	l.Info("Starting carepost server",
		"env", cfg.Env,
		"port", cfg.Port,
		"provider", cfg.Provider(),
		"allowed_origins", cfg.AllowedOrigins,
	)

	a, err := app.New(cfg, l)
	if err != nil {
		l.Error("Failed to assemble application", "error", err)
		log.Fatalf("Fatal: %v", err)
	}

	deps := server.Deps{
		Catalog:   a.Catalog,
		Rewriter:  a.Rewriter,
		Generator: a.Generator,
		Models:    a.Models,
		Metrics:   a.Metrics.Handler(),
	}

	srv := server.New(cfg, l, deps)
	if err := server.Run(srv); err != nil {
		l.Error("Failed to start server", "error", err)
		log.Fatalf("Fatal: %v", err)
	}
}
