package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/alkime/carepost/internal/catalog"
	"github.com/alkime/carepost/internal/config"
	"github.com/alkime/carepost/internal/llm"
	"github.com/alkime/carepost/internal/reference"
	"github.com/alkime/carepost/internal/rewrite"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// Catalog lists the reference data shown by the presentation layer.
type Catalog interface {
	ListCenters(ctx context.Context) ([]catalog.Center, error)
	ListSourceArticles(ctx context.Context, limit int, service string) ([]catalog.SourceArticle, error)
	ListTopics(ctx context.Context, service string) (catalog.TopicListing, error)
}

// Rewriter runs the sheet-driven rewrite pipeline.
type Rewriter interface {
	Rewrite(ctx context.Context, req rewrite.Request) (rewrite.Result, error)
}

// Generator runs reference-driven or free-prompt generation.
type Generator interface {
	Generate(ctx context.Context, req reference.Request) (reference.Result, error)
}

// Deps are the collaborators behind the HTTP handlers. Models and Metrics
// may be nil, in which case their routes are not registered.
type Deps struct {
	Catalog   Catalog
	Rewriter  Rewriter
	Generator Generator
	Models    llm.ModelLister
	Metrics   http.Handler
}

// Server represents the HTTP server
type Server struct {
	config *config.Config
	logger *slog.Logger
	router *gin.Engine
	deps   Deps
}

// New creates a new Server instance
func New(cfg *config.Config, logger *slog.Logger, deps Deps) *Server {
	// Set Gin mode based on environment
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Configure proxy trust for production (Fly.io)
	if cfg.Env == config.EnvProduction {
		router.TrustedPlatform = gin.PlatformFlyIO
		logger.Debug("Configured trusted platform", "platform", "fly.io")
	}

	server := &Server{
		config: cfg,
		logger: logger,
		router: router,
		deps:   deps,
	}

	router.Use(requestID(), requestLogger(logger), corsMiddleware(cfg.AllowedOrigins))
	setupSecurityMiddleware(router, cfg, logger)
	server.setupRoutes()

	return server
}

// Router exposes the handler for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts the HTTP server
func Run(s *Server) error {
	s.logger.Info("Server listening", "port", s.config.Port)
	return s.router.Run(":" + s.config.Port)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.GET("/centers", s.handleCenters)
		api.GET("/source-posts", s.handleSourcePosts)
		api.GET("/topics", s.handleTopics)
		if s.deps.Models != nil {
			api.GET("/models", s.handleModels)
		}
		api.POST("/generate-from-sheet", s.handleGenerateFromSheet)
		api.POST("/generate", s.handleGenerate)
	}

	if s.deps.Metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.deps.Metrics))
	}

	// Registered after the routes so it only sees unmatched paths.
	if info, err := os.Stat(s.config.StaticDir); err == nil && info.IsDir() {
		s.router.Use(static.Serve("/", static.LocalFile(s.config.StaticDir, false)))
		s.logger.Debug("Serving static assets", "dir", s.config.StaticDir)
	}
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "carepost",
	})
}
