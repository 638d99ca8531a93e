package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/alkime/carepost/internal/apierr"
	"github.com/alkime/carepost/internal/catalog"
	"github.com/alkime/carepost/internal/reference"
	"github.com/alkime/carepost/internal/rewrite"
	"github.com/gin-gonic/gin"
)

var errInvalidBody = errors.New("request body must be a JSON object")

// fail writes {ok:false, error} with the status mapped from err.
func (s *Server) fail(c *gin.Context, err error) {
	apiErr := apierr.From(err)
	attrs := []any{
		"request_id", c.GetString(requestIDKey),
		"path", c.FullPath(),
		"status", apiErr.Status,
		"code", apiErr.Code,
		"error", err,
	}
	if apiErr.Status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", attrs...)
	} else {
		s.logger.Warn("Request rejected", attrs...)
	}

	c.AbortWithStatusJSON(apiErr.Status, gin.H{
		"ok":    false,
		"error": apiErr.Error(),
		"code":  apiErr.Code,
	})
}

func (s *Server) handleCenters(c *gin.Context) {
	centers, err := s.deps.Catalog.ListCenters(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "centers": centers})
}

func (s *Server) handleSourcePosts(c *gin.Context) {
	limit := catalog.DefaultPostLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	posts, err := s.deps.Catalog.ListSourceArticles(c.Request.Context(), limit, c.Query("service"))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "posts": posts})
}

func (s *Server) handleTopics(c *gin.Context) {
	listing, err := s.deps.Catalog.ListTopics(c.Request.Context(), c.Query("service"))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "services": listing.Services, "topics": listing.Topics})
}

func (s *Server) handleModels(c *gin.Context) {
	models, err := s.deps.Models.ListModels(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "models": models})
}

func (s *Server) handleGenerateFromSheet(c *gin.Context) {
	var req rewrite.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, apierr.New(http.StatusBadRequest, "invalid_body", errInvalidBody))
		return
	}
	req.RequestID = c.GetString(requestIDKey)

	res, err := s.deps.Rewriter.Rewrite(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "text": res.Text, "meta": res.Meta})
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req reference.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, apierr.New(http.StatusBadRequest, "invalid_body", errInvalidBody))
		return
	}

	res, err := s.deps.Generator.Generate(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}

	body := gin.H{"ok": true, "text": res.Text, "mode": res.Mode}
	if res.Debug != nil {
		body["debug"] = res.Debug
	}
	c.JSON(http.StatusOK, body)
}
