package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/alkime/carepost/internal/app"
	"github.com/alkime/carepost/internal/config"
	"github.com/alkime/carepost/internal/llm"
	"github.com/alkime/carepost/internal/logger"
	"github.com/alkime/carepost/internal/reference"
	"github.com/alkime/carepost/internal/sheets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listingBackend struct {
	llm.Func
}

func (listingBackend) ListModels(context.Context) ([]llm.Model, error) {
	return []llm.Model{{Name: "m"}}, nil
}

func TestAssemble(t *testing.T) {
	rulesFile := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(rulesFile, []byte("max_attempts: 6\nreference_cap: 500\n"), 0o600))

	cfg := &config.Config{
		RulesFile:        rulesFile,
		MaxAttempts:      2,
		TransientRetry:   1,
		DefaultTelephone: "1522-6585",
		RecruitmentTag:   "요양보호사",
	}

	var calls atomic.Int32
	raw := listingBackend{Func: func(context.Context, string) (string, error) {
		if calls.Add(1) == 1 {
			return "", errors.New("503 unavailable")
		}
		return "글", nil
	}}

	a, err := app.Assemble(cfg, logger.Discard(), sheets.NewMemoryStore(nil), raw)
	require.NoError(t, err)

	assert.Equal(t, 2, a.Rules.MaxAttempts)
	assert.Equal(t, 500, a.Rules.ReferenceCap)
	assert.NotNil(t, a.Models)

	res, err := a.Generator.Generate(context.Background(), reference.Request{Prompt: "소개"})
	require.NoError(t, err)
	assert.Equal(t, "글", res.Text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestAssemble_BadRules(t *testing.T) {
	cfg := &config.Config{RulesFile: filepath.Join(t.TempDir(), "missing.yaml")}

	_, err := app.Assemble(cfg, logger.Discard(), sheets.NewMemoryStore(nil), llm.Func(nil))

	assert.Error(t, err)
}
