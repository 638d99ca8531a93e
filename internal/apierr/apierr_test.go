package apierr_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/alkime/carepost/internal/apierr"
	"github.com/alkime/carepost/internal/catalog"
	"github.com/alkime/carepost/internal/llm"
	"github.com/alkime/carepost/internal/reference"
	"github.com/alkime/carepost/internal/rewrite"
	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing field", fmt.Errorf("%w: centerId", rewrite.ErrMissingField), http.StatusBadRequest, "missing_field"},
		{"missing prompt", reference.ErrMissingInput, http.StatusBadRequest, "missing_field"},
		{"center miss", fmt.Errorf("failed to resolve center: %w: c9", catalog.ErrCenterNotFound), http.StatusNotFound, "not_found"},
		{"topic miss", catalog.ErrTopicNotFound, http.StatusNotFound, "not_found"},
		{"exhausted", rewrite.ErrValidationExhausted, http.StatusUnprocessableEntity, "validation_exhausted"},
		{"backend", fmt.Errorf("%w: boom", llm.ErrBackend), http.StatusBadGateway, "backend_error"},
		{"deadline", fmt.Errorf("generation stopped: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "deadline_exceeded"},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apierr.From(tt.err)

			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.err.Error(), got.Error())
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestFrom_PassesThroughAPIError(t *testing.T) {
	orig := apierr.New(http.StatusTeapot, "teapot", nil)

	assert.Same(t, orig, apierr.From(fmt.Errorf("wrapped: %w", orig)))
	assert.Equal(t, "teapot", orig.Error())
}
