// Package apierr maps domain errors to HTTP status codes.
package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alkime/carepost/internal/catalog"
	"github.com/alkime/carepost/internal/llm"
	"github.com/alkime/carepost/internal/reference"
	"github.com/alkime/carepost/internal/rewrite"
)

// Error carries a status and a machine readable code alongside the cause.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}

	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error.
func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// From classifies err. An *Error anywhere in the chain is returned as is.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, rewrite.ErrMissingField), errors.Is(err, reference.ErrMissingInput):
		return New(http.StatusBadRequest, "missing_field", err)
	case errors.Is(err, catalog.ErrNotFound):
		return New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, rewrite.ErrValidationExhausted):
		return New(http.StatusUnprocessableEntity, "validation_exhausted", err)
	case errors.Is(err, context.DeadlineExceeded):
		return New(http.StatusGatewayTimeout, "deadline_exceeded", err)
	case errors.Is(err, llm.ErrBackend):
		return New(http.StatusBadGateway, "backend_error", err)
	default:
		return New(http.StatusInternalServerError, "internal_error", err)
	}
}
