package rewrite

import "errors"

var (
	// ErrMissingField means a required request field is empty.
	ErrMissingField = errors.New("missing required field")
	// ErrValidationExhausted means the corrected document still fails the
	// keyword or telephone checks.
	ErrValidationExhausted = errors.New("generated document failed validation")
)
