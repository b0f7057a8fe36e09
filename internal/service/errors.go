package service

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formdoc/pkg/validation"
)

var (
	// ErrInvalidInput marks requests rejected before reaching the stores.
	ErrInvalidInput = errors.New("service: invalid input")
	// ErrValidation is wrapped by ValidationError.
	ErrValidation = errors.New("service: validation failed")
)

// ValidationError carries the issues of a rejected submission.
type ValidationError struct {
	Result validation.Result
}

func (e *ValidationError) Error() string {
	return strings.Replace(e.Result.Error(), "validation:", "service: validation failed:", 1)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
