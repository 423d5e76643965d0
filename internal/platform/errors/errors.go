package apperrors

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("not found")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrInsightUnavailable   = errors.New("insight generator unavailable")
)
