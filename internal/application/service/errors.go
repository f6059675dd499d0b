package service

import "errors"

// Domain errors surfaced by the application services
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("permission denied")
)
