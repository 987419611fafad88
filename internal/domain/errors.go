package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidUpload   = errors.New("invalid upload")
	ErrUnsupportedPlan = errors.New("unsupported plan")
	ErrProviderFailure = errors.New("provider failure")
	ErrPersistence     = errors.New("persistence failure")
)
