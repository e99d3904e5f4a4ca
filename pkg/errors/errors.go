package crm_errors

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrInvalidInput    = errors.New("invalid input")
	ErrMalformed       = errors.New("malformed payload")
	ErrUpstreamFailure = errors.New("upstream platform request failed")
	ErrUnsupported     = errors.New("platform not supported")
	ErrRateLimited     = errors.New("rate limited")
)

// NowPtr returns a pointer to current time
func NowPtr() *time.Time {
	now := time.Now().UTC()
	return &now
}
