package middleware

import (
	"errors"

	uerrors "github.com/sweetpotato0/uidraft/errors"
)

var (
	// ErrRateLimitExceeded indicates too many requests are in flight
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrInvalidInput indicates input validation failed
	ErrInvalidInput = uerrors.ErrInvalidInput
)
