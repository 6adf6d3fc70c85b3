package ai

import (
	"context"
	"errors"
	"strings"
)

// Provider is a text-generation backend capable of answering an extraction
// or classification prompt with raw model output.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// transientError marks failures worth retrying (overload, rate limit,
// timeouts). Permanent failures (bad request, auth) skip straight to the
// next provider.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient wraps err as retryable.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err (or its chain) indicates an overloaded or
// temporarily unavailable backend.
func IsTransient(err error) bool {
	var te *transientError
	if errors.As(err, &te) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"503", "overloaded", "rate limit", "too many requests", "timeout", "deadline exceeded", "temporarily unavailable", "connection refused"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
