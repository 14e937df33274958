// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
)

// CompletionRequest is one call to a generative text backend.
type CompletionRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// TextBackend abstracts the generative text API so tests can supply a mock.
// Implementations return an error on any backend failure.
type TextBackend interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ErrNoBackend is returned when no text backend is configured.
var ErrNoBackend = errors.New("no text backend configured")
