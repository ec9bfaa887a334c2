// Package ai defines the external model abstraction for chat fallback.
//
// The model is an opaque text-to-text function. Providers may fail for
// any reason; the chat pipeline converts every failure into a visible
// chat reply rather than an HTTP error, so providers should return
// errors freely and never panic.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider is the interface implemented by external model backends.
type Provider interface {
	// Predict generates a reply for a free-text message. Implementations
	// must honor ctx cancellation and deadlines. Exactly one attempt is
	// made per call; retrying is the caller's decision (and the chat
	// pipeline never retries).
	Predict(ctx context.Context, message string) (string, error)
}

// ProviderConfig contains common configuration for providers.
type ProviderConfig struct {
	RequestTimeout time.Duration // Timeout for individual requests
}

// Error values for provider operations.
var (
	// ETimeout indicates the request timed out.
	ETimeout = errors.New("ai request timed out")

	// EUnavailable indicates the model service is temporarily unavailable.
	EUnavailable = errors.New("ai service temporarily unavailable")

	// EUnauthorized indicates invalid provider credentials.
	EUnauthorized = errors.New("ai provider authentication failed")
)

// WrapError wraps an error with context about the model operation.
func WrapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("ai %s: %w", operation, err)
}
