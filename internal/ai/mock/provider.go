package mock

import (
	"context"
	"fmt"
	"log/slog"
)

// Provider is a mock AI provider for testing and development
type Provider struct {
	logger *slog.Logger

	// Configurable responses for testing
	PredictResponse string
	PredictError    error

	// Call tracking for testing
	PredictCalls int
	LastMessage  string
}

// New creates a new mock AI provider
func New(logger *slog.Logger) *Provider {
	return &Provider{
		logger: logger,
	}
}

// Predict returns a canned reply echoing the message
func (p *Provider) Predict(ctx context.Context, message string) (string, error) {
	p.PredictCalls++
	p.LastMessage = message

	// If a custom response or error is set, use it
	if p.PredictError != nil {
		return "", p.PredictError
	}
	if p.PredictResponse != "" {
		return p.PredictResponse, nil
	}

	return fmt.Sprintf("I'm a development assistant. You said: %q", message), nil
}

// Reset clears call counters and custom responses for testing
func (p *Provider) Reset() {
	p.PredictCalls = 0
	p.LastMessage = ""
	p.PredictResponse = ""
	p.PredictError = nil
}
