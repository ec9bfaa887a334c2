package identity

import (
	"context"

	"github.com/aethermind-ai-hash/asb/internal/domain"
)

// Static is a development identity provider that accepts any code and
// always returns the configured identity. Never use it in production.
type Static struct {
	Identity domain.Identity
}

// NewStatic creates a static identity provider for local development
func NewStatic(email, name string) *Static {
	return &Static{
		Identity: domain.Identity{
			Email: email,
			Name:  name,
		},
	}
}

// AuthURL points straight at the callback; no external consent happens
func (s *Static) AuthURL(state string) string {
	return "/auth/google/callback?state=" + state + "&code=dev"
}

// Exchange returns the configured identity regardless of code
func (s *Static) Exchange(ctx context.Context, code string) (*domain.Identity, error) {
	id := s.Identity
	return &id, nil
}
