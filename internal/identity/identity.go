// Package identity abstracts over external identity providers used for
// admin sign-in. The rest of the application only sees verified
// identities; token exchange and userinfo lookup stay behind Provider.
package identity

import (
	"context"
	"errors"

	"github.com/aethermind-ai-hash/asb/internal/domain"
)

// Error values for identity operations.
var (
	// EExchangeFailed indicates the authorization code could not be exchanged.
	EExchangeFailed = errors.New("identity: code exchange failed")

	// ENoEmail indicates the provider returned an identity without an email.
	ENoEmail = errors.New("identity: provider returned no email address")
)

// Provider verifies who a signing-in admin is.
type Provider interface {
	// AuthURL returns the URL to redirect the browser to for consent.
	// state is echoed back on the callback for CSRF verification.
	AuthURL(state string) string

	// Exchange trades an authorization code for a verified identity.
	Exchange(ctx context.Context, code string) (*domain.Identity, error)
}
