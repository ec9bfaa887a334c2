// Package auth provides authentication context helpers.
//
// This package is designed to be imported by both middleware and handler
// packages without causing import cycles.
package auth

import (
	"context"
	"net/http"

	"github.com/aethermind-ai-hash/asb/internal/domain"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// tenantContextKey is the key used to store the authenticated tenant in context.
	tenantContextKey contextKey = "tenant"
)

// GetTenant retrieves the authenticated tenant from the context.
//
// Returns nil if no tenant is authenticated.
func GetTenant(ctx context.Context) *domain.Tenant {
	tenant, ok := ctx.Value(tenantContextKey).(*domain.Tenant)
	if !ok {
		return nil
	}
	return tenant
}

// GetTenantFromRequest retrieves the authenticated tenant from the request context.
func GetTenantFromRequest(r *http.Request) *domain.Tenant {
	return GetTenant(r.Context())
}

// SetTenant stores a tenant in the context.
//
// This is typically called by authentication middleware after validating
// a session token.
func SetTenant(ctx context.Context, tenant *domain.Tenant) context.Context {
	return context.WithValue(ctx, tenantContextKey, tenant)
}
