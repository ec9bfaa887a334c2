// Package middleware contains HTTP middleware for the admin backend.
//
// Middleware functions follow the standard Go pattern of wrapping
// http.Handler and are composed with Stack.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/aethermind-ai-hash/asb/internal/auth"
	"github.com/aethermind-ai-hash/asb/internal/handler"
	"github.com/aethermind-ai-hash/asb/internal/service"
	"github.com/aethermind-ai-hash/asb/internal/session"
)

// AuthMiddleware loads and enforces tenant sessions.
type AuthMiddleware struct {
	tenants  *service.TenantService
	logger   *slog.Logger
	isSecure bool // Whether to set Secure flag on cookies (true in production)
}

// NewAuthMiddleware creates an AuthMiddleware instance.
func NewAuthMiddleware(tenants *service.TenantService, logger *slog.Logger, isSecure bool) *AuthMiddleware {
	return &AuthMiddleware{
		tenants:  tenants,
		logger:   logger,
		isSecure: isSecure,
	}
}

// WithTenant attempts to load the tenant from the session cookie.
//
// The request continues regardless of authentication status; an invalid or
// expired session clears the cookie. Use RequireTenant after this to make
// authentication mandatory.
func (m *AuthMiddleware) WithTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		tenant, err := m.tenants.GetBySessionToken(r.Context(), cookie.Value)
		if err != nil {
			session.ClearCookie(w, m.isSecure)
			next.ServeHTTP(w, r)
			return
		}

		r = r.WithContext(auth.SetTenant(r.Context(), tenant))
		next.ServeHTTP(w, r)
	})
}

// RequireTenant rejects unauthenticated requests with a JSON 401.
//
// Must be used after WithTenant in the middleware chain.
func (m *AuthMiddleware) RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.GetTenant(r.Context()) == nil {
			handler.UnauthorizedResponse(w, r, m.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Stack composes multiple middleware functions into a single middleware.
//
// Middleware is applied in the order provided: the first middleware in the
// slice is the outermost (runs first on request, last on response).
func Stack(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
