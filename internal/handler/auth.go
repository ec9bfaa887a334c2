package handler

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/aethermind-ai-hash/asb/internal/domain"
	"github.com/aethermind-ai-hash/asb/internal/identity"
	"github.com/aethermind-ai-hash/asb/internal/service"
	"github.com/aethermind-ai-hash/asb/internal/session"
)

// AuthHandler handles external login, the OAuth callback and logout.
type AuthHandler struct {
	provider identity.Provider
	tenants  *service.TenantService
	logger   *slog.Logger
	isSecure bool
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(provider identity.Provider, tenants *service.TenantService, logger *slog.Logger, isSecure bool) *AuthHandler {
	return &AuthHandler{
		provider: provider,
		tenants:  tenants,
		logger:   logger,
		isSecure: isSecure,
	}
}

// HandleGoogleLogin starts the external login flow.
//
// GET /login/google
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.StateCookieName,
		Value:    state,
		Path:     session.CookiePath,
		MaxAge:   session.StateCookieMaxAge,
		HttpOnly: true,
		Secure:   h.isSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.provider.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGoogleCallback finishes the login flow: it verifies the state,
// exchanges the code, finds or creates the tenant and starts a session.
//
// GET /auth/google/callback
func (h *AuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.HandleGoogleCallback"

	stateCookie, err := r.Cookie(session.StateCookieName)
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		ErrorResponse(w, r, h.logger, domain.Unauthorized(op, "invalid oauth state"))
		return
	}
	clearStateCookie(w, h.isSecure)

	code := r.URL.Query().Get("code")
	if code == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "missing authorization code"))
		return
	}

	id, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Warn("login failed", "error", err)
		ErrorResponse(w, r, h.logger, domain.Unauthorized(op, "login failed"))
		return
	}

	tenant, err := h.tenants.Ensure(r.Context(), *id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	token, _, err := h.tenants.StartSession(r.Context(), tenant.ID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	session.SetCookie(w, token, h.isSecure)
	h.logger.Info("tenant logged in", "tenant_id", tenant.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout ends the session and clears the cookie.
//
// GET /user_logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		if err := h.tenants.EndSession(r.Context(), cookie.Value); err != nil {
			h.logger.Error("failed to end session", "error", err)
		}
	}
	session.ClearCookie(w, h.isSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func clearStateCookie(w http.ResponseWriter, isSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.StateCookieName,
		Value:    "",
		Path:     session.CookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func randomState() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
