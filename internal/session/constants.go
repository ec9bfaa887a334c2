// Package session provides shared session constants and cookie helpers
// used by both the handler and middleware packages.
package session

import "net/http"

const (
	// CookieName is the name of the cookie that stores the session token.
	CookieName = "asb_session"

	// CookiePath ensures the cookie is sent with all requests.
	CookiePath = "/"

	// CookieMaxAge sets the cookie expiration (7 days = 604800 seconds).
	// This should match the session duration configured for the tenant service.
	CookieMaxAge = 7 * 24 * 60 * 60

	// StateCookieName holds the OAuth state value between redirect and callback.
	StateCookieName = "asb_oauth_state"

	// StateCookieMaxAge keeps the state cookie short-lived (10 minutes).
	StateCookieMaxAge = 10 * 60
)

// SetCookie sets the session cookie on the response.
//
// HttpOnly blocks script access; SameSite Lax prevents cross-site POSTs
// from carrying the session.
func SetCookie(w http.ResponseWriter, token string, isSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     CookiePath,
		MaxAge:   CookieMaxAge,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie removes the session cookie from the client.
func ClearCookie(w http.ResponseWriter, isSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     CookiePath,
		MaxAge:   -1, // Delete immediately
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
