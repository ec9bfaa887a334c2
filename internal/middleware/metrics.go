package middleware

import (
	"crypto/subtle"
	"net/http"
)

// MetricsAuthMiddleware gates the Prometheus scrape endpoint behind basic
// auth. With no credentials configured it passes everything through, which
// is only acceptable on a private network.
type MetricsAuthMiddleware struct {
	username []byte
	password []byte
	enabled  bool
}

// NewMetricsAuthMiddleware creates the middleware. Leaving both credentials
// empty disables authentication.
func NewMetricsAuthMiddleware(username, password string) *MetricsAuthMiddleware {
	return &MetricsAuthMiddleware{
		username: []byte(username),
		password: []byte(password),
		enabled:  username != "" || password != "",
	}
}

// Handler wraps next with the basic-auth check.
func (m *MetricsAuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enabled {
			next.ServeHTTP(w, r)
			return
		}

		user, pass, ok := r.BasicAuth()
		if !ok || !m.matches(user, pass) {
			w.Header().Set("WWW-Authenticate", `Basic realm="metrics"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// matches compares both fields in constant time; scrapers retry forever,
// so the timing side channel is worth closing.
func (m *MetricsAuthMiddleware) matches(user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), m.username) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), m.password) == 1
	return userOK && passOK
}
