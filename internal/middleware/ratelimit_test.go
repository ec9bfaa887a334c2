package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute, testLogger())

	for i := 0; i < 5; i++ {
		if !rl.Allow("192.168.1.1") {
			t.Errorf("request %d should be allowed", i+1)
		}
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute, testLogger())

	for i := 0; i < 3; i++ {
		rl.Allow("192.168.1.1")
	}

	if rl.Allow("192.168.1.1") {
		t.Error("request over the limit should be blocked")
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, testLogger())

	rl.Allow("192.168.1.1")
	if rl.Allow("192.168.1.1") {
		t.Error("second request from same IP should be blocked")
	}
	if !rl.Allow("10.0.0.1") {
		t.Error("request from a different IP should be allowed")
	}
}

func TestRateLimiter_WindowExpiry(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond, testLogger())

	rl.Allow("192.168.1.1")
	if rl.Allow("192.168.1.1") {
		t.Error("second request inside window should be blocked")
	}

	time.Sleep(20 * time.Millisecond)

	if !rl.Allow("192.168.1.1") {
		t.Error("request after window expiry should be allowed")
	}
}

func TestRateLimiter_Reset(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, testLogger())

	rl.Allow("192.168.1.1")
	rl.Reset("192.168.1.1")

	if !rl.Allow("192.168.1.1") {
		t.Error("request after reset should be allowed")
	}
}

func TestRateLimiter_TimeUntilReset(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, testLogger())

	if got := rl.TimeUntilReset("unknown"); got != 0 {
		t.Errorf("unknown key should have zero wait, got %v", got)
	}

	rl.Allow("192.168.1.1")
	got := rl.TimeUntilReset("192.168.1.1")
	if got <= 0 || got > time.Minute {
		t.Errorf("expected wait in (0, 1m], got %v", got)
	}
}

func TestRateLimitMiddleware_Returns429WithRetryAfter(t *testing.T) {
	logger := testLogger()
	rl := NewRateLimiter(1, time.Minute, logger)
	mw := NewRateLimitMiddleware(rl, logger)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := mw.Limit(handler)

	req := httptest.NewRequest("POST", "/chatbot_message", nil)
	req.RemoteAddr = "192.168.1.1:12345"

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON error body, got content type %q", ct)
	}
}

func TestRateLimitMiddleware_LimitsByForwardedClient(t *testing.T) {
	logger := testLogger()
	rl := NewRateLimiter(1, time.Minute, logger)
	mw := NewRateLimitMiddleware(rl, logger)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := mw.Limit(handler)

	// Two widget visitors behind the same proxy count separately.
	req1 := httptest.NewRequest("POST", "/chatbot_message", nil)
	req1.RemoteAddr = "10.0.0.1:80"
	req1.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")

	req2 := httptest.NewRequest("POST", "/chatbot_message", nil)
	req2.RemoteAddr = "10.0.0.1:80"
	req2.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req1)
	if rec.Code != http.StatusOK {
		t.Fatalf("first client should pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req2)
	if rec.Code != http.StatusOK {
		t.Fatalf("second client should pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req1)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("first client's second request should be limited, got %d", rec.Code)
	}
}

func TestEndpointRateLimiter_ChatAndLoginAreSeparate(t *testing.T) {
	erl := NewEndpointRateLimiter(testLogger())

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	chat := erl.LimitChat(handler)
	login := erl.LimitLogin(handler)

	// Exhaust the login allowance.
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest("GET", "/login/google", nil)
		req.RemoteAddr = "192.168.1.1:1000"
		login.ServeHTTP(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest("GET", "/login/google", nil)
	req.RemoteAddr = "192.168.1.1:1000"
	rec := httptest.NewRecorder()
	login.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("login should be limited, got %d", rec.Code)
	}

	// The chat limiter is unaffected.
	req = httptest.NewRequest("POST", "/chatbot_message", nil)
	req.RemoteAddr = "192.168.1.1:1000"
	rec = httptest.NewRecorder()
	chat.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("chat should not share the login limit, got %d", rec.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	cases := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"remote addr with port", "192.168.1.1:12345", "", "", "192.168.1.1"},
		{"x-forwarded-for single", "10.0.0.1:80", "203.0.113.5", "", "203.0.113.5"},
		{"x-forwarded-for chain", "10.0.0.1:80", "203.0.113.5, 10.0.0.2", "", "203.0.113.5"},
		{"x-real-ip", "10.0.0.1:80", "", "203.0.113.7", "203.0.113.7"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = tc.remoteAddr
		if tc.xff != "" {
			req.Header.Set("X-Forwarded-For", tc.xff)
		}
		if tc.xri != "" {
			req.Header.Set("X-Real-IP", tc.xri)
		}
		if got := getClientIP(req); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}
