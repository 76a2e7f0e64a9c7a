package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meridian-realty/dashboard-api/internal/config"
	"github.com/meridian-realty/dashboard-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func hit(handler http.Handler, path, remoteAddr string, headers map[string]string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: false, RequestsPerMinute: 1}, zap.NewNop())
	handler := rl.LimitByIP(okHandler)

	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, hit(handler, "/api/v1/leads", "10.0.0.1:1234", nil))
	}
}

func TestRateLimiter_LimitsPerIP(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2}, zap.NewNop())
	handler := rl.LimitByIP(okHandler)

	assert.Equal(t, http.StatusOK, hit(handler, "/api/v1/leads", "10.0.0.1:1234", nil))
	assert.Equal(t, http.StatusOK, hit(handler, "/api/v1/leads", "10.0.0.1:1234", nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Too Many Requests")

	// a different client has its own budget
	assert.Equal(t, http.StatusOK, hit(handler, "/api/v1/leads", "10.0.0.2:1234", nil))
}

func TestRateLimiter_ForwardedForIdentifiesClient(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1}, zap.NewNop())
	handler := rl.LimitByIP(okHandler)

	proxy := "172.16.0.1:443"
	assert.Equal(t, http.StatusOK, hit(handler, "/x", proxy, map[string]string{"X-Forwarded-For": "203.0.113.7, 172.16.0.1"}))
	assert.Equal(t, http.StatusOK, hit(handler, "/x", proxy, map[string]string{"X-Forwarded-For": "203.0.113.8"}))
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "/x", proxy, map[string]string{"X-Forwarded-For": "203.0.113.7"}))
}

func TestRateLimiter_Whitelists(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 1,
		WhitelistIPs:      []string{"127.0.0.1"},
		WhitelistPaths:    []string{"/health", "/swagger/*"},
	}, zap.NewNop())
	handler := rl.LimitByIP(okHandler)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(handler, "/api/v1/leads", "127.0.0.1:5000", nil))
		assert.Equal(t, http.StatusOK, hit(handler, "/health", "10.0.0.9:5000", nil))
		assert.Equal(t, http.StatusOK, hit(handler, "/swagger/index.html", "10.0.0.9:5000", nil))
	}
}
