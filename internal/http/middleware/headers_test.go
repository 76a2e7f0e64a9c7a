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

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.SecurityConfig
		expected map[string]string
	}{
		{
			name: "defaults",
			cfg: config.SecurityConfig{
				ContentTypeNosniff: true,
				FrameOptions:       "DENY",
				XSSProtection:      "1; mode=block",
				ReferrerPolicy:     "strict-origin-when-cross-origin",
			},
			expected: map[string]string{
				"X-Content-Type-Options":    "nosniff",
				"X-Frame-Options":           "DENY",
				"X-XSS-Protection":          "1; mode=block",
				"Referrer-Policy":           "strict-origin-when-cross-origin",
				"Strict-Transport-Security": "",
			},
		},
		{
			name: "hsts with subdomains and preload",
			cfg: config.SecurityConfig{
				EnableHSTS:            true,
				HSTSMaxAge:            31536000,
				HSTSIncludeSubdomains: true,
				HSTSPreload:           true,
			},
			expected: map[string]string{
				"Strict-Transport-Security": "max-age=31536000; includeSubDomains; preload",
				"X-Content-Type-Options":    "",
			},
		},
		{
			name: "disabled frame options",
			cfg:  config.SecurityConfig{FrameOptions: "", ContentSecurityPolicy: "default-src 'self'"},
			expected: map[string]string{
				"X-Frame-Options":         "",
				"Content-Security-Policy": "default-src 'self'",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.SecurityHeaders(&tt.cfg)(okHandler)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			for name, value := range tt.expected {
				assert.Equal(t, value, w.Header().Get(name), name)
			}
		})
	}
}

func preflight(handler http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/analytics/overview", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	base := config.CORSConfig{
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Agency-ID"},
		MaxAge:         300,
	}

	t.Run("development allows any origin when none configured", func(t *testing.T) {
		cfg := base
		handler := middleware.CORS(&cfg, "development", zap.NewNop())(okHandler)
		w := preflight(handler, "http://localhost:5173")
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("production denies every origin when none configured", func(t *testing.T) {
		cfg := base
		handler := middleware.CORS(&cfg, "production", zap.NewNop())(okHandler)
		w := preflight(handler, "https://evil.example.com")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("explicit origins", func(t *testing.T) {
		cfg := base
		cfg.AllowedOrigins = []string{"https://dashboard.meridian-realty.io"}
		handler := middleware.CORS(&cfg, "production", zap.NewNop())(okHandler)

		w := preflight(handler, "https://dashboard.meridian-realty.io")
		assert.Equal(t, "https://dashboard.meridian-realty.io", w.Header().Get("Access-Control-Allow-Origin"))

		w = preflight(handler, "https://other.example.com")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard", func(t *testing.T) {
		cfg := base
		cfg.AllowedOrigins = []string{"*"}
		handler := middleware.CORS(&cfg, "staging", zap.NewNop())(okHandler)
		w := preflight(handler, "https://anything.example.com")
		assert.Equal(t, "https://anything.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
