package logger

import (
	"testing"

	"github.com/meridian-realty/dashboard-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildConfig(t *testing.T) {
	app := &config.AppConfig{Name: "dashboard", Environment: "development"}

	dev := buildConfig(&config.LoggingConfig{Level: "debug", Format: "console"}, app)
	assert.Equal(t, "console", dev.Encoding)
	assert.Equal(t, zapcore.DebugLevel, dev.Level.Level())
	assert.Equal(t, "dashboard", dev.InitialFields["app"])

	prod := buildConfig(&config.LoggingConfig{Level: "warn"}, &config.AppConfig{Environment: "production"})
	assert.Equal(t, "json", prod.Encoding)
	assert.Equal(t, zapcore.WarnLevel, prod.Level.Level())

	fallback := buildConfig(&config.LoggingConfig{Level: "loud", Format: "json"}, app)
	assert.Equal(t, "json", fallback.Encoding)
	assert.Equal(t, zapcore.InfoLevel, fallback.Level.Level())
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(&config.LoggingConfig{Level: "info", Format: "json"}, &config.AppConfig{Name: "dashboard"})
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestContextHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	WithRequest(base, "GET", "/api/v1/analytics/funnel", "req-1").Info("request")
	WithUser(base, "u-1", "Sofie", "").Info("no agency")
	WithUser(base, "u-2", "Ola", "a-1").Info("with agency")
	WithJob(base, "stall-scan").Info("job")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	assert.NotContains(t, entries[1].ContextMap(), "agency_id")
	assert.Equal(t, "a-1", entries[2].ContextMap()["agency_id"])
	assert.Equal(t, "stall-scan", entries[3].ContextMap()["job"])
}
