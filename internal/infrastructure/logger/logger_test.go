package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lms/backend/internal/infrastructure/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LogConfig
	}{
		{"json to stdout", config.LogConfig{Level: "info", Format: "json", Output: "stdout"}},
		{"console to stderr", config.LogConfig{Level: "debug", Format: "console", Output: "stderr"}},
		{"unknown level falls back to info", config.LogConfig{Level: "verbose", Format: "json", Output: "stdout"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, logger)
			logger.Info("test entry")
		})
	}
}

func TestNewForEnvironment(t *testing.T) {
	logger, err := NewForEnvironment("production")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	logger, err = NewForEnvironment("development")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestContextLogger(t *testing.T) {
	base := zap.NewNop()
	ctx := context.Background()

	assert.NotNil(t, FromContext(ctx))

	ctx = WithContext(ctx, base)
	assert.Same(t, base, FromContext(ctx))

	ctx, enriched := WithRequestID(ctx, base, "req-123")
	assert.NotNil(t, enriched)
	assert.Equal(t, "req-123", GetRequestID(ctx))

	// No active span leaves the logger unchanged
	assert.Same(t, base, WithTraceContext(context.Background(), base))
}

func TestGormLogger_LogMode(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), "warn")

	silenced := gl.LogMode(gormlogger.Silent)
	require.NotNil(t, silenced)
	// The original logger keeps its level
	assert.Equal(t, gormlogger.Warn, gl.logLevel)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, mapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, mapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, mapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, mapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, mapGormLogLevel(""))
}
