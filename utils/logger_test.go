package utils

import (
	"testing"

	"villamar/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestLogLevelFollowsConfig(t *testing.T) {
	original := config.AppConfig
	defer func() { config.AppConfig = original }()

	tests := []struct {
		name     string
		logLevel string
		env      string
		expected zapcore.Level
	}{
		{name: "explicit warn", logLevel: "warn", env: "development", expected: zapcore.WarnLevel},
		{name: "explicit error", logLevel: "error", env: "production", expected: zapcore.ErrorLevel},
		{name: "unset in production", logLevel: "", env: "production", expected: zapcore.InfoLevel},
		{name: "unset in development", logLevel: "", env: "development", expected: zapcore.DebugLevel},
		{name: "garbage falls back", logLevel: "loud", env: "production", expected: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config.AppConfig.LogLevel = tt.logLevel
			config.AppConfig.Env = tt.env
			assert.Equal(t, tt.expected, logLevel())
		})
	}
}

func TestInitializeLoggerHonorsLevel(t *testing.T) {
	original := config.AppConfig
	defer func() { config.AppConfig = original }()

	config.AppConfig.LogLevel = "warn"
	config.AppConfig.Env = "production"
	InitializeLogger()

	assert.True(t, Logger.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, Logger.Core().Enabled(zapcore.InfoLevel))
}
