package logger

import (
	"sdo_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestLevelFor(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, levelFor(&config.Config{Log: config.LogConfig{Level: "warn"}}))
	assert.Equal(t, zapcore.DebugLevel, levelFor(&config.Config{Server: config.ServerConfig{Mode: "debug"}}))
	assert.Equal(t, zapcore.InfoLevel, levelFor(&config.Config{Log: config.LogConfig{Level: "loud"}, Server: config.ServerConfig{Mode: "release"}}))
}

func TestApplyConfigChangesLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel(zapcore.InfoLevel) })

	ApplyConfig(&config.Config{Log: config.LogConfig{Level: "error"}})
	assert.Equal(t, zapcore.ErrorLevel, level.Level())

	ApplyConfig(&config.Config{Log: config.LogConfig{Level: "debug"}})
	assert.True(t, level.Enabled(zapcore.DebugLevel))
}
