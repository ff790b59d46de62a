package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"activity-signup/internal/common/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestZapWrapper_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).
		WithFields(map[string]interface{}{"activity": "Chess Club"}).
		WithError(errors.New("boom"))

	log.Warn("signup rejected", map[string]interface{}{
		"email": "michael@mergington.edu",
		"cause": errors.New("duplicate"),
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "signup rejected", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "Chess Club", ctx["activity"])
	assert.Equal(t, "michael@mergington.edu", ctx["email"])
	assert.Equal(t, "boom", ctx["error"])
	assert.Equal(t, "duplicate", ctx["cause"])
}

func TestNewFromConfig_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	zl, err := NewFromConfig(config.LoggingConfig{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	NewZapAdapter(zl).Info("listening", map[string]interface{}{"address": ":8080"})
	_ = zl.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"address":":8080"`))
}

func TestNewFromConfig_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	zl, err := NewFromConfig(config.LoggingConfig{Level: "error", Format: "json", Output: path})
	require.NoError(t, err)

	NewZapAdapter(zl).Info("ignored", nil)
	_ = zl.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestNoOpLogger(t *testing.T) {
	log := NewNoOpLogger()
	assert.NotPanics(t, func() {
		log.WithFields(nil).Error("nothing", nil)
	})
}
