package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevels(t *testing.T) {
	core, logs := observer.New(parseLevel("info"))
	l := newWithCore("info", core)

	l.Debug("hidden %d", 1)
	l.Info("shown %s", "info")
	l.Error("shown %s", "error")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "shown info", entries[0].Message)
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	}
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := newWithCore("debug", core).With("component", "dedup")

	l.Debug("marker %s", "set")

	entries := logs.FilterField(zapcore.Field{Key: "component", Type: zapcore.StringType, String: "dedup"}).All()
	assert.Len(t, entries, 1)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
}
