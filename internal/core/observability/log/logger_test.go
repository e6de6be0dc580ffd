package log

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/unpossible/pkg/vmath"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":  LevelDebug,
		"":       LevelInfo,
		"info":   LevelInfo,
		"warn":   LevelWarn,
		"error":  LevelError,
		"silent": LevelSilent,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestFieldsReachZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core))

	l.With(String("world", "w1")).Info("body added",
		Int("handle", 3),
		Float64("mass", 2.5),
		Bool("static", false),
		Vec("position", vmath.Vec(1, 2)),
		Err(errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "body added", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "w1", ctx["world"])
	assert.Equal(t, int64(3), ctx["handle"])
	assert.Equal(t, 2.5, ctx["mass"])
	assert.Equal(t, false, ctx["static"])
	assert.Equal(t, map[string]any{"x": 1.0, "y": 2.0}, ctx["position"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Info("ignored", Int("n", 1))
	assert.Equal(t, LevelSilent, l.GetLevel())
	assert.NotNil(t, Provide())
}

func TestNewWithFileSink(t *testing.T) {
	file := filepath.Join(t.TempDir(), "physics.log")
	l := New(Options{Level: LevelWarn, Format: "console", Name: "test", File: file, MaxSizeMB: 1})
	assert.Equal(t, LevelWarn, l.GetLevel())

	l.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, l.GetLevel())
	l.Named("sub").Debug("hello")
	_ = l.Sync()
	assert.FileExists(t, file)
}
