package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/unpossible/internal/core/observability/log"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 1.0, cfg.Sim.Speed)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 20*time.Millisecond, cfg.Sim.Period(0.02))
	cfg.Sim.Speed = 4
	assert.Equal(t, 5*time.Millisecond, cfg.Sim.Period(0.02))
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: json
sim:
  speed: 2.5
server:
  write_timeout: 2s
`), 0o600))
	t.Setenv("UNPOSSIBLE_SERVER_ADDR", "0.0.0.0:9999")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 2.5, cfg.Sim.Speed)
	assert.Equal(t, 2*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "0.0.0.0:9999", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Sim.MaxCatchUp)

	opts := cfg.Log.Options("unpossible")
	assert.Equal(t, log.LevelDebug, opts.Level)
	assert.Equal(t, "unpossible", opts.Name)
}

func TestLoadWithoutDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, NewDefaultConfig(), cfg)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Log.Level = "loud"
	cfg.Sim.Speed = 0
	cfg.Server.SendBuffer = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "sim.speed")
	assert.Contains(t, err.Error(), "server.send_buffer")
}
