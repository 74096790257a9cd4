package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blackjack-server.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadServerConfigMissingFile(t *testing.T) {
	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerConfig(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadServerConfig(t *testing.T) {
	path := writeConfig(t, `
server {
  address   = "0.0.0.0"
  port      = 9000
  log_level = "debug"
}

game {
  move_timeout = "30s"
  max_players  = 4
  seed         = 42
}
`)

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9000", cfg.GetServerAddress())
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.Game.MoveTimeoutDuration())
	assert.Equal(t, time.Second, cfg.Game.DealerDelayDuration(), "unset fields take defaults")
	assert.Equal(t, 4, cfg.Game.MaxPlayers)
	assert.Equal(t, int64(42), cfg.Game.Seed)
}

func TestLoadServerConfigWithoutGameBlock(t *testing.T) {
	cfg, err := LoadServerConfig(writeConfig(t, `server { port = 9001 }`))
	require.NoError(t, err)
	require.NotNil(t, cfg.Game)
	assert.Equal(t, defaultMaxPlayers, cfg.Game.MaxPlayers)
	assert.Equal(t, "localhost:9001", cfg.GetServerAddress())
}

func TestLoadServerConfigInvalidHCL(t *testing.T) {
	_, err := LoadServerConfig(writeConfig(t, `server { port = `))
	assert.ErrorContains(t, err, "failed to parse HCL file")
}

func TestServerConfigApplyEnv(t *testing.T) {
	cfg := DefaultServerConfig()
	err := cfg.ApplyEnv(map[string]string{
		"BLACKJACK_ADDR":         "127.0.0.1:7000",
		"BLACKJACK_LOG_LEVEL":    "warn",
		"BLACKJACK_MOVE_TIMEOUT": "15s",
		"BLACKJACK_DEALER_DELAY": "250ms",
	})
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "127.0.0.1:7000", cfg.GetServerAddress())
	assert.Equal(t, "warn", cfg.Server.LogLevel)
	assert.Equal(t, 15*time.Second, cfg.Game.MoveTimeoutDuration())
	assert.Equal(t, 250*time.Millisecond, cfg.Game.DealerDelayDuration())

	assert.Error(t, DefaultServerConfig().ApplyEnv(map[string]string{"BLACKJACK_ADDR": "nonsense"}))
	assert.Error(t, DefaultServerConfig().ApplyEnv(map[string]string{"BLACKJACK_MOVE_TIMEOUT": "soon"}))
}

func TestServerConfigValidate(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.Server.Port = 0
	cfg.Server.LogLevel = "loud"
	cfg.Game.MoveTimeout = "0s"
	cfg.Game.DealerDelay = "later"
	cfg.Game.MaxPlayers = 12

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"invalid port", "invalid log level", "move_timeout", "dealer_delay", "max_players"} {
		assert.ErrorContains(t, err, want)
	}
}
