package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ModePolling, cfg.Bot.Mode)
	assert.Equal(t, ":8080", cfg.Bot.Listen)
	assert.Equal(t, 3, cfg.API.RetryCycles)
	assert.Equal(t, time.Second, cfg.API.RetryTimeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Game.MinPlayers)
	assert.Equal(t, 8, cfg.Game.MaxPlayers)
	assert.Equal(t, 4, cfg.Game.DefaultPlayers)
	assert.Equal(t, 3*time.Second, cfg.Game.PollInterval)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	raw := `
bot:
  token: "123:abc"
  mode: webhook
  webhook_url: "https://bot.example.com/updates"
api:
  base_url: "https://game.example.com"
  retry_cycles: 5
game:
  max_players: 10
  poll_interval: 500ms
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(raw), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, ModeWebhook, cfg.Bot.Mode)
	assert.Equal(t, "https://bot.example.com/updates", cfg.Bot.WebhookURL)
	assert.Equal(t, 5, cfg.API.RetryCycles)
	assert.Equal(t, 10, cfg.Game.MaxPlayers)
	assert.Equal(t, 500*time.Millisecond, cfg.Game.PollInterval)
	// Untouched keys keep their defaults.
	assert.Equal(t, 3, cfg.Game.MinPlayers)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "unknown mode",
			raw:  "bot:\n  mode: carrier-pigeon\n",
		},
		{
			name: "webhook without url",
			raw:  "bot:\n  mode: webhook\n",
		},
		{
			name: "player bounds inverted",
			raw:  "game:\n  min_players: 6\n  max_players: 4\n",
		},
		{
			name: "default outside bounds",
			raw:  "game:\n  default_players: 20\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(tt.raw), 0o644))

			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}
