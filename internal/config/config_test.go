package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token-123")

	cfg, err := New()
	require.NoError(t, err)

	require.Equal(t, "token-123", cfg.DiscordToken)
	require.Empty(t, cfg.AllowedChannels)
	require.Equal(t, []string{"tèo", "teo", "bot", "@"}, cfg.NameTokens)
	require.Equal(t, 25, cfg.SleepStartHour)
	require.Equal(t, 26, cfg.SleepEndHour)
	require.InDelta(t, 0.5, cfg.TriggerProbability, 1e-9)
	require.InDelta(t, 0.2, cfg.ReactProbability, 1e-9)
	require.Equal(t, 10*time.Second, cfg.MinReplyInterval)
	require.Equal(t, 20, cfg.TransportPerMinute)
	require.Equal(t, 10, cfg.CompletionPerMinute)
	require.Equal(t, 100, cfg.CompletionPerHour)
	require.Equal(t, "g4f:gpt-oss-120b", cfg.AIEngine)
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token-123")
	t.Setenv("ALLOWED_CHANNELS", "111,222")
	t.Setenv("MIN_REPLY_INTERVAL", "30s")
	t.Setenv("TRIGGER_PROBABILITY", "0.9")

	cfg, err := New()
	require.NoError(t, err)
	require.Equal(t, []string{"111", "222"}, cfg.AllowedChannels)
	require.Equal(t, 30*time.Second, cfg.MinReplyInterval)
	require.InDelta(t, 0.9, cfg.TriggerProbability, 1e-9)
}
