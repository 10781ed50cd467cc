package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 5*time.Second, cfg.Feed.ReconnectDelay.Duration)
	assert.Equal(t, 30*time.Second, cfg.Feed.HeartbeatTimeout.Duration)
	assert.Zero(t, cfg.Feed.MaxReconnectAttempts)
	assert.InDelta(t, 0.4, cfg.Comparator.ThresholdPct, 1e-9)
	assert.Equal(t, "bybit", cfg.Comparator.Reference)
	assert.Len(t, cfg.Comparator.ExcludedSymbols, 11)
	assert.InDelta(t, 0.75, cfg.Execution.BalanceFraction, 1e-9)
	assert.InDelta(t, 10.0, cfg.Execution.Leverage, 1e-9)
	assert.Equal(t, "monitor", cfg.Mode)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode = "trade"
log_level = "debug"

[feed]
reconnect_delay = "2s"

[comparator]
threshold_pct = 0.6
excluded_symbols = ["FOOUSDT"]

[execution]
api_key = "k"
api_secret = "s"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "trade", cfg.Mode)
	assert.Equal(t, 2*time.Second, cfg.Feed.ReconnectDelay.Duration)
	// Untouched fields keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Feed.HeartbeatTimeout.Duration)
	assert.InDelta(t, 0.6, cfg.Comparator.ThresholdPct, 1e-9)
	assert.Equal(t, []string{"FOOUSDT"}, cfg.Comparator.ExcludedSymbols)
	assert.NoError(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SPREADWATCH_MODE", "trade")
	t.Setenv("SPREADWATCH_COMPARATOR_THRESHOLD_PCT", "1.5")
	t.Setenv("SPREADWATCH_EXECUTION_API_KEY", "env-key")
	t.Setenv("SPREADWATCH_EXECUTION_API_SECRET", "env-secret")
	t.Setenv("SPREADWATCH_COMPARATOR_EXCLUDED_SYMBOLS", "AUSDT, BUSDT")
	t.Setenv("SPREADWATCH_FEED_HEARTBEAT_TIMEOUT", "45s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "trade", cfg.Mode)
	assert.InDelta(t, 1.5, cfg.Comparator.ThresholdPct, 1e-9)
	assert.Equal(t, "env-key", cfg.Execution.APIKey)
	assert.Equal(t, []string{"AUSDT", "BUSDT"}, cfg.Comparator.ExcludedSymbols)
	assert.Equal(t, 45*time.Second, cfg.Feed.HeartbeatTimeout.Duration)
}

func TestValidateTradeModeRequiresCredentials(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "trade"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key and api_secret are required")

	cfg.Execution.APIKey = "k"
	cfg.Execution.APISecret = "s"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "backtest"
	cfg.LogLevel = "verbose"
	cfg.Comparator.ThresholdPct = 0
	cfg.Feed.ReconnectDelay.Duration = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
	assert.Contains(t, err.Error(), "unknown log_level")
	assert.Contains(t, err.Error(), "threshold_pct")
	assert.Contains(t, err.Error(), "reconnect_delay")
}

func TestRedactedConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Execution.APIKey = "key"
	cfg.Execution.APISecret = "secret"
	cfg.Notify.TelegramToken = "token"

	red := RedactedConfig(&cfg)
	assert.Equal(t, "***", red.Execution.APIKey)
	assert.Equal(t, "***", red.Execution.APISecret)
	assert.Equal(t, "***", red.Notify.TelegramToken)
	// Empty secrets stay empty, the original is untouched.
	assert.Empty(t, red.Redis.Password)
	assert.Equal(t, "key", cfg.Execution.APIKey)
}

func TestEnabledHelpers(t *testing.T) {
	cfg := Defaults()
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.PostgresEnabled())

	cfg.Redis.Addr = "localhost:6379"
	cfg.Postgres.Host = "localhost"
	assert.True(t, cfg.RedisEnabled())
	assert.True(t, cfg.PostgresEnabled())
}
