package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies SPREADWATCH_* environment variable overrides,
// and returns the final Config. The returned Config has NOT been validated;
// the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known SPREADWATCH_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Venues ──
	setStr(&cfg.Venues.Bybit.BaseURL, "SPREADWATCH_BYBIT_BASE_URL")
	setStr(&cfg.Venues.Bybit.WSURL, "SPREADWATCH_BYBIT_WS_URL")
	setStr(&cfg.Venues.Hyperliquid.BaseURL, "SPREADWATCH_HYPERLIQUID_BASE_URL")
	setStr(&cfg.Venues.Hyperliquid.WSURL, "SPREADWATCH_HYPERLIQUID_WS_URL")
	setStr(&cfg.Venues.Aster.BaseURL, "SPREADWATCH_ASTER_BASE_URL")
	setStr(&cfg.Venues.Aster.WSURL, "SPREADWATCH_ASTER_WS_URL")

	// ── Feed ──
	setDuration(&cfg.Feed.ReconnectDelay, "SPREADWATCH_FEED_RECONNECT_DELAY")
	setDuration(&cfg.Feed.HeartbeatTimeout, "SPREADWATCH_FEED_HEARTBEAT_TIMEOUT")
	setInt(&cfg.Feed.MaxReconnectAttempts, "SPREADWATCH_FEED_MAX_RECONNECT_ATTEMPTS")

	// ── Comparator ──
	setFloat64(&cfg.Comparator.ThresholdPct, "SPREADWATCH_COMPARATOR_THRESHOLD_PCT")
	setStr(&cfg.Comparator.Reference, "SPREADWATCH_COMPARATOR_REFERENCE")
	setStringSlice(&cfg.Comparator.ExcludedSymbols, "SPREADWATCH_COMPARATOR_EXCLUDED_SYMBOLS")

	// ── Execution ──
	setStr(&cfg.Execution.APIKey, "SPREADWATCH_EXECUTION_API_KEY")
	setStr(&cfg.Execution.APISecret, "SPREADWATCH_EXECUTION_API_SECRET")
	setStr(&cfg.Execution.BaseURL, "SPREADWATCH_EXECUTION_BASE_URL")
	setFloat64(&cfg.Execution.BalanceFraction, "SPREADWATCH_EXECUTION_BALANCE_FRACTION")
	setFloat64(&cfg.Execution.Leverage, "SPREADWATCH_EXECUTION_LEVERAGE")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "SPREADWATCH_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "SPREADWATCH_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "SPREADWATCH_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "SPREADWATCH_REDIS_POOL_SIZE")
	setBool(&cfg.Redis.TLSEnabled, "SPREADWATCH_REDIS_TLS_ENABLED")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "SPREADWATCH_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "SPREADWATCH_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "SPREADWATCH_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "SPREADWATCH_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "SPREADWATCH_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "SPREADWATCH_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "SPREADWATCH_POSTGRES_SSL_MODE")
	setInt(&cfg.Postgres.PoolMaxConns, "SPREADWATCH_POSTGRES_POOL_MAX_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "SPREADWATCH_POSTGRES_RUN_MIGRATIONS")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "SPREADWATCH_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "SPREADWATCH_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "SPREADWATCH_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "SPREADWATCH_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "SPREADWATCH_MODE")
	setStr(&cfg.LogLevel, "SPREADWATCH_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
