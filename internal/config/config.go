// Package config defines the top-level configuration for the divergence
// watcher and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by SPREADWATCH_* environment
// variables.
type Config struct {
	Venues     VenuesConfig     `toml:"venues"`
	Feed       FeedConfig       `toml:"feed"`
	Comparator ComparatorConfig `toml:"comparator"`
	Execution  ExecutionConfig  `toml:"execution"`
	Redis      RedisConfig      `toml:"redis"`
	Postgres   PostgresConfig   `toml:"postgres"`
	Notify     NotifyConfig     `toml:"notify"`
	Mode       string           `toml:"mode"`
	LogLevel   string           `toml:"log_level"`
}

// VenuesConfig holds the endpoints of the watched price venues. Empty values
// select each venue's production endpoints.
type VenuesConfig struct {
	Bybit       VenueEndpoints `toml:"bybit"`
	Hyperliquid VenueEndpoints `toml:"hyperliquid"`
	Aster       VenueEndpoints `toml:"aster"`
}

// VenueEndpoints holds the REST and websocket endpoints of one venue.
type VenueEndpoints struct {
	BaseURL string `toml:"base_url"`
	WSURL   string `toml:"ws_url"`
}

// FeedConfig holds the shared connector parameters for all venue feeds.
type FeedConfig struct {
	ReconnectDelay   duration `toml:"reconnect_delay"`
	HeartbeatTimeout duration `toml:"heartbeat_timeout"`
	// MaxReconnectAttempts caps consecutive failed reconnects; 0 retries
	// forever.
	MaxReconnectAttempts int `toml:"max_reconnect_attempts"`
}

// ComparatorConfig holds the divergence detection parameters.
type ComparatorConfig struct {
	// ThresholdPct is the minimum divergence, in percent, that emits a signal.
	ThresholdPct float64 `toml:"threshold_pct"`
	// Reference names the venue used as the divergence denominator when it is
	// part of the compared pair.
	Reference string `toml:"reference"`
	// ExcludedSymbols are never compared, regardless of listings.
	ExcludedSymbols []string `toml:"excluded_symbols"`
}

// ExecutionConfig holds the execution-venue credentials and position sizing.
type ExecutionConfig struct {
	APIKey    string `toml:"api_key"`
	APISecret string `toml:"api_secret"`
	BaseURL   string `toml:"base_url"`
	// BalanceFraction is the share of the available balance committed as
	// margin per trade.
	BalanceFraction float64 `toml:"balance_fraction"`
	Leverage        float64 `toml:"leverage"`
}

// RedisConfig holds Redis connection parameters. Redis is optional: an empty
// addr disables the advisory trade lock and the signal bus.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// PostgresConfig holds PostgreSQL connection parameters for the signal audit
// store. The store is optional: leave both DSN and host empty to disable it.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5s", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings.
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultExcludedSymbols are skipped by the comparator out of the box: thin
// listings whose venue prices drift apart persistently without converging.
var DefaultExcludedSymbols = []string{
	"PIXELUSDT",
	"REQUSDT",
	"NTRNUSDT",
	"ORBSUSDT",
	"RDNTUSDT",
	"LISTAUSDT",
	"CYBERUSDT",
	"ILVUSDT",
	"CATIUSDT",
	"OGNUSDT",
	"BNTUSDT",
}

// Defaults returns a Config populated with the production default values.
func Defaults() Config {
	return Config{
		Feed: FeedConfig{
			ReconnectDelay:       duration{5 * time.Second},
			HeartbeatTimeout:     duration{30 * time.Second},
			MaxReconnectAttempts: 0,
		},
		Comparator: ComparatorConfig{
			ThresholdPct:    0.4,
			Reference:       "bybit",
			ExcludedSymbols: append([]string(nil), DefaultExcludedSymbols...),
		},
		Execution: ExecutionConfig{
			BalanceFraction: 0.75,
			Leverage:        10,
		},
		Redis: RedisConfig{
			PoolSize: 10,
		},
		Postgres: PostgresConfig{
			Port:          5432,
			Database:      "spreadwatch",
			User:          "spreadwatch",
			SSLMode:       "disable",
			PoolMaxConns:  4,
			RunMigrations: true,
		},
		Notify: NotifyConfig{
			Events: []string{"signal", "trade", "system"},
		},
		Mode:     "monitor",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"monitor": true,
	"trade":   true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: monitor, trade)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Feed.ReconnectDelay.Duration <= 0 {
		errs = append(errs, "feed: reconnect_delay must be > 0")
	}
	if c.Feed.HeartbeatTimeout.Duration <= 0 {
		errs = append(errs, "feed: heartbeat_timeout must be > 0")
	}
	if c.Feed.MaxReconnectAttempts < 0 {
		errs = append(errs, "feed: max_reconnect_attempts must be >= 0")
	}

	if c.Comparator.ThresholdPct <= 0 {
		errs = append(errs, "comparator: threshold_pct must be > 0")
	}
	if c.Comparator.Reference == "" {
		errs = append(errs, "comparator: reference must not be empty")
	}

	// Execution credentials only matter in trade mode; monitor mode never
	// touches the execution venue.
	if strings.ToLower(c.Mode) == "trade" {
		if c.Execution.APIKey == "" || c.Execution.APISecret == "" {
			errs = append(errs, "execution: api_key and api_secret are required for trade mode")
		}
		if c.Execution.BalanceFraction <= 0 || c.Execution.BalanceFraction > 1 {
			errs = append(errs, fmt.Sprintf("execution: balance_fraction must be in (0, 1], got %g", c.Execution.BalanceFraction))
		}
		if c.Execution.Leverage < 1 {
			errs = append(errs, fmt.Sprintf("execution: leverage must be >= 1, got %g", c.Execution.Leverage))
		}
	}

	if c.Redis.Addr != "" && c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	if c.PostgresEnabled() && strings.TrimSpace(c.Postgres.DSN) == "" {
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
		}
		if c.Postgres.Database == "" {
			errs = append(errs, "postgres: database must not be empty")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// RedisEnabled reports whether a Redis connection is configured.
func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != ""
}

// PostgresEnabled reports whether the signal audit store is configured.
func (c *Config) PostgresEnabled() bool {
	return strings.TrimSpace(c.Postgres.DSN) != "" || strings.TrimSpace(c.Postgres.Host) != ""
}
