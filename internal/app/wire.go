package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avelkov/spreadwatch/internal/cache/redis"
	"github.com/avelkov/spreadwatch/internal/config"
	"github.com/avelkov/spreadwatch/internal/domain"
	"github.com/avelkov/spreadwatch/internal/notify"
	"github.com/avelkov/spreadwatch/internal/platform/aster"
	"github.com/avelkov/spreadwatch/internal/platform/bingx"
	"github.com/avelkov/spreadwatch/internal/platform/bybit"
	"github.com/avelkov/spreadwatch/internal/platform/hyperliquid"
	"github.com/avelkov/spreadwatch/internal/store/postgres"
)

// Dependencies bundles everything the application modes need: venue clients,
// the optional persistence and locking layers, and the notifier. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	// Price venues
	Bybit       *bybit.Client
	Hyperliquid *hyperliquid.Client
	Aster       *aster.Client

	// Execution venue; nil outside trade mode.
	Execution *bingx.Client

	// Optional infrastructure; nil when not configured.
	SignalStore domain.SignalStore
	LockManager domain.LockManager
	SignalBus   domain.SignalBus

	Notifier *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that must
// be called on shutdown.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{
		Bybit:       bybit.NewClient(cfg.Venues.Bybit.BaseURL),
		Hyperliquid: hyperliquid.NewClient(cfg.Venues.Hyperliquid.BaseURL),
		Aster:       aster.NewClient(cfg.Venues.Aster.BaseURL),
	}

	// --- Execution venue (trade mode only) ---
	if cfg.Mode == "trade" {
		client, err := bingx.NewClient(bingx.Config{
			APIKey:    cfg.Execution.APIKey,
			APISecret: cfg.Execution.APISecret,
			BaseURL:   cfg.Execution.BaseURL,
		}, logger)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: execution venue: %w", err)
		}
		deps.Execution = client
	}

	// --- Redis: advisory trade lock and signal bus ---
	if cfg.RedisEnabled() {
		rdb, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = rdb.Close() })

		deps.LockManager = redis.NewLockManager(rdb)
		deps.SignalBus = redis.NewSignalBus(rdb)
	}

	// --- PostgreSQL: signal audit store ---
	if cfg.PostgresEnabled() {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}
		deps.SignalStore = postgres.NewSignalStore(pgClient.Pool())
	}

	// --- Notification channels ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	return deps, cleanup, nil
}
