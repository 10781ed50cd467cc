// Package feed runs one streaming connection per venue through a shared
// connect/subscribe/stream/reconnect state machine. Venue-specific wire
// formats live behind the Stream interface; validation, universe filtering,
// and the synchronous comparator call happen here so every venue gets
// identical semantics.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/avelkov/spreadwatch/internal/domain"
)

// Tick is a single price update parsed from an inbound frame. Price is kept
// as the venue's textual field; parsing and validation are the connector's
// job so a malformed field is skipped identically on every venue.
type Tick struct {
	Symbol string // canonical symbol
	Price  string
}

// Stream is one venue's streaming transport.
type Stream interface {
	// Name identifies the venue in logs.
	Name() string
	// Connect opens the transport.
	Connect(ctx context.Context) error
	// Subscribe sends the venue-specific subscription request for the given
	// canonical symbols.
	Subscribe(ctx context.Context, symbols []string) error
	// Next blocks until the next inbound frame and returns the price updates
	// parsed from it. Keepalive and confirmation frames return (nil, nil).
	// The context carries the heartbeat deadline.
	Next(ctx context.Context) ([]Tick, error)
	// Close tears the transport down. Safe to call when not connected.
	Close() error
}

// State is the connector's position in its lifecycle.
type State int

const (
	StateConnecting State = iota
	StateSubscribing
	StateStreaming
	StateReconnecting
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateSubscribing:
		return "subscribing"
	case StateStreaming:
		return "streaming"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// Config holds the retry and liveness parameters shared by all venues.
type Config struct {
	// ReconnectDelay is the fixed sleep between reconnection attempts.
	ReconnectDelay time.Duration
	// HeartbeatTimeout bounds the wait for the next inbound frame; elapsing
	// is treated as a silent disconnect.
	HeartbeatTimeout time.Duration
	// MaxAttempts caps consecutive failed attempts. 0 means unbounded.
	MaxAttempts int
}

// UpdateFunc is called synchronously after every accepted price write, before
// the next frame is processed.
type UpdateFunc func(ctx context.Context, symbol string)

// Connector owns one venue's streaming connection for the lifetime of the
// process.
type Connector struct {
	stream   Stream
	store    domain.PriceStore
	symbols  []string
	universe map[string]struct{}
	onUpdate UpdateFunc
	cfg      Config
	logger   *slog.Logger

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewConnector creates a Connector for one venue. universe is the tradable
// intersection; updates for symbols outside it are ignored.
func NewConnector(stream Stream, store domain.PriceStore, universe map[string]struct{}, onUpdate UpdateFunc, cfg Config, logger *slog.Logger) *Connector {
	symbols := make([]string, 0, len(universe))
	for sym := range universe {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	return &Connector{
		stream:   stream,
		store:    store,
		symbols:  symbols,
		universe: universe,
		onUpdate: onUpdate,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "feed"), slog.String("venue", stream.Name())),
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run drives the state machine until the context is cancelled or, when a
// positive attempt cap is configured, until the cap is exhausted. Connect and
// subscribe failures are counted and retried with the fixed delay; the
// counter resets on a successful subscription.
func (c *Connector) Run(ctx context.Context) error {
	state := StateConnecting
	attempts := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch state {
		case StateConnecting:
			if err := c.stream.Connect(ctx); err != nil {
				c.logger.WarnContext(ctx, "connect failed",
					slog.String("error", err.Error()),
				)
				state = StateReconnecting
				continue
			}
			state = StateSubscribing

		case StateSubscribing:
			if err := c.stream.Subscribe(ctx, c.symbols); err != nil {
				c.logger.WarnContext(ctx, "subscribe failed",
					slog.String("error", err.Error()),
				)
				_ = c.stream.Close()
				state = StateReconnecting
				continue
			}
			c.logger.InfoContext(ctx, "subscribed",
				slog.Int("symbols", len(c.symbols)),
				slog.Int("attempts_before_success", attempts),
			)
			attempts = 0
			state = StateStreaming

		case StateStreaming:
			err := c.streamLoop(ctx)
			_ = c.stream.Close()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.ErrorContext(ctx, "connection lost",
				slog.String("error", err.Error()),
			)
			state = StateReconnecting

		case StateReconnecting:
			attempts++
			if c.cfg.MaxAttempts > 0 && attempts >= c.cfg.MaxAttempts {
				return fmt.Errorf("feed: %s: max reconnection attempts (%d) reached", c.stream.Name(), c.cfg.MaxAttempts)
			}
			c.logger.WarnContext(ctx, "reconnecting",
				slog.Int("attempt", attempts),
				slog.Duration("delay", c.cfg.ReconnectDelay),
			)
			if err := c.sleep(ctx, c.cfg.ReconnectDelay); err != nil {
				return err
			}
			state = StateConnecting
		}
	}
}

// streamLoop processes frames strictly in arrival order until the stream
// errors, ends, or stays silent past the heartbeat timeout.
func (c *Connector) streamLoop(ctx context.Context) error {
	for {
		frameCtx, cancel := context.WithTimeout(ctx, c.cfg.HeartbeatTimeout)
		ticks, err := c.stream.Next(frameCtx)
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return fmt.Errorf("feed: %s: no messages for %s, connection may be lost", c.stream.Name(), c.cfg.HeartbeatTimeout)
			}
			return err
		}
		for _, tick := range ticks {
			c.apply(ctx, tick)
		}
	}
}

// apply validates one tick and, if it passes, writes it to the store and
// invokes the comparator. A bad field only skips that field, never the
// connection.
func (c *Connector) apply(ctx context.Context, tick Tick) {
	if _, ok := c.universe[tick.Symbol]; !ok {
		return
	}

	price, err := strconv.ParseFloat(tick.Price, 64)
	if err != nil {
		c.logger.WarnContext(ctx, "unparseable price, skipping",
			slog.String("symbol", tick.Symbol),
			slog.String("value", tick.Price),
		)
		return
	}
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		c.logger.WarnContext(ctx, "invalid price, skipping",
			slog.String("symbol", tick.Symbol),
			slog.Float64("price", price),
		)
		return
	}

	c.store.Set(tick.Symbol, price)
	if c.onUpdate != nil {
		c.onUpdate(ctx, tick.Symbol)
	}
}
