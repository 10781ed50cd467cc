package app

import (
	"context"
	"encoding/json"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/avelkov/spreadwatch/internal/compare"
	"github.com/avelkov/spreadwatch/internal/domain"
	"github.com/avelkov/spreadwatch/internal/feed"
	"github.com/avelkov/spreadwatch/internal/gate"
	"github.com/avelkov/spreadwatch/internal/notify"
	"github.com/avelkov/spreadwatch/internal/platform/aster"
	"github.com/avelkov/spreadwatch/internal/platform/bybit"
	"github.com/avelkov/spreadwatch/internal/platform/hyperliquid"
	"github.com/avelkov/spreadwatch/internal/pricestore"
	"github.com/avelkov/spreadwatch/internal/universe"
)

const (
	signalChannel = "signals"
	signalStream  = "signals:history"
)

// watch bundles the per-venue feed connectors behind one comparator, ready to
// run. It is shared by both operating modes; trade mode adds the gate handler
// before starting.
type watch struct {
	comparator *compare.Comparator
	connectors []*feed.Connector
}

// MonitorMode detects and reports divergences without ever touching the
// execution venue.
func (a *App) MonitorMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting monitor mode")

	w, err := a.buildWatch(ctx, deps)
	if err != nil {
		return err
	}
	return a.runWatch(ctx, w)
}

// TradeMode runs the same detection pipeline as monitor mode and routes every
// signal through the trade gate.
func (a *App) TradeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting trade mode")

	w, err := a.buildWatch(ctx, deps)
	if err != nil {
		return err
	}

	g := gate.New(deps.Execution, deps.LockManager, gate.Config{
		BalanceFraction: a.cfg.Execution.BalanceFraction,
		Leverage:        a.cfg.Execution.Leverage,
	}, a.logger)

	w.comparator.AddHandler(func(ctx context.Context, sig domain.Signal) {
		out := g.OnSignal(ctx, sig)
		a.logger.InfoContext(ctx, "trade gate decision",
			slog.String("signal_id", sig.ID),
			slog.String("symbol", sig.Symbol),
			slog.String("status", out.Status.String()),
		)

		if deps.SignalStore != nil {
			if err := deps.SignalStore.RecordOutcome(ctx, sig.ID, out); err != nil {
				a.logger.WarnContext(ctx, "record outcome failed",
					slog.String("signal_id", sig.ID),
					slog.String("error", err.Error()),
				)
			}
		}

		title, message := notify.FormatOutcome(sig, out)
		_ = deps.Notifier.Notify(ctx, notify.EventTrade, title, message)
	})

	return a.runWatch(ctx, w)
}

// buildWatch resolves the symbol universe, seeds the per-venue price stores,
// and assembles the comparator with the handlers common to both modes.
func (a *App) buildWatch(ctx context.Context, deps *Dependencies) (*watch, error) {
	symbols, err := universe.Intersect(ctx, []universe.Source{
		deps.Bybit,
		deps.Hyperliquid,
		deps.Aster,
	}, a.logger)
	if err != nil {
		return nil, err
	}
	a.logger.InfoContext(ctx, "symbol universe resolved", slog.Int("symbols", len(symbols)))

	bybitStore := pricestore.New()
	hlStore := pricestore.New()
	asterStore := pricestore.New()
	bybitStore.Seed(symbols)
	hlStore.Seed(symbols)
	asterStore.Seed(symbols)

	comparator := compare.New(
		[]compare.VenuePrices{
			{Venue: deps.Bybit.Name(), Store: bybitStore},
			{Venue: deps.Hyperliquid.Name(), Store: hlStore},
			{Venue: deps.Aster.Name(), Store: asterStore},
		},
		a.cfg.Comparator.Reference,
		a.cfg.Comparator.ThresholdPct,
		a.cfg.Comparator.ExcludedSymbols,
		a.logger,
	)

	comparator.AddHandler(func(ctx context.Context, sig domain.Signal) {
		title, message := notify.FormatSignal(sig)
		_ = deps.Notifier.Notify(ctx, notify.EventSignal, title, message)
	})

	if deps.SignalStore != nil {
		comparator.AddHandler(func(ctx context.Context, sig domain.Signal) {
			if err := deps.SignalStore.Insert(ctx, sig); err != nil {
				a.logger.WarnContext(ctx, "persist signal failed",
					slog.String("signal_id", sig.ID),
					slog.String("error", err.Error()),
				)
			}
		})
	}

	if deps.SignalBus != nil {
		comparator.AddHandler(func(ctx context.Context, sig domain.Signal) {
			payload, err := json.Marshal(sig)
			if err != nil {
				return
			}
			if err := deps.SignalBus.Publish(ctx, signalChannel, payload); err != nil {
				a.logger.WarnContext(ctx, "publish signal failed",
					slog.String("signal_id", sig.ID),
					slog.String("error", err.Error()),
				)
			}
			if err := deps.SignalBus.StreamAppend(ctx, signalStream, payload); err != nil {
				a.logger.WarnContext(ctx, "append signal to stream failed",
					slog.String("signal_id", sig.ID),
					slog.String("error", err.Error()),
				)
			}
		})
	}

	feedCfg := feed.Config{
		ReconnectDelay:   a.cfg.Feed.ReconnectDelay.Duration,
		HeartbeatTimeout: a.cfg.Feed.HeartbeatTimeout.Duration,
		MaxAttempts:      a.cfg.Feed.MaxReconnectAttempts,
	}

	universeSet := make(map[string]struct{}, len(symbols))
	for _, sym := range symbols {
		universeSet[sym] = struct{}{}
	}

	connectors := []*feed.Connector{
		feed.NewConnector(
			bybit.NewStream(a.cfg.Venues.Bybit.WSURL, a.logger),
			bybitStore, universeSet, comparator.OnUpdate, feedCfg, a.logger,
		),
		feed.NewConnector(
			hyperliquid.NewStream(a.cfg.Venues.Hyperliquid.WSURL, a.logger),
			hlStore, universeSet, comparator.OnUpdate, feedCfg, a.logger,
		),
		feed.NewConnector(
			aster.NewStream(a.cfg.Venues.Aster.WSURL, a.logger),
			asterStore, universeSet, comparator.OnUpdate, feedCfg, a.logger,
		),
	}

	return &watch{comparator: comparator, connectors: connectors}, nil
}

// runWatch runs all feed connectors until the context is cancelled or one of
// them exhausts its reconnection attempts.
func (a *App) runWatch(ctx context.Context, w *watch) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, c := range w.connectors {
		c := c
		g.Go(func() error {
			return c.Run(ctx)
		})
	}
	return g.Wait()
}
