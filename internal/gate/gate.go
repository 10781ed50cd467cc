// Package gate decides whether a divergence signal becomes a real position.
// It enforces the global at-most-one-position policy, resolves trade
// direction, sizes the order from the live balance, and places it on the
// execution venue.
package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avelkov/spreadwatch/internal/domain"
)

// lockKey guards the check-then-act window between counting open positions
// and placing the order. A single process does not need it; the advisory lock
// only matters when several watcher instances share one account.
const lockKey = "trade:open"

const lockTTL = 30 * time.Second

// ExecutionVenue is the surface the gate needs from a derivatives exchange.
type ExecutionVenue interface {
	CountOpenPositions(ctx context.Context) (int, error)
	AvailableBalance(ctx context.Context) (float64, error)
	EnsureLeverage(ctx context.Context, symbol string, side domain.Side, leverage float64) error
	PlaceMarketOrder(ctx context.Context, symbol string, side domain.Side, quantity, leverage float64) error
	NativeSymbol(symbol string) string
}

// Config carries the sizing parameters for opened positions.
type Config struct {
	// BalanceFraction is the share of the available balance committed as
	// margin for each trade.
	BalanceFraction float64
	// Leverage multiplies the margin into the order's notional value.
	Leverage float64
}

// Gate turns signals into at most one open position at a time.
type Gate struct {
	venue  ExecutionVenue
	locks  domain.LockManager // nil disables advisory locking
	cfg    Config
	logger *slog.Logger
}

// New creates a Gate. locks may be nil when the process is the account's only
// writer.
func New(venue ExecutionVenue, locks domain.LockManager, cfg Config, logger *slog.Logger) *Gate {
	return &Gate{
		venue:  venue,
		locks:  locks,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "gate")),
	}
}

// OnSignal evaluates sig and returns the typed outcome. The position count is
// fetched fresh on every call; a stale cached count could double-open.
func (g *Gate) OnSignal(ctx context.Context, sig domain.Signal) domain.TradeOutcome {
	if g.locks != nil {
		unlock, err := g.locks.Acquire(ctx, lockKey, lockTTL)
		if err != nil {
			if errors.Is(err, domain.ErrLockHeld) {
				return domain.Skipped(sig.Symbol, "trade lock held by another instance")
			}
			return domain.Failed(sig.Symbol, fmt.Errorf("gate: acquire trade lock: %w", err))
		}
		defer unlock()
	}

	open, err := g.venue.CountOpenPositions(ctx)
	if err != nil {
		return domain.Failed(sig.Symbol, fmt.Errorf("gate: count open positions: %w", err))
	}
	if open > 0 {
		return domain.Skipped(sig.Symbol, fmt.Sprintf("%d open position(s) exist", open))
	}

	side, err := direction(sig)
	if err != nil {
		return domain.Skipped(sig.Symbol, err.Error())
	}

	balance, err := g.venue.AvailableBalance(ctx)
	if err != nil {
		return domain.Failed(sig.Symbol, fmt.Errorf("gate: fetch balance: %w", err))
	}
	if balance <= 0 {
		return domain.Failed(sig.Symbol, fmt.Errorf("gate: %w: %.2f", domain.ErrNoBalance, balance))
	}

	quantity, err := size(balance, g.cfg, sig.RefPrice)
	if err != nil {
		return domain.Failed(sig.Symbol, err)
	}

	native := g.venue.NativeSymbol(sig.Symbol)

	// The order request repeats margin mode and leverage, so a failure here
	// is logged and the order still goes out.
	if err := g.venue.EnsureLeverage(ctx, sig.Symbol, side, g.cfg.Leverage); err != nil {
		g.logger.Warn("set leverage failed, proceeding with order",
			slog.String("symbol", native),
			slog.String("error", err.Error()))
	}

	if err := g.venue.PlaceMarketOrder(ctx, sig.Symbol, side, quantity, g.cfg.Leverage); err != nil {
		return domain.Failed(sig.Symbol, err)
	}

	g.logger.Info("position opened",
		slog.String("symbol", native),
		slog.String("direction", string(side)),
		slog.Float64("quantity", quantity),
		slog.Float64("leverage", g.cfg.Leverage))

	return domain.Opened(native, side, quantity, g.cfg.Leverage)
}

// direction resolves the trade side from the signal's two prices: short when
// the other venue prices the symbol above the reference, long when below.
// Equal prices carry no direction and the signal is skipped.
func direction(sig domain.Signal) (domain.Side, error) {
	switch {
	case sig.OtherPrice > sig.RefPrice:
		return domain.SideShort, nil
	case sig.OtherPrice < sig.RefPrice:
		return domain.SideLong, nil
	default:
		return "", domain.ErrNoDirection
	}
}

// size computes the order quantity in base units: the configured fraction of
// the balance becomes margin, leverage scales it into notional, and the
// reference price converts notional to quantity.
func size(balance float64, cfg Config, refPrice float64) (float64, error) {
	margin := balance * cfg.BalanceFraction
	notional := margin * cfg.Leverage
	if refPrice <= 0 {
		return 0, fmt.Errorf("gate: %w: reference price %.8f", domain.ErrBadSizing, refPrice)
	}
	quantity := notional / refPrice
	if quantity <= 0 {
		return 0, fmt.Errorf("gate: %w: quantity %.8f", domain.ErrBadSizing, quantity)
	}
	return quantity, nil
}
