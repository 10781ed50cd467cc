// Package compare implements the cross-venue divergence comparator. It is
// invoked synchronously after every accepted price write and emits a Signal
// for each venue pair whose percentage divergence meets the threshold.
package compare

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/avelkov/spreadwatch/internal/domain"
)

// VenuePrices binds a venue name to its price store. The order of the slice
// passed to New is the configured venue order and fixes the denominator for
// pairs that do not include the reference venue.
type VenuePrices struct {
	Venue string
	Store domain.PriceStore
}

// Comparator reads the latest price of a symbol from every venue store and
// computes pairwise divergence. It performs no deduplication or rate limiting:
// every qualifying update produces a new signal.
type Comparator struct {
	venues       []VenuePrices
	reference    string
	thresholdPct float64
	excluded     map[string]struct{}
	handlers     []domain.SignalHandler
	logger       *slog.Logger
	now          func() time.Time
}

// New creates a Comparator. reference names the venue whose price is always
// the denominator when it participates in a pair; thresholdPct is the
// inclusive divergence threshold in percent; excluded symbols are skipped
// entirely.
func New(venues []VenuePrices, reference string, thresholdPct float64, excluded []string, logger *slog.Logger) *Comparator {
	ex := make(map[string]struct{}, len(excluded))
	for _, sym := range excluded {
		ex[sym] = struct{}{}
	}
	return &Comparator{
		venues:       venues,
		reference:    reference,
		thresholdPct: thresholdPct,
		excluded:     ex,
		logger:       logger.With(slog.String("component", "comparator")),
		now:          time.Now,
	}
}

// AddHandler registers a handler invoked for every emitted signal, in
// registration order, on the calling goroutine.
func (c *Comparator) AddHandler(h domain.SignalHandler) {
	c.handlers = append(c.handlers, h)
}

// OnUpdate compares symbol across every unordered venue pair. Pairs where
// either side is absent or still holds the 0 sentinel are skipped. Each
// qualifying pair emits one independent signal.
func (c *Comparator) OnUpdate(ctx context.Context, symbol string) {
	if _, skip := c.excluded[symbol]; skip {
		return
	}

	for i := 0; i < len(c.venues); i++ {
		for j := i + 1; j < len(c.venues); j++ {
			ref, other := c.venues[i], c.venues[j]
			// The reference venue is always the denominator when present;
			// otherwise the pair's first venue in configured order is.
			if other.Venue == c.reference {
				ref, other = other, ref
			}

			refPrice, ok := ref.Store.Get(symbol)
			if !ok || refPrice == 0 {
				continue
			}
			otherPrice, ok := other.Store.Get(symbol)
			if !ok || otherPrice == 0 {
				continue
			}

			divergence := math.Abs(refPrice-otherPrice) / refPrice * 100
			if divergence < c.thresholdPct {
				continue
			}

			sig := domain.Signal{
				ID:            uuid.New().String(),
				Symbol:        symbol,
				RefVenue:      ref.Venue,
				RefPrice:      refPrice,
				OtherVenue:    other.Venue,
				OtherPrice:    otherPrice,
				DivergencePct: divergence,
				DetectedAt:    c.now(),
			}

			c.logger.InfoContext(ctx, "divergence detected",
				slog.String("symbol", symbol),
				slog.String("ref_venue", sig.RefVenue),
				slog.Float64("ref_price", sig.RefPrice),
				slog.String("other_venue", sig.OtherVenue),
				slog.Float64("other_price", sig.OtherPrice),
				slog.Float64("divergence_pct", divergence),
			)

			for _, h := range c.handlers {
				h(ctx, sig)
			}
		}
	}
}
