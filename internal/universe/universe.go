// Package universe resolves the set of symbols tracked at runtime: the
// intersection of what every configured venue lists as tradable.
package universe

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/avelkov/spreadwatch/internal/domain"
)

// Source lists the tradable symbols of one venue in canonical spelling.
type Source interface {
	Name() string
	TradableSymbols(ctx context.Context) ([]string, error)
}

// Intersect fetches each source's listing and returns the sorted symbols
// present on all of them. A source that errors contributes an empty set, which
// empties the intersection; the error is logged, not returned, so the caller
// sees the uniform ErrEmptyUniverse failure mode.
func Intersect(ctx context.Context, sources []Source, logger *slog.Logger) ([]string, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("universe: %w: no venues configured", domain.ErrEmptyUniverse)
	}

	counts := make(map[string]int)
	for _, src := range sources {
		symbols, err := src.TradableSymbols(ctx)
		if err != nil {
			logger.Error("listing tradable symbols failed",
				slog.String("venue", src.Name()),
				slog.String("error", err.Error()))
			continue
		}
		logger.Info("venue listing fetched",
			slog.String("venue", src.Name()),
			slog.Int("symbols", len(symbols)))

		seen := make(map[string]struct{}, len(symbols))
		for _, sym := range symbols {
			if _, dup := seen[sym]; dup {
				continue
			}
			seen[sym] = struct{}{}
			counts[sym]++
		}
	}

	var out []string
	for sym, n := range counts {
		if n == len(sources) {
			out = append(out, sym)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("universe: %w", domain.ErrEmptyUniverse)
	}
	sort.Strings(out)
	return out, nil
}
