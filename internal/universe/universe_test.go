package universe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelkov/spreadwatch/internal/domain"
)

type fakeSource struct {
	name    string
	symbols []string
	err     error
}

func (s fakeSource) Name() string { return s.name }

func (s fakeSource) TradableSymbols(ctx context.Context) ([]string, error) {
	return s.symbols, s.err
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestIntersectKeepsCommonSymbols(t *testing.T) {
	sources := []Source{
		fakeSource{name: "bybit", symbols: []string{"BTCUSDT", "ETHUSDT", "AXSUSDT"}},
		fakeSource{name: "hyperliquid", symbols: []string{"ETHUSDT", "BTCUSDT", "SOLUSDT"}},
		fakeSource{name: "aster", symbols: []string{"BTCUSDT", "AXSUSDT", "ETHUSDT"}},
	}

	symbols, err := Intersect(context.Background(), sources, discard())
	require.NoError(t, err)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, symbols)
}

func TestIntersectDeduplicatesWithinSource(t *testing.T) {
	sources := []Source{
		fakeSource{name: "bybit", symbols: []string{"BTCUSDT", "BTCUSDT"}},
		fakeSource{name: "aster", symbols: []string{"BTCUSDT"}},
	}

	symbols, err := Intersect(context.Background(), sources, discard())
	require.NoError(t, err)
	assert.Equal(t, []string{"BTCUSDT"}, symbols)
}

func TestIntersectFailedSourceEmptiesResult(t *testing.T) {
	sources := []Source{
		fakeSource{name: "bybit", symbols: []string{"BTCUSDT"}},
		fakeSource{name: "hyperliquid", err: errors.New("http 503")},
	}

	_, err := Intersect(context.Background(), sources, discard())
	assert.ErrorIs(t, err, domain.ErrEmptyUniverse)
}

func TestIntersectDisjointListings(t *testing.T) {
	sources := []Source{
		fakeSource{name: "bybit", symbols: []string{"BTCUSDT"}},
		fakeSource{name: "aster", symbols: []string{"ETHUSDT"}},
	}

	_, err := Intersect(context.Background(), sources, discard())
	assert.ErrorIs(t, err, domain.ErrEmptyUniverse)
}

func TestIntersectNoSources(t *testing.T) {
	_, err := Intersect(context.Background(), nil, discard())
	assert.ErrorIs(t, err, domain.ErrEmptyUniverse)
}
