package compare

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelkov/spreadwatch/internal/domain"
	"github.com/avelkov/spreadwatch/internal/pricestore"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func collect(sigs *[]domain.Signal) domain.SignalHandler {
	return func(_ context.Context, sig domain.Signal) {
		*sigs = append(*sigs, sig)
	}
}

func twoVenues(refPrice, otherPrice float64) []VenuePrices {
	ref := pricestore.New()
	ref.Set("BTCUSDT", refPrice)
	other := pricestore.New()
	other.Set("BTCUSDT", otherPrice)
	return []VenuePrices{
		{Venue: "bybit", Store: ref},
		{Venue: "hyperliquid", Store: other},
	}
}

func TestEmitsSignalAboveThreshold(t *testing.T) {
	var sigs []domain.Signal
	c := New(twoVenues(100, 101), "bybit", 0.4, nil, discardLogger())
	c.AddHandler(collect(&sigs))

	c.OnUpdate(context.Background(), "BTCUSDT")

	require.Len(t, sigs, 1)
	assert.Equal(t, "BTCUSDT", sigs[0].Symbol)
	assert.Equal(t, "bybit", sigs[0].RefVenue)
	assert.Equal(t, 100.0, sigs[0].RefPrice)
	assert.Equal(t, "hyperliquid", sigs[0].OtherVenue)
	assert.InDelta(t, 1.0, sigs[0].DivergencePct, 1e-12)
	assert.NotEmpty(t, sigs[0].ID)
}

func TestThresholdIsInclusive(t *testing.T) {
	// Divergence is exactly 0.4%.
	var sigs []domain.Signal
	c := New(twoVenues(100, 100.4), "bybit", 0.4, nil, discardLogger())
	c.AddHandler(collect(&sigs))

	c.OnUpdate(context.Background(), "BTCUSDT")
	assert.Len(t, sigs, 1)
}

func TestJustBelowThresholdDoesNotEmit(t *testing.T) {
	var sigs []domain.Signal
	c := New(twoVenues(100, 100.3999999999), "bybit", 0.4, nil, discardLogger())
	c.AddHandler(collect(&sigs))

	c.OnUpdate(context.Background(), "BTCUSDT")
	assert.Empty(t, sigs)
}

func TestReferenceVenueIsAlwaysDenominator(t *testing.T) {
	// Reference listed second: the pair must still divide by its price.
	ref := pricestore.New()
	ref.Set("BTCUSDT", 200)
	other := pricestore.New()
	other.Set("BTCUSDT", 100)
	venues := []VenuePrices{
		{Venue: "aster", Store: other},
		{Venue: "bybit", Store: ref},
	}

	var sigs []domain.Signal
	c := New(venues, "bybit", 0.1, nil, discardLogger())
	c.AddHandler(collect(&sigs))

	c.OnUpdate(context.Background(), "BTCUSDT")
	require.Len(t, sigs, 1)
	assert.Equal(t, "bybit", sigs[0].RefVenue)
	assert.InDelta(t, 50.0, sigs[0].DivergencePct, 1e-12)
}

func TestDivergenceSymmetricInMagnitude(t *testing.T) {
	var up, down []domain.Signal

	cUp := New(twoVenues(100, 105), "bybit", 0.1, nil, discardLogger())
	cUp.AddHandler(collect(&up))
	cUp.OnUpdate(context.Background(), "BTCUSDT")

	cDown := New(twoVenues(100, 95), "bybit", 0.1, nil, discardLogger())
	cDown.AddHandler(collect(&down))
	cDown.OnUpdate(context.Background(), "BTCUSDT")

	require.Len(t, up, 1)
	require.Len(t, down, 1)
	assert.InDelta(t, up[0].DivergencePct, down[0].DivergencePct, 1e-12)
}

func TestExcludedSymbolProducesNothing(t *testing.T) {
	var sigs []domain.Signal
	c := New(twoVenues(100, 150), "bybit", 0.4, []string{"BTCUSDT"}, discardLogger())
	c.AddHandler(collect(&sigs))

	c.OnUpdate(context.Background(), "BTCUSDT")
	assert.Empty(t, sigs)
}

func TestSentinelAndAbsentSidesAreSkipped(t *testing.T) {
	ref := pricestore.New()
	ref.Set("BTCUSDT", 100)
	sentinel := pricestore.New()
	sentinel.Seed([]string{"BTCUSDT"}) // price 0
	absent := pricestore.New()

	venues := []VenuePrices{
		{Venue: "bybit", Store: ref},
		{Venue: "hyperliquid", Store: sentinel},
		{Venue: "aster", Store: absent},
	}

	var sigs []domain.Signal
	c := New(venues, "bybit", 0.1, nil, discardLogger())
	c.AddHandler(collect(&sigs))

	c.OnUpdate(context.Background(), "BTCUSDT")
	assert.Empty(t, sigs)
}

func TestMultipleQualifyingPairsEmitIndependentSignals(t *testing.T) {
	a := pricestore.New()
	a.Set("BTCUSDT", 100)
	b := pricestore.New()
	b.Set("BTCUSDT", 102)
	d := pricestore.New()
	d.Set("BTCUSDT", 98)

	venues := []VenuePrices{
		{Venue: "bybit", Store: a},
		{Venue: "hyperliquid", Store: b},
		{Venue: "aster", Store: d},
	}

	var sigs []domain.Signal
	c := New(venues, "bybit", 0.4, nil, discardLogger())
	c.AddHandler(collect(&sigs))

	c.OnUpdate(context.Background(), "BTCUSDT")

	// bybit/hyperliquid, bybit/aster, and hyperliquid/aster all diverge by
	// more than 0.4%.
	require.Len(t, sigs, 3)
	for _, sig := range sigs {
		assert.GreaterOrEqual(t, sig.DivergencePct, 0.4)
	}
	// The hyperliquid/aster pair has no reference venue: the first venue in
	// configured order is the denominator.
	assert.Equal(t, "hyperliquid", sigs[2].RefVenue)
	assert.Equal(t, "aster", sigs[2].OtherVenue)
}

func TestNoHandlersIsSafe(t *testing.T) {
	c := New(twoVenues(100, 150), "bybit", 0.4, nil, discardLogger())
	c.OnUpdate(context.Background(), "BTCUSDT")
}
