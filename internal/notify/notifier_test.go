package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelkov/spreadwatch/internal/domain"
)

type fakeSender struct {
	name  string
	err   error
	calls []string
}

func (s *fakeSender) Send(ctx context.Context, title, message string) error {
	s.calls = append(s.calls, title)
	return s.err
}

func (s *fakeSender) Name() string { return s.name }

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestNotifyDeliversToAllSenders(t *testing.T) {
	a := &fakeSender{name: "a"}
	b := &fakeSender{name: "b"}
	n := NewNotifier([]Sender{a, b}, nil, discard())

	err := n.Notify(context.Background(), EventSignal, "title", "body")
	require.NoError(t, err)
	assert.Equal(t, []string{"title"}, a.calls)
	assert.Equal(t, []string{"title"}, b.calls)
}

func TestNotifyFiltersEvents(t *testing.T) {
	s := &fakeSender{name: "a"}
	n := NewNotifier([]Sender{s}, []string{EventTrade}, discard())

	require.NoError(t, n.Notify(context.Background(), EventSignal, "filtered", "body"))
	assert.Empty(t, s.calls)

	require.NoError(t, n.Notify(context.Background(), EventTrade, "passes", "body"))
	assert.Equal(t, []string{"passes"}, s.calls)
}

func TestNotifyOneFailureDoesNotBlockOthers(t *testing.T) {
	failing := &fakeSender{name: "bad", err: errors.New("boom")}
	working := &fakeSender{name: "good"}
	n := NewNotifier([]Sender{failing, working}, nil, discard())

	err := n.Notify(context.Background(), EventSignal, "title", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad: boom")
	assert.Len(t, working.calls, 1)
}

func TestNotifyNoSenders(t *testing.T) {
	n := NewNotifier(nil, nil, discard())
	assert.NoError(t, n.Notify(context.Background(), EventSignal, "title", "body"))
}

func TestFormatSignal(t *testing.T) {
	sig := domain.Signal{
		Symbol:        "BTCUSDT",
		RefVenue:      "bybit",
		RefPrice:      43250.5,
		OtherVenue:    "hyperliquid",
		OtherPrice:    43500,
		DivergencePct: 0.58,
		DetectedAt:    time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}

	title, message := FormatSignal(sig)
	assert.Equal(t, "Divergence 0.58% on BTCUSDT", title)
	assert.Contains(t, message, "bybit: 43250.5")
	assert.Contains(t, message, "hyperliquid: 43500")
	assert.Contains(t, message, "2026-02-01 12:00:00 UTC")
}

func TestFormatOutcome(t *testing.T) {
	sig := domain.Signal{Symbol: "AXSUSDT", DivergencePct: 0.52}

	title, message := FormatOutcome(sig, domain.Opened("AXS-USDT", domain.SideShort, 150, 10))
	assert.Equal(t, "Opened SHORT AXS-USDT", title)
	assert.Contains(t, message, "quantity 150")

	title, message = FormatOutcome(sig, domain.Skipped("AXSUSDT", "1 open position(s) exist"))
	assert.Equal(t, "Skipped trade on AXSUSDT", title)
	assert.Equal(t, "1 open position(s) exist", message)

	title, message = FormatOutcome(sig, domain.Failed("AXSUSDT", errors.New("api error")))
	assert.Equal(t, "Trade failed on AXSUSDT", title)
	assert.Equal(t, "api error", message)
}
