package domain

import (
	"context"
	"time"
)

// PriceStore is the shared symbol → last-price table for one venue. It must
// support many concurrent readers and serialize writers against both other
// writers and readers. A price of 0 is the "not yet observed" sentinel;
// consumers treat both 0 and absence as unknown.
type PriceStore interface {
	// Get returns the last stored price for symbol and whether the symbol is
	// present at all.
	Get(symbol string) (float64, bool)
	// Set stores price as the most recent value for symbol.
	Set(symbol string, price float64)
}

// SignalStore persists emitted signals and their trade outcomes for audit.
type SignalStore interface {
	Insert(ctx context.Context, sig Signal) error
	RecordOutcome(ctx context.Context, signalID string, outcome TradeOutcome) error
}

// LockManager provides advisory locking around non-atomic check-then-act
// sequences. Acquire returns ErrLockHeld when another holder owns the key.
type LockManager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}

// SignalBus fans signals out to external consumers.
type SignalBus interface {
	// Publish sends a raw payload to an ephemeral channel.
	Publish(ctx context.Context, channel string, payload []byte) error
	// StreamAppend appends a payload to a capped durable stream.
	StreamAppend(ctx context.Context, stream string, payload []byte) error
}
