// Package domain defines the core types shared across the watcher: divergence
// signals, trade outcomes, and the interfaces implemented by the storage and
// cache layers.
package domain

import (
	"context"
	"time"
)

// Signal is a detected cross-venue price divergence for a single symbol. It is
// an ephemeral event: created by the comparator, handed to the registered
// handlers, and discarded.
type Signal struct {
	ID            string // UUID for audit correlation
	Symbol        string
	RefVenue      string  // denominator side of the divergence computation
	RefPrice      float64 // last price on RefVenue
	OtherVenue    string
	OtherPrice    float64
	DivergencePct float64
	DetectedAt    time.Time
}

// SignalHandler consumes an emitted Signal. Handlers run synchronously on the
// ingesting feed goroutine; errors are logged by the comparator and never
// propagate back into frame processing.
type SignalHandler func(ctx context.Context, sig Signal)
