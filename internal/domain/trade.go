package domain

// Side is the direction of a position on the execution venue.
type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// OutcomeStatus classifies the result of handling a signal in the trade gate.
type OutcomeStatus int

const (
	// OutcomeOpened means a new position was opened.
	OutcomeOpened OutcomeStatus = iota
	// OutcomeSkipped means the gate decided not to trade (existing exposure,
	// no resolvable direction, lock held elsewhere).
	OutcomeSkipped
	// OutcomeFailed means the gate tried to trade and hit a venue or internal
	// error.
	OutcomeFailed
)

// String returns the lowercase status name.
func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeOpened:
		return "opened"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TradeOutcome is the typed result of TradeGate.OnSignal. Exactly one of the
// three statuses applies; Reason is set for Skipped, Err for Failed.
type TradeOutcome struct {
	Status    OutcomeStatus
	Symbol    string // venue-native spelling when Opened
	Direction Side
	Quantity  float64
	Leverage  float64
	Reason    string
	Err       error
}

// Opened builds an Opened outcome.
func Opened(symbol string, direction Side, quantity, leverage float64) TradeOutcome {
	return TradeOutcome{
		Status:    OutcomeOpened,
		Symbol:    symbol,
		Direction: direction,
		Quantity:  quantity,
		Leverage:  leverage,
	}
}

// Skipped builds a Skipped outcome with the given reason.
func Skipped(symbol, reason string) TradeOutcome {
	return TradeOutcome{Status: OutcomeSkipped, Symbol: symbol, Reason: reason}
}

// Failed builds a Failed outcome preserving the underlying error.
func Failed(symbol string, err error) TradeOutcome {
	return TradeOutcome{Status: OutcomeFailed, Symbol: symbol, Err: err}
}
