package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelkov/spreadwatch/internal/domain"
)

// SignalStore implements domain.SignalStore using PostgreSQL.
type SignalStore struct {
	pool *pgxpool.Pool
}

// NewSignalStore creates a SignalStore backed by the given connection pool.
func NewSignalStore(pool *pgxpool.Pool) *SignalStore {
	return &SignalStore{pool: pool}
}

// Insert appends a detected divergence to the signal history.
func (s *SignalStore) Insert(ctx context.Context, sig domain.Signal) error {
	const query = `
		INSERT INTO signal_history
			(id, symbol, ref_venue, ref_price, other_venue, other_price, divergence_pct, detected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.pool.Exec(ctx, query,
		sig.ID, sig.Symbol, sig.RefVenue, sig.RefPrice,
		sig.OtherVenue, sig.OtherPrice, sig.DivergencePct, sig.DetectedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert signal %s: %w", sig.ID, err)
	}
	return nil
}

// RecordOutcome stores the gate's decision for a previously inserted signal.
func (s *SignalStore) RecordOutcome(ctx context.Context, signalID string, outcome domain.TradeOutcome) error {
	var errText string
	if outcome.Err != nil {
		errText = outcome.Err.Error()
	}

	const query = `
		UPDATE signal_history
		SET outcome = $2, trade_symbol = $3, trade_direction = $4,
		    trade_quantity = $5, trade_leverage = $6, outcome_detail = $7,
		    decided_at = NOW()
		WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query,
		signalID, outcome.Status.String(), outcome.Symbol, string(outcome.Direction),
		outcome.Quantity, outcome.Leverage, firstNonEmpty(outcome.Reason, errText),
	)
	if err != nil {
		return fmt.Errorf("postgres: record outcome for %s: %w", signalID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres: record outcome for %s: %w", signalID, domain.ErrNotFound)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var _ domain.SignalStore = (*SignalStore)(nil)
