package bingx

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPositionsShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"bare array", `[{"symbol": "BTC-USDT", "positionAmt": "0.5"}]`, 1},
		{"positions key", `{"positions": [{"symbol": "BTC-USDT", "positionAmt": "0.5"}, {"symbol": "ETH-USDT", "positionAmt": "1"}]}`, 2},
		{"nested data.positions", `{"data": {"positions": [{"symbol": "BTC-USDT", "positionAmt": "0.5"}]}}`, 1},
		{"data array", `{"data": [{"symbol": "BTC-USDT", "positionAmt": "0.5"}]}`, 1},
		{"empty array", `[]`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			positions, ok := extractPositions(json.RawMessage(tt.raw))
			require.True(t, ok)
			assert.Len(t, positions, tt.want)
		})
	}
}

func TestExtractPositionsUnknownShape(t *testing.T) {
	_, ok := extractPositions(json.RawMessage(`{"somethingElse": true}`))
	assert.False(t, ok)
}

func TestExtractBalancesShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"flat object", `{"asset": "USDT", "availableBalance": "1000"}`},
		{"availableMargin fallback", `{"asset": "USDT", "availableMargin": "1000"}`},
		{"plain balance fallback", `{"asset": "USDT", "balance": "1000"}`},
		{"balances array", `{"balances": [{"asset": "USDT", "availableBalance": "1000"}]}`},
		{"single balance object", `{"balance": {"asset": "USDT", "availableBalance": "1000"}}`},
		{"nested under data", `{"data": {"balance": {"asset": "USDT", "availableBalance": "1000"}}}`},
		{"data array", `{"data": [{"asset": "USDT", "availableBalance": "1000"}]}`},
		{"bare array", `[{"asset": "USDT", "availableBalance": "1000"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances := extractBalances(json.RawMessage(tt.raw))
			require.NotEmpty(t, balances)
			assert.Equal(t, "USDT", balances[0].Asset)
			assert.Equal(t, "1000", balances[0].AvailableBalance)
		})
	}
}

func TestExtractBalancesPrefersAvailableBalance(t *testing.T) {
	raw := json.RawMessage(`{"asset": "USDT", "availableBalance": "750", "balance": "1000"}`)
	balances := extractBalances(raw)
	require.Len(t, balances, 1)
	assert.Equal(t, "750", balances[0].AvailableBalance)
}

func TestExtractBalancesNothingFound(t *testing.T) {
	assert.Empty(t, extractBalances(json.RawMessage(`{"code": 0}`)))
}
