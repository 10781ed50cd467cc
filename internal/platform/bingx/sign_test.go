package bingx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildQuerySortsKeysAlphabetically(t *testing.T) {
	query := buildQuery(map[string]string{
		"type":      "MARKET",
		"symbol":    "AXS-USDT",
		"side":      "BUY",
		"timestamp": "1700000000000",
		"quantity":  "150",
	})
	assert.Equal(t, "quantity=150&side=BUY&symbol=AXS-USDT&timestamp=1700000000000&type=MARKET", query)
}

func TestSignKnownVector(t *testing.T) {
	query := "quantity=150&side=BUY&symbol=AXS-USDT&timestamp=1700000000000&type=MARKET"
	assert.Equal(t,
		"ba94303041bc42203e8b8ffd04a7c4201970e96bd53968d006f6f763fc14c547",
		sign("test-secret", query),
	)
}

func TestNativeSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AXSUSDT", "AXS-USDT"},
		{"BTCUSDT", "BTC-USDT"},
		{"1000PEPEUSDT", "1000PEPE-USDT"},
		// Already-separated symbols pass through unchanged.
		{"AXS-USDT", "AXS-USDT"},
		// No recognizable suffix: returned as is.
		{"BTCUSD", "BTCUSD"},
		{"USDT", "USDT"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NativeSymbol(tt.in), "symbol %s", tt.in)
	}
}

func TestNativeSymbolRoundTrip(t *testing.T) {
	native := NativeSymbol("AXSUSDT")
	assert.Equal(t, "AXS-USDT", native)
	assert.Equal(t, native, NativeSymbol(native))
}
