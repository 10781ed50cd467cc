package hyperliquid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToCanonical(t *testing.T) {
	tests := []struct {
		coin string
		want string
	}{
		{"BTC", "BTCUSDT"},
		{"ETH", "ETHUSDT"},
		{"kPEPE", "1000PEPEUSDT"},
		{"kSHIB", "1000SHIBUSDT"},
		// Only the size-scaling prefix is rewritten, not an interior k.
		{"LINK", "LINKUSDT"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToCanonical(tt.coin), "coin %s", tt.coin)
	}
}
