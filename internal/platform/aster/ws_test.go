package aster

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelkov/spreadwatch/internal/feed"
)

func TestParseTickersArray(t *testing.T) {
	data := json.RawMessage(`[
		{"s": "BTCUSDT", "c": "43250.10", "P": "1.2"},
		{"s": "ETHUSDT", "c": "2301.55"},
		{"c": "9.99"}
	]`)

	ticks := parseTickers(data)
	require.Len(t, ticks, 2)
	assert.Equal(t, feed.Tick{Symbol: "BTCUSDT", Price: "43250.10"}, ticks[0])
	assert.Equal(t, feed.Tick{Symbol: "ETHUSDT", Price: "2301.55"}, ticks[1])
}

func TestParseTickersSingleObject(t *testing.T) {
	data := json.RawMessage(`{"s": "AXSUSDT", "c": "7.25"}`)

	ticks := parseTickers(data)
	require.Len(t, ticks, 1)
	assert.Equal(t, feed.Tick{Symbol: "AXSUSDT", Price: "7.25"}, ticks[0])
}

func TestParseTickersUnknownShape(t *testing.T) {
	assert.Empty(t, parseTickers(json.RawMessage(`"ping"`)))
	assert.Empty(t, parseTickers(json.RawMessage(`{"e": "depthUpdate"}`)))
}
