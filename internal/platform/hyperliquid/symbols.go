package hyperliquid

import "strings"

// ToCanonical maps a Hyperliquid coin name to the canonical symbol. The venue
// size-scales some instruments with a "k" prefix (one unit = 1000 coins);
// those map to the "1000"-prefixed canonical names used elsewhere
// (kPEPE → 1000PEPEUSDT). Every coin gets the USDT suffix appended.
func ToCanonical(coin string) string {
	if strings.HasPrefix(coin, "k") {
		coin = "1000" + coin[1:]
	}
	return coin + "USDT"
}
