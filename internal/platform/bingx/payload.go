package bingx

import "encoding/json"

// The swap API's data payloads are not stable across deployments: positions
// and balances arrive under several different nestings. The extractors below
// try the known shapes in priority order and return the first structurally
// valid match, so the rest of the system only ever sees typed values.

// extractPositions pulls the positions array out of a raw data payload.
// Known shapes, in order:
//
//	{"positions": [...]}
//	{"data": {"positions": [...]}}
//	{"data": [...]}
//	[...]
func extractPositions(raw json.RawMessage) ([]position, bool) {
	var arr []position
	if err := json.Unmarshal(raw, &arr); err == nil {
		return arr, true
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}

	if inner, ok := obj["positions"]; ok {
		if err := json.Unmarshal(inner, &arr); err == nil {
			return arr, true
		}
	}
	if inner, ok := obj["data"]; ok {
		return extractPositions(inner)
	}
	return nil, false
}

// extractBalances walks a raw balance payload recursively and collects every
// object carrying an asset name and an available amount. The amount field is
// availableBalance, availableMargin, or balance, in that priority.
func extractBalances(raw json.RawMessage) []balanceItem {
	var out []balanceItem

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		if item, ok := balanceFromObject(obj); ok {
			out = append(out, item)
		}
		for _, key := range []string{"balances", "balance", "data"} {
			if inner, ok := obj[key]; ok {
				out = append(out, extractBalances(inner)...)
			}
		}
		return out
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		for _, item := range arr {
			out = append(out, extractBalances(item)...)
		}
	}
	return out
}

func balanceFromObject(obj map[string]json.RawMessage) (balanceItem, bool) {
	asset, ok := stringField(obj, "asset")
	if !ok {
		return balanceItem{}, false
	}
	for _, key := range []string{"availableBalance", "availableMargin", "balance"} {
		if amount, ok := stringField(obj, key); ok {
			return balanceItem{Asset: asset, AvailableBalance: amount}, true
		}
	}
	return balanceItem{}, false
}

func stringField(obj map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := obj[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
