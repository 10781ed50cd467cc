package aster

import "encoding/json"

// exchangeInfoResponse is the reply of /fapi/v1/exchangeInfo.
type exchangeInfoResponse struct {
	Symbols []symbolInfo `json:"symbols"`
}

type symbolInfo struct {
	Symbol string `json:"symbol"`
	Status string `json:"status"`
}

// wsEnvelope is a combined-stream frame. Data is either a single ticker
// object or an array of them.
type wsEnvelope struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

// tickerPayload is one 24h-ticker entry; s is the symbol, c the last price.
type tickerPayload struct {
	Symbol string `json:"s"`
	Close  string `json:"c"`
}
