package bingx

import "encoding/json"

// apiResponse is the envelope of every BingX swap API reply. Code 0 means
// success; data is kept raw because its shape varies between deployments.
type apiResponse struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// position is one entry of the open-positions listing.
type position struct {
	Symbol       string `json:"symbol"`
	PositionSide string `json:"positionSide"`
	PositionAmt  string `json:"positionAmt"`
}

// balanceItem is one asset balance, after shape normalization.
type balanceItem struct {
	Asset            string
	AvailableBalance string
}
