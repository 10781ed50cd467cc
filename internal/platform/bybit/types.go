package bybit

// instrumentsResponse is the reply of /v5/market/instruments-info.
type instrumentsResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		List []instrumentInfo `json:"list"`
	} `json:"result"`
}

type instrumentInfo struct {
	Symbol string `json:"symbol"`
	Status string `json:"status"`
}

// subscribeRequest is the first frame sent on the public linear stream.
type subscribeRequest struct {
	Op   string   `json:"op"`
	Args []string `json:"args"`
}

// wsMessage covers both data frames (topic + kline payload) and operational
// frames (subscription confirmations, pongs), which arrive without a topic.
type wsMessage struct {
	Topic string        `json:"topic"`
	Data  []klinePayload `json:"data"`
}

type klinePayload struct {
	Close string `json:"close"`
}
