package hyperliquid

// infoRequest is the body of a POST /info call.
type infoRequest struct {
	Type string `json:"type"`
}

// subscribeRequest is the first frame sent on the websocket.
type subscribeRequest struct {
	Method       string       `json:"method"`
	Subscription subscription `json:"subscription"`
}

type subscription struct {
	Type string `json:"type"`
}

// wsMessage covers allMids data frames and operational frames
// (subscriptionResponse, pong), distinguished by channel.
type wsMessage struct {
	Channel string `json:"channel"`
	Data    struct {
		Mids map[string]string `json:"mids"`
	} `json:"data"`
}
