package hyperliquid

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/gorilla/websocket"

	"github.com/avelkov/spreadwatch/internal/feed"
)

// Stream implements feed.Stream over the Hyperliquid websocket. A single
// allMids subscription delivers the mid price of every listed coin in each
// frame; client-side filtering against the tradable intersection happens in
// the connector.
type Stream struct {
	wsURL  string
	conn   *websocket.Conn
	logger *slog.Logger
}

// NewStream creates a Stream. An empty wsURL selects the production endpoint.
func NewStream(wsURL string, logger *slog.Logger) *Stream {
	if wsURL == "" {
		wsURL = DefaultWSURL
	}
	return &Stream{
		wsURL:  wsURL,
		logger: logger.With(slog.String("component", "hyperliquid_ws")),
	}
}

// Name identifies the venue.
func (s *Stream) Name() string { return "hyperliquid" }

// Connect dials the websocket endpoint.
func (s *Stream) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 15 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.wsURL, nil)
	if err != nil {
		return fmt.Errorf("hyperliquid: connect: %w", err)
	}
	s.conn = conn
	return nil
}

// Subscribe requests the allMids feed. The symbol list is unused: the feed is
// venue-wide by design.
func (s *Stream) Subscribe(ctx context.Context, symbols []string) error {
	if s.conn == nil {
		return fmt.Errorf("hyperliquid: not connected")
	}

	req := subscribeRequest{
		Method:       "subscribe",
		Subscription: subscription{Type: "allMids"},
	}
	if err := s.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("hyperliquid: subscribe: %w", err)
	}
	return nil
}

// Next reads the next frame. allMids frames yield one tick per coin;
// subscription confirmations and pongs are keepalives.
func (s *Stream) Next(ctx context.Context) ([]feed.Tick, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = s.conn.SetReadDeadline(deadline)
	}

	_, data, err := s.conn.ReadMessage()
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, context.DeadlineExceeded
		}
		return nil, fmt.Errorf("hyperliquid: read: %w", err)
	}

	var msg wsMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.logger.WarnContext(ctx, "unparseable frame, skipping",
			slog.String("error", err.Error()),
		)
		return nil, nil
	}

	if msg.Channel != "allMids" {
		return nil, nil
	}

	ticks := make([]feed.Tick, 0, len(msg.Data.Mids))
	for coin, mid := range msg.Data.Mids {
		ticks = append(ticks, feed.Tick{Symbol: ToCanonical(coin), Price: mid})
	}
	return ticks, nil
}

// Close tears down the connection.
func (s *Stream) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// Compile-time interface check.
var _ feed.Stream = (*Stream)(nil)
