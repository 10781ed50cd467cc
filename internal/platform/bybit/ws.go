package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/avelkov/spreadwatch/internal/feed"
)

// Stream implements feed.Stream over the Bybit public linear websocket. Each
// symbol is subscribed as a daily kline topic; the close of the current
// candle is the last traded price.
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
		logger: logger.With(slog.String("component", "bybit_ws")),
	}
}

// Name identifies the venue.
func (s *Stream) Name() string { return "bybit" }

// Connect dials the websocket endpoint.
func (s *Stream) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 15 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.wsURL, nil)
	if err != nil {
		return fmt.Errorf("bybit: connect: %w", err)
	}
	s.conn = conn
	return nil
}

// Subscribe sends one subscription frame listing a kline topic per symbol.
func (s *Stream) Subscribe(ctx context.Context, symbols []string) error {
	if s.conn == nil {
		return fmt.Errorf("bybit: not connected")
	}

	args := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		args = append(args, "kline.D."+sym)
	}

	if err := s.conn.WriteJSON(subscribeRequest{Op: "subscribe", Args: args}); err != nil {
		return fmt.Errorf("bybit: subscribe: %w", err)
	}
	return nil
}

// Next reads the next frame. Subscription confirmations and pongs carry no
// topic and are reported as keepalives; unparseable frames are skipped with a
// warning, never a teardown.
func (s *Stream) Next(ctx context.Context) ([]feed.Tick, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = s.conn.SetReadDeadline(deadline)
	}

	_, data, err := s.conn.ReadMessage()
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, context.DeadlineExceeded
		}
		return nil, fmt.Errorf("bybit: read: %w", err)
	}

	var msg wsMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.logger.WarnContext(ctx, "unparseable frame, skipping",
			slog.String("error", err.Error()),
		)
		return nil, nil
	}

	if msg.Topic == "" || len(msg.Data) == 0 {
		return nil, nil
	}

	// Topic has the form kline.D.<SYMBOL>.
	parts := strings.Split(msg.Topic, ".")
	symbol := parts[len(parts)-1]

	return []feed.Tick{{Symbol: symbol, Price: msg.Data[0].Close}}, nil
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
