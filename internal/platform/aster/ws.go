package aster

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

// Stream implements feed.Stream over the Aster combined stream. The full
// all-ticker feed is requested in the connection URL; filtering against the
// tradable intersection is client-side in the connector. Protocol pings are
// answered by gorilla's default ping handler.
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
		logger: logger.With(slog.String("component", "aster_ws")),
	}
}

// Name identifies the venue.
func (s *Stream) Name() string { return "aster" }

// Connect dials the combined stream with the all-ticker subscription encoded
// in the URL.
func (s *Stream) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 15 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.wsURL+"/stream?streams=!ticker@arr", nil)
	if err != nil {
		return fmt.Errorf("aster: connect: %w", err)
	}
	s.conn = conn
	return nil
}

// Subscribe is a no-op: the subscription is part of the connection URL.
func (s *Stream) Subscribe(ctx context.Context, symbols []string) error {
	if s.conn == nil {
		return fmt.Errorf("aster: not connected")
	}
	return nil
}

// Next reads the next frame. Data frames carry either an array of tickers or
// a single ticker object; both yield one tick per included symbol.
func (s *Stream) Next(ctx context.Context) ([]feed.Tick, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = s.conn.SetReadDeadline(deadline)
	}

	_, data, err := s.conn.ReadMessage()
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, context.DeadlineExceeded
		}
		return nil, fmt.Errorf("aster: read: %w", err)
	}

	var env wsEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.logger.WarnContext(ctx, "unparseable frame, skipping",
			slog.String("error", err.Error()),
		)
		return nil, nil
	}
	if len(env.Data) == 0 {
		return nil, nil
	}

	return parseTickers(env.Data), nil
}

// parseTickers normalizes the two payload shapes (array and single object)
// into a flat tick list. A shape that matches neither yields nothing.
func parseTickers(data json.RawMessage) []feed.Tick {
	var many []tickerPayload
	if err := json.Unmarshal(data, &many); err == nil {
		ticks := make([]feed.Tick, 0, len(many))
		for _, tk := range many {
			if tk.Symbol == "" {
				continue
			}
			ticks = append(ticks, feed.Tick{Symbol: tk.Symbol, Price: tk.Close})
		}
		return ticks
	}

	var one tickerPayload
	if err := json.Unmarshal(data, &one); err == nil && one.Symbol != "" {
		return []feed.Tick{{Symbol: one.Symbol, Price: one.Close}}
	}
	return nil
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
