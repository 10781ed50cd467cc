// Package hyperliquid talks to the Hyperliquid public API: the info endpoint
// for instrument discovery and the allMids websocket subscription for
// streaming mid prices.
package hyperliquid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the Hyperliquid REST API root.
	DefaultBaseURL = "https://api.hyperliquid.xyz"
	// DefaultWSURL is the public websocket endpoint.
	DefaultWSURL = "wss://api.hyperliquid.xyz/ws"
)

// Client is the REST client for instrument discovery.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Hyperliquid REST client. An empty baseURL selects the
// production endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name identifies the venue.
func (c *Client) Name() string { return "hyperliquid" }

// TradableSymbols returns the canonical symbols of every coin with a current
// mid price. The info endpoint's allMids request doubles as the instrument
// universe: a coin without a mid is not tradable.
func (c *Client) TradableSymbols(ctx context.Context) ([]string, error) {
	payload, err := json.Marshal(infoRequest{Type: "allMids"})
	if err != nil {
		return nil, fmt.Errorf("hyperliquid: marshal info request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/info", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("hyperliquid: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hyperliquid: fetch mids: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("hyperliquid: read mids response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hyperliquid: info request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var mids map[string]string
	if err := json.Unmarshal(body, &mids); err != nil {
		return nil, fmt.Errorf("hyperliquid: parse mids response: %w", err)
	}

	symbols := make([]string, 0, len(mids))
	for coin := range mids {
		symbols = append(symbols, ToCanonical(coin))
	}
	return symbols, nil
}
