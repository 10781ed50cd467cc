// Package bybit talks to the Bybit v5 public API: instrument discovery over
// REST and kline price updates over the public linear websocket.
package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the Bybit REST API root.
	DefaultBaseURL = "https://api.bybit.com"
	// DefaultWSURL is the public linear-perpetual stream endpoint.
	DefaultWSURL = "wss://stream.bybit.com/v5/public/linear"
)

// Client is the REST client for instrument discovery.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Bybit REST client. An empty baseURL selects the
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
func (c *Client) Name() string { return "bybit" }

// TradableSymbols returns the symbols of all actively trading linear
// instruments. Symbols containing a separator are dropped; the canonical form
// has none.
func (c *Client) TradableSymbols(ctx context.Context) ([]string, error) {
	url := c.baseURL + "/v5/market/instruments-info?category=linear&limit=1000"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("bybit: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bybit: fetch instruments: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("bybit: read instruments response: %w", err)
	}

	var parsed instrumentsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("bybit: parse instruments response: %w", err)
	}
	if parsed.RetCode != 0 {
		return nil, fmt.Errorf("bybit: instruments request rejected: %s", parsed.RetMsg)
	}

	symbols := make([]string, 0, len(parsed.Result.List))
	for _, inst := range parsed.Result.List {
		if inst.Status != "Trading" {
			continue
		}
		if strings.Contains(inst.Symbol, "-") {
			continue
		}
		symbols = append(symbols, inst.Symbol)
	}
	return symbols, nil
}
