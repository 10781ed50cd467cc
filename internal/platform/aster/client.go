// Package aster talks to the Aster futures API: exchangeInfo over REST for
// instrument discovery and the combined !ticker@arr websocket stream for
// price updates.
package aster

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
	// DefaultBaseURL is the Aster REST API root.
	DefaultBaseURL = "https://fapi.asterdex.com"
	// DefaultWSURL is the websocket root; the stream path is appended on
	// connect.
	DefaultWSURL = "wss://fstream.asterdex.com"
)

// Client is the REST client for instrument discovery.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an Aster REST client. An empty baseURL selects the
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
func (c *Client) Name() string { return "aster" }

// TradableSymbols returns the symbols of every instrument in TRADING status.
func (c *Client) TradableSymbols(ctx context.Context) ([]string, error) {
	url := c.baseURL + "/fapi/v1/exchangeInfo"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("aster: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aster: fetch exchangeInfo: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("aster: read exchangeInfo response: %w", err)
	}

	var parsed exchangeInfoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("aster: parse exchangeInfo: %w", err)
	}

	symbols := make([]string, 0, len(parsed.Symbols))
	for _, s := range parsed.Symbols {
		if s.Status != "TRADING" {
			continue
		}
		symbols = append(symbols, s.Symbol)
	}
	return symbols, nil
}
