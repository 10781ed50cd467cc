// Package bingx implements the execution-venue client for BingX perpetual
// futures: signed REST calls for open positions, available balance, leverage
// configuration, and market order placement.
package bingx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avelkov/spreadwatch/internal/domain"
)

// DefaultBaseURL is the BingX REST API root.
const DefaultBaseURL = "https://open-api.bingx.com"

const (
	positionsPath = "/openApi/swap/v2/user/positions"
	balancePath   = "/openApi/swap/v2/user/balance"
	leveragePath  = "/openApi/swap/v2/trade/leverage"
	orderPath     = "/openApi/swap/v2/trade/order"
)

// Config holds the credentials and endpoint for the client.
type Config struct {
	APIKey    string
	APISecret string
	BaseURL   string // empty selects the production endpoint
}

// Client is the signed REST client for the BingX swap API.
type Client struct {
	apiKey     string
	apiSecret  string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	// now is swapped out in tests for deterministic timestamps.
	now func() time.Time
}

// NewClient creates a Client. Both credentials are required.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("bingx: %w: api key and secret must both be set", domain.ErrMissingCreds)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		baseURL:   strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.With(slog.String("component", "bingx")),
		now:    time.Now,
	}, nil
}

// NativeSymbol translates a canonical symbol to the venue's spelling by
// inserting a separator before the USDT suffix (AXSUSDT → AXS-USDT). Symbols
// already containing a separator pass through unchanged.
func NativeSymbol(symbol string) string {
	s := strings.TrimSpace(symbol)
	if strings.Contains(s, "-") {
		return s
	}
	if base, ok := strings.CutSuffix(s, "USDT"); ok && base != "" {
		return base + "-USDT"
	}
	return s
}

// NativeSymbol implements the gate's execution-venue interface.
func (c *Client) NativeSymbol(symbol string) string {
	return NativeSymbol(symbol)
}

// CountOpenPositions returns the number of open positions across all symbols.
// A position is open when its amount parses to a non-zero value.
func (c *Client) CountOpenPositions(ctx context.Context) (int, error) {
	raw, err := c.getSigned(ctx, positionsPath, map[string]string{})
	if err != nil {
		return 0, fmt.Errorf("bingx: fetch positions: %w", err)
	}

	positions, ok := extractPositions(raw)
	if !ok {
		return 0, fmt.Errorf("bingx: %w: positions payload %s", domain.ErrVenueResponse, string(raw))
	}

	open := 0
	for _, p := range positions {
		amt, err := strconv.ParseFloat(p.PositionAmt, 64)
		if err != nil {
			continue
		}
		if math.Abs(amt) > 0 {
			open++
		}
	}
	return open, nil
}

// AvailableBalance returns the available USDT balance of the futures account.
func (c *Client) AvailableBalance(ctx context.Context) (float64, error) {
	raw, err := c.getSigned(ctx, balancePath, map[string]string{})
	if err != nil {
		return 0, fmt.Errorf("bingx: fetch balance: %w", err)
	}

	balances := extractBalances(raw)
	for _, bal := range balances {
		if !strings.EqualFold(bal.Asset, "USDT") {
			continue
		}
		v, err := strconv.ParseFloat(bal.AvailableBalance, 64)
		if err != nil {
			continue
		}
		return v, nil
	}
	return 0, fmt.Errorf("bingx: %w: USDT balance not found in %s", domain.ErrVenueResponse, string(raw))
}

// EnsureLeverage sets cross margin and the given leverage for the symbol's
// position side. The order request carries the same fields, so callers treat
// a failure here as non-fatal.
func (c *Client) EnsureLeverage(ctx context.Context, symbol string, side domain.Side, leverage float64) error {
	params := map[string]string{
		"symbol":     NativeSymbol(symbol),
		"marginMode": "CROSSED",
		"leverage":   strconv.FormatFloat(leverage, 'f', 0, 64),
		"side":       string(side),
	}
	if _, err := c.postSigned(ctx, leveragePath, params); err != nil {
		return fmt.Errorf("bingx: set leverage for %s: %w", NativeSymbol(symbol), err)
	}
	return nil
}

// PlaceMarketOrder submits a market order for quantity at the given
// direction. LONG maps to BUY, SHORT to SELL; the symbol is translated to the
// venue-native spelling before signing.
func (c *Client) PlaceMarketOrder(ctx context.Context, symbol string, side domain.Side, quantity, leverage float64) error {
	var orderSide string
	switch side {
	case domain.SideLong:
		orderSide = "BUY"
	case domain.SideShort:
		orderSide = "SELL"
	default:
		return fmt.Errorf("bingx: unknown direction %q", side)
	}

	params := map[string]string{
		"symbol":       NativeSymbol(symbol),
		"side":         orderSide,
		"positionSide": string(side),
		"type":         "MARKET",
		"quantity":     strconv.FormatFloat(quantity, 'f', -1, 64),
		"marginMode":   "CROSSED",
		"leverage":     strconv.FormatFloat(leverage, 'f', 0, 64),
	}

	if _, err := c.postSigned(ctx, orderPath, params); err != nil {
		return fmt.Errorf("bingx: place %s market order for %s: %w", orderSide, NativeSymbol(symbol), err)
	}
	return nil
}

// getSigned performs a signed GET and returns the raw data payload.
func (c *Client) getSigned(ctx context.Context, path string, params map[string]string) (json.RawMessage, error) {
	params["timestamp"] = strconv.FormatInt(c.now().UnixMilli(), 10)
	query := buildQuery(params)
	fullQuery := query + "&signature=" + sign(c.apiSecret, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+fullQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-BX-APIKEY", c.apiKey)

	return c.do(req)
}

// postSigned performs a signed POST with a form-encoded body and returns the
// raw data payload.
func (c *Client) postSigned(ctx context.Context, path string, params map[string]string) (json.RawMessage, error) {
	params["timestamp"] = strconv.FormatInt(c.now().UnixMilli(), 10)
	query := buildQuery(params)
	body := query + "&signature=" + sign(c.apiSecret, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-BX-APIKEY", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(text, &parsed); err != nil {
		return nil, fmt.Errorf("parse response %q: %w", string(text), err)
	}
	if parsed.Code != 0 {
		msg := parsed.Msg
		if msg == "" {
			msg = fmt.Sprintf("unknown error, body: %s", string(text))
		}
		return nil, fmt.Errorf("api error: %s", msg)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("%w: missing data field", domain.ErrVenueResponse)
	}
	return parsed.Data, nil
}
