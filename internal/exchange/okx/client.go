package okx

import (
	"context"
	"strconv"

	"cryptomd/internal/httpx"
	"cryptomd/internal/market"
)

const baseURL = "https://www.okx.com"

const venue = string(market.OKX)

// Client fetches public market data snapshots from OKX v5
type Client struct {
	http *httpx.Client
}

// NewClient creates a new OKX snapshot client
func NewClient(opts httpx.Options) *Client {
	return &Client{http: httpx.New(opts)}
}

func instType(mt market.MarketType) string {
	if mt == market.Futures {
		return "SWAP"
	}
	return "SPOT"
}

// Tickers fetches 24h ticker statistics for all instruments of the type
func (c *Client) Tickers(ctx context.Context, mt market.MarketType) (any, error) {
	return c.http.GetJSON(ctx, venue, "tickers", baseURL+"/api/v5/market/tickers",
		map[string]string{"instType": instType(mt)})
}

// FundingRate is not exposed as a catalog endpoint on OKX; funding is
// per-instrument only
func (c *Client) FundingRate(ctx context.Context) (any, error) {
	return nil, market.ErrNotImplemented
}

// OpenInterest fetches open interest for all swaps, or one when symbol is set
func (c *Client) OpenInterest(ctx context.Context, symbol string) (any, error) {
	params := map[string]string{"instType": "SWAP"}
	if symbol != "" {
		params["instId"] = symbol
	}
	return c.http.GetJSON(ctx, venue, "open_interest", baseURL+"/api/v5/public/open-interest", params)
}

// Klines fetches candles; interval is the OKX-native bar token
func (c *Client) Klines(ctx context.Context, _ market.MarketType, symbol, interval string, limit int) (any, error) {
	params := map[string]string{
		"instId": symbol,
		"bar":    interval,
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	return c.http.GetJSON(ctx, venue, "candles", baseURL+"/api/v5/market/candles", params)
}

// Depth fetches an order book snapshot
func (c *Client) Depth(ctx context.Context, _ market.MarketType, symbol string, limit int) (any, error) {
	params := map[string]string{"instId": symbol}
	if limit > 0 {
		params["sz"] = strconv.Itoa(limit)
	}
	return c.http.GetJSON(ctx, venue, "books", baseURL+"/api/v5/market/books", params)
}

// LastPrice rides the swap tickers payload
func (c *Client) LastPrice(ctx context.Context) (any, error) {
	return c.Tickers(ctx, market.Futures)
}

// Close releases idle connections
func (c *Client) Close() {
	c.http.Close()
}
