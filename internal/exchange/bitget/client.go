package bitget

import (
	"context"
	"strconv"

	"cryptomd/internal/httpx"
	"cryptomd/internal/market"
)

const baseURL = "https://api.bitget.com"

const venue = string(market.Bitget)

// Client fetches public market data snapshots from Bitget v2
type Client struct {
	http *httpx.Client
}

// NewClient creates a new Bitget snapshot client
func NewClient(opts httpx.Options) *Client {
	return &Client{http: httpx.New(opts)}
}

// Tickers fetches 24h ticker statistics for all symbols of the market
func (c *Client) Tickers(ctx context.Context, mt market.MarketType) (any, error) {
	if mt == market.Futures {
		return c.http.GetJSON(ctx, venue, "tickers", baseURL+"/api/v2/mix/market/tickers",
			map[string]string{"productType": "usdt-futures"})
	}
	return c.http.GetJSON(ctx, venue, "tickers", baseURL+"/api/v2/spot/market/tickers", nil)
}

// FundingRate rides the mix tickers payload, which carries fundingRate
func (c *Client) FundingRate(ctx context.Context) (any, error) {
	return c.Tickers(ctx, market.Futures)
}

// OpenInterest fetches open interest for a single perpetual
func (c *Client) OpenInterest(ctx context.Context, symbol string) (any, error) {
	return c.http.GetJSON(ctx, venue, "open_interest", baseURL+"/api/v2/mix/market/open-interest",
		map[string]string{
			"productType": "usdt-futures",
			"symbol":      symbol,
		})
}

// Klines fetches candles; interval is the Bitget-native granularity token
func (c *Client) Klines(ctx context.Context, mt market.MarketType, symbol, interval string, limit int) (any, error) {
	params := map[string]string{
		"symbol":      symbol,
		"granularity": interval,
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	if mt == market.Futures {
		params["productType"] = "usdt-futures"
		return c.http.GetJSON(ctx, venue, "candles", baseURL+"/api/v2/mix/market/candles", params)
	}
	return c.http.GetJSON(ctx, venue, "candles", baseURL+"/api/v2/spot/market/candles", params)
}

// Depth fetches an order book snapshot
func (c *Client) Depth(ctx context.Context, mt market.MarketType, symbol string, limit int) (any, error) {
	params := map[string]string{"symbol": symbol}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	if mt == market.Futures {
		params["productType"] = "usdt-futures"
		return c.http.GetJSON(ctx, venue, "orderbook", baseURL+"/api/v2/mix/market/merge-depth", params)
	}
	return c.http.GetJSON(ctx, venue, "orderbook", baseURL+"/api/v2/spot/market/orderbook", params)
}

// LastPrice rides the mix tickers payload
func (c *Client) LastPrice(ctx context.Context) (any, error) {
	return c.Tickers(ctx, market.Futures)
}

// Close releases idle connections
func (c *Client) Close() {
	c.http.Close()
}
