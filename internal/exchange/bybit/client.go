package bybit

import (
	"context"
	"strconv"

	"cryptomd/internal/httpx"
	"cryptomd/internal/market"
)

const baseURL = "https://api.bybit.com"

const venue = string(market.Bybit)

// Client fetches public market data snapshots from Bybit v5
type Client struct {
	http *httpx.Client
}

// NewClient creates a new Bybit snapshot client
func NewClient(opts httpx.Options) *Client {
	return &Client{http: httpx.New(opts)}
}

func category(mt market.MarketType) string {
	if mt == market.Futures {
		return "linear"
	}
	return "spot"
}

// Tickers fetches 24h ticker statistics for all symbols in the category
func (c *Client) Tickers(ctx context.Context, mt market.MarketType) (any, error) {
	return c.http.GetJSON(ctx, venue, "tickers", baseURL+"/v5/market/tickers",
		map[string]string{"category": category(mt)})
}

// FundingRate rides the linear tickers payload, which carries fundingRate
func (c *Client) FundingRate(ctx context.Context) (any, error) {
	return c.Tickers(ctx, market.Futures)
}

// OpenInterest fetches open interest history for a single perpetual
func (c *Client) OpenInterest(ctx context.Context, symbol string) (any, error) {
	return c.http.GetJSON(ctx, venue, "open_interest", baseURL+"/v5/market/open-interest",
		map[string]string{
			"category":     "linear",
			"symbol":       symbol,
			"intervalTime": "5min",
			"limit":        "1",
		})
}

// Klines fetches candles; interval is the Bybit-native token
func (c *Client) Klines(ctx context.Context, mt market.MarketType, symbol, interval string, limit int) (any, error) {
	params := map[string]string{
		"category": category(mt),
		"symbol":   symbol,
		"interval": interval,
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	return c.http.GetJSON(ctx, venue, "kline", baseURL+"/v5/market/kline", params)
}

// Depth fetches an order book snapshot
func (c *Client) Depth(ctx context.Context, mt market.MarketType, symbol string, limit int) (any, error) {
	params := map[string]string{
		"category": category(mt),
		"symbol":   symbol,
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	return c.http.GetJSON(ctx, venue, "orderbook", baseURL+"/v5/market/orderbook", params)
}

// LastPrice rides the linear tickers payload
func (c *Client) LastPrice(ctx context.Context) (any, error) {
	return c.Tickers(ctx, market.Futures)
}

// Close releases idle connections
func (c *Client) Close() {
	c.http.Close()
}
