package mexc

import (
	"context"
	"strconv"

	"cryptomd/internal/httpx"
	"cryptomd/internal/market"
)

const (
	spotBaseURL    = "https://api.mexc.com"
	futuresBaseURL = "https://contract.mexc.com"
)

const venue = string(market.MEXC)

// Client fetches public market data snapshots from MEXC
type Client struct {
	http *httpx.Client
}

// NewClient creates a new MEXC snapshot client
func NewClient(opts httpx.Options) *Client {
	return &Client{http: httpx.New(opts)}
}

// Tickers fetches the spot symbol catalog or the contract ticker list. The
// contract ticker payload also serves funding, open interest and last price.
func (c *Client) Tickers(ctx context.Context, mt market.MarketType) (any, error) {
	if mt == market.Futures {
		return c.http.GetJSON(ctx, venue, "contract_ticker", futuresBaseURL+"/api/v1/contract/ticker", nil)
	}
	return c.http.GetJSON(ctx, venue, "default_symbols", spotBaseURL+"/api/v3/defaultSymbols", nil)
}

// Ticker24h fetches spot 24h statistics for all symbols
func (c *Client) Ticker24h(ctx context.Context) (any, error) {
	return c.http.GetJSON(ctx, venue, "ticker_24hr", spotBaseURL+"/api/v3/ticker/24hr", nil)
}

// FundingRate rides the contract ticker payload
func (c *Client) FundingRate(ctx context.Context) (any, error) {
	return c.Tickers(ctx, market.Futures)
}

// OpenInterest rides the contract ticker payload
func (c *Client) OpenInterest(ctx context.Context, _ string) (any, error) {
	return c.Tickers(ctx, market.Futures)
}

// Klines fetches candles; interval is the MEXC-native token
func (c *Client) Klines(ctx context.Context, mt market.MarketType, symbol, interval string, limit int) (any, error) {
	if mt == market.Futures {
		return c.http.GetJSON(ctx, venue, "contract_kline",
			futuresBaseURL+"/api/v1/contract/kline/"+symbol,
			map[string]string{"interval": interval})
	}
	params := map[string]string{
		"symbol":   symbol,
		"interval": interval,
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	return c.http.GetJSON(ctx, venue, "klines", spotBaseURL+"/api/v3/klines", params)
}

// Depth fetches an order book snapshot
func (c *Client) Depth(ctx context.Context, mt market.MarketType, symbol string, limit int) (any, error) {
	if mt == market.Futures {
		params := map[string]string{}
		if limit > 0 {
			params["limit"] = strconv.Itoa(limit)
		}
		return c.http.GetJSON(ctx, venue, "contract_depth",
			futuresBaseURL+"/api/v1/contract/depth/"+symbol, params)
	}
	params := map[string]string{"symbol": symbol}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	return c.http.GetJSON(ctx, venue, "depth", spotBaseURL+"/api/v3/depth", params)
}

// LastPrice rides the contract ticker payload
func (c *Client) LastPrice(ctx context.Context) (any, error) {
	return c.Tickers(ctx, market.Futures)
}

// Close releases idle connections
func (c *Client) Close() {
	c.http.Close()
}
