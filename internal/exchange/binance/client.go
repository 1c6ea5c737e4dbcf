package binance

import (
	"context"
	"net/http"
	"strconv"

	"cryptomd/internal/httpx"
	"cryptomd/internal/market"
	"cryptomd/internal/metrics"
)

const (
	spotBaseURL    = "https://api.binance.com"
	futuresBaseURL = "https://fapi.binance.com"
)

const venue = string(market.Binance)

// Client fetches public market data snapshots from Binance
type Client struct {
	http *httpx.Client
}

// NewClient creates a new Binance snapshot client
func NewClient(opts httpx.Options) *Client {
	c := httpx.New(opts)
	c.OnResponse = func(h http.Header) {
		if w := h.Get("x-mbx-used-weight-1m"); w != "" {
			if weight, err := strconv.ParseFloat(w, 64); err == nil {
				metrics.RecordBinanceUsedWeight(weight)
			}
		}
	}
	return &Client{http: c}
}

// Tickers fetches 24h ticker statistics for all symbols
func (c *Client) Tickers(ctx context.Context, mt market.MarketType) (any, error) {
	if mt == market.Futures {
		return c.http.GetJSON(ctx, venue, "ticker_24hr", futuresBaseURL+"/fapi/v1/ticker/24hr", nil)
	}
	return c.http.GetJSON(ctx, venue, "ticker_24hr", spotBaseURL+"/api/v3/ticker/24hr", nil)
}

// FundingRate fetches mark price and funding data for all perpetuals
func (c *Client) FundingRate(ctx context.Context) (any, error) {
	return c.http.GetJSON(ctx, venue, "premium_index", futuresBaseURL+"/fapi/v1/premiumIndex", nil)
}

// OpenInterest fetches open interest for a single perpetual
func (c *Client) OpenInterest(ctx context.Context, symbol string) (any, error) {
	return c.http.GetJSON(ctx, venue, "open_interest", futuresBaseURL+"/fapi/v1/openInterest",
		map[string]string{"symbol": symbol})
}

// Klines fetches candles; interval is the Binance-native token
func (c *Client) Klines(ctx context.Context, mt market.MarketType, symbol, interval string, limit int) (any, error) {
	params := map[string]string{
		"symbol":   symbol,
		"interval": interval,
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	if mt == market.Futures {
		return c.http.GetJSON(ctx, venue, "klines", futuresBaseURL+"/fapi/v1/klines", params)
	}
	return c.http.GetJSON(ctx, venue, "klines", spotBaseURL+"/api/v3/klines", params)
}

// Depth fetches an order book snapshot
func (c *Client) Depth(ctx context.Context, mt market.MarketType, symbol string, limit int) (any, error) {
	params := map[string]string{"symbol": symbol}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	if mt == market.Futures {
		return c.http.GetJSON(ctx, venue, "depth", futuresBaseURL+"/fapi/v1/depth", params)
	}
	return c.http.GetJSON(ctx, venue, "depth", spotBaseURL+"/api/v3/depth", params)
}

// LastPrice fetches the latest price for all perpetuals
func (c *Client) LastPrice(ctx context.Context) (any, error) {
	return c.http.GetJSON(ctx, venue, "ticker_price", futuresBaseURL+"/fapi/v1/ticker/price", nil)
}

// Close releases idle connections
func (c *Client) Close() {
	c.http.Close()
}
