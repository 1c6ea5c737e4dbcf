package xt

import (
	"context"

	"cryptomd/internal/httpx"
	"cryptomd/internal/market"
)

const (
	spotBaseURL    = "https://dapi.xt.com"
	futuresBaseURL = "https://fapi.xt.com"
)

const venue = string(market.XT)

// Client fetches public market data snapshots from XT
type Client struct {
	http *httpx.Client
}

// NewClient creates a new XT snapshot client
func NewClient(opts httpx.Options) *Client {
	return &Client{http: httpx.New(opts)}
}

// Tickers fetches 24h ticker statistics for all pairs of the market
func (c *Client) Tickers(ctx context.Context, mt market.MarketType) (any, error) {
	if mt == market.Futures {
		return c.http.GetJSON(ctx, venue, "futures_tickers", futuresBaseURL+"/future/market/v1/public/q/tickers", nil)
	}
	return c.http.GetJSON(ctx, venue, "spot_tickers", spotBaseURL+"/v4/public/ticker/24h", nil)
}

// FundingRate is not wired for XT
func (c *Client) FundingRate(ctx context.Context) (any, error) {
	return nil, market.ErrNotImplemented
}

// OpenInterest is not wired for XT
func (c *Client) OpenInterest(ctx context.Context, symbol string) (any, error) {
	return nil, market.ErrNotImplemented
}

// Klines is not wired for XT
func (c *Client) Klines(ctx context.Context, _ market.MarketType, _, _ string, _ int) (any, error) {
	return nil, market.ErrNotImplemented
}

// Depth is not wired for XT
func (c *Client) Depth(ctx context.Context, _ market.MarketType, _ string, _ int) (any, error) {
	return nil, market.ErrNotImplemented
}

// LastPrice is not wired for XT
func (c *Client) LastPrice(ctx context.Context) (any, error) {
	return nil, market.ErrNotImplemented
}

// Close releases idle connections
func (c *Client) Close() {
	c.http.Close()
}
