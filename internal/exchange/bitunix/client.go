package bitunix

import (
	"context"

	"cryptomd/internal/httpx"
	"cryptomd/internal/market"
)

const (
	spotBaseURL    = "https://openapi.bitunix.com"
	futuresBaseURL = "https://fapi.bitunix.com"
)

const venue = string(market.Bitunix)

// Client fetches public market data snapshots from Bitunix
type Client struct {
	http *httpx.Client
}

// NewClient creates a new Bitunix snapshot client
func NewClient(opts httpx.Options) *Client {
	return &Client{http: httpx.New(opts)}
}

// Tickers fetches the pair catalog for spot and 24h statistics for futures
func (c *Client) Tickers(ctx context.Context, mt market.MarketType) (any, error) {
	if mt == market.Futures {
		return c.http.GetJSON(ctx, venue, "futures_tickers", futuresBaseURL+"/api/v1/futures/market/tickers", nil)
	}
	return c.http.GetJSON(ctx, venue, "coin_pair_list", spotBaseURL+"/api/spot/v1/common/coin_pair/list", nil)
}

// FundingRate is not wired for Bitunix
func (c *Client) FundingRate(ctx context.Context) (any, error) {
	return nil, market.ErrNotImplemented
}

// OpenInterest is not wired for Bitunix
func (c *Client) OpenInterest(ctx context.Context, symbol string) (any, error) {
	return nil, market.ErrNotImplemented
}

// Klines is not wired for Bitunix
func (c *Client) Klines(ctx context.Context, _ market.MarketType, _, _ string, _ int) (any, error) {
	return nil, market.ErrNotImplemented
}

// Depth is not wired for Bitunix
func (c *Client) Depth(ctx context.Context, _ market.MarketType, _ string, _ int) (any, error) {
	return nil, market.ErrNotImplemented
}

// LastPrice is not wired for Bitunix
func (c *Client) LastPrice(ctx context.Context) (any, error) {
	return nil, market.ErrNotImplemented
}

// Close releases idle connections
func (c *Client) Close() {
	c.http.Close()
}
