package kcex

import (
	"context"

	"cryptomd/internal/httpx"
	"cryptomd/internal/market"
)

const baseURL = "https://www.kcex.com"

const venue = string(market.KCEX)

// Client fetches public market data snapshots from KCEX. One contract ticker
// endpoint serves every futures snapshot.
type Client struct {
	http *httpx.Client
}

// NewClient creates a new KCEX snapshot client
func NewClient(opts httpx.Options) *Client {
	return &Client{http: httpx.New(opts)}
}

func (c *Client) contractTicker(ctx context.Context, endpoint string) (any, error) {
	return c.http.GetJSON(ctx, venue, endpoint, baseURL+"/fapi/v1/contract/ticker", nil)
}

// Tickers fetches 24h contract statistics; the spot market is not wired
func (c *Client) Tickers(ctx context.Context, mt market.MarketType) (any, error) {
	if mt != market.Futures {
		return nil, market.ErrNotImplemented
	}
	return c.contractTicker(ctx, "contract_ticker")
}

// FundingRate rides the contract ticker payload
func (c *Client) FundingRate(ctx context.Context) (any, error) {
	return c.contractTicker(ctx, "funding_rate")
}

// OpenInterest rides the contract ticker payload
func (c *Client) OpenInterest(ctx context.Context, _ string) (any, error) {
	return c.contractTicker(ctx, "open_interest")
}

// Klines is not wired for KCEX
func (c *Client) Klines(ctx context.Context, _ market.MarketType, _, _ string, _ int) (any, error) {
	return nil, market.ErrNotImplemented
}

// Depth is not wired for KCEX
func (c *Client) Depth(ctx context.Context, _ market.MarketType, _ string, _ int) (any, error) {
	return nil, market.ErrNotImplemented
}

// LastPrice rides the contract ticker payload
func (c *Client) LastPrice(ctx context.Context) (any, error) {
	return c.contractTicker(ctx, "last_price")
}

// Close releases idle connections
func (c *Client) Close() {
	c.http.Close()
}
