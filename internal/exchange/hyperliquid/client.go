package hyperliquid

import (
	"context"
	"time"

	"cryptomd/internal/httpx"
	"cryptomd/internal/market"
)

const infoURL = "https://api.hyperliquid.xyz/info"

const venue = string(market.Hyperliquid)

// Client fetches public market data snapshots from the Hyperliquid info
// endpoint. Every request is a typed POST body.
type Client struct {
	http *httpx.Client
}

// NewClient creates a new Hyperliquid snapshot client
func NewClient(opts httpx.Options) *Client {
	return &Client{http: httpx.New(opts)}
}

func (c *Client) info(ctx context.Context, endpoint string, body map[string]any) (any, error) {
	return c.http.PostJSON(ctx, venue, endpoint, infoURL, body, nil)
}

// Tickers fetches the asset catalog with per-asset context for futures, or
// the spot metadata
func (c *Client) Tickers(ctx context.Context, mt market.MarketType) (any, error) {
	if mt == market.Futures {
		return c.info(ctx, "meta_and_asset_ctxs", map[string]any{"type": "metaAndAssetCtxs"})
	}
	return c.info(ctx, "spot_meta", map[string]any{"type": "spotMeta"})
}

// FundingRate rides the asset context payload
func (c *Client) FundingRate(ctx context.Context) (any, error) {
	return c.Tickers(ctx, market.Futures)
}

// OpenInterest rides the asset context payload
func (c *Client) OpenInterest(ctx context.Context, _ string) (any, error) {
	return c.Tickers(ctx, market.Futures)
}

// Klines fetches a candle snapshot covering the last limit bars
func (c *Client) Klines(ctx context.Context, _ market.MarketType, symbol, interval string, limit int) (any, error) {
	if limit <= 0 {
		limit = 500
	}
	now := time.Now().UnixMilli()
	return c.info(ctx, "candle_snapshot", map[string]any{
		"type": "candleSnapshot",
		"req": map[string]any{
			"coin":      symbol,
			"interval":  interval,
			"startTime": now - intervalMillis(interval)*int64(limit),
			"endTime":   now,
		},
	})
}

// Depth is not wired for Hyperliquid
func (c *Client) Depth(ctx context.Context, _ market.MarketType, _ string, _ int) (any, error) {
	return nil, market.ErrNotImplemented
}

// LastPrice rides the asset context payload
func (c *Client) LastPrice(ctx context.Context) (any, error) {
	return c.Tickers(ctx, market.Futures)
}

// Close releases idle connections
func (c *Client) Close() {
	c.http.Close()
}

// intervalMillis returns the span of one native interval token
func intervalMillis(interval string) int64 {
	spans := map[string]time.Duration{
		"1m": time.Minute, "3m": 3 * time.Minute, "5m": 5 * time.Minute,
		"15m": 15 * time.Minute, "30m": 30 * time.Minute,
		"1h": time.Hour, "2h": 2 * time.Hour, "4h": 4 * time.Hour,
		"8h": 8 * time.Hour, "12h": 12 * time.Hour,
		"1d": 24 * time.Hour, "3d": 72 * time.Hour,
		"1w": 7 * 24 * time.Hour, "1M": 30 * 24 * time.Hour,
	}
	span, ok := spans[interval]
	if !ok {
		span = time.Minute
	}
	return span.Milliseconds()
}
