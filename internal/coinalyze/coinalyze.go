// Package coinalyze fetches aggregated derivatives data from the Coinalyze
// API. Requests rotate through a pool of API keys to spread the rate limit.
package coinalyze

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"cryptomd/internal/httpx"
)

const (
	baseURL = "https://api.coinalyze.net/v1"
	source  = "coinalyze"
)

// Client fetches from the Coinalyze API
type Client struct {
	http    *httpx.Client
	keys    []string
	counter atomic.Uint64
}

// New creates a Coinalyze client over the given key pool
func New(opts httpx.Options, keys []string) (*Client, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("coinalyze: at least one api key required")
	}
	return &Client{http: httpx.New(opts), keys: keys}, nil
}

// nextKey rotates round robin through the pool
func (c *Client) nextKey() string {
	n := c.counter.Add(1) - 1
	return c.keys[n%uint64(len(c.keys))]
}

func (c *Client) get(ctx context.Context, endpoint, path string, params map[string]string) (any, error) {
	return c.http.GetJSONAuth(ctx, source, endpoint, baseURL+path, params,
		map[string]string{"api_key": c.nextKey()})
}

// OpenInterest fetches current open interest for the given symbols,
// converted to USD
func (c *Client) OpenInterest(ctx context.Context, symbols []string) (any, error) {
	return c.get(ctx, "open_interest", "/open-interest", map[string]string{
		"symbols":        strings.Join(symbols, ","),
		"convert_to_usd": "true",
	})
}

// FundingRate fetches current funding rates for the given symbols
func (c *Client) FundingRate(ctx context.Context, symbols []string) (any, error) {
	return c.get(ctx, "funding_rate", "/funding-rate", map[string]string{
		"symbols": strings.Join(symbols, ","),
	})
}

// historyParams builds the shared interval window: limit bars back from now,
// with a little slack on both ends
func historyParams(symbols []string, interval string, limit int) map[string]string {
	now := time.Now().Unix()
	from := now - int64(intervalSeconds(interval))*int64(limit) - 3
	return map[string]string{
		"symbols":        strings.Join(symbols, ","),
		"interval":       interval,
		"from":           strconv.FormatInt(from, 10),
		"to":             strconv.FormatInt(now+10, 10),
		"convert_to_usd": "true",
	}
}

// OpenInterestHistory fetches open interest candles
func (c *Client) OpenInterestHistory(ctx context.Context, symbols []string, interval string, limit int) (any, error) {
	return c.get(ctx, "open_interest_history", "/open-interest-history",
		historyParams(symbols, interval, limit))
}

// LiquidationHistory fetches liquidation candles
func (c *Client) LiquidationHistory(ctx context.Context, symbols []string, interval string, limit int) (any, error) {
	return c.get(ctx, "liquidation_history", "/liquidation-history",
		historyParams(symbols, interval, limit))
}

// Exchanges fetches the supported exchange list
func (c *Client) Exchanges(ctx context.Context) (any, error) {
	return c.get(ctx, "exchanges", "/exchanges", nil)
}

// Close releases idle connections
func (c *Client) Close() {
	c.http.Close()
}

// intervalSeconds returns the span of one Coinalyze interval token
func intervalSeconds(interval string) int {
	spans := map[string]int{
		"1min": 60, "5min": 300, "15min": 900, "30min": 1800,
		"1hour": 3600, "2hour": 7200, "4hour": 14400, "6hour": 21600,
		"12hour": 43200, "daily": 86400,
	}
	if s, ok := spans[interval]; ok {
		return s
	}
	return 60
}
