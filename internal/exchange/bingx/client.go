package bingx

import (
	"context"
	"strconv"
	"time"

	"cryptomd/internal/httpx"
	"cryptomd/internal/market"
)

const baseURL = "https://open-api.bingx.com"

const venue = string(market.BingX)

// Client fetches public market data snapshots from BingX. The venue rejects
// requests without a timestamp parameter, so one is stamped on every call.
type Client struct {
	http *httpx.Client
}

// NewClient creates a new BingX snapshot client
func NewClient(opts httpx.Options) *Client {
	return &Client{http: httpx.New(opts)}
}

func (c *Client) get(ctx context.Context, endpoint, path string, params map[string]string) (any, error) {
	if params == nil {
		params = map[string]string{}
	}
	params["timestamp"] = strconv.FormatInt(time.Now().UnixMilli(), 10)
	return c.http.GetJSON(ctx, venue, endpoint, baseURL+path, params)
}

// Tickers fetches 24h ticker statistics for all pairs of the market
func (c *Client) Tickers(ctx context.Context, mt market.MarketType) (any, error) {
	if mt == market.Futures {
		return c.get(ctx, "swap_tickers", "/openApi/swap/v2/quote/ticker", nil)
	}
	return c.get(ctx, "spot_tickers", "/openApi/spot/v1/ticker/24hr", nil)
}

// FundingRate fetches the premium index for all contracts
func (c *Client) FundingRate(ctx context.Context) (any, error) {
	return c.get(ctx, "premium_index", "/openApi/swap/v2/quote/premiumIndex", nil)
}

// OpenInterest fetches open interest for one contract
func (c *Client) OpenInterest(ctx context.Context, symbol string) (any, error) {
	return c.get(ctx, "open_interest", "/openApi/swap/v2/quote/openInterest",
		map[string]string{"symbol": symbol})
}

// Klines fetches candles for one symbol
func (c *Client) Klines(ctx context.Context, mt market.MarketType, symbol, interval string, limit int) (any, error) {
	params := map[string]string{"symbol": symbol, "interval": interval}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	if mt == market.Futures {
		return c.get(ctx, "swap_klines", "/openApi/swap/v3/quote/klines", params)
	}
	return c.get(ctx, "spot_klines", "/openApi/spot/v2/market/kline", params)
}

// Depth fetches a spot order book snapshot
func (c *Client) Depth(ctx context.Context, mt market.MarketType, symbol string, limit int) (any, error) {
	if mt == market.Futures {
		return nil, market.ErrNotImplemented
	}
	params := map[string]string{"symbol": symbol}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	return c.get(ctx, "spot_depth", "/openApi/spot/v1/market/depth", params)
}

// LastPrice fetches the latest price for all contracts
func (c *Client) LastPrice(ctx context.Context) (any, error) {
	return c.get(ctx, "swap_price", "/openApi/swap/v1/ticker/price", nil)
}

// Close releases idle connections
func (c *Client) Close() {
	c.http.Close()
}
