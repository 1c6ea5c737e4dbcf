package gate

import (
	"context"
	"strconv"

	"cryptomd/internal/exchange/adapt"
	"cryptomd/internal/httpx"
	"cryptomd/internal/market"
)

const baseURL = "https://api.gateio.ws/api/v4"

const venue = string(market.Gate)

// Client fetches public market data snapshots from Gate v4
type Client struct {
	http *httpx.Client
}

// NewClient creates a new Gate snapshot client
func NewClient(opts httpx.Options) *Client {
	return &Client{http: httpx.New(opts)}
}

// Tickers fetches 24h ticker statistics for all pairs of the market
func (c *Client) Tickers(ctx context.Context, mt market.MarketType) (any, error) {
	if mt == market.Futures {
		return c.http.GetJSON(ctx, venue, "futures_tickers", baseURL+"/futures/usdt/tickers", nil)
	}
	return c.http.GetJSON(ctx, venue, "spot_tickers", baseURL+"/spot/tickers", nil)
}

// FundingRate is not exposed as a catalog endpoint on Gate
func (c *Client) FundingRate(ctx context.Context) (any, error) {
	return nil, market.ErrNotImplemented
}

// OpenInterest fetches the latest contract stats entry for one contract. The
// symbol and a millisecond timestamp are patched in so the payload is
// self-describing.
func (c *Client) OpenInterest(ctx context.Context, symbol string) (any, error) {
	raw, err := c.http.GetJSON(ctx, venue, "contract_stats", baseURL+"/futures/usdt/contract_stats",
		map[string]string{"contract": symbol, "limit": "1"})
	if err != nil {
		return nil, err
	}
	list, ok := adapt.AsSlice(raw)
	if !ok || len(list) == 0 {
		return nil, market.Adaptf(market.Gate, "contract stats empty for %s", symbol)
	}
	entry, ok := adapt.AsMap(list[len(list)-1])
	if !ok {
		return nil, market.Adaptf(market.Gate, "contract stats entry malformed for %s", symbol)
	}
	entry["symbol"] = symbol
	if ts, ok := adapt.Int64(entry["time"]); ok && ts < 1e12 {
		entry["time"] = float64(ts * 1000)
	}
	return entry, nil
}

// Klines is not wired for Gate
func (c *Client) Klines(ctx context.Context, _ market.MarketType, _, _ string, _ int) (any, error) {
	return nil, market.ErrNotImplemented
}

// Depth fetches a spot order book snapshot
func (c *Client) Depth(ctx context.Context, mt market.MarketType, symbol string, limit int) (any, error) {
	if mt == market.Futures {
		return nil, market.ErrNotImplemented
	}
	params := map[string]string{"currency_pair": symbol}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	return c.http.GetJSON(ctx, venue, "order_book", baseURL+"/spot/order_book", params)
}

// LastPrice rides the futures tickers payload
func (c *Client) LastPrice(ctx context.Context) (any, error) {
	return c.Tickers(ctx, market.Futures)
}

// Close releases idle connections
func (c *Client) Close() {
	c.http.Close()
}
