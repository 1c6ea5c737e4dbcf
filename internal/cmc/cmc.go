// Package cmc fetches the Coinmarketcap currency map, used to rank symbols
// by market capitalization.
package cmc

import (
	"context"
	"strings"

	"cryptomd/internal/exchange/adapt"
	"cryptomd/internal/httpx"
	"cryptomd/internal/market"
)

const (
	baseURL = "https://pro-api.coinmarketcap.com"
	source  = "cmc"
)

// Client fetches from the Coinmarketcap pro API
type Client struct {
	http   *httpx.Client
	apiKey string
}

// New creates a Coinmarketcap client
func New(opts httpx.Options, apiKey string) *Client {
	return &Client{http: httpx.New(opts), apiKey: apiKey}
}

// Map fetches the active currency map ordered by rank. Pass symbols to
// restrict the result, nil for the full top listing.
func (c *Client) Map(ctx context.Context, symbols []string) (any, error) {
	params := map[string]string{
		"sort":           "cmc_rank",
		"listing_status": "active",
		"start":          "1",
		"limit":          "5000",
		"aux":            "platform,first_historical_data,last_historical_data,is_active",
	}
	if len(symbols) > 0 {
		params["symbol"] = strings.Join(symbols, ",")
	}
	return c.http.GetJSONAuth(ctx, source, "currency_map", baseURL+"/v1/cryptocurrency/map",
		params, map[string]string{"X-CMC_PRO_API_KEY": c.apiKey})
}

// Close releases idle connections
func (c *Client) Close() {
	c.http.Close()
}

// Rating converts a currency map payload into a symbol to rank table. The
// first occurrence of a symbol wins, that is the highest ranked listing.
func Rating(raw any) (map[string]int, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(source, "payload is not an object")
	}
	list, ok := adapt.AsSlice(m["data"])
	if !ok {
		return nil, market.Adaptf(source, "payload missing data array")
	}
	out := make(map[string]int, len(list))
	for _, item := range list {
		entry, ok := adapt.AsMap(item)
		if !ok {
			continue
		}
		sym, ok := adapt.String(entry["symbol"])
		if !ok {
			continue
		}
		rank, ok := adapt.Int64(entry["rank"])
		if !ok {
			continue
		}
		if _, seen := out[sym]; seen {
			continue
		}
		out[sym] = int(rank)
	}
	return out, nil
}
