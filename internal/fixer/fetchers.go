package fixer

import (
	"context"

	"cryptomd/internal/exchange/adapt"
	"cryptomd/internal/httpx"
	"cryptomd/internal/market"
)

// sizeTable pulls symbol to contract size pairs out of a list of entries
func sizeTable(venue market.Venue, list []any, symbolKey, sizeKey string) (map[string]float64, error) {
	out := make(map[string]float64, len(list))
	for _, item := range list {
		m, ok := adapt.AsMap(item)
		if !ok {
			continue
		}
		sym, ok := adapt.String(m[symbolKey])
		if !ok {
			continue
		}
		size, ok := adapt.Float(m[sizeKey])
		if !ok {
			continue
		}
		out[sym] = size
	}
	if len(out) == 0 {
		return nil, market.Adaptf(venue, "contract table is empty")
	}
	return out, nil
}

func fetchOKX(ctx context.Context, c *httpx.Client) (map[string]float64, error) {
	raw, err := c.GetJSON(ctx, string(market.OKX), "instruments",
		"https://www.okx.com/api/v5/public/instruments", map[string]string{"instType": "SWAP"})
	if err != nil {
		return nil, err
	}
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.OKX, "instruments payload malformed")
	}
	list, ok := adapt.AsSlice(m["data"])
	if !ok {
		return nil, market.Adaptf(market.OKX, "instruments missing data")
	}
	return sizeTable(market.OKX, list, "instId", "ctVal")
}

func fetchMEXC(ctx context.Context, c *httpx.Client) (map[string]float64, error) {
	raw, err := c.GetJSON(ctx, string(market.MEXC), "contract_detail",
		"https://contract.mexc.com/api/v1/contract/detail", nil)
	if err != nil {
		return nil, err
	}
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.MEXC, "contract detail payload malformed")
	}
	list, ok := adapt.AsSlice(m["data"])
	if !ok {
		return nil, market.Adaptf(market.MEXC, "contract detail missing data")
	}
	return sizeTable(market.MEXC, list, "symbol", "contractSize")
}

func fetchXT(ctx context.Context, c *httpx.Client) (map[string]float64, error) {
	raw, err := c.GetJSON(ctx, string(market.XT), "symbol_list",
		"https://fapi.xt.com/future/market/v3/public/symbol/list", nil)
	if err != nil {
		return nil, err
	}
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.XT, "symbol list payload malformed")
	}
	result, ok := adapt.AsMap(m["result"])
	if !ok {
		return nil, market.Adaptf(market.XT, "symbol list missing result")
	}
	list, ok := adapt.AsSlice(result["symbols"])
	if !ok {
		return nil, market.Adaptf(market.XT, "symbol list missing symbols")
	}
	return sizeTable(market.XT, list, "symbol", "contractSize")
}

func fetchKCEX(ctx context.Context, c *httpx.Client) (map[string]float64, error) {
	raw, err := c.GetJSON(ctx, string(market.KCEX), "contract_detail",
		"https://www.kcex.com/fapi/v1/contract/detailV2", map[string]string{"client": "web"})
	if err != nil {
		return nil, err
	}
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.KCEX, "contract detail payload malformed")
	}
	list, ok := adapt.AsSlice(m["data"])
	if !ok {
		return nil, market.Adaptf(market.KCEX, "contract detail missing data")
	}
	return sizeTable(market.KCEX, list, "symbol", "cs")
}
