package kcex

import (
	"strings"

	"cryptomd/internal/exchange/adapt"
	"cryptomd/internal/market"
)

// Adapter converts KCEX payloads into the unified record set
type Adapter struct{}

func dataList(raw any) ([]any, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.KCEX, "payload is not an object")
	}
	list, ok := adapt.AsSlice(m["data"])
	if !ok {
		return nil, market.Adaptf(market.KCEX, "payload missing data array")
	}
	return list, nil
}

// millis upscales second resolution timestamps
func millis(ts int64) int64 {
	if ts < 1e12 {
		return ts * 1000
	}
	return ts
}

// Tickers is not wired for KCEX
func (Adapter) Tickers(any, bool) ([]string, error) {
	return nil, market.ErrNotImplemented
}

// FuturesTickers extracts contracts from the contract ticker payload
func (Adapter) FuturesTickers(raw any, onlyUSDT bool) ([]string, error) {
	list, err := dataList(raw)
	if err != nil {
		return nil, err
	}
	symbols := make([]string, 0, len(list))
	for _, item := range list {
		m, ok := adapt.AsMap(item)
		if !ok {
			continue
		}
		sym, ok := adapt.String(m["symbol"])
		if !ok {
			continue
		}
		if onlyUSDT && !strings.HasSuffix(sym, "USDT") {
			continue
		}
		symbols = append(symbols, sym)
	}
	return symbols, nil
}

// Ticker24h is not wired for KCEX
func (Adapter) Ticker24h(any) (map[string]market.TickerDaily, error) {
	return nil, market.ErrNotImplemented
}

// FuturesTicker24h maps USDT contracts to their 24h summary; riseFallRate is
// a ratio
func (Adapter) FuturesTicker24h(raw any) (map[string]market.TickerDaily, error) {
	list, err := dataList(raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]market.TickerDaily, len(list))
	for _, item := range list {
		m, ok := adapt.AsMap(item)
		if !ok {
			continue
		}
		sym, ok := adapt.String(m["symbol"])
		if !ok || !strings.HasSuffix(sym, "USDT") {
			continue
		}
		rate, ok1 := adapt.Float(m["riseFallRate"])
		vol, ok2 := adapt.Float(m["amount24"])
		if !(ok1 && ok2) {
			return nil, market.Adaptf(market.KCEX, "bad ticker fields for %s", sym)
		}
		out[sym] = market.TickerDaily{P: adapt.Round2(rate * 100), V: vol}
	}
	return out, nil
}

// FundingRate maps contracts to their funding rate in percent
func (Adapter) FundingRate(raw any) (map[string]float64, error) {
	list, err := dataList(raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(list))
	for _, item := range list {
		m, ok := adapt.AsMap(item)
		if !ok {
			continue
		}
		sym, ok := adapt.String(m["symbol"])
		if !ok {
			continue
		}
		rate, ok := adapt.Float(m["fundingRate"])
		if !ok {
			continue
		}
		out[sym] = rate * 100
	}
	return out, nil
}

// OpenInterest maps contracts to their open interest. The venue reports
// holdVol in contract units, ContractTable scaling happens downstream.
func (Adapter) OpenInterest(raw any) (map[string]market.OpenInterest, error) {
	list, err := dataList(raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]market.OpenInterest, len(list))
	for _, item := range list {
		m, ok := adapt.AsMap(item)
		if !ok {
			continue
		}
		sym, ok := adapt.String(m["symbol"])
		if !ok {
			continue
		}
		vol, ok := adapt.Float(m["holdVol"])
		if !ok {
			continue
		}
		ts, _ := adapt.Int64(m["timestamp"])
		out[sym] = market.OpenInterest{T: millis(ts), V: vol}
	}
	return out, nil
}

// Kline is not wired for KCEX
func (Adapter) Kline(any, market.MarketType, string, string) ([]market.Kline, error) {
	return nil, market.ErrNotImplemented
}

// KlineMessage is not wired for KCEX
func (Adapter) KlineMessage(any) ([]market.Kline, error) {
	return nil, market.ErrNotImplemented
}

// AggTradesMessage converts one deal event
func (Adapter) AggTradesMessage(raw any) ([]market.AggTrade, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.KCEX, "message is not an object")
	}
	symbol, _ := adapt.String(m["symbol"])
	list, ok := adapt.AsSlice(m["data"])
	if !ok {
		return nil, market.Adaptf(market.KCEX, "message missing data for %s", symbol)
	}
	out := make([]market.AggTrade, 0, len(list))
	for i, item := range list {
		deal, ok := adapt.AsMap(item)
		if !ok {
			return nil, market.Adaptf(market.KCEX, "deal %d malformed", i)
		}
		price, ok1 := adapt.Float(deal["p"])
		volume, ok2 := adapt.Float(deal["v"])
		ts, ok3 := adapt.Int64(deal["t"])
		if !(ok1 && ok2 && ok3) {
			return nil, market.Adaptf(market.KCEX, "deal %d has bad fields", i)
		}
		side := market.Buy
		if adapt.Truthy(deal["M"]) {
			side = market.Sell
		}
		out = append(out, market.AggTrade{
			Time:   millis(ts),
			Symbol: symbol,
			Side:   side,
			Price:  price,
			Volume: volume,
		})
	}
	return out, nil
}

// LiquidationsMessage is not wired for KCEX
func (Adapter) LiquidationsMessage(any) ([]market.Liquidation, error) {
	return nil, market.ErrNotImplemented
}

// Depth is not wired for KCEX
func (Adapter) Depth(any) (market.Depth, error) {
	return market.Depth{}, market.ErrNotImplemented
}

// FuturesLastPrice maps contracts to their latest price
func (Adapter) FuturesLastPrice(raw any) (map[string]float64, error) {
	list, err := dataList(raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(list))
	for _, item := range list {
		m, ok := adapt.AsMap(item)
		if !ok {
			continue
		}
		sym, ok := adapt.String(m["symbol"])
		if !ok {
			continue
		}
		last, ok := adapt.Float(m["lastPrice"])
		if !ok {
			continue
		}
		out[sym] = last
	}
	return out, nil
}
