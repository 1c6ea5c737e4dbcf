package xt

import (
	"strings"

	"cryptomd/internal/exchange/adapt"
	"cryptomd/internal/market"
)

// Adapter converts XT payloads into the unified record set
type Adapter struct{}

func resultList(raw any) ([]any, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.XT, "payload is not an object")
	}
	list, ok := adapt.AsSlice(m["result"])
	if !ok {
		return nil, market.Adaptf(market.XT, "payload missing result array")
	}
	return list, nil
}

// Tickers extracts spot pairs from the tickers payload
func (Adapter) Tickers(raw any, onlyUSDT bool) ([]string, error) {
	return symbolList(raw, onlyUSDT)
}

// FuturesTickers extracts contracts from the futures tickers payload
func (Adapter) FuturesTickers(raw any, onlyUSDT bool) ([]string, error) {
	return symbolList(raw, onlyUSDT)
}

func symbolList(raw any, onlyUSDT bool) ([]string, error) {
	list, err := resultList(raw)
	if err != nil {
		return nil, err
	}
	symbols := make([]string, 0, len(list))
	for _, item := range list {
		m, ok := adapt.AsMap(item)
		if !ok {
			continue
		}
		sym, ok := adapt.String(m["s"])
		if !ok {
			continue
		}
		if onlyUSDT && !strings.HasSuffix(sym, "_usdt") {
			continue
		}
		symbols = append(symbols, sym)
	}
	return symbols, nil
}

// Ticker24h maps USDT spot pairs to their 24h summary; cr is a change ratio
func (Adapter) Ticker24h(raw any) (map[string]market.TickerDaily, error) {
	return ticker24h(raw, "cr")
}

// FuturesTicker24h maps USDT contracts to their 24h summary
func (Adapter) FuturesTicker24h(raw any) (map[string]market.TickerDaily, error) {
	return ticker24h(raw, "r")
}

func ticker24h(raw any, rateKey string) (map[string]market.TickerDaily, error) {
	list, err := resultList(raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]market.TickerDaily, len(list))
	for _, item := range list {
		m, ok := adapt.AsMap(item)
		if !ok {
			continue
		}
		sym, ok := adapt.String(m["s"])
		if !ok || !strings.HasSuffix(sym, "_usdt") {
			continue
		}
		rate, ok := adapt.Float(m[rateKey])
		if !ok {
			return nil, market.Adaptf(market.XT, "bad %s for %s", rateKey, sym)
		}
		vol, ok := adapt.Float(m["v"])
		if !ok {
			return nil, market.Adaptf(market.XT, "bad v for %s", sym)
		}
		out[sym] = market.TickerDaily{P: adapt.Round2(rate * 100), V: vol}
	}
	return out, nil
}

// FundingRate is not wired for XT
func (Adapter) FundingRate(any) (map[string]float64, error) {
	return nil, market.ErrNotImplemented
}

// OpenInterest is not wired for XT
func (Adapter) OpenInterest(any) (map[string]market.OpenInterest, error) {
	return nil, market.ErrNotImplemented
}

// Kline is not wired for XT
func (Adapter) Kline(any, market.MarketType, string, string) ([]market.Kline, error) {
	return nil, market.ErrNotImplemented
}

// KlineMessage is not wired for XT
func (Adapter) KlineMessage(any) ([]market.Kline, error) {
	return nil, market.ErrNotImplemented
}

// AggTradesMessage converts one trade event. Futures trades mark the taker
// with m, spot trades with the b flag.
func (Adapter) AggTradesMessage(raw any) ([]market.AggTrade, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.XT, "message is not an object")
	}
	data, ok := adapt.AsMap(m["data"])
	if !ok {
		return nil, market.Adaptf(market.XT, "message missing data")
	}
	sym, _ := adapt.String(data["s"])
	ts, ok1 := adapt.Int64(data["t"])
	price, ok2 := adapt.Float(data["p"])
	if !(ok1 && ok2) {
		return nil, market.Adaptf(market.XT, "trade has bad fields for %s", sym)
	}

	var side market.Side
	var volume float64
	if maker, present := data["m"]; present {
		volume, ok = adapt.Float(data["a"])
		if !ok {
			return nil, market.Adaptf(market.XT, "bad a for %s", sym)
		}
		side = market.Sell
		if s, _ := adapt.String(maker); s == "BID" {
			side = market.Buy
		}
	} else {
		volume, ok = adapt.Float(data["q"])
		if !ok {
			return nil, market.Adaptf(market.XT, "bad q for %s", sym)
		}
		side = market.Buy
		if adapt.Truthy(data["b"]) {
			side = market.Sell
		}
	}

	return []market.AggTrade{{
		Time:   ts,
		Symbol: strings.ToUpper(strings.ReplaceAll(sym, "_", "")),
		Side:   side,
		Price:  price,
		Volume: volume,
	}}, nil
}

// LiquidationsMessage is not wired for XT
func (Adapter) LiquidationsMessage(any) ([]market.Liquidation, error) {
	return nil, market.ErrNotImplemented
}

// Depth is not wired for XT
func (Adapter) Depth(any) (market.Depth, error) {
	return market.Depth{}, market.ErrNotImplemented
}

// FuturesLastPrice is not wired for XT
func (Adapter) FuturesLastPrice(any) (map[string]float64, error) {
	return nil, market.ErrNotImplemented
}
