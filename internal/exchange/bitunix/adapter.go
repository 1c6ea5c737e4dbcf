package bitunix

import (
	"strings"
	"time"

	"cryptomd/internal/exchange/adapt"
	"cryptomd/internal/market"
)

// Adapter converts Bitunix payloads into the unified record set
type Adapter struct{}

func dataList(raw any) ([]any, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.Bitunix, "payload is not an object")
	}
	list, ok := adapt.AsSlice(m["data"])
	if !ok {
		return nil, market.Adaptf(market.Bitunix, "payload missing data array")
	}
	return list, nil
}

// Tickers extracts spot pairs from the coin pair catalog
func (Adapter) Tickers(raw any, onlyUSDT bool) ([]string, error) {
	return symbolList(raw, onlyUSDT)
}

// FuturesTickers extracts contracts from the futures tickers payload
func (Adapter) FuturesTickers(raw any, onlyUSDT bool) ([]string, error) {
	return symbolList(raw, onlyUSDT)
}

func symbolList(raw any, onlyUSDT bool) ([]string, error) {
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
		if onlyUSDT && !strings.HasSuffix(strings.ToUpper(sym), "USDT") {
			continue
		}
		symbols = append(symbols, sym)
	}
	return symbols, nil
}

// Ticker24h is not wired for Bitunix: the spot catalog carries no statistics
func (Adapter) Ticker24h(any) (map[string]market.TickerDaily, error) {
	return nil, market.ErrNotImplemented
}

// FuturesTicker24h maps USDT contracts to their 24h summary. The payload has
// no change field, so it is derived from open and last.
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
		if !ok || !strings.HasSuffix(strings.ToUpper(sym), "USDT") {
			continue
		}
		last, ok1 := adapt.Float(m["last"])
		open, ok2 := adapt.Float(m["open"])
		vol, ok3 := adapt.Float(m["quoteVol"])
		if !(ok1 && ok2 && ok3) || open == 0 {
			return nil, market.Adaptf(market.Bitunix, "bad ticker fields for %s", sym)
		}
		out[sym] = market.TickerDaily{P: adapt.Round2((last/open - 1) * 100), V: vol}
	}
	return out, nil
}

// FundingRate is not wired for Bitunix
func (Adapter) FundingRate(any) (map[string]float64, error) {
	return nil, market.ErrNotImplemented
}

// OpenInterest is not wired for Bitunix
func (Adapter) OpenInterest(any) (map[string]market.OpenInterest, error) {
	return nil, market.ErrNotImplemented
}

// Kline is not wired for Bitunix
func (Adapter) Kline(any, market.MarketType, string, string) ([]market.Kline, error) {
	return nil, market.ErrNotImplemented
}

// KlineMessage is not wired for Bitunix
func (Adapter) KlineMessage(any) ([]market.Kline, error) {
	return nil, market.ErrNotImplemented
}

// AggTradesMessage converts one trades event. Timestamps arrive as RFC 3339
// strings.
func (Adapter) AggTradesMessage(raw any) ([]market.AggTrade, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.Bitunix, "message is not an object")
	}
	symbol, _ := adapt.String(m["symbol"])
	list, ok := adapt.AsSlice(m["data"])
	if !ok {
		return nil, market.Adaptf(market.Bitunix, "message missing data for %s", symbol)
	}
	out := make([]market.AggTrade, 0, len(list))
	for i, item := range list {
		trade, ok := adapt.AsMap(item)
		if !ok {
			return nil, market.Adaptf(market.Bitunix, "trade %d malformed", i)
		}
		stamp, _ := adapt.String(trade["t"])
		ts, err := time.Parse(time.RFC3339Nano, stamp)
		if err != nil {
			return nil, market.Adaptf(market.Bitunix, "trade %d has bad time %q: %v", i, stamp, err)
		}
		price, ok1 := adapt.Float(trade["p"])
		volume, ok2 := adapt.Float(trade["v"])
		if !(ok1 && ok2) {
			return nil, market.Adaptf(market.Bitunix, "trade %d has bad fields", i)
		}
		side := market.Buy
		if s, _ := adapt.String(trade["s"]); strings.EqualFold(s, "sell") {
			side = market.Sell
		}
		out = append(out, market.AggTrade{
			Time:   ts.UnixMilli(),
			Symbol: symbol,
			Side:   side,
			Price:  price,
			Volume: volume,
		})
	}
	return out, nil
}

// LiquidationsMessage is not wired for Bitunix
func (Adapter) LiquidationsMessage(any) ([]market.Liquidation, error) {
	return nil, market.ErrNotImplemented
}

// Depth is not wired for Bitunix
func (Adapter) Depth(any) (market.Depth, error) {
	return market.Depth{}, market.ErrNotImplemented
}

// FuturesLastPrice is not wired for Bitunix
func (Adapter) FuturesLastPrice(any) (map[string]float64, error) {
	return nil, market.ErrNotImplemented
}
