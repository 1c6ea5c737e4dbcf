package bingx

import (
	"sort"
	"strings"

	"cryptomd/internal/exchange/adapt"
	"cryptomd/internal/market"
)

// Adapter converts BingX payloads into the unified record set. The venue
// moves fields between API versions, so lookups accept the known aliases.
type Adapter struct{}

// unwrap strips the data envelope, which the venue sometimes nests
func unwrap(raw any) any {
	for {
		m, ok := adapt.AsMap(raw)
		if !ok {
			return raw
		}
		inner, present := m["data"]
		if !present {
			return raw
		}
		raw = inner
	}
}

// first returns the first present alias
func first(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, present := m[k]; present {
			return v, true
		}
	}
	return nil, false
}

// percent parses a change value that may carry a % suffix
func percent(v any) (float64, bool) {
	if s, ok := adapt.String(v); ok {
		return adapt.Float(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	}
	return adapt.Float(v)
}

func itemList(raw any) ([]any, error) {
	inner := unwrap(raw)
	if list, ok := adapt.AsSlice(inner); ok {
		return list, nil
	}
	if m, ok := adapt.AsMap(inner); ok {
		return []any{m}, nil
	}
	return nil, market.Adaptf(market.BingX, "payload has no items")
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
	list, err := itemList(raw)
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
		if onlyUSDT && !strings.HasSuffix(sym, "-USDT") {
			continue
		}
		symbols = append(symbols, sym)
	}
	return symbols, nil
}

// Ticker24h maps USDT spot pairs to their 24h summary
func (a Adapter) Ticker24h(raw any) (map[string]market.TickerDaily, error) {
	return ticker24h(raw)
}

// FuturesTicker24h maps USDT contracts to their 24h summary
func (a Adapter) FuturesTicker24h(raw any) (map[string]market.TickerDaily, error) {
	return ticker24h(raw)
}

func ticker24h(raw any) (map[string]market.TickerDaily, error) {
	list, err := itemList(raw)
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
		if !ok || !strings.HasSuffix(sym, "-USDT") {
			continue
		}
		pct, ok := percent(m["priceChangePercent"])
		if !ok {
			return nil, market.Adaptf(market.BingX, "bad priceChangePercent for %s", sym)
		}
		vol, ok := adapt.Float(m["quoteVolume"])
		if !ok {
			return nil, market.Adaptf(market.BingX, "bad quoteVolume for %s", sym)
		}
		out[sym] = market.TickerDaily{P: adapt.Round2(pct), V: vol}
	}
	return out, nil
}

// FundingRate maps contracts to their funding rate in percent
func (Adapter) FundingRate(raw any) (map[string]float64, error) {
	list, err := itemList(raw)
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
		v, present := first(m, "lastFundingRate", "fundingRate")
		if !present {
			continue
		}
		rate, ok := adapt.Float(v)
		if !ok {
			continue
		}
		out[sym] = rate * 100
	}
	return out, nil
}

// OpenInterest maps contracts to their open interest
func (Adapter) OpenInterest(raw any) (map[string]market.OpenInterest, error) {
	list, err := itemList(raw)
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
		oiRaw, present := first(m, "openInterest", "openInterestValue")
		if !present {
			continue
		}
		oi, ok := adapt.Float(oiRaw)
		if !ok {
			continue
		}
		tsRaw, _ := first(m, "time", "timestamp", "ts")
		ts, _ := adapt.Int64(tsRaw)
		out[sym] = market.OpenInterest{T: ts, V: oi}
	}
	return out, nil
}

// Kline converts a candle snapshot. Rows arrive either as objects or as
// column arrays depending on the API version.
func (Adapter) Kline(raw any, _ market.MarketType, symbol, interval string) ([]market.Kline, error) {
	list, err := itemList(raw)
	if err != nil {
		return nil, err
	}
	out := make([]market.Kline, 0, len(list))
	for i, item := range list {
		k, err := klineRow(item, symbol, interval)
		if err != nil {
			return nil, market.Adaptf(market.BingX, "kline %d: %v", i, err)
		}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenTime < out[j].OpenTime })
	return out, nil
}

func klineRow(item any, symbol, interval string) (market.Kline, error) {
	if m, ok := adapt.AsMap(item); ok {
		ts, ok1 := adapt.Int64(m["time"])
		open, ok2 := adapt.Float(m["open"])
		high, ok3 := adapt.Float(m["high"])
		low, ok4 := adapt.Float(m["low"])
		closePx, ok5 := adapt.Float(m["close"])
		vol, ok6 := adapt.Float(m["volume"])
		if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
			return market.Kline{}, market.Adaptf(market.BingX, "bad object row")
		}
		return market.Kline{
			Symbol: symbol, OpenTime: ts, Open: open, High: high, Low: low,
			Close: closePx, Volume: vol, Interval: interval,
		}, nil
	}
	row, ok := adapt.AsSlice(item)
	if !ok || len(row) < 6 {
		return market.Kline{}, market.Adaptf(market.BingX, "bad array row")
	}
	ts, ok1 := adapt.Int64(row[0])
	open, ok2 := adapt.Float(row[1])
	high, ok3 := adapt.Float(row[2])
	low, ok4 := adapt.Float(row[3])
	closePx, ok5 := adapt.Float(row[4])
	vol, ok6 := adapt.Float(row[5])
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return market.Kline{}, market.Adaptf(market.BingX, "bad array row")
	}
	k := market.Kline{
		Symbol: symbol, OpenTime: ts, Open: open, High: high, Low: low,
		Close: closePx, Volume: vol, Interval: interval,
	}
	if len(row) > 6 {
		k.CloseTime, _ = adapt.Int64(row[6])
	}
	return k, nil
}

// KlineMessage is not wired for BingX
func (Adapter) KlineMessage(any) ([]market.Kline, error) {
	return nil, market.ErrNotImplemented
}

// AggTradesMessage converts one trades event, oldest first
func (Adapter) AggTradesMessage(raw any) ([]market.AggTrade, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.BingX, "message is not an object")
	}
	list, ok := adapt.AsSlice(m["data"])
	if !ok {
		return nil, market.Adaptf(market.BingX, "message missing data")
	}
	out := make([]market.AggTrade, 0, len(list))
	for i, item := range list {
		trade, ok := adapt.AsMap(item)
		if !ok {
			return nil, market.Adaptf(market.BingX, "trade %d malformed", i)
		}
		sym, _ := adapt.String(trade["s"])
		ts, ok1 := adapt.Int64(trade["T"])
		price, ok2 := adapt.Float(trade["p"])
		qty, ok3 := adapt.Float(trade["q"])
		if !(ok1 && ok2 && ok3) {
			return nil, market.Adaptf(market.BingX, "trade %d has bad fields", i)
		}
		side := market.Buy
		if adapt.Truthy(trade["m"]) {
			side = market.Sell
		}
		out = append(out, market.AggTrade{
			Time: ts, Symbol: sym, Side: side, Price: price, Volume: qty,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

// LiquidationsMessage is not wired for BingX
func (Adapter) LiquidationsMessage(any) ([]market.Liquidation, error) {
	return nil, market.ErrNotImplemented
}

// Depth converts an order book snapshot
func (Adapter) Depth(raw any) (market.Depth, error) {
	m, ok := adapt.AsMap(unwrap(raw))
	if !ok {
		return market.Depth{}, market.Adaptf(market.BingX, "payload is not an object")
	}
	asks, _ := first(m, "asks", "a")
	bids, _ := first(m, "bids", "b")
	return adapt.ParseDepth(market.BingX, asks, bids)
}

// FuturesLastPrice maps contracts to their latest price
func (Adapter) FuturesLastPrice(raw any) (map[string]float64, error) {
	list, err := itemList(raw)
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
		v, present := first(m, "lastPrice", "price")
		if !present {
			continue
		}
		price, ok := adapt.Float(v)
		if !ok {
			continue
		}
		out[sym] = price
	}
	return out, nil
}
