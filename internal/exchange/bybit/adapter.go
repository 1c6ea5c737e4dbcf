package bybit

import (
	"sort"
	"strings"

	"cryptomd/internal/exchange/adapt"
	"cryptomd/internal/market"
)

// Adapter converts Bybit v5 payloads into the unified record set
type Adapter struct{}

// resultList digs result.list out of a v5 REST envelope
func resultList(raw any) ([]any, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.Bybit, "payload is not an object")
	}
	result, ok := adapt.AsMap(m["result"])
	if !ok {
		return nil, market.Adaptf(market.Bybit, "payload missing result")
	}
	list, ok := adapt.AsSlice(result["list"])
	if !ok {
		return nil, market.Adaptf(market.Bybit, "result missing list")
	}
	return list, nil
}

// Tickers extracts spot symbols from the tickers payload
func (Adapter) Tickers(raw any, onlyUSDT bool) ([]string, error) {
	return symbolList(raw, onlyUSDT)
}

// FuturesTickers extracts perpetual symbols from the tickers payload
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

// Ticker24h maps USDT spot symbols to their 24h summary
func (Adapter) Ticker24h(raw any) (map[string]market.TickerDaily, error) {
	return ticker24h(raw)
}

// FuturesTicker24h maps USDT perpetual symbols to their 24h summary
func (Adapter) FuturesTicker24h(raw any) (map[string]market.TickerDaily, error) {
	return ticker24h(raw)
}

func ticker24h(raw any) (map[string]market.TickerDaily, error) {
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
		sym, ok := adapt.String(m["symbol"])
		if !ok || !strings.HasSuffix(sym, "USDT") {
			continue
		}
		pcnt, ok := adapt.Float(m["price24hPcnt"])
		if !ok {
			return nil, market.Adaptf(market.Bybit, "bad price24hPcnt for %s", sym)
		}
		vol, ok := adapt.Float(m["turnover24h"])
		if !ok {
			return nil, market.Adaptf(market.Bybit, "bad turnover24h for %s", sym)
		}
		out[sym] = market.TickerDaily{P: adapt.Round2(pcnt * 100), V: vol}
	}
	return out, nil
}

// FundingRate maps USDT perpetual symbols to their funding rate in percent
func (Adapter) FundingRate(raw any) (map[string]float64, error) {
	list, err := resultList(raw)
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
		if !ok || !strings.HasSuffix(sym, "USDT") {
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

// OpenInterest converts the single-symbol open interest payload
func (Adapter) OpenInterest(raw any) (map[string]market.OpenInterest, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.Bybit, "payload is not an object")
	}
	result, ok := adapt.AsMap(m["result"])
	if !ok {
		return nil, market.Adaptf(market.Bybit, "payload missing result")
	}
	sym, _ := adapt.String(result["symbol"])
	list, ok := adapt.AsSlice(result["list"])
	if !ok || len(list) == 0 {
		return nil, market.Adaptf(market.Bybit, "open interest list empty for %s", sym)
	}
	row, ok := adapt.AsMap(list[0])
	if !ok {
		return nil, market.Adaptf(market.Bybit, "open interest row malformed for %s", sym)
	}
	oi, ok := adapt.Float(row["openInterest"])
	if !ok {
		return nil, market.Adaptf(market.Bybit, "bad openInterest for %s", sym)
	}
	ts, _ := adapt.Int64(row["timestamp"])
	return map[string]market.OpenInterest{sym: {T: ts, V: oi}}, nil
}

// Kline converts REST candle rows. Bybit returns newest first; output is
// sorted oldest first. Row layout: [start, open, high, low, close, volume,
// turnover].
func (Adapter) Kline(raw any, _ market.MarketType, symbol, interval string) ([]market.Kline, error) {
	list, err := resultList(raw)
	if err != nil {
		return nil, err
	}
	out := make([]market.Kline, 0, len(list))
	for i, row := range list {
		cols, ok := adapt.AsSlice(row)
		if !ok || len(cols) < 7 {
			return nil, market.Adaptf(market.Bybit, "kline row %d malformed", i)
		}
		start, ok1 := adapt.Int64(cols[0])
		open, ok2 := adapt.Float(cols[1])
		high, ok3 := adapt.Float(cols[2])
		low, ok4 := adapt.Float(cols[3])
		closeP, ok5 := adapt.Float(cols[4])
		turnover, ok6 := adapt.Float(cols[6])
		if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
			return nil, market.Adaptf(market.Bybit, "kline row %d has bad fields", i)
		}
		out = append(out, market.Kline{
			Symbol:   symbol,
			OpenTime: start,
			Open:     open,
			High:     high,
			Low:      low,
			Close:    closeP,
			Volume:   turnover,
			Interval: interval,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenTime < out[j].OpenTime })
	return out, nil
}

// KlineMessage converts one stream kline event. The symbol rides in the topic
// suffix, e.g. "kline.1.BTCUSDT".
func (Adapter) KlineMessage(raw any) ([]market.Kline, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.Bybit, "message is not an object")
	}
	topic, _ := adapt.String(m["topic"])
	parts := strings.Split(topic, ".")
	if len(parts) != 3 {
		return nil, market.Adaptf(market.Bybit, "unexpected kline topic %q", topic)
	}
	sym := parts[2]
	data, ok := adapt.AsSlice(m["data"])
	if !ok {
		return nil, market.Adaptf(market.Bybit, "kline message missing data")
	}
	out := make([]market.Kline, 0, len(data))
	for i, item := range data {
		bar, ok := adapt.AsMap(item)
		if !ok {
			return nil, market.Adaptf(market.Bybit, "kline item %d malformed", i)
		}
		start, ok1 := adapt.Int64(bar["start"])
		open, ok2 := adapt.Float(bar["open"])
		high, ok3 := adapt.Float(bar["high"])
		low, ok4 := adapt.Float(bar["low"])
		closeP, ok5 := adapt.Float(bar["close"])
		turnover, ok6 := adapt.Float(bar["turnover"])
		if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
			return nil, market.Adaptf(market.Bybit, "kline item %d has bad fields", i)
		}
		end, _ := adapt.Int64(bar["end"])
		interval, _ := adapt.String(bar["interval"])
		kline := market.Kline{
			Symbol:    sym,
			OpenTime:  start,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closeP,
			Volume:    turnover,
			Interval:  interval,
			CloseTime: end,
		}
		if confirm, ok := adapt.Bool(bar["confirm"]); ok {
			c := confirm
			kline.Closed = &c
		}
		out = append(out, kline)
	}
	return out, nil
}

// AggTradesMessage converts one publicTrade event
func (Adapter) AggTradesMessage(raw any) ([]market.AggTrade, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.Bybit, "message is not an object")
	}
	data, ok := adapt.AsSlice(m["data"])
	if !ok {
		return nil, market.Adaptf(market.Bybit, "trade message missing data")
	}
	out := make([]market.AggTrade, 0, len(data))
	for i, item := range data {
		trade, ok := adapt.AsMap(item)
		if !ok {
			return nil, market.Adaptf(market.Bybit, "trade item %d malformed", i)
		}
		sym, _ := adapt.String(trade["s"])
		ts, ok1 := adapt.Int64(trade["T"])
		price, ok2 := adapt.Float(trade["p"])
		vol, ok3 := adapt.Float(trade["v"])
		if !(ok1 && ok2 && ok3) {
			return nil, market.Adaptf(market.Bybit, "trade item %d has bad fields", i)
		}
		out = append(out, market.AggTrade{
			Time:   ts,
			Symbol: sym,
			Side:   sideOf(trade["S"]),
			Price:  price,
			Volume: vol,
		})
	}
	return out, nil
}

// LiquidationsMessage converts one allLiquidation event
func (Adapter) LiquidationsMessage(raw any) ([]market.Liquidation, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.Bybit, "message is not an object")
	}
	data, ok := adapt.AsSlice(m["data"])
	if !ok {
		return nil, market.Adaptf(market.Bybit, "liquidation message missing data")
	}
	out := make([]market.Liquidation, 0, len(data))
	for i, item := range data {
		liq, ok := adapt.AsMap(item)
		if !ok {
			return nil, market.Adaptf(market.Bybit, "liquidation item %d malformed", i)
		}
		sym, _ := adapt.String(liq["s"])
		ts, ok1 := adapt.Int64(liq["T"])
		vol, ok2 := adapt.Float(liq["v"])
		price, ok3 := adapt.Float(liq["p"])
		if !(ok1 && ok2 && ok3) {
			return nil, market.Adaptf(market.Bybit, "liquidation item %d has bad fields", i)
		}
		out = append(out, market.Liquidation{
			Time:   ts,
			Symbol: sym,
			Side:   sideOf(liq["S"]),
			Volume: vol,
			Price:  price,
		})
	}
	return out, nil
}

// Depth converts an orderbook snapshot; Bybit uses a/b for the ladders
func (Adapter) Depth(raw any) (market.Depth, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return market.Depth{}, market.Adaptf(market.Bybit, "payload is not an object")
	}
	result, ok := adapt.AsMap(m["result"])
	if !ok {
		return market.Depth{}, market.Adaptf(market.Bybit, "payload missing result")
	}
	return adapt.ParseDepth(market.Bybit, result["a"], result["b"])
}

// FuturesLastPrice maps perpetual symbols to their latest price
func (Adapter) FuturesLastPrice(raw any) (map[string]float64, error) {
	list, err := resultList(raw)
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
		price, ok := adapt.Float(m["lastPrice"])
		if !ok {
			continue
		}
		out[sym] = price
	}
	return out, nil
}

func sideOf(v any) market.Side {
	s, _ := adapt.String(v)
	if strings.EqualFold(s, "Sell") {
		return market.Sell
	}
	return market.Buy
}
