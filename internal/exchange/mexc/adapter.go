package mexc

import (
	"strings"

	"cryptomd/internal/exchange/adapt"
	"cryptomd/internal/market"
)

// Adapter converts MEXC payloads into the unified record set. Contract
// volumes arrive in contracts; apply the contract-size fix before adapting.
type Adapter struct{}

func dataOf(raw any) (any, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.MEXC, "payload is not an object")
	}
	data, ok := m["data"]
	if !ok {
		return nil, market.Adaptf(market.MEXC, "payload missing data")
	}
	return data, nil
}

// Tickers extracts spot symbols from the defaultSymbols catalog
func (Adapter) Tickers(raw any, onlyUSDT bool) ([]string, error) {
	data, err := dataOf(raw)
	if err != nil {
		return nil, err
	}
	list, ok := adapt.AsSlice(data)
	if !ok {
		return nil, market.Adaptf(market.MEXC, "symbol catalog is not an array")
	}
	symbols := make([]string, 0, len(list))
	for _, item := range list {
		sym, ok := adapt.String(item)
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

// FuturesTickers extracts contract symbols from the contract ticker payload
func (Adapter) FuturesTickers(raw any, onlyUSDT bool) ([]string, error) {
	data, err := dataOf(raw)
	if err != nil {
		return nil, err
	}
	list, ok := adapt.AsSlice(data)
	if !ok {
		return nil, market.Adaptf(market.MEXC, "contract ticker data is not an array")
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
		if onlyUSDT && !strings.HasSuffix(sym, "_USDT") {
			continue
		}
		symbols = append(symbols, sym)
	}
	return symbols, nil
}

// Ticker24h maps USDT spot symbols to their 24h summary. priceChangePercent
// arrives as a ratio.
func (Adapter) Ticker24h(raw any) (map[string]market.TickerDaily, error) {
	list, ok := adapt.AsSlice(raw)
	if !ok {
		return nil, market.Adaptf(market.MEXC, "ticker 24h payload is not an array")
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
		pct, ok := adapt.Float(m["priceChangePercent"])
		if !ok {
			return nil, market.Adaptf(market.MEXC, "bad priceChangePercent for %s", sym)
		}
		vol, ok := adapt.Float(m["quoteVolume"])
		if !ok {
			return nil, market.Adaptf(market.MEXC, "bad quoteVolume for %s", sym)
		}
		out[sym] = market.TickerDaily{P: adapt.Round2(pct * 100), V: vol}
	}
	return out, nil
}

// FuturesTicker24h maps contract symbols to their 24h summary
func (Adapter) FuturesTicker24h(raw any) (map[string]market.TickerDaily, error) {
	list, err := contractList(raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]market.TickerDaily, len(list))
	for _, m := range list {
		sym, ok := adapt.String(m["symbol"])
		if !ok || !strings.HasSuffix(sym, "_USDT") {
			continue
		}
		rate, ok := adapt.Float(m["riseFallRate"])
		if !ok {
			return nil, market.Adaptf(market.MEXC, "bad riseFallRate for %s", sym)
		}
		vol, ok := adapt.Float(m["amount24"])
		if !ok {
			return nil, market.Adaptf(market.MEXC, "bad amount24 for %s", sym)
		}
		out[sym] = market.TickerDaily{P: adapt.Round2(rate * 100), V: vol}
	}
	return out, nil
}

// FundingRate maps contract symbols to funding in percent
func (Adapter) FundingRate(raw any) (map[string]float64, error) {
	list, err := contractList(raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(list))
	for _, m := range list {
		sym, ok := adapt.String(m["symbol"])
		if !ok || !strings.HasSuffix(sym, "_USDT") {
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

// OpenInterest maps contract symbols to open interest. holdVol arrives in
// contracts; the open-interest fix converts it to base units first.
func (Adapter) OpenInterest(raw any) (map[string]market.OpenInterest, error) {
	list, err := contractList(raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]market.OpenInterest, len(list))
	for _, m := range list {
		sym, ok := adapt.String(m["symbol"])
		if !ok || !strings.HasSuffix(sym, "_USDT") {
			continue
		}
		hold, ok := adapt.Float(m["holdVol"])
		if !ok {
			continue
		}
		ts, _ := adapt.Int64(m["timestamp"])
		out[sym] = market.OpenInterest{T: ts, V: hold}
	}
	return out, nil
}

func contractList(raw any) ([]map[string]any, error) {
	data, err := dataOf(raw)
	if err != nil {
		return nil, err
	}
	list, ok := adapt.AsSlice(data)
	if !ok {
		return nil, market.Adaptf(market.MEXC, "contract data is not an array")
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := adapt.AsMap(item); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// Kline converts REST candles. Spot rows follow the array layout with quote
// volume at index 7; contract candles arrive columnar.
func (Adapter) Kline(raw any, mt market.MarketType, symbol, interval string) ([]market.Kline, error) {
	if mt == market.Futures {
		return futuresKline(raw, symbol, interval)
	}
	rows, ok := adapt.AsSlice(raw)
	if !ok {
		return nil, market.Adaptf(market.MEXC, "klines payload is not an array")
	}
	out := make([]market.Kline, 0, len(rows))
	for i, row := range rows {
		cols, ok := adapt.AsSlice(row)
		if !ok || len(cols) < 8 {
			return nil, market.Adaptf(market.MEXC, "kline row %d malformed", i)
		}
		openTime, ok1 := adapt.Int64(cols[0])
		open, ok2 := adapt.Float(cols[1])
		high, ok3 := adapt.Float(cols[2])
		low, ok4 := adapt.Float(cols[3])
		closeP, ok5 := adapt.Float(cols[4])
		closeTime, ok6 := adapt.Int64(cols[6])
		quoteVol, ok7 := adapt.Float(cols[7])
		if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7) {
			return nil, market.Adaptf(market.MEXC, "kline row %d has bad fields", i)
		}
		out = append(out, market.Kline{
			Symbol:    symbol,
			OpenTime:  openTime,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closeP,
			Volume:    quoteVol,
			Interval:  interval,
			CloseTime: closeTime,
		})
	}
	return out, nil
}

func futuresKline(raw any, symbol, interval string) ([]market.Kline, error) {
	data, err := dataOf(raw)
	if err != nil {
		return nil, err
	}
	m, ok := adapt.AsMap(data)
	if !ok {
		return nil, market.Adaptf(market.MEXC, "contract kline data malformed")
	}
	times, ok1 := adapt.AsSlice(m["time"])
	opens, ok2 := adapt.AsSlice(m["open"])
	highs, ok3 := adapt.AsSlice(m["high"])
	lows, ok4 := adapt.AsSlice(m["low"])
	closes, ok5 := adapt.AsSlice(m["close"])
	amounts, ok6 := adapt.AsSlice(m["amount"])
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return nil, market.Adaptf(market.MEXC, "contract kline columns missing")
	}
	n := len(times)
	if len(opens) != n || len(highs) != n || len(lows) != n || len(closes) != n || len(amounts) != n {
		return nil, market.Adaptf(market.MEXC, "contract kline columns ragged")
	}
	out := make([]market.Kline, 0, n)
	for i := 0; i < n; i++ {
		ts, ok1 := adapt.Int64(times[i])
		open, ok2 := adapt.Float(opens[i])
		high, ok3 := adapt.Float(highs[i])
		low, ok4 := adapt.Float(lows[i])
		closeP, ok5 := adapt.Float(closes[i])
		amount, ok6 := adapt.Float(amounts[i])
		if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
			return nil, market.Adaptf(market.MEXC, "contract kline row %d has bad fields", i)
		}
		out = append(out, market.Kline{
			Symbol:   symbol,
			OpenTime: millis(ts),
			Open:     open,
			High:     high,
			Low:      low,
			Close:    closeP,
			Volume:   amount,
			Interval: interval,
		})
	}
	return out, nil
}

// KlineMessage converts one kline stream event, either dialect
func (Adapter) KlineMessage(raw any) ([]market.Kline, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.MEXC, "message is not an object")
	}
	if pb, ok := adapt.AsMap(m["publickline"]); ok {
		return spotKlineMessage(m, pb)
	}

	sym, _ := adapt.String(m["symbol"])
	data, ok := adapt.AsMap(m["data"])
	if !ok {
		return nil, market.Adaptf(market.MEXC, "kline message missing data")
	}
	ts, ok1 := adapt.Int64(data["t"])
	open, ok2 := adapt.Float(data["o"])
	high, ok3 := adapt.Float(data["h"])
	low, ok4 := adapt.Float(data["l"])
	closeP, ok5 := adapt.Float(data["c"])
	amount, ok6 := adapt.Float(data["a"])
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return nil, market.Adaptf(market.MEXC, "kline message has bad fields for %s", sym)
	}
	interval, _ := adapt.String(data["interval"])
	return []market.Kline{{
		Symbol:   sym,
		OpenTime: millis(ts),
		Open:     open,
		High:     high,
		Low:      low,
		Close:    closeP,
		Volume:   amount,
		Interval: interval,
	}}, nil
}

func spotKlineMessage(env, pb map[string]any) ([]market.Kline, error) {
	sym, _ := adapt.String(env["symbol"])
	start, ok1 := adapt.Int64(pb["windowstart"])
	open, ok2 := adapt.Float(pb["openingprice"])
	closeP, ok3 := adapt.Float(pb["closingprice"])
	high, ok4 := adapt.Float(pb["highestprice"])
	low, ok5 := adapt.Float(pb["lowestprice"])
	amount, ok6 := adapt.Float(pb["amount"])
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return nil, market.Adaptf(market.MEXC, "spot kline frame has bad fields for %s", sym)
	}
	end, _ := adapt.Int64(pb["windowend"])
	interval, _ := adapt.String(pb["interval"])
	return []market.Kline{{
		Symbol:    sym,
		OpenTime:  millis(start),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closeP,
		Volume:    amount,
		Interval:  interval,
		CloseTime: millis(end),
	}}, nil
}

// AggTradesMessage converts one deal event, either dialect
func (Adapter) AggTradesMessage(raw any) ([]market.AggTrade, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.MEXC, "message is not an object")
	}
	sym, _ := adapt.String(m["symbol"])

	if pb, ok := adapt.AsMap(m["publicdeals"]); ok {
		return spotDeals(sym, pb)
	}

	data, ok := adapt.AsMap(m["data"])
	if !ok {
		return nil, market.Adaptf(market.MEXC, "deal message missing data")
	}
	price, ok1 := adapt.Float(data["p"])
	vol, ok2 := adapt.Float(data["v"])
	ts, ok3 := adapt.Int64(data["t"])
	if !(ok1 && ok2 && ok3) {
		return nil, market.Adaptf(market.MEXC, "deal message has bad fields for %s", sym)
	}
	return []market.AggTrade{{
		Time:   ts,
		Symbol: sym,
		Side:   dealSide(data["T"]),
		Price:  price,
		Volume: vol,
	}}, nil
}

func spotDeals(sym string, pb map[string]any) ([]market.AggTrade, error) {
	list, ok := adapt.AsSlice(pb["dealsList"])
	if !ok {
		return nil, market.Adaptf(market.MEXC, "spot deals frame missing dealsList")
	}
	out := make([]market.AggTrade, 0, len(list))
	for i, item := range list {
		deal, ok := adapt.AsMap(item)
		if !ok {
			return nil, market.Adaptf(market.MEXC, "spot deal %d malformed", i)
		}
		price, ok1 := adapt.Float(deal["price"])
		qty, ok2 := adapt.Float(deal["quantity"])
		ts, ok3 := adapt.Int64(deal["time"])
		if !(ok1 && ok2 && ok3) {
			return nil, market.Adaptf(market.MEXC, "spot deal %d has bad fields", i)
		}
		out = append(out, market.AggTrade{
			Time:   ts,
			Symbol: sym,
			Side:   dealSide(deal["tradetype"]),
			Price:  price,
			Volume: qty,
		})
	}
	return out, nil
}

// LiquidationsMessage has no public MEXC feed
func (Adapter) LiquidationsMessage(any) ([]market.Liquidation, error) {
	return nil, market.ErrNotImplemented
}

// Depth converts an order book snapshot, either dialect. Contract ladders
// carry [price, contracts, orderCount] rows.
func (Adapter) Depth(raw any) (market.Depth, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return market.Depth{}, market.Adaptf(market.MEXC, "payload is not an object")
	}
	if data, ok := adapt.AsMap(m["data"]); ok {
		m = data
	}
	return adapt.ParseDepth(market.MEXC, m["asks"], m["bids"])
}

// FuturesLastPrice maps contract symbols to their latest price
func (Adapter) FuturesLastPrice(raw any) (map[string]float64, error) {
	list, err := contractList(raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(list))
	for _, m := range list {
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

// dealSide maps the MEXC trade type, 1 buy 2 sell
func dealSide(v any) market.Side {
	if n, ok := adapt.Int64(v); ok && n == 2 {
		return market.Sell
	}
	return market.Buy
}

// millis normalizes second-resolution stamps from the contract feed
func millis(ts int64) int64 {
	if ts > 0 && ts < 1e12 {
		return ts * 1000
	}
	return ts
}
