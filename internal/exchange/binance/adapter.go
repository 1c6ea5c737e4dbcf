package binance

import (
	"strings"

	"cryptomd/internal/exchange/adapt"
	"cryptomd/internal/market"
)

// Adapter converts Binance payloads into the unified record set
type Adapter struct{}

// Tickers extracts spot symbols from the 24h ticker payload
func (Adapter) Tickers(raw any, onlyUSDT bool) ([]string, error) {
	return symbolList(raw, onlyUSDT)
}

// FuturesTickers extracts perpetual symbols from the 24h ticker payload
func (Adapter) FuturesTickers(raw any, onlyUSDT bool) ([]string, error) {
	return symbolList(raw, onlyUSDT)
}

func symbolList(raw any, onlyUSDT bool) ([]string, error) {
	items, ok := adapt.AsSlice(raw)
	if !ok {
		return nil, market.Adaptf(market.Binance, "tickers payload is not an array")
	}
	symbols := make([]string, 0, len(items))
	for _, item := range items {
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
	items, ok := adapt.AsSlice(raw)
	if !ok {
		return nil, market.Adaptf(market.Binance, "ticker 24h payload is not an array")
	}
	out := make(map[string]market.TickerDaily, len(items))
	for _, item := range items {
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
			return nil, market.Adaptf(market.Binance, "bad priceChangePercent for %s", sym)
		}
		vol, ok := adapt.Float(m["quoteVolume"])
		if !ok {
			return nil, market.Adaptf(market.Binance, "bad quoteVolume for %s", sym)
		}
		out[sym] = market.TickerDaily{P: adapt.Round2(pct), V: vol}
	}
	return out, nil
}

// FundingRate maps USDT perpetual symbols to their funding rate in percent
func (Adapter) FundingRate(raw any) (map[string]float64, error) {
	items, ok := adapt.AsSlice(raw)
	if !ok {
		return nil, market.Adaptf(market.Binance, "premium index payload is not an array")
	}
	out := make(map[string]float64, len(items))
	for _, item := range items {
		m, ok := adapt.AsMap(item)
		if !ok {
			continue
		}
		sym, ok := adapt.String(m["symbol"])
		if !ok || !strings.HasSuffix(sym, "USDT") {
			continue
		}
		rate, ok := adapt.Float(m["lastFundingRate"])
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
		return nil, market.Adaptf(market.Binance, "open interest payload is not an object")
	}
	sym, ok := adapt.String(m["symbol"])
	if !ok {
		return nil, market.Adaptf(market.Binance, "open interest payload missing symbol")
	}
	oi, ok := adapt.Float(m["openInterest"])
	if !ok {
		return nil, market.Adaptf(market.Binance, "bad openInterest for %s", sym)
	}
	ts, _ := adapt.Int64(m["time"])
	return map[string]market.OpenInterest{sym: {T: ts, V: oi}}, nil
}

// Kline converts REST candle rows. Row layout:
// [openTime, open, high, low, close, baseVol, closeTime, quoteVol, ...]
func (Adapter) Kline(raw any, _ market.MarketType, symbol, interval string) ([]market.Kline, error) {
	rows, ok := adapt.AsSlice(raw)
	if !ok {
		return nil, market.Adaptf(market.Binance, "klines payload is not an array")
	}
	out := make([]market.Kline, 0, len(rows))
	for i, row := range rows {
		cols, ok := adapt.AsSlice(row)
		if !ok || len(cols) < 8 {
			return nil, market.Adaptf(market.Binance, "kline row %d malformed", i)
		}
		openTime, ok1 := adapt.Int64(cols[0])
		open, ok2 := adapt.Float(cols[1])
		high, ok3 := adapt.Float(cols[2])
		low, ok4 := adapt.Float(cols[3])
		closeP, ok5 := adapt.Float(cols[4])
		closeTime, ok6 := adapt.Int64(cols[6])
		quoteVol, ok7 := adapt.Float(cols[7])
		if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7) {
			return nil, market.Adaptf(market.Binance, "kline row %d has bad fields", i)
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

// KlineMessage converts one stream kline event
func (Adapter) KlineMessage(raw any) ([]market.Kline, error) {
	m, err := unwrap(raw)
	if err != nil {
		return nil, err
	}
	k, ok := adapt.AsMap(m["k"])
	if !ok {
		return nil, market.Adaptf(market.Binance, "kline message missing k")
	}
	sym, _ := adapt.String(k["s"])
	openTime, ok1 := adapt.Int64(k["t"])
	open, ok2 := adapt.Float(k["o"])
	high, ok3 := adapt.Float(k["h"])
	low, ok4 := adapt.Float(k["l"])
	closeP, ok5 := adapt.Float(k["c"])
	quoteVol, ok6 := adapt.Float(k["q"])
	closeTime, _ := adapt.Int64(k["T"])
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return nil, market.Adaptf(market.Binance, "kline message has bad fields for %s", sym)
	}
	interval, _ := adapt.String(k["i"])
	closed, hasClosed := adapt.Bool(k["x"])
	kline := market.Kline{
		Symbol:    sym,
		OpenTime:  openTime,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closeP,
		Volume:    quoteVol,
		Interval:  interval,
		CloseTime: closeTime,
	}
	if hasClosed {
		kline.Closed = &closed
	}
	return []market.Kline{kline}, nil
}

// AggTradesMessage converts one stream aggTrade event
func (Adapter) AggTradesMessage(raw any) ([]market.AggTrade, error) {
	m, err := unwrap(raw)
	if err != nil {
		return nil, err
	}
	sym, _ := adapt.String(m["s"])
	price, ok1 := adapt.Float(m["p"])
	qty, ok2 := adapt.Float(m["q"])
	ts, ok3 := adapt.Int64(m["T"])
	if !(ok1 && ok2 && ok3) {
		return nil, market.Adaptf(market.Binance, "aggTrade message has bad fields for %s", sym)
	}
	side := market.Buy
	if adapt.Truthy(m["m"]) { // buyer is maker, aggressor sold
		side = market.Sell
	}
	return []market.AggTrade{{Time: ts, Symbol: sym, Side: side, Price: price, Volume: qty}}, nil
}

// LiquidationsMessage converts one forced-order event
func (Adapter) LiquidationsMessage(raw any) ([]market.Liquidation, error) {
	m, err := unwrap(raw)
	if err != nil {
		return nil, err
	}
	o, ok := adapt.AsMap(m["o"])
	if !ok {
		return nil, market.Adaptf(market.Binance, "liquidation message missing o")
	}
	sym, _ := adapt.String(o["s"])
	sideStr, _ := adapt.String(o["S"])
	qty, ok1 := adapt.Float(o["q"])
	price, ok2 := adapt.Float(o["p"])
	ts, ok3 := adapt.Int64(o["T"])
	if !(ok1 && ok2 && ok3) {
		return nil, market.Adaptf(market.Binance, "liquidation message has bad fields for %s", sym)
	}
	side := market.Buy
	if strings.EqualFold(sideStr, "SELL") {
		side = market.Sell
	}
	return []market.Liquidation{{Time: ts, Symbol: sym, Side: side, Volume: qty, Price: price}}, nil
}

// Depth converts an order book snapshot
func (Adapter) Depth(raw any) (market.Depth, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return market.Depth{}, market.Adaptf(market.Binance, "depth payload is not an object")
	}
	return adapt.ParseDepth(market.Binance, m["asks"], m["bids"])
}

// FuturesLastPrice maps perpetual symbols to their latest price
func (Adapter) FuturesLastPrice(raw any) (map[string]float64, error) {
	items, ok := adapt.AsSlice(raw)
	if !ok {
		return nil, market.Adaptf(market.Binance, "last price payload is not an array")
	}
	out := make(map[string]float64, len(items))
	for _, item := range items {
		m, ok := adapt.AsMap(item)
		if !ok {
			continue
		}
		sym, ok := adapt.String(m["symbol"])
		if !ok {
			continue
		}
		price, ok := adapt.Float(m["price"])
		if !ok {
			continue
		}
		out[sym] = price
	}
	return out, nil
}

// unwrap strips the combined-stream envelope when present
func unwrap(raw any) (map[string]any, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.Binance, "message is not an object")
	}
	if data, ok := adapt.AsMap(m["data"]); ok {
		if _, hasStream := m["stream"]; hasStream {
			return data, nil
		}
	}
	return m, nil
}
