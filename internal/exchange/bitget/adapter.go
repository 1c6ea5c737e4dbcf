package bitget

import (
	"sort"
	"strings"

	"cryptomd/internal/exchange/adapt"
	"cryptomd/internal/market"
)

// Adapter converts Bitget v2 payloads into the unified record set
type Adapter struct{}

func dataOf(raw any) (any, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.Bitget, "payload is not an object")
	}
	data, ok := m["data"]
	if !ok {
		return nil, market.Adaptf(market.Bitget, "payload missing data")
	}
	return data, nil
}

func dataList(raw any) ([]any, error) {
	data, err := dataOf(raw)
	if err != nil {
		return nil, err
	}
	list, ok := adapt.AsSlice(data)
	if !ok {
		return nil, market.Adaptf(market.Bitget, "data is not an array")
	}
	return list, nil
}

// Tickers extracts spot symbols from the tickers payload
func (Adapter) Tickers(raw any, onlyUSDT bool) ([]string, error) {
	return symbolList(raw, onlyUSDT)
}

// FuturesTickers extracts perpetual symbols from the mix tickers payload
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
		change, ok := adapt.Float(m["change24h"])
		if !ok {
			return nil, market.Adaptf(market.Bitget, "bad change24h for %s", sym)
		}
		vol, ok := adapt.Float(m["usdtVolume"])
		if !ok {
			vol, ok = adapt.Float(m["quoteVolume"])
			if !ok {
				return nil, market.Adaptf(market.Bitget, "bad quote volume for %s", sym)
			}
		}
		out[sym] = market.TickerDaily{P: adapt.Round2(change * 100), V: vol}
	}
	return out, nil
}

// FundingRate maps perpetual symbols to funding in percent, read off the mix
// tickers payload
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
	data, err := dataOf(raw)
	if err != nil {
		return nil, err
	}
	m, ok := adapt.AsMap(data)
	if !ok {
		return nil, market.Adaptf(market.Bitget, "open interest data malformed")
	}
	ts, _ := adapt.Int64(m["ts"])
	list, ok := adapt.AsSlice(m["openInterestList"])
	if !ok {
		return nil, market.Adaptf(market.Bitget, "open interest list missing")
	}
	out := make(map[string]market.OpenInterest, len(list))
	for i, item := range list {
		row, ok := adapt.AsMap(item)
		if !ok {
			return nil, market.Adaptf(market.Bitget, "open interest row %d malformed", i)
		}
		sym, _ := adapt.String(row["symbol"])
		size, ok := adapt.Float(row["size"])
		if !ok {
			return nil, market.Adaptf(market.Bitget, "bad size for %s", sym)
		}
		out[sym] = market.OpenInterest{T: ts, V: size}
	}
	return out, nil
}

// Kline converts REST candle rows. Row layout:
// [ts, open, high, low, close, baseVol, quoteVol, ...]
func (Adapter) Kline(raw any, _ market.MarketType, symbol, interval string) ([]market.Kline, error) {
	list, err := dataList(raw)
	if err != nil {
		return nil, err
	}
	out, err := klineRows(list, symbol, interval)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenTime < out[j].OpenTime })
	return out, nil
}

// KlineMessage converts one candle stream event
func (Adapter) KlineMessage(raw any) ([]market.Kline, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.Bitget, "message is not an object")
	}
	arg, _ := adapt.AsMap(m["arg"])
	sym, _ := adapt.String(arg["instId"])
	channel, _ := adapt.String(arg["channel"])
	interval := strings.TrimPrefix(channel, topicKlinePrefix)
	list, ok := adapt.AsSlice(m["data"])
	if !ok {
		return nil, market.Adaptf(market.Bitget, "kline message missing data")
	}
	return klineRows(list, sym, interval)
}

func klineRows(list []any, symbol, interval string) ([]market.Kline, error) {
	out := make([]market.Kline, 0, len(list))
	for i, row := range list {
		cols, ok := adapt.AsSlice(row)
		if !ok || len(cols) < 7 {
			return nil, market.Adaptf(market.Bitget, "kline row %d malformed", i)
		}
		ts, ok1 := adapt.Int64(cols[0])
		open, ok2 := adapt.Float(cols[1])
		high, ok3 := adapt.Float(cols[2])
		low, ok4 := adapt.Float(cols[3])
		closeP, ok5 := adapt.Float(cols[4])
		quoteVol, ok6 := adapt.Float(cols[6])
		if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
			return nil, market.Adaptf(market.Bitget, "kline row %d has bad fields", i)
		}
		out = append(out, market.Kline{
			Symbol:   symbol,
			OpenTime: ts,
			Open:     open,
			High:     high,
			Low:      low,
			Close:    closeP,
			Volume:   quoteVol,
			Interval: interval,
		})
	}
	return out, nil
}

// AggTradesMessage converts one trade stream event
func (Adapter) AggTradesMessage(raw any) ([]market.AggTrade, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.Bitget, "message is not an object")
	}
	arg, _ := adapt.AsMap(m["arg"])
	sym, _ := adapt.String(arg["instId"])
	list, ok := adapt.AsSlice(m["data"])
	if !ok {
		return nil, market.Adaptf(market.Bitget, "trade message missing data")
	}
	out := make([]market.AggTrade, 0, len(list))
	for i, item := range list {
		trade, ok := adapt.AsMap(item)
		if !ok {
			return nil, market.Adaptf(market.Bitget, "trade item %d malformed", i)
		}
		ts, ok1 := adapt.Int64(trade["ts"])
		price, ok2 := adapt.Float(trade["price"])
		size, ok3 := adapt.Float(trade["size"])
		if !(ok1 && ok2 && ok3) {
			return nil, market.Adaptf(market.Bitget, "trade item %d has bad fields", i)
		}
		side := market.Buy
		if s, _ := adapt.String(trade["side"]); strings.EqualFold(s, "sell") {
			side = market.Sell
		}
		out = append(out, market.AggTrade{
			Time:   ts,
			Symbol: sym,
			Side:   side,
			Price:  price,
			Volume: size,
		})
	}
	return out, nil
}

// LiquidationsMessage has no public Bitget feed
func (Adapter) LiquidationsMessage(any) ([]market.Liquidation, error) {
	return nil, market.ErrNotImplemented
}

// Depth converts an order book snapshot
func (Adapter) Depth(raw any) (market.Depth, error) {
	data, err := dataOf(raw)
	if err != nil {
		return market.Depth{}, err
	}
	m, ok := adapt.AsMap(data)
	if !ok {
		return market.Depth{}, market.Adaptf(market.Bitget, "depth data malformed")
	}
	return adapt.ParseDepth(market.Bitget, m["asks"], m["bids"])
}

// FuturesLastPrice maps perpetual symbols to their latest price
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
		price, ok := adapt.Float(m["lastPr"])
		if !ok {
			continue
		}
		out[sym] = price
	}
	return out, nil
}
