package okx

import (
	"sort"
	"strings"

	"cryptomd/internal/exchange/adapt"
	"cryptomd/internal/market"
)

// Adapter converts OKX v5 payloads into the unified record set
type Adapter struct{}

func dataList(raw any) ([]any, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.OKX, "payload is not an object")
	}
	list, ok := adapt.AsSlice(m["data"])
	if !ok {
		return nil, market.Adaptf(market.OKX, "payload missing data")
	}
	return list, nil
}

// Tickers extracts spot instruments; USDT filtering keeps -USDT pairs
func (Adapter) Tickers(raw any, onlyUSDT bool) ([]string, error) {
	return symbolList(raw, onlyUSDT, "-USDT")
}

// FuturesTickers extracts swap instruments; USDT filtering keeps -USDT-SWAP
func (Adapter) FuturesTickers(raw any, onlyUSDT bool) ([]string, error) {
	return symbolList(raw, onlyUSDT, "-USDT-SWAP")
}

func symbolList(raw any, onlyUSDT bool, suffix string) ([]string, error) {
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
		sym, ok := adapt.String(m["instId"])
		if !ok {
			continue
		}
		if onlyUSDT && !strings.HasSuffix(sym, suffix) {
			continue
		}
		symbols = append(symbols, sym)
	}
	return symbols, nil
}

// Ticker24h maps spot instruments to their 24h summary; the percent change
// is derived from open24h and last
func (Adapter) Ticker24h(raw any) (map[string]market.TickerDaily, error) {
	return ticker24h(raw, "-USDT", "volCcy24h")
}

// FuturesTicker24h maps swap instruments to their 24h summary. Reads vol24h,
// which the ticker-daily fix rewrites into quote terms.
func (Adapter) FuturesTicker24h(raw any) (map[string]market.TickerDaily, error) {
	return ticker24h(raw, "-USDT-SWAP", "vol24h")
}

func ticker24h(raw any, suffix, volKey string) (map[string]market.TickerDaily, error) {
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
		sym, ok := adapt.String(m["instId"])
		if !ok || !strings.HasSuffix(sym, suffix) {
			continue
		}
		last, ok1 := adapt.Float(m["last"])
		open, ok2 := adapt.Float(m["open24h"])
		vol, ok3 := adapt.Float(m[volKey])
		if !(ok1 && ok2 && ok3) || open == 0 {
			return nil, market.Adaptf(market.OKX, "bad ticker fields for %s", sym)
		}
		out[sym] = market.TickerDaily{
			P: adapt.Round2((last/open - 1) * 100),
			V: vol,
		}
	}
	return out, nil
}

// FundingRate has no catalog endpoint on OKX
func (Adapter) FundingRate(any) (map[string]float64, error) {
	return nil, market.ErrNotImplemented
}

// OpenInterest maps swap instruments to open interest in base units (oiCcy)
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
		sym, ok := adapt.String(m["instId"])
		if !ok {
			continue
		}
		oi, ok := adapt.Float(m["oiCcy"])
		if !ok {
			return nil, market.Adaptf(market.OKX, "bad oiCcy for %s", sym)
		}
		ts, _ := adapt.Int64(m["ts"])
		out[sym] = market.OpenInterest{T: ts, V: oi}
	}
	return out, nil
}

// Kline converts REST candle rows, newest first on the wire, oldest first
// out. Row layout: [ts, o, h, l, c, vol, volCcy, volCcyQuote, confirm].
func (a Adapter) Kline(raw any, _ market.MarketType, symbol, interval string) ([]market.Kline, error) {
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
		return nil, market.Adaptf(market.OKX, "message is not an object")
	}
	arg, _ := adapt.AsMap(m["arg"])
	sym, _ := adapt.String(arg["instId"])
	channel, _ := adapt.String(arg["channel"])
	interval := strings.TrimPrefix(channel, topicKlinePrefix)
	list, ok := adapt.AsSlice(m["data"])
	if !ok {
		return nil, market.Adaptf(market.OKX, "kline message missing data")
	}
	return klineRows(list, sym, interval)
}

func klineRows(list []any, symbol, interval string) ([]market.Kline, error) {
	out := make([]market.Kline, 0, len(list))
	for i, row := range list {
		cols, ok := adapt.AsSlice(row)
		if !ok || len(cols) < 8 {
			return nil, market.Adaptf(market.OKX, "kline row %d malformed", i)
		}
		ts, ok1 := adapt.Int64(cols[0])
		open, ok2 := adapt.Float(cols[1])
		high, ok3 := adapt.Float(cols[2])
		low, ok4 := adapt.Float(cols[3])
		closeP, ok5 := adapt.Float(cols[4])
		quoteVol, ok6 := adapt.Float(cols[7])
		if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
			return nil, market.Adaptf(market.OKX, "kline row %d has bad fields", i)
		}
		kline := market.Kline{
			Symbol:   symbol,
			OpenTime: ts,
			Open:     open,
			High:     high,
			Low:      low,
			Close:    closeP,
			Volume:   quoteVol,
			Interval: interval,
		}
		if len(cols) > 8 {
			if confirm, ok := adapt.String(cols[8]); ok {
				c := confirm == "1"
				kline.Closed = &c
			}
		}
		out = append(out, kline)
	}
	return out, nil
}

// AggTradesMessage converts one trades-all event. Apply the contract-size
// fix first so sz is in base units for swaps.
func (Adapter) AggTradesMessage(raw any) ([]market.AggTrade, error) {
	list, err := dataList(raw)
	if err != nil {
		return nil, err
	}
	out := make([]market.AggTrade, 0, len(list))
	for i, item := range list {
		trade, ok := adapt.AsMap(item)
		if !ok {
			return nil, market.Adaptf(market.OKX, "trade item %d malformed", i)
		}
		sym, _ := adapt.String(trade["instId"])
		price, ok1 := adapt.Float(trade["px"])
		size, ok2 := adapt.Float(trade["sz"])
		ts, ok3 := adapt.Int64(trade["ts"])
		if !(ok1 && ok2 && ok3) {
			return nil, market.Adaptf(market.OKX, "trade item %d has bad fields", i)
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

// LiquidationsMessage converts one liquidation-orders event
func (Adapter) LiquidationsMessage(raw any) ([]market.Liquidation, error) {
	list, err := dataList(raw)
	if err != nil {
		return nil, err
	}
	var out []market.Liquidation
	for i, item := range list {
		m, ok := adapt.AsMap(item)
		if !ok {
			return nil, market.Adaptf(market.OKX, "liquidation item %d malformed", i)
		}
		sym, _ := adapt.String(m["instId"])
		details, ok := adapt.AsSlice(m["details"])
		if !ok {
			return nil, market.Adaptf(market.OKX, "liquidation item %d missing details", i)
		}
		for j, d := range details {
			detail, ok := adapt.AsMap(d)
			if !ok {
				return nil, market.Adaptf(market.OKX, "liquidation detail %d/%d malformed", i, j)
			}
			size, ok1 := adapt.Float(detail["sz"])
			price, ok2 := adapt.Float(detail["bkPx"])
			ts, ok3 := adapt.Int64(detail["ts"])
			if !(ok1 && ok2 && ok3) {
				return nil, market.Adaptf(market.OKX, "liquidation detail %d/%d has bad fields", i, j)
			}
			side := market.Buy
			if s, _ := adapt.String(detail["side"]); strings.EqualFold(s, "sell") {
				side = market.Sell
			}
			out = append(out, market.Liquidation{
				Time:   ts,
				Symbol: sym,
				Side:   side,
				Volume: size,
				Price:  price,
			})
		}
	}
	return out, nil
}

// Depth converts an order book snapshot
func (Adapter) Depth(raw any) (market.Depth, error) {
	list, err := dataList(raw)
	if err != nil {
		return market.Depth{}, err
	}
	if len(list) == 0 {
		return market.Depth{}, market.Adaptf(market.OKX, "depth data empty")
	}
	book, ok := adapt.AsMap(list[0])
	if !ok {
		return market.Depth{}, market.Adaptf(market.OKX, "depth entry malformed")
	}
	return adapt.ParseDepth(market.OKX, book["asks"], book["bids"])
}

// FuturesLastPrice maps swap instruments to their latest price
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
		sym, ok := adapt.String(m["instId"])
		if !ok {
			continue
		}
		last, ok := adapt.Float(m["last"])
		if !ok {
			continue
		}
		out[sym] = last
	}
	return out, nil
}
