package gate

import (
	"math"
	"strings"

	"cryptomd/internal/exchange/adapt"
	"cryptomd/internal/market"
)

// Adapter converts Gate v4 payloads into the unified record set
type Adapter struct{}

// Tickers extracts spot pairs from the tickers payload
func (Adapter) Tickers(raw any, onlyUSDT bool) ([]string, error) {
	return symbolList(raw, "currency_pair", "USDT", onlyUSDT)
}

// FuturesTickers extracts contracts from the futures tickers payload
func (Adapter) FuturesTickers(raw any, onlyUSDT bool) ([]string, error) {
	return symbolList(raw, "contract", "_USDT", onlyUSDT)
}

func symbolList(raw any, key, suffix string, onlyUSDT bool) ([]string, error) {
	list, ok := adapt.AsSlice(raw)
	if !ok {
		return nil, market.Adaptf(market.Gate, "tickers payload is not an array")
	}
	symbols := make([]string, 0, len(list))
	for _, item := range list {
		m, ok := adapt.AsMap(item)
		if !ok {
			continue
		}
		sym, ok := adapt.String(m[key])
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

// Ticker24h maps USDT spot pairs to their 24h summary; change_percentage is
// already in percent
func (Adapter) Ticker24h(raw any) (map[string]market.TickerDaily, error) {
	return ticker24h(raw, "currency_pair", "USDT", "quote_volume")
}

// FuturesTicker24h maps USDT contracts to their 24h summary
func (Adapter) FuturesTicker24h(raw any) (map[string]market.TickerDaily, error) {
	return ticker24h(raw, "contract", "_USDT", "volume_24h_quote")
}

func ticker24h(raw any, key, suffix, volKey string) (map[string]market.TickerDaily, error) {
	list, ok := adapt.AsSlice(raw)
	if !ok {
		return nil, market.Adaptf(market.Gate, "tickers payload is not an array")
	}
	out := make(map[string]market.TickerDaily, len(list))
	for _, item := range list {
		m, ok := adapt.AsMap(item)
		if !ok {
			continue
		}
		sym, ok := adapt.String(m[key])
		if !ok || !strings.HasSuffix(sym, suffix) {
			continue
		}
		pct, ok := adapt.Float(m["change_percentage"])
		if !ok {
			return nil, market.Adaptf(market.Gate, "bad change_percentage for %s", sym)
		}
		vol, ok := adapt.Float(m[volKey])
		if !ok {
			return nil, market.Adaptf(market.Gate, "bad %s for %s", volKey, sym)
		}
		out[sym] = market.TickerDaily{P: adapt.Round2(pct), V: vol}
	}
	return out, nil
}

// FundingRate is not wired for Gate
func (Adapter) FundingRate(any) (map[string]float64, error) {
	return nil, market.ErrNotImplemented
}

// OpenInterest is not wired for Gate
func (Adapter) OpenInterest(any) (map[string]market.OpenInterest, error) {
	return nil, market.ErrNotImplemented
}

// Kline is not wired for Gate
func (Adapter) Kline(any, market.MarketType, string, string) ([]market.Kline, error) {
	return nil, market.ErrNotImplemented
}

// KlineMessage is not wired for Gate
func (Adapter) KlineMessage(any) ([]market.Kline, error) {
	return nil, market.ErrNotImplemented
}

// AggTradesMessage converts one trades event. The futures feed delivers a
// result list with signed contract sizes; the spot feed delivers one trade.
func (Adapter) AggTradesMessage(raw any) ([]market.AggTrade, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.Gate, "message is not an object")
	}
	channel, _ := adapt.String(m["channel"])

	if channel == topicFuturesTrades {
		list, ok := adapt.AsSlice(m["result"])
		if !ok {
			return nil, market.Adaptf(market.Gate, "futures trades missing result")
		}
		out := make([]market.AggTrade, 0, len(list))
		for i, item := range list {
			trade, ok := adapt.AsMap(item)
			if !ok {
				return nil, market.Adaptf(market.Gate, "futures trade %d malformed", i)
			}
			contract, _ := adapt.String(trade["contract"])
			ts, ok1 := adapt.Int64(trade["create_time_ms"])
			price, ok2 := adapt.Float(trade["price"])
			size, ok3 := adapt.Float(trade["size"])
			if !(ok1 && ok2 && ok3) {
				return nil, market.Adaptf(market.Gate, "futures trade %d has bad fields", i)
			}
			side := market.Buy
			if size < 0 {
				side = market.Sell
			}
			out = append(out, market.AggTrade{
				Time:   ts,
				Symbol: strings.ReplaceAll(contract, "_", ""),
				Side:   side,
				Price:  price,
				Volume: math.Abs(size),
			})
		}
		return out, nil
	}

	trade, ok := adapt.AsMap(m["result"])
	if !ok {
		return nil, market.Adaptf(market.Gate, "spot trade missing result")
	}
	pair, _ := adapt.String(trade["currency_pair"])
	ts, ok1 := adapt.Int64(trade["create_time_ms"])
	price, ok2 := adapt.Float(trade["price"])
	amount, ok3 := adapt.Float(trade["amount"])
	if !(ok1 && ok2 && ok3) {
		return nil, market.Adaptf(market.Gate, "spot trade has bad fields for %s", pair)
	}
	side := market.Buy
	if s, _ := adapt.String(trade["side"]); strings.EqualFold(s, "sell") {
		side = market.Sell
	}
	return []market.AggTrade{{
		Time:   ts,
		Symbol: strings.ReplaceAll(pair, "_", ""),
		Side:   side,
		Price:  price,
		Volume: amount,
	}}, nil
}

// LiquidationsMessage is not wired for Gate
func (Adapter) LiquidationsMessage(any) ([]market.Liquidation, error) {
	return nil, market.ErrNotImplemented
}

// Depth converts a spot order book snapshot
func (Adapter) Depth(raw any) (market.Depth, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return market.Depth{}, market.Adaptf(market.Gate, "payload is not an object")
	}
	return adapt.ParseDepth(market.Gate, m["asks"], m["bids"])
}

// FuturesLastPrice maps contracts to their latest price
func (Adapter) FuturesLastPrice(raw any) (map[string]float64, error) {
	list, ok := adapt.AsSlice(raw)
	if !ok {
		return nil, market.Adaptf(market.Gate, "tickers payload is not an array")
	}
	out := make(map[string]float64, len(list))
	for _, item := range list {
		m, ok := adapt.AsMap(item)
		if !ok {
			continue
		}
		sym, ok := adapt.String(m["contract"])
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
