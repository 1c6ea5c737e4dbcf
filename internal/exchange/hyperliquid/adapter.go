package hyperliquid

import (
	"time"

	"cryptomd/internal/exchange/adapt"
	"cryptomd/internal/market"
)

// Adapter converts Hyperliquid payloads into the unified record set. Every
// perp is USDC margined, so USDT filtering does not apply.
type Adapter struct{}

// assetCtxs zips the universe with its per-asset context by position
func assetCtxs(raw any) (map[string]map[string]any, error) {
	top, ok := adapt.AsSlice(raw)
	if !ok || len(top) < 2 {
		return nil, market.Adaptf(market.Hyperliquid, "meta payload malformed")
	}
	meta, ok := adapt.AsMap(top[0])
	if !ok {
		return nil, market.Adaptf(market.Hyperliquid, "meta entry malformed")
	}
	universe, ok := adapt.AsSlice(meta["universe"])
	if !ok {
		return nil, market.Adaptf(market.Hyperliquid, "meta missing universe")
	}
	ctxs, ok := adapt.AsSlice(top[1])
	if !ok {
		return nil, market.Adaptf(market.Hyperliquid, "meta missing asset contexts")
	}
	out := make(map[string]map[string]any, len(universe))
	for i, entry := range universe {
		if i >= len(ctxs) {
			break
		}
		asset, ok := adapt.AsMap(entry)
		if !ok {
			continue
		}
		name, ok := adapt.String(asset["name"])
		if !ok {
			continue
		}
		ctx, ok := adapt.AsMap(ctxs[i])
		if !ok {
			continue
		}
		out[name] = ctx
	}
	return out, nil
}

// Tickers extracts pair names from the spot metadata
func (Adapter) Tickers(raw any, _ bool) ([]string, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.Hyperliquid, "spot meta malformed")
	}
	universe, ok := adapt.AsSlice(m["universe"])
	if !ok {
		return nil, market.Adaptf(market.Hyperliquid, "spot meta missing universe")
	}
	names := make([]string, 0, len(universe))
	for _, entry := range universe {
		asset, ok := adapt.AsMap(entry)
		if !ok {
			continue
		}
		if name, ok := adapt.String(asset["name"]); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// FuturesTickers extracts coin names from the perp universe
func (Adapter) FuturesTickers(raw any, _ bool) ([]string, error) {
	ctxs, err := assetCtxs(raw)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ctxs))
	for name := range ctxs {
		names = append(names, name)
	}
	return names, nil
}

// Ticker24h is not wired for Hyperliquid spot
func (Adapter) Ticker24h(any) (map[string]market.TickerDaily, error) {
	return nil, market.ErrNotImplemented
}

// FuturesTicker24h derives the 24h change from the mark and previous day
// prices; volume is the day notional
func (Adapter) FuturesTicker24h(raw any) (map[string]market.TickerDaily, error) {
	ctxs, err := assetCtxs(raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]market.TickerDaily, len(ctxs))
	for name, ctx := range ctxs {
		mark, ok1 := adapt.Float(ctx["markPx"])
		prev, ok2 := adapt.Float(ctx["prevDayPx"])
		vol, ok3 := adapt.Float(ctx["dayNtlVlm"])
		if !(ok1 && ok2 && ok3) || prev == 0 {
			continue
		}
		out[name] = market.TickerDaily{P: adapt.Round2((mark/prev - 1) * 100), V: vol}
	}
	return out, nil
}

// FundingRate maps coins to their funding rate in percent
func (Adapter) FundingRate(raw any) (map[string]float64, error) {
	ctxs, err := assetCtxs(raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(ctxs))
	for name, ctx := range ctxs {
		if rate, ok := adapt.Float(ctx["funding"]); ok {
			out[name] = rate * 100
		}
	}
	return out, nil
}

// OpenInterest maps coins to their open interest in base units. The context
// carries no timestamp, so the snapshot time is used.
func (Adapter) OpenInterest(raw any) (map[string]market.OpenInterest, error) {
	ctxs, err := assetCtxs(raw)
	if err != nil {
		return nil, err
	}
	now := time.Now().UnixMilli()
	out := make(map[string]market.OpenInterest, len(ctxs))
	for name, ctx := range ctxs {
		if oi, ok := adapt.Float(ctx["openInterest"]); ok {
			out[name] = market.OpenInterest{T: now, V: oi}
		}
	}
	return out, nil
}

// Kline converts a candle snapshot; volume is reported in base units and
// converted to quote terms with the close price
func (Adapter) Kline(raw any, _ market.MarketType, symbol, interval string) ([]market.Kline, error) {
	list, ok := adapt.AsSlice(raw)
	if !ok {
		return nil, market.Adaptf(market.Hyperliquid, "candle snapshot is not an array")
	}
	out := make([]market.Kline, 0, len(list))
	for i, item := range list {
		k, err := candle(item)
		if err != nil {
			return nil, market.Adaptf(market.Hyperliquid, "candle %d: %v", i, err)
		}
		if k.Symbol == "" {
			k.Symbol = symbol
		}
		if k.Interval == "" {
			k.Interval = interval
		}
		out = append(out, k)
	}
	return out, nil
}

// KlineMessage converts one streamed candle event
func (Adapter) KlineMessage(raw any) ([]market.Kline, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.Hyperliquid, "message is not an object")
	}
	k, err := candle(m["data"])
	if err != nil {
		return nil, market.Adaptf(market.Hyperliquid, "candle event: %v", err)
	}
	return []market.Kline{k}, nil
}

func candle(item any) (market.Kline, error) {
	m, ok := adapt.AsMap(item)
	if !ok {
		return market.Kline{}, market.Adaptf(market.Hyperliquid, "candle is not an object")
	}
	openTime, ok1 := adapt.Int64(m["t"])
	open, ok2 := adapt.Float(m["o"])
	high, ok3 := adapt.Float(m["h"])
	low, ok4 := adapt.Float(m["l"])
	closePx, ok5 := adapt.Float(m["c"])
	baseVol, ok6 := adapt.Float(m["v"])
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return market.Kline{}, market.Adaptf(market.Hyperliquid, "bad candle fields")
	}
	symbol, _ := adapt.String(m["s"])
	interval, _ := adapt.String(m["i"])
	closeTime, _ := adapt.Int64(m["T"])
	return market.Kline{
		Symbol:    symbol,
		OpenTime:  openTime,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePx,
		Volume:    baseVol * closePx,
		Interval:  interval,
		CloseTime: closeTime,
	}, nil
}

// AggTradesMessage converts one trades event; side B is the buyer, A the
// seller
func (Adapter) AggTradesMessage(raw any) ([]market.AggTrade, error) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, market.Adaptf(market.Hyperliquid, "message is not an object")
	}
	list, ok := adapt.AsSlice(m["data"])
	if !ok {
		return nil, market.Adaptf(market.Hyperliquid, "message missing data")
	}
	out := make([]market.AggTrade, 0, len(list))
	for i, item := range list {
		trade, ok := adapt.AsMap(item)
		if !ok {
			return nil, market.Adaptf(market.Hyperliquid, "trade %d malformed", i)
		}
		coin, _ := adapt.String(trade["coin"])
		ts, ok1 := adapt.Int64(trade["time"])
		price, ok2 := adapt.Float(trade["px"])
		size, ok3 := adapt.Float(trade["sz"])
		if !(ok1 && ok2 && ok3) {
			return nil, market.Adaptf(market.Hyperliquid, "trade %d has bad fields", i)
		}
		side := market.Buy
		if s, _ := adapt.String(trade["side"]); s == "A" {
			side = market.Sell
		}
		out = append(out, market.AggTrade{
			Time: ts, Symbol: coin, Side: side, Price: price, Volume: size,
		})
	}
	return out, nil
}

// LiquidationsMessage is not wired for Hyperliquid
func (Adapter) LiquidationsMessage(any) ([]market.Liquidation, error) {
	return nil, market.ErrNotImplemented
}

// Depth is not wired for Hyperliquid
func (Adapter) Depth(any) (market.Depth, error) {
	return market.Depth{}, market.ErrNotImplemented
}

// FuturesLastPrice maps coins to their mark price
func (Adapter) FuturesLastPrice(raw any) (map[string]float64, error) {
	ctxs, err := assetCtxs(raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(ctxs))
	for name, ctx := range ctxs {
		if mark, ok := adapt.Float(ctx["markPx"]); ok {
			out[name] = mark
		}
	}
	return out, nil
}
