package mexc

import (
	"fmt"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const (
	topicSpotAggTrades = "spot@public.deals.v3.api"
	topicSpotKlines    = "spot@public.kline.v3.api"
	topicSpotTickers   = "spot@public.miniTickers.v3.api"

	topicFuturesAggTrades = "sub.deal"
	topicFuturesKlines    = "sub.kline"
	topicFuturesTickers   = "sub.tickers"
)

var timeframes = market.TimeframeMap{
	market.TF1m:  "Min1",
	market.TF5m:  "Min5",
	market.TF15m: "Min15",
	market.TF30m: "Min30",
	market.TF1h:  "Min60",
	market.TF4h:  "Hour4",
	market.TF8h:  "Hour8",
	market.TF1d:  "Day1",
	market.TF1w:  "Week1",
	market.TF1M:  "Month1",
}

// Manager builds MEXC streaming sessions
type Manager struct{}

// NewManager creates a MEXC socket manager
func NewManager() *Manager {
	return &Manager{}
}

// Timeframes returns the MEXC candle interval table
func (m *Manager) Timeframes() market.TimeframeMap {
	return timeframes
}

// KlinesSocket streams candles for the given symbols
func (m *Manager) KlinesSocket(mt market.MarketType, tickers []string, tf market.Timeframe, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	token, err := timeframes.Format(tf)
	if err != nil {
		return nil, err
	}
	topic := topicSpotKlines
	if mt == market.Futures {
		topic = topicFuturesKlines
	}
	return newSession(mt, topic, tickers, token, cb, opts)
}

// AggTradesSocket streams trades for the given symbols
func (m *Manager) AggTradesSocket(mt market.MarketType, tickers []string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	topic := topicSpotAggTrades
	if mt == market.Futures {
		topic = topicFuturesAggTrades
	}
	return newSession(mt, topic, tickers, "", cb, opts)
}

// TickersSocket streams the all-market ticker feed
func (m *Manager) TickersSocket(mt market.MarketType, _ []string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	topic := topicSpotTickers
	if mt == market.Futures {
		topic = topicFuturesTickers
	}
	spec := opts.Apply(stream.Spec{
		Venue:  market.MEXC,
		Market: mt,
		Topic:  topic,
	})
	return stream.NewSession(spec, binding{}, cb), nil
}

// LiquidationsSocket has no public MEXC feed
func (m *Manager) LiquidationsSocket([]string, stream.Callback, stream.Options) (*stream.Session, error) {
	return nil, fmt.Errorf("%w: mexc liquidations", market.ErrNotImplemented)
}

func newSession(mt market.MarketType, topic string, tickers []string, interval string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: mexc %s", market.ErrTickersRequired, topic)
	}
	spec := opts.Apply(stream.Spec{
		Venue:    market.MEXC,
		Market:   mt,
		Topic:    topic,
		Tickers:  tickers,
		Interval: interval,
	})
	return stream.NewSession(spec, binding{}, cb), nil
}
