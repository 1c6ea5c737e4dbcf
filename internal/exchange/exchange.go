// Package exchange defines the uniform venue surface and the registry that
// maps a venue identifier to its snapshot client, socket manager and adapter.
package exchange

import (
	"context"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

// Client is the REST snapshot surface every venue package provides. Payloads
// come back as decoded JSON; adapters turn them into unified records.
// Endpoints a venue does not offer return market.ErrNotImplemented.
type Client interface {
	// Tickers fetches the venue's ticker catalog for the market: the 24h
	// statistics endpoint where one exists, otherwise the symbol listing.
	Tickers(ctx context.Context, mt market.MarketType) (any, error)

	// FundingRate fetches current perpetual funding data
	FundingRate(ctx context.Context) (any, error)

	// OpenInterest fetches open interest, scoped to symbol where the
	// venue requires one
	OpenInterest(ctx context.Context, symbol string) (any, error)

	// Klines fetches candles; interval is the venue-native token
	Klines(ctx context.Context, mt market.MarketType, symbol, interval string, limit int) (any, error)

	// Depth fetches an order book snapshot
	Depth(ctx context.Context, mt market.MarketType, symbol string, limit int) (any, error)

	// LastPrice fetches current futures prices
	LastPrice(ctx context.Context) (any, error)

	// Close releases idle connections
	Close()
}

// Manager builds streaming sessions for a venue. Constructors validate the
// market/timeframe/tickers combination before any connection is made.
type Manager interface {
	KlinesSocket(mt market.MarketType, tickers []string, tf market.Timeframe, cb stream.Callback, opts stream.Options) (*stream.Session, error)
	AggTradesSocket(mt market.MarketType, tickers []string, cb stream.Callback, opts stream.Options) (*stream.Session, error)
	TickersSocket(mt market.MarketType, tickers []string, cb stream.Callback, opts stream.Options) (*stream.Session, error)
	LiquidationsSocket(tickers []string, cb stream.Callback, opts stream.Options) (*stream.Session, error)

	// Timeframes is the venue's native interval table; empty when the
	// venue has no candle feed
	Timeframes() market.TimeframeMap
}

// Adapter converts venue payloads into the unified record set. Adapters are
// pure: no I/O, no shared state. Operations the venue lacks return
// market.ErrNotImplemented; malformed payloads return *market.AdaptError.
type Adapter interface {
	Tickers(raw any, onlyUSDT bool) ([]string, error)
	FuturesTickers(raw any, onlyUSDT bool) ([]string, error)
	Ticker24h(raw any) (map[string]market.TickerDaily, error)
	FuturesTicker24h(raw any) (map[string]market.TickerDaily, error)
	FundingRate(raw any) (map[string]float64, error)
	OpenInterest(raw any) (map[string]market.OpenInterest, error)
	Kline(raw any, mt market.MarketType, symbol, interval string) ([]market.Kline, error)
	KlineMessage(raw any) ([]market.Kline, error)
	AggTradesMessage(raw any) ([]market.AggTrade, error)
	LiquidationsMessage(raw any) ([]market.Liquidation, error)
	Depth(raw any) (market.Depth, error)
	FuturesLastPrice(raw any) (map[string]float64, error)
}
