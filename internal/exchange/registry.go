package exchange

import (
	"fmt"

	"cryptomd/internal/exchange/binance"
	"cryptomd/internal/exchange/bingx"
	"cryptomd/internal/exchange/bitget"
	"cryptomd/internal/exchange/bitunix"
	"cryptomd/internal/exchange/bybit"
	"cryptomd/internal/exchange/gate"
	"cryptomd/internal/exchange/hyperliquid"
	"cryptomd/internal/exchange/kcex"
	"cryptomd/internal/exchange/mexc"
	"cryptomd/internal/exchange/okx"
	"cryptomd/internal/exchange/xt"
	"cryptomd/internal/httpx"
	"cryptomd/internal/market"
)

// Entry bundles everything one venue exposes
type Entry struct {
	Venue     market.Venue
	NewClient func(opts httpx.Options) Client
	Manager   Manager
	Adapter   Adapter
}

var registry = map[market.Venue]Entry{
	market.Binance: {
		Venue:     market.Binance,
		NewClient: func(o httpx.Options) Client { return binance.NewClient(o) },
		Manager:   binance.NewManager(),
		Adapter:   binance.Adapter{},
	},
	market.Bybit: {
		Venue:     market.Bybit,
		NewClient: func(o httpx.Options) Client { return bybit.NewClient(o) },
		Manager:   bybit.NewManager(),
		Adapter:   bybit.Adapter{},
	},
	market.OKX: {
		Venue:     market.OKX,
		NewClient: func(o httpx.Options) Client { return okx.NewClient(o) },
		Manager:   okx.NewManager(),
		Adapter:   okx.Adapter{},
	},
	market.Bitget: {
		Venue:     market.Bitget,
		NewClient: func(o httpx.Options) Client { return bitget.NewClient(o) },
		Manager:   bitget.NewManager(),
		Adapter:   bitget.Adapter{},
	},
	market.MEXC: {
		Venue:     market.MEXC,
		NewClient: func(o httpx.Options) Client { return mexc.NewClient(o) },
		Manager:   mexc.NewManager(),
		Adapter:   mexc.Adapter{},
	},
	market.Gate: {
		Venue:     market.Gate,
		NewClient: func(o httpx.Options) Client { return gate.NewClient(o) },
		Manager:   gate.NewManager(),
		Adapter:   gate.Adapter{},
	},
	market.XT: {
		Venue:     market.XT,
		NewClient: func(o httpx.Options) Client { return xt.NewClient(o) },
		Manager:   xt.NewManager(),
		Adapter:   xt.Adapter{},
	},
	market.Bitunix: {
		Venue:     market.Bitunix,
		NewClient: func(o httpx.Options) Client { return bitunix.NewClient(o) },
		Manager:   bitunix.NewManager(),
		Adapter:   bitunix.Adapter{},
	},
	market.KCEX: {
		Venue:     market.KCEX,
		NewClient: func(o httpx.Options) Client { return kcex.NewClient(o) },
		Manager:   kcex.NewManager(),
		Adapter:   kcex.Adapter{},
	},
	market.BingX: {
		Venue:     market.BingX,
		NewClient: func(o httpx.Options) Client { return bingx.NewClient(o) },
		Manager:   bingx.NewManager(),
		Adapter:   bingx.Adapter{},
	},
	market.Hyperliquid: {
		Venue:     market.Hyperliquid,
		NewClient: func(o httpx.Options) Client { return hyperliquid.NewClient(o) },
		Manager:   hyperliquid.NewManager(),
		Adapter:   hyperliquid.Adapter{},
	},
}

// Registry looks up a venue's entry
func Registry(venue market.Venue) (Entry, error) {
	entry, ok := registry[venue]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", market.ErrUnknownVenue, venue)
	}
	return entry, nil
}

// Venues returns every registered venue in canonical order
func Venues() []market.Venue {
	return market.AllVenues()
}
