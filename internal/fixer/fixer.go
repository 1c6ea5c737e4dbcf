// Package fixer rescales payloads from venues that report sizes in contract
// units. Contract tables are fetched from the venues and refreshed hourly;
// transforms mutate decoded payloads in place before adapting.
package fixer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"cryptomd/internal/exchange/adapt"
	"cryptomd/internal/httpx"
	"cryptomd/internal/market"
	"cryptomd/internal/metrics"
)

const (
	refreshInterval = time.Hour
	retryInterval   = time.Minute
)

type fetchFunc func(ctx context.Context, c *httpx.Client) (map[string]float64, error)

// fetchers lists the venues whose feeds are contract denominated
var fetchers = map[market.Venue]fetchFunc{
	market.OKX:  fetchOKX,
	market.MEXC: fetchMEXC,
	market.XT:   fetchXT,
	market.KCEX: fetchKCEX,
}

type table struct {
	mu    sync.RWMutex
	sizes map[string]float64
	ready chan struct{}
	once  sync.Once
}

func (t *table) set(sizes map[string]float64) {
	t.mu.Lock()
	t.sizes = sizes
	t.mu.Unlock()
	t.once.Do(func() { close(t.ready) })
}

func (t *table) get(symbol string) (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	size, ok := t.sizes[symbol]
	return size, ok
}

// Fixer holds the per-venue contract tables
type Fixer struct {
	http   *httpx.Client
	tables map[market.Venue]*table
}

// New creates a Fixer with empty tables; call Init to start refreshing them
func New(opts httpx.Options) *Fixer {
	tables := make(map[market.Venue]*table, len(fetchers))
	for venue := range fetchers {
		tables[venue] = &table{ready: make(chan struct{})}
	}
	return &Fixer{http: httpx.New(opts), tables: tables}
}

// Init starts one refresh loop per contract denominated venue. Loops stop
// when ctx is cancelled.
func (f *Fixer) Init(ctx context.Context) {
	for venue := range fetchers {
		go f.refreshLoop(ctx, venue)
	}
}

func (f *Fixer) refreshLoop(ctx context.Context, venue market.Venue) {
	fetch := fetchers[venue]
	tbl := f.tables[venue]
	for {
		delay := refreshInterval
		sizes, err := fetch(ctx, f.http)
		if err != nil {
			metrics.RecordContractTableRefreshError(string(venue))
			log.Error().Err(err).Str("venue", string(venue)).Msg("contract table refresh failed")
			delay = retryInterval
		} else {
			tbl.set(sizes)
			metrics.RecordContractTableSize(string(venue), len(sizes))
			log.Info().Str("venue", string(venue)).Int("contracts", len(sizes)).Msg("contract table refreshed")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

// WaitReady blocks until the venue's table has loaded once. Venues without a
// table are ready immediately.
func (f *Fixer) WaitReady(ctx context.Context, venue market.Venue, timeout time.Duration) error {
	tbl, ok := f.tables[venue]
	if !ok {
		return nil
	}
	select {
	case <-tbl.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(timeout):
		return fmt.Errorf("%w: %s contract table not ready after %s", market.ErrTimeout, venue, timeout)
	}
}

// ContractSize returns the base units per contract for one symbol
func (f *Fixer) ContractSize(venue market.Venue, symbol string) (float64, bool) {
	tbl, ok := f.tables[venue]
	if !ok {
		return 0, false
	}
	return tbl.get(symbol)
}

// scale returns the multiplier for symbol, or 1 when the symbol is unknown
// so the payload passes through unchanged
func (f *Fixer) scale(venue market.Venue, symbol string) float64 {
	size, ok := f.ContractSize(venue, symbol)
	if !ok {
		log.Debug().Str("venue", string(venue)).Str("symbol", symbol).Msg("no contract size, passing through")
		return 1
	}
	return size
}

// mulField multiplies a numeric field in place
func mulField(m map[string]any, key string, factor float64) {
	if factor == 1 {
		return
	}
	if v, ok := adapt.Float(m[key]); ok {
		m[key] = v * factor
	}
}

// AggTradeFix rescales trade volumes from contracts to base units
func (f *Fixer) AggTradeFix(venue market.Venue, raw any) {
	m, ok := adapt.AsMap(raw)
	if !ok {
		return
	}
	switch venue {
	case market.OKX:
		instID := ""
		if arg, ok := adapt.AsMap(m["arg"]); ok {
			instID, _ = adapt.String(arg["instId"])
		}
		list, ok := adapt.AsSlice(m["data"])
		if !ok {
			return
		}
		for _, item := range list {
			trade, ok := adapt.AsMap(item)
			if !ok {
				continue
			}
			id := instID
			if v, ok := adapt.String(trade["instId"]); ok {
				id = v
			}
			mulField(trade, "sz", f.scale(venue, id))
		}
	case market.MEXC:
		symbol, _ := adapt.String(m["symbol"])
		if data, ok := adapt.AsMap(m["data"]); ok {
			mulField(data, "v", f.scale(venue, symbol))
		}
	case market.KCEX:
		if ch, _ := adapt.String(m["channel"]); ch == "pong" {
			return
		}
		symbol, _ := adapt.String(m["symbol"])
		list, ok := adapt.AsSlice(m["data"])
		if !ok {
			return
		}
		factor := f.scale(venue, symbol)
		for _, item := range list {
			if deal, ok := adapt.AsMap(item); ok {
				mulField(deal, "v", factor)
			}
		}
	case market.XT:
		if data, ok := adapt.AsMap(m["data"]); ok {
			symbol, _ := adapt.String(data["s"])
			mulField(data, "a", f.scale(venue, symbol))
		}
	}
}

// OpenInterestFix rescales open interest from contracts to base units
func (f *Fixer) OpenInterestFix(venue market.Venue, raw any) {
	if venue != market.MEXC && venue != market.KCEX {
		return
	}
	m, ok := adapt.AsMap(raw)
	if !ok {
		return
	}
	list, ok := adapt.AsSlice(m["data"])
	if !ok {
		return
	}
	for _, item := range list {
		entry, ok := adapt.AsMap(item)
		if !ok {
			continue
		}
		symbol, _ := adapt.String(entry["symbol"])
		mulField(entry, "holdVol", f.scale(venue, symbol))
	}
}

// TickerDailyFix rewrites 24h volumes into quote terms for venues that
// report them in base or contract units
func (f *Fixer) TickerDailyFix(venue market.Venue, raw any) {
	switch venue {
	case market.OKX:
		m, ok := adapt.AsMap(raw)
		if !ok {
			return
		}
		list, ok := adapt.AsSlice(m["data"])
		if !ok {
			return
		}
		for _, item := range list {
			entry, ok := adapt.AsMap(item)
			if !ok {
				continue
			}
			volCcy, ok1 := adapt.Float(entry["volCcy24h"])
			last, ok2 := adapt.Float(entry["last"])
			if ok1 && ok2 {
				entry["vol24h"] = volCcy * last
			}
		}
	case market.MEXC:
		m, ok := adapt.AsMap(raw)
		if !ok {
			return
		}
		list, ok := adapt.AsSlice(m["data"])
		if !ok {
			return
		}
		for _, item := range list {
			entry, ok := adapt.AsMap(item)
			if !ok {
				continue
			}
			symbol, _ := adapt.String(entry["symbol"])
			mulField(entry, "volume24", f.scale(venue, symbol))
		}
	}
}
