// mdwatch subscribes to one venue feed, normalizes the stream through the
// venue adapter and keeps Redis snapshots of the venue's REST state.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cryptomd/internal/cache"
	"cryptomd/internal/exchange"
	"cryptomd/internal/fixer"
	"cryptomd/internal/httpx"
	"cryptomd/internal/market"
	"cryptomd/internal/metrics"
	"cryptomd/internal/stream"
)

const (
	fixerReadyTimeout = 30 * time.Second
	snapshotInterval  = time.Minute
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	venueName := getEnv("VENUE", "binance")
	marketName := getEnv("MARKET", "futures")
	topic := getEnv("TOPIC", "aggtrades")
	tickersCSV := getEnv("TICKERS", "")
	timeframe := getEnv("TIMEFRAME", "1m")
	metricsAddr := getEnv("METRICS_ADDR", ":9090")
	redisAddr := getEnv("REDIS_ADDR", "")

	entry, err := exchange.Registry(market.Venue(venueName))
	if err != nil {
		log.Fatal().Err(err).Msg("venue lookup failed")
	}
	mt := market.MarketType(marketName)
	if mt != market.Spot && mt != market.Futures {
		log.Fatal().Str("market", marketName).Msg("MARKET must be spot or futures")
	}

	log.Info().
		Str("venue", venueName).
		Str("market", marketName).
		Str("topic", topic).
		Str("metrics", metricsAddr).
		Msg("starting market data watcher")

	metricsServer := metrics.NewServer(metricsAddr)
	go func() {
		if err := metricsServer.Start(); err != nil {
			log.Error().Err(err).Msg("metrics server error")
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fx := fixer.New(httpx.Options{})
	fx.Init(ctx)
	if err := fx.WaitReady(ctx, entry.Venue, fixerReadyTimeout); err != nil {
		log.Fatal().Err(err).Msg("contract table not ready")
	}

	client := entry.NewClient(httpx.Options{})
	defer client.Close()

	var tickers []string
	if tickersCSV != "" {
		tickers = strings.Split(tickersCSV, ",")
		for i := range tickers {
			tickers[i] = strings.TrimSpace(tickers[i])
		}
	} else {
		tickers, err = catalog(ctx, entry, client, mt)
		if err != nil {
			log.Fatal().Err(err).Msg("ticker catalog fetch failed")
		}
		log.Info().Int("tickers", len(tickers)).Msg("loaded ticker catalog")
	}

	var store *cache.Cache
	if redisAddr != "" {
		store, err = cache.New(redisAddr)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect failed")
		}
		defer store.Close()
		go snapshotLoop(ctx, entry, client, fx, store, mt)
	}

	session, err := openSocket(entry, fx, mt, topic, tickers, timeframe)
	if err != nil {
		log.Fatal().Err(err).Msg("socket setup failed")
	}

	if err := session.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("session start failed")
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")

	if err := session.Stop(); err != nil {
		log.Error().Err(err).Msg("session stop error")
	}
	if err := session.Err(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("session terminated with error")
	}
	if err := metricsServer.Stop(); err != nil {
		log.Error().Err(err).Msg("error stopping metrics server")
	}
}

// catalog loads the venue's USDT symbol listing for the market
func catalog(ctx context.Context, entry exchange.Entry, client exchange.Client, mt market.MarketType) ([]string, error) {
	raw, err := client.Tickers(ctx, mt)
	if err != nil {
		return nil, err
	}
	if mt == market.Futures {
		return entry.Adapter.FuturesTickers(raw, true)
	}
	return entry.Adapter.Tickers(raw, true)
}

// openSocket builds the streaming session for the requested topic
func openSocket(entry exchange.Entry, fx *fixer.Fixer, mt market.MarketType, topic string, tickers []string, timeframe string) (*stream.Session, error) {
	switch topic {
	case "aggtrades":
		cb := func(ctx context.Context, raw any) {
			fx.AggTradeFix(entry.Venue, raw)
			trades, err := entry.Adapter.AggTradesMessage(raw)
			if err != nil {
				logAdaptError(entry.Venue, "aggtrades", err)
				return
			}
			for _, trade := range trades {
				log.Debug().
					Str("symbol", trade.Symbol).
					Str("side", string(trade.Side)).
					Float64("price", trade.Price).
					Float64("volume", trade.Volume).
					Msg("trade")
			}
		}
		return entry.Manager.AggTradesSocket(mt, tickers, cb, stream.Options{})

	case "klines":
		tf, err := market.ParseTimeframe(timeframe)
		if err != nil {
			return nil, err
		}
		cb := func(ctx context.Context, raw any) {
			klines, err := entry.Adapter.KlineMessage(raw)
			if err != nil {
				logAdaptError(entry.Venue, "klines", err)
				return
			}
			for _, k := range klines {
				log.Debug().
					Str("symbol", k.Symbol).
					Str("interval", k.Interval).
					Float64("close", k.Close).
					Msg("kline")
			}
		}
		return entry.Manager.KlinesSocket(mt, tickers, tf, cb, stream.Options{})

	case "tickers":
		cb := func(ctx context.Context, raw any) {
			log.Debug().Str("venue", string(entry.Venue)).Msg("ticker update")
		}
		return entry.Manager.TickersSocket(mt, tickers, cb, stream.Options{})

	case "liquidations":
		cb := func(ctx context.Context, raw any) {
			liqs, err := entry.Adapter.LiquidationsMessage(raw)
			if err != nil {
				logAdaptError(entry.Venue, "liquidations", err)
				return
			}
			for _, l := range liqs {
				log.Info().
					Str("symbol", l.Symbol).
					Str("side", string(l.Side)).
					Float64("price", l.Price).
					Float64("volume", l.Volume).
					Msg("liquidation")
			}
		}
		return entry.Manager.LiquidationsSocket(tickers, cb, stream.Options{})
	}
	return nil, errors.New("TOPIC must be one of aggtrades, klines, tickers, liquidations")
}

// snapshotLoop refreshes the Redis snapshots from the venue's REST surface
func snapshotLoop(ctx context.Context, entry exchange.Entry, client exchange.Client, fx *fixer.Fixer, store *cache.Cache, mt market.MarketType) {
	ticker := time.NewTicker(snapshotInterval)
	defer ticker.Stop()
	for {
		refreshSnapshots(ctx, entry, client, fx, store, mt)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func refreshSnapshots(ctx context.Context, entry exchange.Entry, client exchange.Client, fx *fixer.Fixer, store *cache.Cache, mt market.MarketType) {
	raw, err := client.Tickers(ctx, mt)
	if err != nil {
		log.Error().Err(err).Msg("tickers snapshot fetch failed")
	} else {
		fx.TickerDailyFix(entry.Venue, raw)
		var tickers map[string]market.TickerDaily
		if mt == market.Futures {
			tickers, err = entry.Adapter.FuturesTicker24h(raw)
		} else {
			tickers, err = entry.Adapter.Ticker24h(raw)
		}
		switch {
		case errors.Is(err, market.ErrNotImplemented):
		case err != nil:
			logAdaptError(entry.Venue, "ticker24h", err)
		default:
			if err := store.SetTickers24h(ctx, entry.Venue, mt, tickers); err != nil {
				log.Error().Err(err).Msg("tickers snapshot write failed")
			}
		}
	}

	if mt != market.Futures {
		return
	}
	raw, err = client.FundingRate(ctx)
	if errors.Is(err, market.ErrNotImplemented) {
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("funding snapshot fetch failed")
		return
	}
	rates, err := entry.Adapter.FundingRate(raw)
	switch {
	case errors.Is(err, market.ErrNotImplemented):
	case err != nil:
		logAdaptError(entry.Venue, "funding", err)
	default:
		if err := store.SetFundingRate(ctx, entry.Venue, rates); err != nil {
			log.Error().Err(err).Msg("funding snapshot write failed")
		}
	}
}

func logAdaptError(venue market.Venue, operation string, err error) {
	metrics.RecordAdaptFailure(string(venue), operation)
	log.Warn().Err(err).Str("venue", string(venue)).Str("operation", operation).Msg("payload dropped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
