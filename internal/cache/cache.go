// Package cache stores unified market data snapshots in Redis so other
// services can read the latest state without hitting the venues.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cryptomd/internal/market"
	"cryptomd/internal/metrics"
)

// Snapshots expire if nothing refreshes them
const defaultTTL = 5 * time.Minute

// Cache is a Redis backed snapshot store
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a snapshot cache and verifies the connection
func New(addr string) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Cache{client: client, ttl: defaultTTL}, nil
}

// Client returns the underlying Redis client
func (c *Cache) Client() *redis.Client {
	return c.client
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	timer := metrics.NewTimer()
	err = c.client.Set(ctx, key, data, c.ttl).Err()
	timer.ObserveDuration(metrics.CacheWriteDuration, key)
	if err != nil {
		metrics.CacheWriteErrors.WithLabelValues(key).Inc()
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *Cache) get(ctx context.Context, key string, out any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	return json.Unmarshal(data, out)
}

// SetCMCRating stores the symbol to rank map
func (c *Cache) SetCMCRating(ctx context.Context, rating map[string]int) error {
	return c.set(ctx, "cmc_rating", rating)
}

// CMCRating reads the symbol to rank map
func (c *Cache) CMCRating(ctx context.Context) (map[string]int, error) {
	out := map[string]int{}
	if err := c.get(ctx, "cmc_rating", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func tickersKey(venue market.Venue, mt market.MarketType) string {
	return fmt.Sprintf("tickers_24h:%s:%s", venue, mt)
}

// SetTickers24h stores a venue's 24h ticker summary for one market
func (c *Cache) SetTickers24h(ctx context.Context, venue market.Venue, mt market.MarketType, tickers map[string]market.TickerDaily) error {
	return c.set(ctx, tickersKey(venue, mt), tickers)
}

// Tickers24h reads a venue's 24h ticker summary for one market
func (c *Cache) Tickers24h(ctx context.Context, venue market.Venue, mt market.MarketType) (map[string]market.TickerDaily, error) {
	out := map[string]market.TickerDaily{}
	if err := c.get(ctx, tickersKey(venue, mt), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func fundingKey(venue market.Venue) string {
	return fmt.Sprintf("funding_rate:%s", venue)
}

// SetFundingRate stores a venue's funding rates in percent
func (c *Cache) SetFundingRate(ctx context.Context, venue market.Venue, rates map[string]float64) error {
	return c.set(ctx, fundingKey(venue), rates)
}

// FundingRate reads a venue's funding rates
func (c *Cache) FundingRate(ctx context.Context, venue market.Venue) (map[string]float64, error) {
	out := map[string]float64{}
	if err := c.get(ctx, fundingKey(venue), &out); err != nil {
		return nil, err
	}
	return out, nil
}
