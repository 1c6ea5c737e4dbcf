package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cryptomd/internal/market"
)

func TestKeyLayout(t *testing.T) {
	require.Equal(t, "tickers_24h:binance:futures", tickersKey(market.Binance, market.Futures))
	require.Equal(t, "tickers_24h:gate:spot", tickersKey(market.Gate, market.Spot))
	require.Equal(t, "funding_rate:okx", fundingKey(market.OKX))
}
