package adapt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"cryptomd/internal/market"
)

func TestFloat(t *testing.T) {
	f, ok := Float("0.0123")
	require.True(t, ok)
	require.InDelta(t, 0.0123, f, 1e-12)

	f, ok = Float(42.5)
	require.True(t, ok)
	require.Equal(t, 42.5, f)

	_, ok = Float("not a number")
	require.False(t, ok)

	_, ok = Float(nil)
	require.False(t, ok)
}

func TestInt64(t *testing.T) {
	n, ok := Int64("1717171717000")
	require.True(t, ok)
	require.Equal(t, int64(1717171717000), n)

	n, ok = Int64(1.7171717e12)
	require.True(t, ok)
	require.Equal(t, int64(1717171700000), n)

	// fractional string still resolves
	n, ok = Int64("1717171717000.0")
	require.True(t, ok)
	require.Equal(t, int64(1717171717000), n)
}

func TestRound2(t *testing.T) {
	require.Equal(t, 3.46, Round2(3.456))
	require.Equal(t, -2.35, Round2(-2.345000001))
	require.Equal(t, 0.0, Round2(0.001))
}

func TestParseDepthSortsCanonically(t *testing.T) {
	var asks, bids any
	require.NoError(t, json.Unmarshal([]byte(`[["101.5","2"],["100.1","1"],["103.0","5"]]`), &asks))
	require.NoError(t, json.Unmarshal([]byte(`[["99.1","4"],["99.9","1"],["98.0","2"]]`), &bids))

	depth, err := ParseDepth(market.Gate, asks, bids)
	require.NoError(t, err)

	require.Equal(t, []market.PriceLevel{
		{Price: 100.1, Quantity: 1},
		{Price: 101.5, Quantity: 2},
		{Price: 103.0, Quantity: 5},
	}, depth.Asks)
	require.Equal(t, []market.PriceLevel{
		{Price: 99.9, Quantity: 1},
		{Price: 99.1, Quantity: 4},
		{Price: 98.0, Quantity: 2},
	}, depth.Bids)
}

func TestParseDepthMalformed(t *testing.T) {
	var asks any
	require.NoError(t, json.Unmarshal([]byte(`[["101.5"]]`), &asks))

	_, err := ParseDepth(market.BingX, asks, []any{})
	var adaptErr *market.AdaptError
	require.ErrorAs(t, err, &adaptErr)
	require.Equal(t, market.BingX, adaptErr.Venue)

	_, err = ParseDepth(market.BingX, "nope", []any{})
	require.ErrorAs(t, err, &adaptErr)
}
