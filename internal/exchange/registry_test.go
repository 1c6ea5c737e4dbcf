package exchange

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cryptomd/internal/market"
)

func TestRegistryCoversEveryVenue(t *testing.T) {
	for _, venue := range Venues() {
		entry, err := Registry(venue)
		require.NoError(t, err, venue)
		require.Equal(t, venue, entry.Venue)
		require.NotNil(t, entry.NewClient, venue)
		require.NotNil(t, entry.Manager, venue)
		require.NotNil(t, entry.Adapter, venue)
		require.NotNil(t, entry.Manager.Timeframes(), venue)
	}
}

func TestRegistryUnknownVenue(t *testing.T) {
	_, err := Registry(market.Venue("nasdaq"))
	require.ErrorIs(t, err, market.ErrUnknownVenue)
}
