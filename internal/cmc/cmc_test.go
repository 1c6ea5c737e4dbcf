package cmc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRating(t *testing.T) {
	var raw any
	require.NoError(t, json.Unmarshal([]byte(`{
		"data":[
			{"id":1,"rank":1,"name":"Bitcoin","symbol":"BTC"},
			{"id":1027,"rank":2,"name":"Ethereum","symbol":"ETH"},
			{"id":9999,"rank":4242,"name":"Bitcoin Clone","symbol":"BTC"}
		]
	}`), &raw))

	out, err := Rating(raw)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"BTC": 1, "ETH": 2}, out) // first listing wins
}

func TestRatingMalformed(t *testing.T) {
	var raw any
	require.NoError(t, json.Unmarshal([]byte(`{"status":{}}`), &raw))
	_, err := Rating(raw)
	require.Error(t, err)
}
