// Package adapt holds the dynamic-payload helpers shared by all venue
// adapters. Wire payloads arrive as decoded JSON (any); these helpers coerce
// fields into Go scalars without assuming the venue's number formatting.
package adapt

import (
	"math"
	"sort"
	"strconv"

	"cryptomd/internal/market"
)

// AsMap coerces a decoded value into a JSON object
func AsMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// AsSlice coerces a decoded value into a JSON array
func AsSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// Float coerces numbers and numeric strings into a float64
func Float(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Int64 coerces numbers and numeric strings into an int64
func Int64(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		return int64(x), true
	case int:
		return int64(x), true
	case int64:
		return x, true
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(x, 64)
			if ferr != nil {
				return 0, false
			}
			return int64(f), true
		}
		return n, true
	}
	return 0, false
}

// String coerces a decoded value into a string
func String(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// Bool coerces booleans and their common wire spellings into a bool
func Bool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch x {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	case float64:
		return x != 0, true
	}
	return false, false
}

// Truthy mirrors loose truthiness over decoded JSON values
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != "" && x != "0"
	}
	return true
}

// Round2 rounds to two decimal places
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// ParseDepth converts raw ask/bid ladders into a canonical Depth: each level
// is a [price, quantity, ...] pair, asks sorted ascending, bids descending.
func ParseDepth(venue market.Venue, asks, bids any) (market.Depth, error) {
	askLevels, err := parseLevels(venue, asks, "asks")
	if err != nil {
		return market.Depth{}, err
	}
	bidLevels, err := parseLevels(venue, bids, "bids")
	if err != nil {
		return market.Depth{}, err
	}

	sort.Slice(askLevels, func(i, j int) bool { return askLevels[i].Price < askLevels[j].Price })
	sort.Slice(bidLevels, func(i, j int) bool { return bidLevels[i].Price > bidLevels[j].Price })

	return market.Depth{Asks: askLevels, Bids: bidLevels}, nil
}

func parseLevels(venue market.Venue, raw any, side string) ([]market.PriceLevel, error) {
	rows, ok := AsSlice(raw)
	if !ok {
		return nil, market.Adaptf(venue, "depth %s is not an array", side)
	}

	levels := make([]market.PriceLevel, 0, len(rows))
	for i, row := range rows {
		pair, ok := AsSlice(row)
		if !ok || len(pair) < 2 {
			return nil, market.Adaptf(venue, "depth %s[%d] is not a [price, qty] pair", side, i)
		}
		price, ok := Float(pair[0])
		if !ok {
			return nil, market.Adaptf(venue, "depth %s[%d] has bad price %v", side, i, pair[0])
		}
		qty, ok := Float(pair[1])
		if !ok {
			return nil, market.Adaptf(venue, "depth %s[%d] has bad quantity %v", side, i, pair[1])
		}
		levels = append(levels, market.PriceLevel{Price: price, Quantity: qty})
	}
	return levels, nil
}
