package market

import "fmt"

// Timeframe is a canonical candle interval token
type Timeframe string

const (
	TF1m  Timeframe = "1m"
	TF3m  Timeframe = "3m"
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
	TF30m Timeframe = "30m"
	TF1h  Timeframe = "1h"
	TF2h  Timeframe = "2h"
	TF4h  Timeframe = "4h"
	TF6h  Timeframe = "6h"
	TF8h  Timeframe = "8h"
	TF12h Timeframe = "12h"
	TF1d  Timeframe = "1d"
	TF3d  Timeframe = "3d"
	TF1w  Timeframe = "1w"
	TF1M  Timeframe = "1M"
)

// Timeframes returns the canonical interval set, shortest first
func Timeframes() []Timeframe {
	return []Timeframe{
		TF1m, TF3m, TF5m, TF15m, TF30m,
		TF1h, TF2h, TF4h, TF6h, TF8h, TF12h,
		TF1d, TF3d, TF1w, TF1M,
	}
}

// Valid reports whether tf is one of the canonical tokens
func (tf Timeframe) Valid() bool {
	for _, t := range Timeframes() {
		if t == tf {
			return true
		}
	}
	return false
}

func (tf Timeframe) String() string {
	return string(tf)
}

// ParseTimeframe converts a canonical token string into a Timeframe
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(s)
	if !tf.Valid() {
		return "", fmt.Errorf("%w: %q", ErrTimeframeUnsupported, s)
	}
	return tf, nil
}

// TimeframeMap translates canonical timeframes to a venue's native interval
// tokens. An absent key means the venue does not offer that interval.
type TimeframeMap map[Timeframe]string

// Supports reports whether the venue offers the given timeframe
func (m TimeframeMap) Supports(tf Timeframe) bool {
	_, ok := m[tf]
	return ok
}

// Format returns the venue-native token for tf
func (m TimeframeMap) Format(tf Timeframe) (string, error) {
	token, ok := m[tf]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTimeframeUnsupported, tf)
	}
	return token, nil
}

// Parse maps a venue-native token back to its canonical timeframe
func (m TimeframeMap) Parse(token string) (Timeframe, error) {
	for tf, t := range m {
		if t == token {
			return tf, nil
		}
	}
	return "", fmt.Errorf("%w: venue token %q", ErrTimeframeUnsupported, token)
}
