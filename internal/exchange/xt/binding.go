package xt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const (
	wsSpotBaseURL    = "wss://stream.xt.com/public"
	wsFuturesBaseURL = "wss://fstream.xt.com/ws/market"
)

// binding speaks the XT stream protocol
type binding struct{}

func (binding) URI(spec stream.Spec) (string, error) {
	if spec.Market == market.Futures {
		return wsFuturesBaseURL, nil
	}
	return wsSpotBaseURL, nil
}

func (binding) SubscribeFrames(spec stream.Spec) ([][]byte, error) {
	if len(spec.Tickers) == 0 {
		return nil, fmt.Errorf("%w: xt %s", market.ErrTickersRequired, spec.Topic)
	}
	params := make([]string, len(spec.Tickers))
	for i, t := range spec.Tickers {
		params[i] = spec.Topic + "@" + xtSymbol(t)
	}
	frame, err := json.Marshal(map[string]any{
		"method": "subscribe",
		"params": params,
		"id":     time.Now().Unix(),
	})
	if err != nil {
		return nil, err
	}
	return [][]byte{frame}, nil
}

// PingFrame is the literal ping XT expects
func (binding) PingFrame(stream.Spec) []byte {
	return []byte("ping")
}

func (binding) Decode(_ int, data []byte) (stream.Frame, error) {
	return stream.DecodeJSON(data)
}

// xtSymbol maps plain USDT symbols onto XT naming, BTCUSDT -> btc_usdt
func xtSymbol(symbol string) string {
	s := strings.ToLower(symbol)
	if strings.Contains(s, "_") {
		return s
	}
	return strings.Replace(s, "usdt", "_usdt", 1)
}
