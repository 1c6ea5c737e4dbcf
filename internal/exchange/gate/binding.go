package gate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const (
	wsSpotBaseURL    = "wss://api.gateio.ws/ws/v4/"
	wsFuturesBaseURL = "wss://fx-ws.gateio.ws/v4/ws/usdt"
)

// binding speaks the Gate v4 stream protocol. The channel prefix depends on
// the market, so the binding carries it.
type binding struct {
	market market.MarketType
}

func (b binding) prefix() string {
	if b.market == market.Futures {
		return "futures"
	}
	return "spot"
}

func (b binding) URI(stream.Spec) (string, error) {
	if b.market == market.Futures {
		return wsFuturesBaseURL, nil
	}
	return wsSpotBaseURL, nil
}

func (b binding) SubscribeFrames(spec stream.Spec) ([][]byte, error) {
	if len(spec.Tickers) == 0 {
		return nil, fmt.Errorf("%w: gate %s", market.ErrTickersRequired, spec.Topic)
	}
	payload := make([]string, len(spec.Tickers))
	for i, t := range spec.Tickers {
		payload[i] = gateSymbol(t)
	}
	frame, err := json.Marshal(map[string]any{
		"time":    time.Now().Unix(),
		"channel": spec.Topic,
		"event":   "subscribe",
		"payload": payload,
	})
	if err != nil {
		return nil, err
	}
	return [][]byte{frame}, nil
}

func (b binding) PingFrame(stream.Spec) []byte {
	frame, _ := json.Marshal(map[string]any{
		"time":    time.Now().Unix(),
		"channel": b.prefix() + ".ping",
	})
	return frame
}

// Decode answers the venue's textual ping with the channel pong
func (b binding) Decode(_ int, data []byte) (stream.Frame, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("ping")) {
		reply, _ := json.Marshal(map[string]any{
			"time":    time.Now().Unix(),
			"channel": b.prefix() + ".pong",
		})
		return stream.Frame{Reply: reply, Heartbeat: true}, nil
	}
	return stream.DecodeJSON(data)
}

// gateSymbol maps plain USDT symbols onto Gate pair naming, BTCUSDT ->
// BTC_USDT
func gateSymbol(symbol string) string {
	if strings.Contains(symbol, "_") {
		return symbol
	}
	return strings.Replace(symbol, "USDT", "_USDT", 1)
}
