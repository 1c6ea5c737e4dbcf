package mexc

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const (
	wsSpotBaseURL    = "wss://wbs-api.mexc.com/ws"
	wsFuturesBaseURL = "wss://contract.mexc.com/edge"
)

// binding speaks both MEXC stream dialects: JSON frames on the contract
// endpoint, Protocol-Buffer frames on the spot endpoint.
type binding struct{}

func futuresTopic(topic string) bool {
	return strings.HasPrefix(topic, "sub.")
}

func (binding) URI(spec stream.Spec) (string, error) {
	if futuresTopic(spec.Topic) {
		return wsFuturesBaseURL, nil
	}
	return wsSpotBaseURL, nil
}

func (binding) SubscribeFrames(spec stream.Spec) ([][]byte, error) {
	if futuresTopic(spec.Topic) {
		return futuresSubscribeFrames(spec)
	}
	return spotSubscribeFrames(spec)
}

// spot subscriptions ride a single SUBSCRIPTION frame with one param per
// symbol, e.g. "spot@public.deals.v3.api@BTCUSDT"
func spotSubscribeFrames(spec stream.Spec) ([][]byte, error) {
	var params []string
	if spec.Topic == topicSpotTickers {
		params = []string{spec.Topic + "@UTC+8"}
	} else {
		if len(spec.Tickers) == 0 {
			return nil, fmt.Errorf("%w: mexc %s", market.ErrTickersRequired, spec.Topic)
		}
		for _, t := range spec.Tickers {
			param := spec.Topic + "@" + strings.ToUpper(t)
			if spec.Interval != "" {
				param += "@" + spec.Interval
			}
			params = append(params, param)
		}
	}
	frame, err := json.Marshal(map[string]any{
		"method": "SUBSCRIPTION",
		"params": params,
	})
	if err != nil {
		return nil, err
	}
	return [][]byte{frame}, nil
}

// contract subscriptions go out one frame per symbol
func futuresSubscribeFrames(spec stream.Spec) ([][]byte, error) {
	if spec.Topic == topicFuturesTickers {
		frame, err := json.Marshal(map[string]any{"method": spec.Topic, "param": map[string]any{}})
		if err != nil {
			return nil, err
		}
		return [][]byte{frame}, nil
	}
	if len(spec.Tickers) == 0 {
		return nil, fmt.Errorf("%w: mexc %s", market.ErrTickersRequired, spec.Topic)
	}
	frames := make([][]byte, 0, len(spec.Tickers))
	for _, t := range spec.Tickers {
		param := map[string]any{"symbol": futuresSymbol(t)}
		if spec.Interval != "" {
			param["interval"] = spec.Interval
		}
		frame, err := json.Marshal(map[string]any{"method": spec.Topic, "param": param})
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

func (binding) PingFrame(stream.Spec) []byte {
	return []byte(`{"method":"ping"}`)
}

func (binding) Decode(messageType int, data []byte) (stream.Frame, error) {
	if messageType == websocket.BinaryMessage {
		value, err := decodeSpotFrame(data)
		if err != nil {
			return stream.Frame{}, err
		}
		return stream.Frame{Value: value}, nil
	}
	return stream.DecodeJSON(data)
}

// futuresSymbol maps a plain symbol onto the contract naming, BTCUSDT ->
// BTC_USDT. Symbols already underscored pass through.
func futuresSymbol(symbol string) string {
	if strings.Contains(symbol, "_") {
		return symbol
	}
	return strings.Replace(symbol, "USDT", "_USDT", 1)
}
