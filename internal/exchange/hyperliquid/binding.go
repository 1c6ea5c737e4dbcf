package hyperliquid

import (
	"encoding/json"
	"fmt"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const wsBaseURL = "wss://api.hyperliquid.xyz/ws"

// binding speaks the Hyperliquid stream protocol
type binding struct{}

func (binding) URI(stream.Spec) (string, error) {
	return wsBaseURL, nil
}

// SubscribeFrames emits one subscription per coin
func (binding) SubscribeFrames(spec stream.Spec) ([][]byte, error) {
	if len(spec.Tickers) == 0 {
		return nil, fmt.Errorf("%w: hyperliquid %s", market.ErrTickersRequired, spec.Topic)
	}
	frames := make([][]byte, 0, len(spec.Tickers))
	for _, coin := range spec.Tickers {
		sub := map[string]any{"type": spec.Topic, "coin": coin}
		if spec.Topic == topicCandle {
			sub["interval"] = spec.Interval
		}
		frame, err := json.Marshal(map[string]any{
			"method":       "subscribe",
			"subscription": sub,
		})
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

func (binding) Decode(_ int, data []byte) (stream.Frame, error) {
	frame, err := stream.DecodeJSON(data)
	if err != nil {
		return stream.Frame{}, err
	}
	if m, ok := frame.Value.(map[string]any); ok {
		switch m["channel"] {
		case "pong", "subscriptionResponse":
			return stream.Frame{Heartbeat: true}, nil
		}
	}
	return frame, nil
}
