package kcex

import (
	"encoding/json"
	"fmt"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const wsBaseURL = "wss://www.kcex.com/fapi/edge"

// binding speaks the KCEX edge stream protocol
type binding struct{}

func (binding) URI(stream.Spec) (string, error) {
	return wsBaseURL, nil
}

// SubscribeFrames emits one frame per contract, the edge endpoint rejects
// batched subscriptions
func (binding) SubscribeFrames(spec stream.Spec) ([][]byte, error) {
	if len(spec.Tickers) == 0 {
		return nil, fmt.Errorf("%w: kcex %s", market.ErrTickersRequired, spec.Topic)
	}
	frames := make([][]byte, 0, len(spec.Tickers))
	for _, t := range spec.Tickers {
		frame, err := json.Marshal(map[string]any{
			"method": spec.Topic,
			"param":  map[string]any{"symbol": t, "compress": true},
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
		if ch, _ := m["channel"].(string); ch == "pong" {
			return stream.Frame{Heartbeat: true}, nil
		}
	}
	return frame, nil
}
