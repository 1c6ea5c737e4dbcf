package bitunix

import (
	"encoding/json"
	"fmt"
	"time"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const wsBaseURL = "wss://fapi.bitunix.com/public/"

// binding speaks the Bitunix public futures stream protocol
type binding struct{}

func (binding) URI(stream.Spec) (string, error) {
	return wsBaseURL, nil
}

func (binding) SubscribeFrames(spec stream.Spec) ([][]byte, error) {
	if len(spec.Tickers) == 0 {
		return nil, fmt.Errorf("%w: bitunix %s", market.ErrTickersRequired, spec.Topic)
	}
	args := make([]map[string]string, len(spec.Tickers))
	for i, t := range spec.Tickers {
		args[i] = map[string]string{"symbol": t, "ch": spec.Topic}
	}
	frame, err := json.Marshal(map[string]any{
		"op":   "subscribe",
		"args": args,
	})
	if err != nil {
		return nil, err
	}
	return [][]byte{frame}, nil
}

// PingFrame carries the current time, so it is rebuilt on every tick
func (binding) PingFrame(stream.Spec) []byte {
	frame, _ := json.Marshal(map[string]any{
		"op":   "ping",
		"ping": time.Now().Unix(),
	})
	return frame
}

func (binding) Decode(_ int, data []byte) (stream.Frame, error) {
	frame, err := stream.DecodeJSON(data)
	if err != nil {
		return stream.Frame{}, err
	}
	if m, ok := frame.Value.(map[string]any); ok {
		if op, _ := m["op"].(string); op == "pong" || op == "ping" {
			return stream.Frame{Heartbeat: true}, nil
		}
	}
	return frame, nil
}
