package bybit

import (
	"encoding/json"
	"fmt"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const (
	wsSpotBaseURL   = "wss://stream.bybit.com/v5/public/spot"
	wsLinearBaseURL = "wss://stream.bybit.com/v5/public/linear"
)

// binding speaks the Bybit v5 public stream protocol
type binding struct{}

func (binding) URI(spec stream.Spec) (string, error) {
	if spec.Market == market.Futures {
		return wsLinearBaseURL, nil
	}
	return wsSpotBaseURL, nil
}

func (binding) SubscribeFrames(spec stream.Spec) ([][]byte, error) {
	if len(spec.Tickers) == 0 {
		return nil, fmt.Errorf("%w: bybit %s", market.ErrTickersRequired, spec.Topic)
	}
	args := make([]string, len(spec.Tickers))
	for i, t := range spec.Tickers {
		args[i] = spec.Topic + "." + t
	}
	frame, err := json.Marshal(map[string]any{"op": "subscribe", "args": args})
	if err != nil {
		return nil, err
	}
	return [][]byte{frame}, nil
}

func (binding) PingFrame(stream.Spec) []byte {
	return []byte(`{"op":"ping"}`)
}

func (binding) Decode(_ int, data []byte) (stream.Frame, error) {
	return stream.DecodeJSON(data)
}
