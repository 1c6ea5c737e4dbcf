package bitget

import (
	"encoding/json"
	"fmt"
	"strings"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const wsBaseURL = "wss://ws.bitget.com/v2/ws/public"

// binding speaks the Bitget v2 public stream protocol
type binding struct{}

func (binding) URI(stream.Spec) (string, error) {
	return wsBaseURL, nil
}

func (binding) SubscribeFrames(spec stream.Spec) ([][]byte, error) {
	if len(spec.Tickers) == 0 {
		return nil, fmt.Errorf("%w: bitget %s", market.ErrTickersRequired, spec.Topic)
	}
	instType := "SPOT"
	if spec.Market == market.Futures {
		instType = "USDT-FUTURES"
	}
	args := make([]map[string]string, len(spec.Tickers))
	for i, t := range spec.Tickers {
		args[i] = map[string]string{
			"instType": instType,
			"channel":  spec.Topic,
			"instId":   strings.ToUpper(t),
		}
	}
	frame, err := json.Marshal(map[string]any{"op": "subscribe", "args": args})
	if err != nil {
		return nil, err
	}
	return [][]byte{frame}, nil
}

func (binding) PingFrame(stream.Spec) []byte {
	return []byte("ping")
}

func (binding) Decode(_ int, data []byte) (stream.Frame, error) {
	return stream.DecodeJSON(data)
}
