package okx

import (
	"encoding/json"
	"fmt"
	"strings"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const (
	wsPublicBaseURL   = "wss://ws.okx.com:8443/ws/v5/public"
	wsBusinessBaseURL = "wss://ws.okx.com:8443/ws/v5/business"
)

// binding speaks the OKX v5 public stream protocol. Trade and candle
// channels live on the business endpoint, everything else on public.
type binding struct{}

func (binding) URI(spec stream.Spec) (string, error) {
	if strings.HasPrefix(spec.Topic, topicAggTrades) || strings.HasPrefix(spec.Topic, "candle") {
		return wsBusinessBaseURL, nil
	}
	return wsPublicBaseURL, nil
}

func (binding) SubscribeFrames(spec stream.Spec) ([][]byte, error) {
	var args []map[string]string
	if spec.Topic == topicLiquidations {
		args = []map[string]string{{"channel": spec.Topic, "instType": "SWAP"}}
	} else {
		if len(spec.Tickers) == 0 {
			return nil, fmt.Errorf("%w: okx %s", market.ErrTickersRequired, spec.Topic)
		}
		args = make([]map[string]string, len(spec.Tickers))
		for i, t := range spec.Tickers {
			args[i] = map[string]string{
				"channel": spec.Topic,
				"instId":  strings.ToUpper(t),
			}
		}
	}
	frame, err := json.Marshal(map[string]any{"op": "subscribe", "args": args})
	if err != nil {
		return nil, err
	}
	return [][]byte{frame}, nil
}

// PingFrame is nil: OKX answers transport pings and tolerates silence
// within the liveness window
func (binding) PingFrame(stream.Spec) []byte {
	return nil
}

func (binding) Decode(_ int, data []byte) (stream.Frame, error) {
	return stream.DecodeJSON(data)
}
