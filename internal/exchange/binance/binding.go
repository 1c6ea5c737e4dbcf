package binance

import (
	"strings"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const (
	wsSpotBaseURL    = "wss://stream.binance.com:9443"
	wsFuturesBaseURL = "wss://fstream.binance.com"
)

// binding speaks the Binance stream protocol: the subscription is encoded in
// the URI, there is no subscribe frame and no application ping.
type binding struct{}

func (binding) URI(spec stream.Spec) (string, error) {
	base := wsSpotBaseURL
	if spec.Market == market.Futures || spec.Topic == topicLiquidations {
		base = wsFuturesBaseURL
	}

	switch len(spec.Tickers) {
	case 0:
		return base + "/ws/" + spec.Topic, nil
	case 1:
		return base + "/ws/" + strings.ToLower(spec.Tickers[0]) + spec.Topic, nil
	default:
		streams := make([]string, len(spec.Tickers))
		for i, t := range spec.Tickers {
			streams[i] = strings.ToLower(t) + spec.Topic
		}
		return base + "/stream?streams=" + strings.Join(streams, "/"), nil
	}
}

func (binding) SubscribeFrames(stream.Spec) ([][]byte, error) {
	return nil, nil
}

func (binding) PingFrame(stream.Spec) []byte {
	return nil
}

func (binding) Decode(_ int, data []byte) (stream.Frame, error) {
	return stream.DecodeJSON(data)
}
