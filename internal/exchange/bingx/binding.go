package bingx

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const (
	wsSpotBaseURL    = "wss://open-api-ws.bingx.com/market"
	wsFuturesBaseURL = "wss://open-api-swap.bingx.com/swap-market"
)

// binding speaks the BingX stream protocol. Frames arrive gzip compressed.
type binding struct{}

func (binding) URI(spec stream.Spec) (string, error) {
	if spec.Market == market.Futures {
		return wsFuturesBaseURL, nil
	}
	return wsSpotBaseURL, nil
}

// SubscribeFrames emits one frame per symbol
func (binding) SubscribeFrames(spec stream.Spec) ([][]byte, error) {
	if len(spec.Tickers) == 0 {
		return nil, fmt.Errorf("%w: bingx %s", market.ErrTickersRequired, spec.Topic)
	}
	frames := make([][]byte, 0, len(spec.Tickers))
	for i, t := range spec.Tickers {
		frame, err := json.Marshal(map[string]any{
			"id":       strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + strconv.Itoa(i),
			"reqType":  "sub",
			"dataType": t + "@" + spec.Topic,
		})
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

// PingFrame is nil: the venue pings first and expects a Pong reply
func (binding) PingFrame(stream.Spec) []byte {
	return nil
}

func (binding) Decode(_ int, data []byte) (stream.Frame, error) {
	payload := gunzip(data)
	if bytes.Equal(bytes.TrimSpace(payload), []byte("Ping")) {
		return stream.Frame{Reply: []byte("Pong"), Heartbeat: true}, nil
	}
	return stream.DecodeJSON(payload)
}

// gunzip decompresses a frame, passing it through untouched when it is not
// gzip data
func gunzip(data []byte) []byte {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return data
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return data
	}
	return out
}
