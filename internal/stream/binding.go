package stream

import (
	"encoding/json"
	"strings"
	"time"

	"cryptomd/internal/market"
)

// Spec is the immutable description of one subscription: what to stream and
// how the session is tuned. Bindings read it, never mutate it.
type Spec struct {
	Venue   market.Venue
	Market  market.MarketType
	Topic   string
	Tickers []string
	// Interval is the venue-native timeframe token, empty when unused
	Interval string

	PingInterval     time.Duration
	ReconnectDelay   time.Duration
	Workers          int
	QueueBound       int
	NoMessageTimeout time.Duration
}

// Options tunes a session; zero values fall back to defaults
type Options struct {
	PingInterval     time.Duration
	ReconnectDelay   time.Duration
	Workers          int
	QueueBound       int
	NoMessageTimeout time.Duration
}

// Apply copies the tuning knobs onto a spec. Spec values already set by the
// caller win only when the option is zero.
func (o Options) Apply(spec Spec) Spec {
	if o.PingInterval > 0 {
		spec.PingInterval = o.PingInterval
	}
	if o.ReconnectDelay > 0 {
		spec.ReconnectDelay = o.ReconnectDelay
	}
	if o.Workers > 0 {
		spec.Workers = o.Workers
	}
	if o.QueueBound > 0 {
		spec.QueueBound = o.QueueBound
	}
	if o.NoMessageTimeout != 0 {
		spec.NoMessageTimeout = o.NoMessageTimeout
	}
	return spec
}

// Frame is one decoded inbound message. Value carries the payload handed to
// the worker pool; Reply, when set, is written back to the venue; Heartbeat
// frames refresh liveness and are otherwise dropped.
type Frame struct {
	Value     any
	Reply     []byte
	Heartbeat bool
}

// Binding describes one venue's wire protocol. Implementations are stateless;
// all mutable state lives in the Session.
type Binding interface {
	// URI returns the WebSocket endpoint for the subscription
	URI(spec Spec) (string, error)

	// SubscribeFrames returns the frames to send right after connecting,
	// in order. May be empty when the URI itself carries the subscription.
	SubscribeFrames(spec Spec) ([][]byte, error)

	// PingFrame returns the application-level ping payload, or nil when
	// the venue relies on transport pings. Called once per ping tick so
	// payloads may carry timestamps.
	PingFrame(spec Spec) []byte

	// Decode converts a raw frame into a Frame
	Decode(messageType int, data []byte) (Frame, error)
}

// DecodeJSON is the default frame decoder: textual ping/pong heartbeats pass
// through, everything else must be valid JSON.
func DecodeJSON(data []byte) (Frame, error) {
	switch strings.ToLower(strings.TrimSpace(string(data))) {
	case "ping", "pong":
		return Frame{Heartbeat: true}, nil
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return Frame{}, err
	}
	return Frame{Value: value}, nil
}
