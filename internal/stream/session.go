package stream

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cryptomd/internal/market"
	"cryptomd/internal/metrics"
)

const (
	defaultPingInterval     = 30 * time.Second
	defaultReconnectDelay   = 30 * time.Second
	defaultWorkers          = 3
	defaultQueueBound       = 100
	defaultNoMessageTimeout = 60 * time.Second

	handshakeTimeout = 10 * time.Second
	livenessTick     = time.Second
)

// State is the session lifecycle state
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateStreaming
	StateReconnecting
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateReconnecting:
		return "reconnecting"
	case StateStopping:
		return "stopping"
	}
	return "unknown"
}

// Callback consumes one decoded payload from the stream
type Callback func(ctx context.Context, raw any)

// Session drives one subscription over a resilient WebSocket connection:
// dial, subscribe, read, reconnect forever until stopped. Decoded payloads go
// through a bounded queue into a worker pool that invokes the callback.
type Session struct {
	spec    Spec
	binding Binding
	cb      Callback
	dialer  *websocket.Dialer
	log     zerolog.Logger

	mu       sync.Mutex
	state    State
	cancel   context.CancelFunc
	runDone  chan struct{}
	stopOnce *sync.Once

	queue   chan any
	workers sync.WaitGroup
	writeMu sync.Mutex

	lastMessage atomic.Int64 // Unix ms of last inbound frame

	errMu sync.Mutex
	err   error
}

// NewSession creates a session for the given subscription. Nothing happens
// until Start is called.
func NewSession(spec Spec, binding Binding, cb Callback) *Session {
	if spec.PingInterval <= 0 {
		spec.PingInterval = defaultPingInterval
	}
	if spec.ReconnectDelay <= 0 {
		spec.ReconnectDelay = defaultReconnectDelay
	}
	if spec.Workers <= 0 {
		spec.Workers = defaultWorkers
	}
	if spec.QueueBound <= 0 {
		spec.QueueBound = defaultQueueBound
	}
	if spec.NoMessageTimeout < 0 {
		spec.NoMessageTimeout = 0
	} else if spec.NoMessageTimeout == 0 {
		spec.NoMessageTimeout = defaultNoMessageTimeout
	}

	return &Session{
		spec:    spec,
		binding: binding,
		cb:      cb,
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
		},
		log: log.With().
			Str("venue", string(spec.Venue)).
			Str("topic", spec.Topic).
			Logger(),
	}
}

// Spec returns the subscription this session serves
func (s *Session) Spec() Spec {
	return s.spec
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the first fatal error observed, if any
func (s *Session) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

// Start begins streaming. It fails unless the session is idle.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("session %s/%s: start from state %s", s.spec.Venue, s.spec.Topic, state)
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.state = StateConnecting
	s.cancel = cancel
	s.runDone = make(chan struct{})
	s.stopOnce = &sync.Once{}
	s.queue = make(chan any, s.spec.QueueBound)
	s.errMu.Lock()
	s.err = nil
	s.errMu.Unlock()
	queue := s.queue
	s.mu.Unlock()

	for i := 0; i < s.spec.Workers; i++ {
		s.workers.Add(1)
		go s.worker(runCtx, queue)
	}
	go s.run(runCtx)

	s.log.Info().Msg("Session started")
	return nil
}

// Stop cancels streaming, drains the pipeline and joins all goroutines.
// Safe to call more than once.
func (s *Session) Stop() error {
	s.mu.Lock()
	once := s.stopOnce
	s.mu.Unlock()
	if once == nil {
		return nil
	}

	once.Do(func() {
		s.mu.Lock()
		s.state = StateStopping
		cancel := s.cancel
		runDone := s.runDone
		queue := s.queue
		s.mu.Unlock()

		cancel()
		<-runDone
		close(queue)
		s.workers.Wait()

		s.mu.Lock()
		s.state = StateIdle
		s.cancel = nil
		s.mu.Unlock()

		metrics.RecordConnectionStatus(string(s.spec.Venue), s.spec.Topic, false)
		s.log.Info().Msg("Session stopped")
	})
	return nil
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateStopping || s.state == StateIdle {
		return
	}
	s.state = state
}

// fail records the first fatal error and tears the session down internally.
// The caller still owns the final Stop.
func (s *Session) fail(err error) {
	s.errMu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.errMu.Unlock()

	s.log.Error().Err(err).Msg("Session failed")

	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// run is the reconnect loop: connect, stream until fault, back off, repeat
func (s *Session) run(ctx context.Context) {
	defer close(s.runDone)

	for {
		err := s.connectOnce(ctx)
		if ctx.Err() != nil {
			return
		}

		s.setState(StateReconnecting)
		metrics.RecordReconnect(string(s.spec.Venue), s.spec.Topic)
		s.log.Warn().
			Err(err).
			Dur("delay", s.spec.ReconnectDelay).
			Msg("Connection lost, reconnecting")

		select {
		case <-time.After(s.spec.ReconnectDelay):
		case <-ctx.Done():
			return
		}
		s.setState(StateConnecting)
	}
}

// connectOnce runs one connection epoch. It returns only after every
// goroutine it spawned has exited.
func (s *Session) connectOnce(ctx context.Context) error {
	uri, err := s.binding.URI(s.spec)
	if err != nil {
		return fmt.Errorf("resolve uri: %w", err)
	}

	conn, _, err := s.dialer.DialContext(ctx, uri, nil)
	if err != nil {
		return fmt.Errorf("websocket dial %s: %w", uri, err)
	}
	defer conn.Close()

	s.lastMessage.Store(time.Now().UnixMilli())

	frames, err := s.binding.SubscribeFrames(s.spec)
	if err != nil {
		return fmt.Errorf("build subscribe frames: %w", err)
	}
	for _, frame := range frames {
		if err := s.write(conn, frame); err != nil {
			return fmt.Errorf("send subscribe frame: %w", err)
		}
	}

	s.setState(StateStreaming)
	metrics.RecordConnectionStatus(string(s.spec.Venue), s.spec.Topic, true)
	defer metrics.RecordConnectionStatus(string(s.spec.Venue), s.spec.Topic, false)
	s.log.Info().Str("uri", uri).Int("frames", len(frames)).Msg("Streaming")

	ectx, ecancel := context.WithCancel(ctx)
	defer ecancel()

	errCh := make(chan error, 3)
	var eg sync.WaitGroup

	eg.Add(1)
	go func() {
		defer eg.Done()
		errCh <- s.readLoop(ectx, conn)
	}()

	if ping := s.binding.PingFrame(s.spec); ping != nil {
		eg.Add(1)
		go func() {
			defer eg.Done()
			s.pingLoop(ectx, conn)
		}()
	}

	if s.spec.NoMessageTimeout > 0 {
		eg.Add(1)
		go func() {
			defer eg.Done()
			if err := s.watchLiveness(ectx); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case err = <-errCh:
	case <-ctx.Done():
		err = ctx.Err()
	}

	ecancel()
	conn.Close()
	eg.Wait()
	return err
}

// readLoop pulls frames off the wire, decodes them and feeds the queue
func (s *Session) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		s.lastMessage.Store(time.Now().UnixMilli())
		metrics.RecordFrame(string(s.spec.Venue), s.spec.Topic)

		frame, err := s.binding.Decode(messageType, data)
		if err != nil {
			metrics.RecordDecodeError(string(s.spec.Venue), s.spec.Topic)
			s.log.Error().Err(err).Str("payload", truncate(data)).Msg("Failed to decode frame")
			continue
		}

		if frame.Reply != nil {
			if err := s.write(conn, frame.Reply); err != nil {
				s.log.Debug().Err(err).Msg("Failed to send reply frame")
			}
		}
		if frame.Heartbeat {
			s.log.Debug().Msg("Heartbeat")
			continue
		}
		if frame.Value == nil {
			continue
		}

		select {
		case s.queue <- frame.Value:
			metrics.RecordQueueDepth(string(s.spec.Venue), s.spec.Topic, len(s.queue))
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// pingLoop sends the binding's ping payload at the configured interval
func (s *Session) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(s.spec.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.write(conn, s.binding.PingFrame(s.spec)); err != nil {
				s.log.Debug().Err(err).Msg("Failed to send ping")
			}
		case <-ctx.Done():
			return
		}
	}
}

// watchLiveness forces a reconnect when the venue goes silent
func (s *Session) watchLiveness(ctx context.Context) error {
	ticker := time.NewTicker(livenessTick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			idle := time.Duration(time.Now().UnixMilli()-s.lastMessage.Load()) * time.Millisecond
			if idle > s.spec.NoMessageTimeout {
				return fmt.Errorf("no message for %s: %w", idle.Truncate(time.Millisecond), market.ErrTimeout)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// worker pops payloads off the queue and invokes the callback. Observing the
// queue full at pop time means the consumer cannot keep up; the session is
// failed with ErrQueueOverflow.
func (s *Session) worker(ctx context.Context, queue chan any) {
	defer s.workers.Done()

	for raw := range queue {
		if len(queue) >= s.spec.QueueBound {
			s.fail(fmt.Errorf("%w: %d payloads pending", market.ErrQueueOverflow, len(queue)))
			return
		}
		s.invoke(ctx, raw)
	}
}

func (s *Session) invoke(ctx context.Context, raw any) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordCallbackFailure(string(s.spec.Venue), s.spec.Topic)
			s.log.Error().Interface("panic", r).Msg("Callback panicked")
		}
	}()
	s.cb(ctx, raw)
}

func (s *Session) write(conn *websocket.Conn, payload []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, payload)
}

func truncate(data []byte) string {
	const max = 256
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
