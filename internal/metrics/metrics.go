package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Metrics for the market data access layer
var (
	// Stream metrics
	FramesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "md_frames_received_total",
			Help: "Total number of WebSocket frames received",
		},
		[]string{"venue", "topic"},
	)

	DecodeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "md_decode_errors_total",
			Help: "Total number of frames that failed to decode",
		},
		[]string{"venue", "topic"},
	)

	CallbackFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "md_callback_failures_total",
			Help: "Total number of consumer callback panics",
		},
		[]string{"venue", "topic"},
	)

	QueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "md_queue_depth",
			Help: "Current inbound queue depth per session",
		},
		[]string{"venue", "topic"},
	)

	// Connection metrics
	ConnectionStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "md_connection_status",
			Help: "WebSocket connection status (1=streaming, 0=down)",
		},
		[]string{"venue", "topic"},
	)

	ConnectionReconnects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "md_reconnects_total",
			Help: "Total number of reconnection attempts",
		},
		[]string{"venue", "topic"},
	)

	// Adapter metrics
	AdaptFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "md_adapt_failures_total",
			Help: "Total number of payloads dropped by adapters",
		},
		[]string{"venue", "operation"},
	)

	// REST API metrics
	RestFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "md_rest_fetch_duration_seconds",
			Help:    "Time to fetch data from venue REST API",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"venue", "endpoint"},
	)

	RestFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "md_rest_fetch_errors_total",
			Help: "Total number of REST API fetch errors",
		},
		[]string{"venue", "endpoint"},
	)

	BinanceUsedWeight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "md_binance_used_weight_1m",
			Help: "Binance request weight consumed in the current minute",
		},
	)

	// Contract table metrics
	ContractTableSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "md_contract_table_size",
			Help: "Number of contract sizes loaded per venue",
		},
		[]string{"venue"},
	)

	ContractTableRefreshErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "md_contract_table_refresh_errors_total",
			Help: "Total number of failed contract table refreshes",
		},
		[]string{"venue"},
	)

	// Redis metrics
	CacheWriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "md_cache_write_duration_seconds",
			Help:    "Time to write a snapshot to Redis",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
		[]string{"key"},
	)

	CacheWriteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "md_cache_write_errors_total",
			Help: "Total number of Redis write errors",
		},
		[]string{"key"},
	)
)

// Timer is a helper for measuring operation duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time to a histogram
func (t *Timer) ObserveDuration(histogram *prometheus.HistogramVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// RecordFrame records a received WebSocket frame
func RecordFrame(venue, topic string) {
	FramesReceived.WithLabelValues(venue, topic).Inc()
}

// RecordDecodeError records a frame that failed to decode
func RecordDecodeError(venue, topic string) {
	DecodeErrors.WithLabelValues(venue, topic).Inc()
}

// RecordCallbackFailure records a consumer callback panic
func RecordCallbackFailure(venue, topic string) {
	CallbackFailures.WithLabelValues(venue, topic).Inc()
}

// RecordQueueDepth records the current inbound queue depth
func RecordQueueDepth(venue, topic string, depth int) {
	QueueDepth.WithLabelValues(venue, topic).Set(float64(depth))
}

// RecordConnectionStatus records connection status
func RecordConnectionStatus(venue, topic string, connected bool) {
	status := 0.0
	if connected {
		status = 1.0
	}
	ConnectionStatus.WithLabelValues(venue, topic).Set(status)
}

// RecordReconnect records a reconnection attempt
func RecordReconnect(venue, topic string) {
	ConnectionReconnects.WithLabelValues(venue, topic).Inc()
}

// RecordAdaptFailure records a payload dropped by an adapter
func RecordAdaptFailure(venue, operation string) {
	AdaptFailures.WithLabelValues(venue, operation).Inc()
}

// RecordRestError records a failed REST fetch
func RecordRestError(venue, endpoint string) {
	RestFetchErrors.WithLabelValues(venue, endpoint).Inc()
}

// RecordBinanceUsedWeight records the used-weight header value
func RecordBinanceUsedWeight(weight float64) {
	BinanceUsedWeight.Set(weight)
}

// RecordContractTableSize records the loaded contract table size
func RecordContractTableSize(venue string, size int) {
	ContractTableSize.WithLabelValues(venue).Set(float64(size))
}

// RecordContractTableRefreshError records a failed contract table refresh
func RecordContractTableRefreshError(venue string) {
	ContractTableRefreshErrors.WithLabelValues(venue).Inc()
}

// Server starts the Prometheus metrics HTTP server
type Server struct {
	addr   string
	server *http.Server
}

// NewServer creates a new metrics server
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return &Server{
		addr: addr,
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Start starts the metrics server
func (s *Server) Start() error {
	log.Info().Str("addr", s.addr).Msg("Starting metrics server")
	return s.server.ListenAndServe()
}

// Stop stops the metrics server gracefully
func (s *Server) Stop() error {
	return s.server.Close()
}
