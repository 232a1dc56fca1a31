package live

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/race/pkg/metrics"
)

// Config holds server settings.
type Config struct {
	// Title is the page title served at "/".
	Title string

	// ReadBufferSize and WriteBufferSize size the WebSocket buffers.
	ReadBufferSize  int
	WriteBufferSize int

	// MaxMessageSize bounds a single client message.
	MaxMessageSize int64

	// WriteTimeout bounds a single frame write.
	WriteTimeout time.Duration

	// EventQueue is the per-session event buffer.
	EventQueue int

	// MetricsPath is where the gatherer is served.
	MetricsPath string

	// CheckOrigin overrides the WebSocket origin check.
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns the default server settings.
func DefaultConfig() Config {
	return Config{
		Title:           "race",
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		MaxMessageSize:  64 * 1024,
		WriteTimeout:    10 * time.Second,
		EventQueue:      64,
		MetricsPath:     "/metrics",
	}
}

type options struct {
	config    Config
	logger    *slog.Logger
	collector *metrics.Collector
	gatherer  prometheus.Gatherer
	tracer    trace.Tracer
}

func defaultOptions() options {
	return options{
		config: DefaultConfig(),
		logger: slog.Default().With("component", "live"),
		tracer: otel.Tracer("race/live"),
	}
}

// Option configures a Server.
type Option func(*options)

// WithConfig replaces the server settings. Zero fields keep their defaults.
func WithConfig(c Config) Option {
	return func(o *options) {
		d := DefaultConfig()
		if c.Title == "" {
			c.Title = d.Title
		}
		if c.ReadBufferSize <= 0 {
			c.ReadBufferSize = d.ReadBufferSize
		}
		if c.WriteBufferSize <= 0 {
			c.WriteBufferSize = d.WriteBufferSize
		}
		if c.MaxMessageSize <= 0 {
			c.MaxMessageSize = d.MaxMessageSize
		}
		if c.WriteTimeout <= 0 {
			c.WriteTimeout = d.WriteTimeout
		}
		if c.EventQueue <= 0 {
			c.EventQueue = d.EventQueue
		}
		if c.MetricsPath == "" {
			c.MetricsPath = d.MetricsPath
		}
		o.config = c
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records session and renderer metrics on collector and serves
// gatherer at Config.MetricsPath. Either may be nil.
func WithMetrics(collector *metrics.Collector, gatherer prometheus.Gatherer) Option {
	return func(o *options) {
		o.collector = collector
		o.gatherer = gatherer
	}
}

// WithTracer sets the tracer for event spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}
