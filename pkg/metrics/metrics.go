package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/race/pkg/race"
	"github.com/vango-dev/race/pkg/vdom"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "race").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "race",
		// Renders are expected in the sub-millisecond range.
		Buckets:  []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
		Registry: prometheus.DefaultRegisterer,
	}
}

// Collector records renderer activity. It implements race.Observer.
type Collector struct {
	nodes          *prometheus.CounterVec
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	hostOps        *prometheus.CounterVec
	activeSessions prometheus.Gauge
	framesSent     prometheus.Counter
	clientEvents   *prometheus.CounterVec
}

var _ race.Observer = (*Collector)(nil)

// New creates a Collector and registers its metrics.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		nodes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_total",
			Help:        "Virtual nodes processed by the renderer",
			ConstLabels: config.ConstLabels,
		}, []string{"action", "kind"}),

		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Component renders by component and status",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Component render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"component"}),

		hostOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "host_ops_total",
			Help:        "Host tree mutations by operation",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of connected live sessions",
			ConstLabels: config.ConstLabels,
		}),

		framesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frames_sent_total",
			Help:        "Op frames written to live clients",
			ConstLabels: config.ConstLabels,
		}),

		clientEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "client_events_total",
			Help:        "Events received from live clients by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),
	}
}

// NodeMounted implements race.Observer.
func (c *Collector) NodeMounted(kind vdom.Kind) { c.node("mount", kind) }

// NodePatched implements race.Observer.
func (c *Collector) NodePatched(kind vdom.Kind) { c.node("patch", kind) }

// NodeReplaced implements race.Observer.
func (c *Collector) NodeReplaced(kind vdom.Kind) { c.node("replace", kind) }

// NodeUnmounted implements race.Observer.
func (c *Collector) NodeUnmounted(kind vdom.Kind) { c.node("unmount", kind) }

func (c *Collector) node(action string, kind vdom.Kind) {
	c.nodes.WithLabelValues(action, kind.String()).Inc()
}

// Rendered implements race.Observer.
func (c *Collector) Rendered(component string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.renders.WithLabelValues(component, status).Inc()
	c.renderDuration.WithLabelValues(component).Observe(d.Seconds())
}

// HostOp implements race.Observer.
func (c *Collector) HostOp(op string) {
	c.hostOps.WithLabelValues(op).Inc()
}

// SessionOpened records a live session connecting.
func (c *Collector) SessionOpened() { c.activeSessions.Inc() }

// SessionClosed records a live session disconnecting.
func (c *Collector) SessionClosed() { c.activeSessions.Dec() }

// FramesSent records op frames written to a client.
func (c *Collector) FramesSent(n int) { c.framesSent.Add(float64(n)) }

// ClientEvent records an event received from a client.
func (c *Collector) ClientEvent(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.clientEvents.WithLabelValues(status).Inc()
}
