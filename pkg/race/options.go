package race

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "race"

type options struct {
	logger   *slog.Logger
	onError  func(error)
	tracer   trace.Tracer
	observer Observer
	raise    bool
}

func defaultOptions() options {
	return options{
		logger:   slog.Default().With("component", "race"),
		tracer:   otel.Tracer(defaultTracerName),
		observer: nopObserver{},
	}
}

// Option configures a Renderer or an App.
type Option func(*options)

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithErrorHandler registers a hook that receives every reported error.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}

// WithTracer sets the tracer used for component update spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithObserver sets the activity observer, typically a metrics collector.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithRaiseErrors makes configuration and render errors returned to the
// caller in addition to being reported.
func WithRaiseErrors(raise bool) Option {
	return func(o *options) {
		o.raise = raise
	}
}
