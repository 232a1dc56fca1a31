// Package live serves a race application over a WebSocket.
//
// Each connection gets its own session: a fresh host.Memory tree, a mounted
// App and a single event loop. Host ops recorded while mounting or while
// handling an event are encoded with package protocol and streamed to the
// client; client events are decoded and dispatched to the listener on the
// addressed node.
//
// # Routes
//
//   - GET /         HTML page with the server-rendered app
//   - GET /ws       WebSocket endpoint
//   - GET /metrics  Prometheus metrics (when a gatherer is configured; path configurable)
//   - GET /healthz  Liveness check
//
// # Usage
//
//	srv := live.New(demo.Counter, nil,
//	    live.WithLogger(logger),
//	    live.WithMetrics(collector, prometheus.DefaultGatherer),
//	)
//	http.ListenAndServe(":8080", srv)
package live
