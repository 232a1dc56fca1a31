// Package metrics exports renderer and live-session activity to Prometheus.
//
// A Collector implements race.Observer:
//
//	reg := prometheus.NewRegistry()
//	col := metrics.New(metrics.WithRegistry(reg))
//	app := race.CreateApp(def, nil, race.WithRendererOptions(race.WithObserver(col)))
//
// Metrics collected (namespace "race" by default):
//   - race_nodes_total: nodes mounted, patched, replaced and unmounted, by kind
//   - race_renders_total: component renders by component and status
//   - race_render_duration_seconds: render duration by component
//   - race_host_ops_total: host mutations by operation
//   - race_active_sessions: live sessions currently connected
//   - race_frames_sent_total: op frames written to live clients
//   - race_client_events_total: events received from live clients, by status
package metrics
