// Package instrumentation provides OpenTelemetry instrumentation for gdrivetoken.
//
// Instrumentation is opt-in (INSTRUMENTATION_ENABLED=true). When enabled it records:
//
// Run Metrics:
//   - gdrivetoken_runs_total: Counter of runs by result
//   - gdrivetoken_step_duration_seconds: Histogram of step durations by step and status
//
// OAuth Metrics:
//   - gdrivetoken_oauth_auth_total: Counter of authorizations by mode (stored,
//     refreshed, interactive) and result
//
// # Tracing
//
// Each run produces one span plus a child span per step.
//
// # Exporters
//
// Metrics: "prometheus" (written to METRICS_TEXTFILE on shutdown for the
// node_exporter textfile collector), "otlp" or "stdout".
// Traces: "otlp", "stdout" or "none".
//
// # Configuration
//
//	INSTRUMENTATION_ENABLED=true
//	METRICS_EXPORTER=prometheus
//	METRICS_TEXTFILE=/var/lib/node_exporter/gdrivetoken.prom
//	TRACING_EXPORTER=otlp
//	OTEL_EXPORTER_OTLP_ENDPOINT=localhost:4318
package instrumentation
