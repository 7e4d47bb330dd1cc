package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrStatus = "status"
	attrResult = "result"
	attrStep   = "step"
	attrMode   = "mode"
)

// Metrics provides methods for recording observability metrics.
// The zero value is a valid no-op recorder.
type Metrics struct {
	runsTotal      metric.Int64Counter
	stepDuration   metric.Float64Histogram
	oauthAuthTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.runsTotal, err = meter.Int64Counter(
		"gdrivetoken_runs_total",
		metric.WithDescription("Total number of token generation runs by result"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gdrivetoken_runs_total counter: %w", err)
	}

	m.stepDuration, err = meter.Float64Histogram(
		"gdrivetoken_step_duration_seconds",
		metric.WithDescription("Duration of each token generation step in seconds"),
		metric.WithUnit("s"),
		// The authorization step waits on a human, hence the long tail
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 1.0, 10.0, 30.0, 60.0, 300.0, 900.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gdrivetoken_step_duration_seconds histogram: %w", err)
	}

	m.oauthAuthTotal, err = meter.Int64Counter(
		"gdrivetoken_oauth_auth_total",
		metric.WithDescription("Total number of OAuth authorizations by mode and result"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gdrivetoken_oauth_auth_total counter: %w", err)
	}

	return m, nil
}

// RecordRun records the outcome of a whole run.
// Result should be one of: "success", "failure"
func (m *Metrics) RecordRun(ctx context.Context, result string) {
	if m == nil || m.runsTotal == nil {
		return // Instrumentation not initialized
	}

	m.runsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordStep records the duration and status of a single generator step.
func (m *Metrics) RecordStep(ctx context.Context, step, status string, duration time.Duration) {
	if m == nil || m.stepDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrStep, step),
		attribute.String(attrStatus, status),
	}

	m.stepDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordOAuthAuth records how credentials were obtained and whether it worked.
//
// Parameters:
//   - mode: "stored", "refreshed" or "interactive"
//   - result: StatusSuccess ("success") or StatusError ("error")
func (m *Metrics) RecordOAuthAuth(ctx context.Context, mode, result string) {
	if m == nil || m.oauthAuthTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMode, mode),
		attribute.String(attrResult, result),
	}

	m.oauthAuthTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}
