package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the gdrivetoken package.
const TracerName = "github.com/teemow/gdrivetoken"

// Span attribute keys.
const (
	// SpanAttrStep is the generator step attribute.
	SpanAttrStep = "gdrivetoken.step"

	// SpanAttrOutputFolder is the output folder of the run.
	SpanAttrOutputFolder = "gdrivetoken.output_folder"

	// SpanAttrAuthMode tells how credentials were obtained.
	SpanAttrAuthMode = "oauth.mode"
)

// StartSpan starts a new span with the given name and attributes.
// The caller is responsible for ending the span with defer span.End().
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartStepSpan starts a span for one generator step.
func StartStepSpan(ctx context.Context, step string) (context.Context, trace.Span) {
	return StartSpan(ctx, "generator."+step, attribute.String(SpanAttrStep, step))
}

// SetSpanError records an error on the span and sets the status to error.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// EndSpan sets the span status from err and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		SetSpanError(span, err)
	} else {
		SetSpanSuccess(span)
	}
	span.End()
}
