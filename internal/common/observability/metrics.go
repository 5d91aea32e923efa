package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Observability bundles the meter used for submission instruments and the
// tracer used for stage spans.
type Observability struct {
	meterProvider      *metric.MeterProvider
	tracerProvider     *sdktrace.TracerProvider
	meter              otelmetric.Meter
	tracer             trace.Tracer
	submissionCounter  otelmetric.Int64Counter
	submissionDuration otelmetric.Float64Histogram
}

// New builds the meter provider and, when tracingEndpoint is set, a Jaeger
// tracer provider. Exporter failures degrade to no-op instruments.
func New(serviceName, tracingEndpoint string) *Observability {
	o := &Observability{tracer: otel.Tracer(serviceName)}

	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
	} else {
		o.meterProvider = metric.NewMeterProvider(metric.WithReader(exporter))
		otel.SetMeterProvider(o.meterProvider)
		o.meter = o.meterProvider.Meter(serviceName)

		o.submissionCounter, _ = o.meter.Int64Counter(
			"submissions.processed",
			otelmetric.WithDescription("Number of audit submissions processed"),
		)
		o.submissionDuration, _ = o.meter.Float64Histogram(
			"submissions.duration",
			otelmetric.WithDescription("Audit submission duration"),
			otelmetric.WithUnit("ms"),
		)
	}

	if tracingEndpoint != "" {
		traceExporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(tracingEndpoint)))
		if err != nil {
			log.Printf("Failed to create Jaeger exporter: %v", err)
		} else {
			o.tracerProvider = sdktrace.NewTracerProvider(sdktrace.WithBatcher(traceExporter))
			otel.SetTracerProvider(o.tracerProvider)
			o.tracer = o.tracerProvider.Tracer(serviceName)
		}
	}

	return o
}

// NewWithTracer wraps an existing tracer and records no metrics.
func NewWithTracer(tracer trace.Tracer) *Observability {
	return &Observability{tracer: tracer}
}

// StartSpan opens a span named name under ctx.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return noop.NewTracerProvider().Tracer("").Start(ctx, name)
	}
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordSubmission(ctx context.Context, status string) {
	if o != nil && o.submissionCounter != nil {
		o.submissionCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordSubmissionDuration(ctx context.Context, duration time.Duration, status string) {
	if o != nil && o.submissionDuration != nil {
		o.submissionDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
}
