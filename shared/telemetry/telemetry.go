// Package telemetry wires OpenTelemetry for the fulfillment services.
// Traces batch to an OTLP collector; metrics are pushed to the same
// collector and simultaneously exposed through the Prometheus registry
// each service serves on /metrics.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	metricSDK "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	traceSDK "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	metricPushInterval = 30 * time.Second
	shutdownTimeout    = 5 * time.Second
)

// Config identifies a service to the telemetry backends
type Config struct {
	ServiceName    string
	ServiceVersion string
	OTLPEndpoint   string
}

// Telemetry carries one service's tracer and meter. It travels through
// the request context so use cases can open spans and record metrics
// without holding a reference to it.
type Telemetry struct {
	service string
	tracer  trace.Tracer
	meter   metric.Meter
}

// InitTelemetry installs the global providers and returns a shutdown
// func that flushes and stops both pipelines.
func InitTelemetry(ctx context.Context, config Config) (*Telemetry, func(), error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	traceProvider, err := newTraceProvider(ctx, res, config.OTLPEndpoint)
	if err != nil {
		return nil, nil, err
	}

	meterProvider, err := newMeterProvider(ctx, res, config.OTLPEndpoint)
	if err != nil {
		stopProvider(traceProvider.Shutdown)
		return nil, nil, err
	}

	otel.SetTracerProvider(traceProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	tel := &Telemetry{
		service: config.ServiceName,
		tracer:  otel.Tracer(config.ServiceName),
		meter:   otel.Meter(config.ServiceName),
	}

	shutdown := func() {
		stopProvider(traceProvider.Shutdown)
		stopProvider(meterProvider.Shutdown)
	}

	return tel, shutdown, nil
}

func newTraceProvider(ctx context.Context, res *resource.Resource, endpoint string) (*traceSDK.TracerProvider, error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	return traceSDK.NewTracerProvider(
		traceSDK.WithBatcher(exporter),
		traceSDK.WithResource(res),
		traceSDK.WithSampler(traceSDK.AlwaysSample()),
	), nil
}

// newMeterProvider registers two readers: the Prometheus exporter pulls
// through the default registry, the OTLP exporter pushes periodically
func newMeterProvider(ctx context.Context, res *resource.Resource, endpoint string) (*metricSDK.MeterProvider, error) {
	pull, err := prometheus.New()
	if err != nil {
		return nil, err
	}

	push, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(endpoint),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	return metricSDK.NewMeterProvider(
		metricSDK.WithResource(res),
		metricSDK.WithReader(pull),
		metricSDK.WithReader(metricSDK.NewPeriodicReader(push,
			metricSDK.WithInterval(metricPushInterval),
		)),
	), nil
}

func stopProvider(stop func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	stop(ctx)
}

// StartSpan opens a span on this instance's tracer
func (t *Telemetry) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

type contextKey struct{}

// WithTelemetry attaches the telemetry instance to the context
func WithTelemetry(ctx context.Context, tel *Telemetry) context.Context {
	return context.WithValue(ctx, contextKey{}, tel)
}

// FromContext returns the attached telemetry instance, or nil
func FromContext(ctx context.Context) *Telemetry {
	tel, _ := ctx.Value(contextKey{}).(*Telemetry)
	return tel
}

// StartSpan opens a span on the context's telemetry. Without one (unit
// tests, event consumers started before the middleware) it falls back
// to the global tracer, which is a no-op until providers are installed.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if tel := FromContext(ctx); tel != nil {
		return tel.StartSpan(ctx, name, opts...)
	}
	return otel.Tracer("fulfillment").Start(ctx, name, opts...)
}

func meterFor(ctx context.Context) metric.Meter {
	if tel := FromContext(ctx); tel != nil {
		return tel.meter
	}
	return otel.Meter("fulfillment")
}

func serviceFor(ctx context.Context) string {
	if tel := FromContext(ctx); tel != nil {
		return tel.service
	}
	return "unknown"
}

// RecordCounter increments a named counter, tagging it with the
// owning service
func RecordCounter(ctx context.Context, name, description string, value int64, attrs ...attribute.KeyValue) {
	counter, err := meterFor(ctx).Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return
	}

	attrs = append(attrs, attribute.String("service", serviceFor(ctx)))
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

// RecordHistogram records a named histogram observation, tagging it
// with the owning service
func RecordHistogram(ctx context.Context, name, description string, value float64, attrs ...attribute.KeyValue) {
	histogram, err := meterFor(ctx).Float64Histogram(name, metric.WithDescription(description))
	if err != nil {
		return
	}

	attrs = append(attrs, attribute.String("service", serviceFor(ctx)))
	histogram.Record(ctx, value, metric.WithAttributes(attrs...))
}
