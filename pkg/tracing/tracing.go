// Package tracing configures the OpenTelemetry tracer provider. Tracing is
// entirely optional: without an exporter endpoint the service runs with the
// default no-op provider and zero overhead beyond the otelgin middleware.
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/campuspathway/leads-api/pkg/logger"
)

var tracer trace.Tracer

// InitTracer sets up the global tracer provider against an OTLP/HTTP
// collector and returns its shutdown function. With no endpoint configured
// it returns a no-op shutdown and leaves the default provider in place.
func InitTracer(serviceName, serviceNamespace, serviceVersion, serviceInstanceID, environment, exporterEndpoint string) (func(context.Context) error, error) {
	if exporterEndpoint == "" {
		logger.Info("Tracing disabled: O11Y_EXPORTER_ENDPOINT not set")
		return func(context.Context) error { return nil }, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Collector sits on the internal network, plain HTTP
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(exporterEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := serviceResource(ctx, serviceName, serviceNamespace, serviceVersion, serviceInstanceID, environment)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		// Batched export with bounded queue and timeouts: a slow or dead
		// collector drops spans instead of blocking requests.
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter,
			sdktrace.WithBatchTimeout(2*time.Second),
			sdktrace.WithExportTimeout(5*time.Second),
			sdktrace.WithMaxQueueSize(2048),
			sdktrace.WithMaxExportBatchSize(512),
		)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	tracer = tp.Tracer(serviceName)

	logger.Info("OpenTelemetry tracer initialized",
		zap.String("service", serviceName),
		zap.String("environment", environment),
		zap.String("endpoint", exporterEndpoint))

	return tp.Shutdown, nil
}

func serviceResource(ctx context.Context, name, namespace, version, instanceID, environment string) (*resource.Resource, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(name),
			semconv.ServiceNamespace(namespace),
			semconv.ServiceVersion(version),
			semconv.ServiceInstanceID(instanceID),
			attribute.String("deployment.environment.name", environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

// Tracer returns the service tracer. Nil before InitTracer has run with an
// endpoint configured; use StartSpan for a safe wrapper.
func Tracer() trace.Tracer {
	return tracer
}

// StartSpan starts a span on the service tracer, degrading to the span
// already on the context when tracing is not initialized.
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, spanName)
}
