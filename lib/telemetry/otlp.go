package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	ProtocolGrpc = "grpc"
	ProtocolHttp = "http"
)

const DefaultMetricInterval = time.Second * 5

// Exporter is where one signal is sent, an empty Protocol leaves the
// signal disabled.
type Exporter struct {
	Protocol string            `json:"protocol"`
	Endpoint string            `json:"endpoint"`
	Headers  map[string]string `json:"headers"`
}

func (e Exporter) Enabled() bool {
	return e.Protocol != ""
}

func (e Exporter) validate(signal string) error {
	switch e.Protocol {
	case "", ProtocolGrpc, ProtocolHttp:
	default:
		return fmt.Errorf("%s: unknown otlp protocol %q", signal, e.Protocol)
	}
	if e.Enabled() && e.Endpoint == "" {
		return fmt.Errorf("%s: otlp endpoint is required", signal)
	}
	return nil
}

// Config is the `telemetry` section of cmsdata.json5.
type Config struct {
	// Environment is reported as deployment.environment (ex. "dev").
	Environment           string   `json:"environment"`
	Traces                Exporter `json:"traces"`
	Metrics               Exporter `json:"metrics"`
	MetricIntervalSeconds float64  `json:"metric_interval_seconds"`
}

func (c Config) Enabled() bool {
	return c.Traces.Enabled() || c.Metrics.Enabled()
}

func (c Config) metricInterval() time.Duration {
	if c.MetricIntervalSeconds <= 0 {
		return DefaultMetricInterval
	}
	return time.Duration(c.MetricIntervalSeconds * float64(time.Second))
}

// Service identifies the process every span and metric is attributed to.
type Service struct {
	Name    string
	Version string
}

func newResource(service Service, config Config) (*resource.Resource, error) {
	attrs := []resource.Option{
		resource.WithSchemaURL(semconv.SchemaURL),
		resource.WithAttributes(
			semconv.ServiceName(service.Name),
			semconv.ServiceInstanceID(uuid.NewString()),
		),
	}
	if service.Version != "" {
		attrs = append(attrs, resource.WithAttributes(semconv.ServiceVersion(service.Version)))
	}
	if config.Environment != "" {
		attrs = append(attrs, resource.WithAttributes(semconv.DeploymentEnvironment(config.Environment)))
	}

	r, err := resource.New(context.Background(), attrs...)
	if err != nil {
		return nil, err
	}
	return resource.Merge(resource.Default(), r)
}

func newSpanExporter(ctx context.Context, e Exporter) (trace.SpanExporter, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	slog.Info(
		"trace exporter initialized",
		"type", e.Protocol,
		"endpoint", e.Endpoint,
		"headers", len(e.Headers) > 0,
	)
	if e.Protocol == ProtocolGrpc {
		return otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(e.Endpoint),
			otlptracegrpc.WithHeaders(e.Headers),
		)
	}
	return otlptracehttp.New(
		ctx,
		otlptracehttp.WithEndpointURL(e.Endpoint),
		otlptracehttp.WithHeaders(e.Headers),
	)
}

func newMetricExporter(ctx context.Context, e Exporter) (metric.Exporter, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	slog.Info(
		"metric exporter initialized",
		"type", e.Protocol,
		"endpoint", e.Endpoint,
		"headers", len(e.Headers) > 0,
	)
	if e.Protocol == ProtocolGrpc {
		return otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(e.Endpoint),
			otlpmetricgrpc.WithHeaders(e.Headers),
		)
	}
	return otlpmetrichttp.New(
		ctx,
		otlpmetrichttp.WithEndpointURL(e.Endpoint),
		otlpmetrichttp.WithHeaders(e.Headers),
	)
}
