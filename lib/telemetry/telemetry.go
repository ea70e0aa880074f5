package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

// Telemetry holds the providers installed by Setup, either is nil when its
// signal is not configured.
type Telemetry struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

func (t Telemetry) Shutdown(ctx context.Context) error {
	errlist := []error{}
	if t.TracerProvider != nil {
		errlist = append(errlist, t.TracerProvider.Shutdown(ctx))
	}
	if t.MeterProvider != nil {
		errlist = append(errlist, t.MeterProvider.Shutdown(ctx))
	}
	return errors.Join(errlist...)
}

// Setup builds the OTLP exporters named in config and installs them as the
// global otel providers. A signal without a protocol stays on the global
// no-op provider.
func Setup(ctx context.Context, service Service, config Config) (Telemetry, error) {
	err := errors.Join(config.Traces.validate("traces"), config.Metrics.validate("metrics"))
	if err != nil {
		return Telemetry{}, err
	}
	if !config.Enabled() {
		slog.Debug("no otlp exporter configured, otel export disabled")
		return Telemetry{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	var (
		spans  trace.SpanExporter
		reader metric.Reader
	)
	if config.Traces.Enabled() {
		spans, err = newSpanExporter(ctx, config.Traces)
		if err != nil {
			return Telemetry{}, err
		}
	}
	if config.Metrics.Enabled() {
		exporter, err := newMetricExporter(ctx, config.Metrics)
		if err != nil {
			return Telemetry{}, err
		}
		reader = metric.NewPeriodicReader(exporter, metric.WithInterval(config.metricInterval()))
	}

	r, err := newResource(service, config)
	if err != nil {
		return Telemetry{}, err
	}
	return install(r, spans, reader), nil
}

func install(r *resource.Resource, spans trace.SpanExporter, reader metric.Reader) Telemetry {
	var out Telemetry
	if spans != nil {
		out.TracerProvider = trace.NewTracerProvider(
			trace.WithBatcher(spans),
			trace.WithResource(r),
		)
		otel.SetTracerProvider(out.TracerProvider)
	}
	if reader != nil {
		out.MeterProvider = metric.NewMeterProvider(
			metric.WithReader(reader),
			metric.WithResource(r),
		)
		otel.SetMeterProvider(out.MeterProvider)
	}
	return out
}
