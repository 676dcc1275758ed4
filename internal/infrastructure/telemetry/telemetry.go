// Package telemetry wires OpenTelemetry traces, metrics and logs, plus
// Pyroscope continuous profiling, for the supply chain service.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/supplychain/internal/infrastructure/config"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// Config holds the exporter settings shared by all signals
type Config struct {
	Enabled           bool
	CollectorEndpoint string
	Insecure          bool
	ServiceName       string
	ServiceVersion    string
	Environment       string
	SamplingRatio     float64
	MetricsInterval   time.Duration
	LogExport         bool
	Profiling         bool
	ProfilingServer   string
}

// FromConfig maps the application configuration onto telemetry settings
func FromConfig(cfg *config.Config, version string) Config {
	t := cfg.Telemetry
	return Config{
		Enabled:           t.Enabled,
		CollectorEndpoint: t.CollectorEndpoint,
		Insecure:          t.Insecure,
		ServiceName:       t.ServiceName,
		ServiceVersion:    version,
		Environment:       cfg.App.Env,
		SamplingRatio:     t.SamplingRatio,
		MetricsInterval:   t.MetricsInterval,
		LogExport:         t.Enabled && t.LogExportEnabled,
		Profiling:         t.ProfilingEnabled,
		ProfilingServer:   t.ProfilingServer,
	}
}

// Telemetry owns every provider started for the process
type Telemetry struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
}

// Setup starts the profiler first so span profiles can attach to it, then
// the trace, metric and log providers. Disabled signals get no-op providers.
func Setup(ctx context.Context, cfg Config, log *zap.Logger) (*Telemetry, error) {
	t := &Telemetry{}
	var err error

	if t.Profiler, err = NewProfiler(cfg, log); err != nil {
		return nil, err
	}
	if t.Tracer, err = NewTracerProvider(ctx, cfg, log); err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}
	if t.Meter, err = NewMeterProvider(ctx, cfg, log); err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}
	if t.Logs, err = NewLoggerProvider(ctx, cfg, log); err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}
	return t, nil
}

// Shutdown flushes and stops the providers in reverse start order
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.Logs != nil {
		errs = append(errs, t.Logs.Shutdown(ctx))
	}
	if t.Meter != nil {
		errs = append(errs, t.Meter.Shutdown(ctx))
	}
	if t.Tracer != nil {
		errs = append(errs, t.Tracer.Shutdown(ctx))
	}
	if t.Profiler != nil {
		errs = append(errs, t.Profiler.Stop())
	}
	return errors.Join(errs...)
}

func newResource(cfg Config) (*resource.Resource, error) {
	version := cfg.ServiceVersion
	if version == "" {
		version = "dev"
	}
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(version),
			attribute.String("deployment.environment.name", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
