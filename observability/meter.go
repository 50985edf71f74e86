package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/dirge/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (development, staging, production).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it globally.
// The returned provider should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Cache outcomes recorded by RecordResolve.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Factory outcomes recorded by RecordFactoryEnd.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// RegistryMetrics holds the instruments the dependency registry reports to.
type RegistryMetrics struct {
	resolveTotal    metric.Int64Counter
	factoryTotal    metric.Int64Counter
	factoryDuration metric.Float64Histogram
	pendingActive   metric.Int64UpDownCounter
}

// NewRegistryMetrics creates registry instruments on the given meter.
func NewRegistryMetrics(meter metric.Meter) (*RegistryMetrics, error) {
	resolveTotal, err := meter.Int64Counter("di.resolve.total",
		metric.WithDescription("Dependency resolutions by cache outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating di.resolve.total counter: %w", err)
	}

	factoryTotal, err := meter.Int64Counter("di.factory.total",
		metric.WithDescription("Completed factory invocations by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating di.factory.total counter: %w", err)
	}

	factoryDuration, err := meter.Float64Histogram("di.factory.duration",
		metric.WithDescription("Time from factory invocation to handle completion"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating di.factory.duration histogram: %w", err)
	}

	pendingActive, err := meter.Int64UpDownCounter("di.pending.active",
		metric.WithDescription("Factory invocations whose handle has not completed yet"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating di.pending.active counter: %w", err)
	}

	return &RegistryMetrics{
		resolveTotal:    resolveTotal,
		factoryTotal:    factoryTotal,
		factoryDuration: factoryDuration,
		pendingActive:   pendingActive,
	}, nil
}

// RecordResolve counts a resolution, tagged hit when a cached handle was returned.
func (m *RegistryMetrics) RecordResolve(ctx context.Context, dependency string, hit bool) {
	cache := CacheMiss
	if hit {
		cache = CacheHit
	}
	m.resolveTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("dependency", dependency),
		attribute.String("cache", cache),
	))
}

// RecordFactoryStart marks a factory invocation as in flight.
func (m *RegistryMetrics) RecordFactoryStart(ctx context.Context, dependency string) {
	m.pendingActive.Add(ctx, 1, metric.WithAttributes(attribute.String("dependency", dependency)))
}

// RecordFactoryEnd records a completed factory invocation.
func (m *RegistryMetrics) RecordFactoryEnd(ctx context.Context, dependency, status string, duration time.Duration) {
	m.pendingActive.Add(ctx, -1, metric.WithAttributes(attribute.String("dependency", dependency)))
	m.factoryTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("dependency", dependency),
		attribute.String("status", status),
	))
	m.factoryDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("dependency", dependency),
	))
}
