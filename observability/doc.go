// Package observability exports registry activity as OpenTelemetry spans
// and metrics.
//
// Applications normally call Setup once, which installs OTLP/HTTP trace and
// metric providers when telemetry is enabled and no-ops otherwise:
//
//	shutdown, err := observability.Setup(ctx, cfg.Telemetry, "dirge-demo", "0.1.0", "development")
//	defer shutdown(ctx)
//
// A registry then reports factory runs as spans and counts resolutions:
//
//	metrics, err := observability.NewRegistryMetrics(observability.Meter("dirge/di"))
//	reg := di.New(di.WithTracing(true), di.WithMetrics(metrics))
package observability
