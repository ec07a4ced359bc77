// Package observability provides OpenTelemetry tracing and metrics setup
// for the LoginShield SDK and CLI.
//
// The httpclient package records a span and request metrics for every call
// through whatever providers are registered globally. This package installs
// OTLP HTTP backed providers for those globals.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("loginshield"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("loginshield"))
//	defer mp.Shutdown(ctx)
//
// Both at once:
//
//	shutdown, err := observability.Setup(ctx, "loginshield", "localhost:4318", true)
//	defer shutdown(ctx)
package observability
