package observability

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"

	"github.com/cryptium/loginshield-go/logger"
)

// ShutdownFunc flushes and stops the providers installed by Setup.
type ShutdownFunc func(ctx context.Context) error

// Setup installs OTLP HTTP tracer and meter providers for serviceName
// exporting to endpoint. An empty endpoint installs nothing and returns a
// no-op shutdown. Export errors and shutdown failures go to the global
// logger.
func Setup(ctx context.Context, serviceName, endpoint string, insecure bool) (ShutdownFunc, error) {
	if endpoint == "" {
		logger.Debug("telemetry disabled", logger.Fields(AttrServiceName, serviceName))
		return func(context.Context) error { return nil }, nil
	}
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		logger.Error("telemetry export failed", logger.ErrorFields(err))
	}))

	tcfg := DefaultTracerConfig(serviceName)
	tcfg.Endpoint = endpoint
	tcfg.Insecure = insecure
	tp, err := InitTracer(ctx, tcfg)
	if err != nil {
		return nil, err
	}

	mcfg := DefaultMeterConfig(serviceName)
	mcfg.Endpoint = endpoint
	mcfg.Insecure = insecure
	mp, err := InitMeter(ctx, mcfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return func(ctx context.Context) error {
		err := errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
		if err != nil {
			logger.Warn("telemetry shutdown failed", logger.ErrorFields(err))
		}
		return err
	}, nil
}
