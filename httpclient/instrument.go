package httpclient

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/cryptium/loginshield-go/observability"
)

const instrumentationName = "github.com/cryptium/loginshield-go/httpclient"

type instruments struct {
	tracer  trace.Tracer
	metrics *observability.Metrics
}

func newInstruments(tp trace.TracerProvider, mp metric.MeterProvider) (*instruments, error) {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	m, err := observability.NewMetrics(mp.Meter(instrumentationName))
	if err != nil {
		return nil, err
	}
	return &instruments{
		tracer:  tp.Tracer(instrumentationName),
		metrics: m,
	}, nil
}

type endFunc func(ctx context.Context, resp *Response, err error, elapsed time.Duration)

// start opens a client span for req and injects the trace context into its
// headers. The returned func must be called exactly once.
func (i *instruments) start(ctx context.Context, req *http.Request) (context.Context, endFunc) {
	ctx, span := i.tracer.Start(ctx, "HTTP "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(observability.AttrHTTPMethod, req.Method),
			attribute.String(observability.AttrServerAddress, req.URL.Host),
			attribute.String(observability.AttrURLPath, req.URL.Path),
		),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	i.metrics.RecordRequestStart(ctx)

	return ctx, func(ctx context.Context, resp *Response, err error, elapsed time.Duration) {
		defer span.End()

		status := "ok"
		if resp != nil {
			span.SetAttributes(attribute.Int(observability.AttrHTTPStatusCode, resp.StatusCode))
		}
		if err != nil {
			status = "unknown"
			if code, ok := CodeOf(err); ok {
				status = code.String()
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			i.metrics.RecordError(ctx, status, "httpclient")
		}
		i.metrics.RecordRequestEnd(ctx, req.URL.Path, req.Method, status, elapsed)
	}
}
