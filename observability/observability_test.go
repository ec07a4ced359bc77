package observability

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/cryptium/loginshield-go/logger"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
	if cfg.ServiceVersion == "" {
		t.Error("expected ServiceVersion to be set")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestNewMetrics_Noop(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := NewMetrics(meter)
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordRequestStart(ctx)
	metrics.RecordRequestEnd(ctx, "/service/realm", "GET", "ok", 100*time.Millisecond)
	metrics.RecordError(ctx, "connection", "httpclient")
}

func TestMetrics_Recorded(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	metrics.RecordRequestStart(ctx)
	metrics.RecordRequestEnd(ctx, "/service/realm/login/verify", "POST", "ok", 20*time.Millisecond)
	metrics.RecordRequestStart(ctx)
	metrics.RecordRequestEnd(ctx, "/service/realm/login/verify", "POST", "server", 30*time.Millisecond)
	metrics.RecordError(ctx, "server", "httpclient")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	sums := map[string]int64{}
	seen := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			seen[m.Name] = true
			if s, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range s.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}

	if sums[MetricRequests] != 2 {
		t.Errorf("expected 2 requests, got %d", sums[MetricRequests])
	}
	if sums[MetricRequestsActive] != 0 {
		t.Errorf("expected 0 active requests, got %d", sums[MetricRequestsActive])
	}
	if sums[MetricErrors] != 1 {
		t.Errorf("expected 1 error, got %d", sums[MetricErrors])
	}
	if !seen[MetricRequestDuration] {
		t.Errorf("expected %s to be recorded", MetricRequestDuration)
	}
}

func TestTracer(t *testing.T) {
	if Tracer("test-tracer") == nil {
		t.Fatal("expected non-nil tracer")
	}
}

func TestMeter(t *testing.T) {
	if Meter("test-meter") == nil {
		t.Fatal("expected non-nil meter")
	}
}

func TestStartSpan_SetSpanError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	ctx, span := StartSpan(context.Background(), "loginshield.verify")
	SetSpanError(ctx, fmt.Errorf("boom"))
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "loginshield.verify" {
		t.Errorf("expected span name 'loginshield.verify', got %q", spans[0].Name())
	}
	if len(spans[0].Events()) != 1 {
		t.Errorf("expected 1 error event, got %d", len(spans[0].Events()))
	}
	if spans[0].Status().Code != codes.Error || spans[0].Status().Description != "boom" {
		t.Errorf("unexpected span status %+v", spans[0].Status())
	}
}

func TestSetSpanErrorNoSpan(t *testing.T) {
	// Should not panic with background context
	SetSpanError(context.Background(), fmt.Errorf("no span error"))
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := samplerFor(tc.rate).Description(); got != tc.want {
				t.Errorf("samplerFor(%v) = %q, want %q", tc.rate, got, tc.want)
			}
		})
	}
	if got := samplerFor(0.5).Description(); got == "AlwaysOnSampler" || got == "AlwaysOffSampler" {
		t.Errorf("expected ratio sampler, got %q", got)
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("loginshield", "v1.2.3", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := map[string]string{}
	for _, kv := range res.Attributes() {
		found[string(kv.Key)] = kv.Value.Emit()
	}
	if found[AttrServiceName] != "loginshield" {
		t.Errorf("expected service.name 'loginshield', got %q", found[AttrServiceName])
	}
	if found[AttrServiceVersion] != "v1.2.3" {
		t.Errorf("expected service.version 'v1.2.3', got %q", found[AttrServiceVersion])
	}
	if found[AttrEnvironment] != "test" {
		t.Errorf("expected environment 'test', got %q", found[AttrEnvironment])
	}
}

func TestInitTracer(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	cfg := DefaultTracerConfig("test-service")
	tp, err := InitTracer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = tp.Shutdown(ctx)
}

func TestInitMeter(t *testing.T) {
	prev := otel.GetMeterProvider()
	defer otel.SetMeterProvider(prev)

	cfg := DefaultMeterConfig("test-service")
	cfg.Insecure = false
	cfg.Interval = 0
	mp, err := InitMeter(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = mp.Shutdown(ctx)
}

// captureGlobalLog swaps the global logger for a debug-level JSON logger
// writing to the returned buffer.
func captureGlobalLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := logger.GetGlobalLogger()
	t.Cleanup(func() { logger.SetGlobalLogger(prev) })
	var buf bytes.Buffer
	logger.SetGlobalLogger(logger.NewWithWriter(&buf, &logger.Config{Level: "debug", Format: "json"}, "test"))
	return &buf
}

func TestSetup_EmptyEndpoint(t *testing.T) {
	buf := captureGlobalLog(t)

	shutdown, err := Setup(context.Background(), "loginshield", "", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("expected nil shutdown error, got %v", err)
	}
	if !strings.Contains(buf.String(), "telemetry disabled") {
		t.Errorf("expected disabled telemetry to be logged, got %q", buf.String())
	}
}

func TestSetup_WithEndpoint(t *testing.T) {
	prevTP := otel.GetTracerProvider()
	prevMP := otel.GetMeterProvider()
	defer func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
	}()

	shutdown, err := Setup(context.Background(), "loginshield", "127.0.0.1:1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected shutdown func")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	// Export to an unreachable collector may fail on flush.
	_ = shutdown(ctx)
}

func TestSetup_ErrorHandlerLogs(t *testing.T) {
	prevTP := otel.GetTracerProvider()
	prevMP := otel.GetMeterProvider()
	defer func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
	}()
	buf := captureGlobalLog(t)

	shutdown, err := Setup(context.Background(), "loginshield", "127.0.0.1:1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = shutdown(ctx)
	}()

	otel.Handle(errors.New("exporter unavailable"))

	out := buf.String()
	if !strings.Contains(out, "telemetry export failed") || !strings.Contains(out, "exporter unavailable") {
		t.Errorf("expected export error to be logged, got %q", out)
	}
}
