package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "github.com/kbukum/lazyseq/errors"
	"github.com/kbukum/lazyseq/validation"
)

func newTestMetrics(t *testing.T) (*StageMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewStageMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewStageMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestStageMetrics_RecordPull(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordPull(ctx, "source", true)
	m.RecordPull(ctx, "source", true)
	m.RecordPull(ctx, "source", false)
	m.RecordPull(ctx, "0:filter", true)

	got := collect(t, reader)
	sum, ok := got[MetricStagePulls].Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected int64 sum for %s, got %T", MetricStagePulls, got[MetricStagePulls].Data)
	}

	counts := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		stage, _ := dp.Attributes.Value(attribute.Key(AttrStage))
		produced, _ := dp.Attributes.Value(attribute.Key("produced"))
		key := stage.AsString()
		if produced.AsBool() {
			key += "+"
		}
		counts[key] += dp.Value
	}
	if counts["source+"] != 2 || counts["source"] != 1 || counts["0:filter+"] != 1 {
		t.Errorf("unexpected pull counts %v", counts)
	}
}

func TestStageMetrics_RecordMaterialize(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordMaterialize(ctx, "lazy", 10*time.Millisecond, nil)
	m.RecordMaterialize(ctx, "eager", 20*time.Millisecond, errors.New("boom"))

	got := collect(t, reader)
	hist, ok := got[MetricMaterializeDuration].Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("expected float64 histogram, got %T", got[MetricMaterializeDuration].Data)
	}
	var observations uint64
	for _, dp := range hist.DataPoints {
		observations += dp.Count
	}
	if observations != 2 {
		t.Errorf("expected 2 observations, got %d", observations)
	}

	failures, ok := got[MetricMaterializeFailures].Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected int64 sum for failures, got %T", got[MetricMaterializeFailures].Data)
	}
	if len(failures.DataPoints) != 1 || failures.DataPoints[0].Value != 1 {
		t.Errorf("expected a single failure, got %+v", failures.DataPoints)
	}
	mode, _ := failures.DataPoints[0].Attributes.Value(attribute.Key(AttrMode))
	if mode.AsString() != "eager" {
		t.Errorf("failure mode = %q, want eager", mode.AsString())
	}
}

func TestSetSpanError(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), SpanMaterialize)
	SetSpanError(ctx, errors.New("stage failed"))
	span.End()

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", spans[0].Status().Code)
	}
	if len(spans[0].Events()) == 0 {
		t.Error("expected the error to be recorded as an event")
	}
}

func TestSetSpanError_NoSpan(t *testing.T) {
	// No span in context: must not panic.
	SetSpanError(context.Background(), errors.New("ignored"))
}

func TestInitDisabled(t *testing.T) {
	ctx := context.Background()
	tp, err := InitTracer(ctx, Config{}, "lazyseq", "test")
	if err != nil {
		t.Fatalf("InitTracer: %v", err)
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	mp, err := InitMeter(ctx, Config{}, "lazyseq", "test")
	if err != nil {
		t.Fatalf("InitMeter: %v", err)
	}
	defer func() { _ = mp.Shutdown(ctx) }()

	m, err := NewStageMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewStageMetrics: %v", err)
	}
	m.RecordPull(ctx, "source", true)
	m.RecordMaterialize(ctx, "lazy", time.Millisecond, nil)
}

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("endpoint = %q", cfg.Endpoint)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("interval = %s", cfg.Interval)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("sample rate = %v", cfg.SampleRate)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{SampleRate: 1}, false},
		{"half sampled", Config{SampleRate: 0.5, Interval: time.Second}, false},
		{"rate above one", Config{SampleRate: 1.5}, true},
		{"negative rate", Config{SampleRate: -0.1}, true},
		{"negative interval", Config{SampleRate: 1, Interval: -time.Second}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestConfig_ValidateReportsEveryField(t *testing.T) {
	err := (&Config{SampleRate: 2, Interval: -time.Second}).Validate()
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != apperrors.ErrCodeInvalidInput {
		t.Errorf("code = %s", appErr.Code)
	}
	fields, _ := appErr.Details["fields"].([]validation.FieldError)
	if len(fields) != 2 {
		t.Fatalf("expected 2 field errors, got %v", appErr.Details["fields"])
	}
	if fields[0].Field != "observability.sample_rate" || fields[1].Field != "observability.interval" {
		t.Errorf("unexpected fields %+v", fields)
	}
}
