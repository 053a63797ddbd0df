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

	"github.com/kbukum/lazyseq/logger"
)

// Metric names.
const (
	MetricStagePulls          = "sequence.stage.pulls"
	MetricMaterializeDuration = "sequence.materialize.duration"
	MetricMaterializeFailures = "sequence.materialize.failures"
)

// InitMeter installs a global meter provider exporting over OTLP/HTTP.
// The returned provider must be shut down on exit. When cfg is disabled it
// returns a provider with no reader and leaves the global untouched.
func InitMeter(ctx context.Context, cfg Config, serviceName, serviceVersion string) (*sdkmetric.MeterProvider, error) {
	if !cfg.Enabled {
		return sdkmetric.NewMeterProvider(), nil
	}

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(serviceName, serviceVersion)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", serviceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// StageMetrics records per-stage pulls and materialization timings. It
// satisfies sequence.Recorder and sequence.MaterializeRecorder.
type StageMetrics struct {
	pulls    metric.Int64Counter
	duration metric.Float64Histogram
	failures metric.Int64Counter
}

// NewStageMetrics creates the instruments on meter.
func NewStageMetrics(meter metric.Meter) (*StageMetrics, error) {
	pulls, err := meter.Int64Counter(MetricStagePulls,
		metric.WithDescription("Pulls answered by a sequence stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricStagePulls, err)
	}

	duration, err := meter.Float64Histogram(MetricMaterializeDuration,
		metric.WithDescription("Duration of chain materialization in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricMaterializeDuration, err)
	}

	failures, err := meter.Int64Counter(MetricMaterializeFailures,
		metric.WithDescription("Chain materializations that ended with an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricMaterializeFailures, err)
	}

	return &StageMetrics{pulls: pulls, duration: duration, failures: failures}, nil
}

// RecordPull counts one pull served by stage.
func (m *StageMetrics) RecordPull(ctx context.Context, stage string, produced bool) {
	m.pulls.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrStage, stage),
		attribute.Bool("produced", produced),
	))
}

// RecordMaterialize records one finished materialization.
func (m *StageMetrics) RecordMaterialize(ctx context.Context, mode string, d time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String(AttrMode, mode))
	m.duration.Record(ctx, d.Seconds(), attrs)
	if err != nil {
		m.failures.Add(ctx, 1, attrs)
	}
}
