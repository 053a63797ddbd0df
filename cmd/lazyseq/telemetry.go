package main

import (
	"context"
	"errors"

	"github.com/kbukum/lazyseq/logger"
	"github.com/kbukum/lazyseq/observability"
	"github.com/kbukum/lazyseq/version"
)

type telemetry struct {
	metrics   *observability.StageMetrics
	shutdowns []func(context.Context) error
}

// setupTelemetry starts tracing and metrics export. With observability
// disabled it returns no metrics and nothing to flush.
func setupTelemetry(ctx context.Context, cfg observability.Config) (*telemetry, error) {
	tel := &telemetry{}
	if !cfg.Enabled {
		return tel, nil
	}

	tp, err := observability.InitTracer(ctx, cfg, serviceName, version.Short())
	if err != nil {
		return nil, err
	}
	tel.shutdowns = append(tel.shutdowns, tp.Shutdown)

	mp, err := observability.InitMeter(ctx, cfg, serviceName, version.Short())
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	tel.shutdowns = append(tel.shutdowns, mp.Shutdown)

	tel.metrics, err = observability.NewStageMetrics(observability.Meter(serviceName))
	if err != nil {
		_ = tel.flush(ctx)
		return nil, err
	}
	return tel, nil
}

func (t *telemetry) flush(ctx context.Context) error {
	var errs []error
	for _, fn := range t.shutdowns {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}

func (t *telemetry) shutdown(ctx context.Context, log *logger.Logger) {
	if err := t.flush(ctx); err != nil {
		log.Warn("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
	}
}
