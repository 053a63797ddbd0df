// Package observability wires OpenTelemetry tracing and metrics into
// sequence evaluation.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, cfg, "lazyseq", version.Short())
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanMaterialize)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, cfg, "lazyseq", version.Short())
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewStageMetrics(observability.Meter("lazyseq"))
//	chain := sequence.NewChain(src, sequence.WithRecorder(metrics))
package observability
