package demo

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/lazyseq/logger"
	"github.com/kbukum/lazyseq/observability"
	"github.com/kbukum/lazyseq/sequence"
)

// Report describes one finished run.
type Report struct {
	RunID       string        `json:"run_id"`
	Mode        string        `json:"mode"`
	Printed     []int         `json:"printed"`
	Result      []int         `json:"result"`
	SourcePulls int           `json:"source_pulls"`
	Elapsed     time.Duration `json:"elapsed_ns"`
}

// Comparison holds the same scenario run under both modes.
type Comparison struct {
	Lazy  *Report `json:"lazy"`
	Eager *Report `json:"eager"`
}

// Option configures a run.
type Option func(*options)

type options struct {
	log *logger.Logger
	rec sequence.Recorder
}

// WithLogger sets the logger passed to the chain.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithRecorder adds a recorder, e.g. observability.StageMetrics, next to the
// run's own pull counter.
func WithRecorder(rec sequence.Recorder) Option {
	return func(o *options) { o.rec = rec }
}

func buildOptions(opts []Option) options {
	o := options{log: logger.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Run evaluates sc in its own mode, printing every transformed value to out
// at the moment the transform runs. An empty mode means lazy; "both" is
// rejected, use Compare.
func Run(ctx context.Context, sc Scenario, out io.Writer, opts ...Option) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	mode, err := sequence.ParseMode(defaultMode(sc.Mode))
	if err != nil {
		return nil, err
	}
	return run(ctx, sc, mode, out, buildOptions(opts))
}

// Compare evaluates sc lazily and then eagerly. Each run's output goes to
// its own labelled line.
func Compare(ctx context.Context, sc Scenario, out io.Writer, opts ...Option) (*Comparison, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if out == nil {
		out = io.Discard
	}
	o := buildOptions(opts)

	var cmp Comparison
	for _, mode := range []sequence.Mode{sequence.Lazy, sequence.Eager} {
		fmt.Fprintf(out, "%s: ", mode)
		report, err := run(ctx, sc, mode, out, o)
		fmt.Fprintln(out)
		if err != nil {
			return nil, err
		}
		if mode == sequence.Eager {
			cmp.Eager = report
		} else {
			cmp.Lazy = report
		}
	}
	return &cmp, nil
}

// Evaluate dispatches on sc.Mode, returning a *Report or, for "both", a
// *Comparison.
func Evaluate(ctx context.Context, sc Scenario, out io.Writer, opts ...Option) (any, error) {
	if sc.Mode == ModeBoth {
		return Compare(ctx, sc, out, opts...)
	}
	return Run(ctx, sc, out, opts...)
}

func run(ctx context.Context, sc Scenario, mode sequence.Mode, out io.Writer, o options) (*Report, error) {
	if out == nil {
		out = io.Discard
	}
	ctx, span := observability.StartSpan(ctx, observability.SpanEvaluate)
	defer span.End()

	report := &Report{
		RunID:   uuid.NewString(),
		Mode:    mode.String(),
		Printed: make([]int, 0),
	}
	pulls := &sourceCounter{next: o.rec}

	chain := sequence.NewChain(sc.Source,
		sequence.WithMode(mode),
		sequence.WithLogger(o.log),
		sequence.WithRecorder(pulls),
		sequence.WithRunID(report.RunID),
	).
		Filter(func(v int) bool { return v > sc.Threshold }).
		Map(func(_ context.Context, v int) (int, error) { return v * sc.Factor, nil }).
		Map(func(_ context.Context, v int) (int, error) {
			if _, err := fmt.Fprint(out, v); err != nil {
				return v, err
			}
			report.Printed = append(report.Printed, v)
			return v, nil
		}).
		Take(sc.Take)

	elapsed, err := Stopwatch(func() error {
		var err error
		report.Result, err = chain.ToList(ctx)
		return err
	})
	report.Elapsed = elapsed
	report.SourcePulls = pulls.produced
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}

	o.log.Debug("scenario finished", logger.Fields(
		logger.FieldRunID, report.RunID,
		logger.FieldMode, report.Mode,
		"printed", len(report.Printed),
		"source_pulls", report.SourcePulls,
		logger.FieldDuration, elapsed.Milliseconds(),
	))
	return report, nil
}

func defaultMode(mode string) string {
	if mode == "" {
		return sequence.ModeLazy
	}
	return mode
}

// sourceCounter counts values produced by the chain source and forwards
// every event to next.
type sourceCounter struct {
	produced int
	next     sequence.Recorder
}

func (c *sourceCounter) RecordPull(ctx context.Context, stage string, produced bool) {
	if stage == sequence.SourceStage && produced {
		c.produced++
	}
	if c.next != nil {
		c.next.RecordPull(ctx, stage, produced)
	}
}

func (c *sourceCounter) RecordMaterialize(ctx context.Context, mode string, d time.Duration, err error) {
	if mr, ok := c.next.(sequence.MaterializeRecorder); ok {
		mr.RecordMaterialize(ctx, mode, d, err)
	}
}
