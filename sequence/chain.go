package sequence

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/kbukum/lazyseq/errors"
	"github.com/kbukum/lazyseq/logger"
	"github.com/kbukum/lazyseq/observability"
)

// StageKind names the kind of a chain stage.
type StageKind string

const (
	KindSource StageKind = "source"
	KindFilter StageKind = "filter"
	KindMap    StageKind = "map"
	KindTake   StageKind = "take"
)

// SourceStage is the stage name reported to a Recorder for the chain source.
const SourceStage = string(KindSource)

// Stage is one declarative step of a Chain. Only the field matching Kind is used.
type Stage[T any] struct {
	Kind      StageKind
	Predicate func(T) bool
	Transform func(context.Context, T) (T, error)
	Count     int
}

// Name returns the stage name reported to a Recorder, e.g. "1:map".
func (s Stage[T]) Name(index int) string {
	return fmt.Sprintf("%d:%s", index, s.Kind)
}

// MaterializeRecorder is an optional Recorder extension notified once per
// Chain.ToList.
type MaterializeRecorder interface {
	RecordMaterialize(ctx context.Context, mode string, d time.Duration, err error)
}

// ChainOption configures a Chain.
type ChainOption func(*chainOptions)

type chainOptions struct {
	mode  Mode
	log   *logger.Logger
	rec   Recorder
	runID string
}

// WithMode sets the evaluation mode. The default is Lazy.
func WithMode(m Mode) ChainOption {
	return func(o *chainOptions) { o.mode = m }
}

// WithLogger sets the logger used for materialization events.
func WithLogger(l *logger.Logger) ChainOption {
	return func(o *chainOptions) { o.log = l }
}

// WithRecorder instruments the source and every stage with rec.
func WithRecorder(rec Recorder) ChainOption {
	return func(o *chainOptions) { o.rec = rec }
}

// WithRunID fixes the run id attached to logs and spans. By default every
// ToList call gets a fresh uuid.
func WithRunID(id string) ChainOption {
	return func(o *chainOptions) { o.runID = id }
}

// Chain is an immutable list of filter/map/take stages over a slice source,
// evaluated lazily or eagerly. Builder methods return a new Chain.
type Chain[T any] struct {
	source []T
	stages []Stage[T]
	opts   chainOptions
}

// NewChain creates a chain over a copy of source with no stages.
func NewChain[T any](source []T, opts ...ChainOption) *Chain[T] {
	o := chainOptions{mode: Lazy}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.NewNop()
	}
	return &Chain[T]{source: slices.Clone(source), opts: o}
}

func (c *Chain[T]) with(st Stage[T]) *Chain[T] {
	stages := make([]Stage[T], len(c.stages), len(c.stages)+1)
	copy(stages, c.stages)
	return &Chain[T]{source: c.source, stages: append(stages, st), opts: c.opts}
}

// Filter appends a filter stage.
func (c *Chain[T]) Filter(pred func(T) bool) *Chain[T] {
	return c.with(Stage[T]{Kind: KindFilter, Predicate: pred})
}

// Map appends a map stage.
func (c *Chain[T]) Map(fn func(context.Context, T) (T, error)) *Chain[T] {
	return c.with(Stage[T]{Kind: KindMap, Transform: fn})
}

// Take appends a take stage.
func (c *Chain[T]) Take(n int) *Chain[T] {
	return c.with(Stage[T]{Kind: KindTake, Count: n})
}

// WithMode returns a copy of the chain evaluated under m.
func (c *Chain[T]) WithMode(m Mode) *Chain[T] {
	cp := &Chain[T]{source: c.source, stages: c.stages, opts: c.opts}
	cp.opts.mode = m
	return cp
}

// Mode returns the configured evaluation mode.
func (c *Chain[T]) Mode() Mode { return c.opts.mode }

// Stages returns a copy of the stage list.
func (c *Chain[T]) Stages() []Stage[T] { return slices.Clone(c.stages) }

// Sequence composes the stages lazily, regardless of the configured mode.
func (c *Chain[T]) Sequence() *Sequence[T] {
	seq := Instrument(FromSlice(c.source), SourceStage, c.opts.rec)
	for i, st := range c.stages {
		switch st.Kind {
		case KindFilter:
			seq = Filter(seq, st.Predicate)
		case KindMap:
			seq = Map(seq, stageTransform(i, st))
		case KindTake:
			seq = Take(seq, st.Count)
		}
		seq = Instrument(seq, st.Name(i), c.opts.rec)
	}
	return seq
}

// ToList materializes the chain under its mode. Lazy evaluation returns the
// values produced before a failure along with the error; eager evaluation
// returns nil on failure.
func (c *Chain[T]) ToList(ctx context.Context) ([]T, error) {
	runID := c.opts.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	mode := c.opts.mode.String()

	ctx, span := observability.StartSpan(ctx, observability.SpanMaterialize)
	defer span.End()
	span.SetAttributes(
		attribute.String(observability.AttrRunID, runID),
		attribute.String(observability.AttrMode, mode),
		attribute.Int(observability.AttrStages, len(c.stages)),
	)

	start := time.Now()
	var (
		out []T
		err error
	)
	if c.opts.mode == Eager {
		out, err = c.evaluateEager(ctx)
	} else {
		out, err = ToList(ctx, c.Sequence())
	}
	elapsed := time.Since(start)

	if mr, ok := c.opts.rec.(MaterializeRecorder); ok {
		mr.RecordMaterialize(ctx, mode, elapsed, err)
	}

	log := c.opts.log.WithFields(logger.Fields(logger.FieldRunID, runID, logger.FieldMode, mode))
	if err != nil {
		observability.SetSpanError(ctx, err)
		log.Debug("materialize failed", logger.ErrorFields("to_list", err))
		return out, err
	}
	span.SetAttributes(attribute.Int(observability.AttrItems, len(out)))
	log.Debug("materialized", logger.Fields(
		"stages", len(c.stages),
		"items", len(out),
		logger.FieldDuration, elapsed.Milliseconds(),
	))
	return out, nil
}

func (c *Chain[T]) evaluateEager(ctx context.Context) ([]T, error) {
	items, err := ToList(ctx, Instrument(FromSlice(c.source), SourceStage, c.opts.rec))
	if err != nil {
		return nil, err
	}
	for i, st := range c.stages {
		switch st.Kind {
		case KindFilter:
			items = EagerFilter(items, st.Predicate)
		case KindMap:
			items, err = EagerMap(ctx, items, stageTransform(i, st))
		case KindTake:
			items, err = EagerTake(items, st.Count)
		}
		if err != nil {
			return nil, err
		}
		c.recordStage(ctx, st.Name(i), len(items))
	}
	return items, nil
}

// recordStage reports a fully materialized eager stage as n produced pulls
// followed by the exhausting one.
func (c *Chain[T]) recordStage(ctx context.Context, stage string, n int) {
	if c.opts.rec == nil {
		return
	}
	for range n {
		c.opts.rec.RecordPull(ctx, stage, true)
	}
	c.opts.rec.RecordPull(ctx, stage, false)
}

func stageTransform[T any](index int, st Stage[T]) func(context.Context, T) (T, error) {
	return func(ctx context.Context, v T) (T, error) {
		out, err := st.Transform(ctx, v)
		if err != nil {
			return out, apperrors.StageFailed(index, string(st.Kind), err)
		}
		return out, nil
	}
}
