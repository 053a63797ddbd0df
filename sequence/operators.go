package sequence

import (
	"context"
	"fmt"

	apperrors "github.com/kbukum/lazyseq/errors"
)

// Filter keeps only values that satisfy the predicate. Each pull may consume
// several upstream values, but never more than needed to find one match.
func Filter[T any](s *Sequence[T], pred func(T) bool) *Sequence[T] {
	return &Sequence[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &filterIter[T]{source: s.create(ctx), pred: pred}
		},
	}
}

// Map transforms each value with fn at the moment it is pulled. fn runs
// exactly once per produced value; its error ends the pull unchanged.
func Map[I, O any](s *Sequence[I], fn func(context.Context, I) (O, error)) *Sequence[O] {
	return &Sequence[O]{
		create: func(ctx context.Context) Iterator[O] {
			return &mapIter[I, O]{source: s.create(ctx), fn: fn}
		},
	}
}

// Take yields at most n values and then reports exhaustion without pulling
// upstream again. Take(s, 0) never pulls. A negative n fails on first pull.
func Take[T any](s *Sequence[T], n int) *Sequence[T] {
	return &Sequence[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &takeIter[T]{source: s.create(ctx), limit: n}
		},
	}
}

// Tap calls fn for each value as it passes through, leaving it unchanged.
func Tap[T any](s *Sequence[T], fn func(context.Context, T) error) *Sequence[T] {
	return &Sequence[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &tapIter[T]{source: s.create(ctx), fn: fn}
		},
	}
}

// Fold drains the upstream on the first pull and yields one value: the
// accumulation of every element into init.
func Fold[T, R any](s *Sequence[T], init R, fn func(R, T) R) *Sequence[R] {
	return &Sequence[R]{
		create: func(ctx context.Context) Iterator[R] {
			return &foldIter[T, R]{source: s.create(ctx), acc: init, fn: fn}
		},
	}
}

// Recorder observes pulls served by an instrumented stage.
type Recorder interface {
	RecordPull(ctx context.Context, stage string, produced bool)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, stage string, produced bool)

func (f RecorderFunc) RecordPull(ctx context.Context, stage string, produced bool) {
	f(ctx, stage, produced)
}

// Instrument reports every pull answered by s to rec under the given stage
// name. A nil rec returns s unchanged.
func Instrument[T any](s *Sequence[T], stage string, rec Recorder) *Sequence[T] {
	if rec == nil {
		return s
	}
	return &Sequence[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &instrumentIter[T]{source: s.create(ctx), stage: stage, rec: rec}
		},
	}
}

type filterIter[T any] struct {
	source Iterator[T]
	pred   func(T) bool
}

func (it *filterIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		if it.pred(val) {
			return val, true, nil
		}
	}
}

func (it *filterIter[T]) Close() error { return it.source.Close() }

type mapIter[I, O any] struct {
	source Iterator[I]
	fn     func(context.Context, I) (O, error)
}

func (it *mapIter[I, O]) Next(ctx context.Context) (O, bool, error) {
	var zero O
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	out, err := it.fn(ctx, val)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

func (it *mapIter[I, O]) Close() error { return it.source.Close() }

type takeIter[T any] struct {
	source Iterator[T]
	limit  int
	taken  int
}

func (it *takeIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if it.limit < 0 {
		return zero, false, apperrors.InvalidInput("take", fmt.Sprintf("requested element count %d is less than zero", it.limit))
	}
	if it.taken >= it.limit {
		return zero, false, nil
	}
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	it.taken++
	return val, true, nil
}

func (it *takeIter[T]) Close() error { return it.source.Close() }

type tapIter[T any] struct {
	source Iterator[T]
	fn     func(context.Context, T) error
}

func (it *tapIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	if err := it.fn(ctx, val); err != nil {
		return zero, false, err
	}
	return val, true, nil
}

func (it *tapIter[T]) Close() error { return it.source.Close() }

type foldIter[T, R any] struct {
	source Iterator[T]
	acc    R
	fn     func(R, T) R
	done   bool
}

func (it *foldIter[T, R]) Next(ctx context.Context) (R, bool, error) {
	var zero R
	if it.done {
		return zero, false, nil
	}
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil {
			return zero, false, err
		}
		if !ok {
			it.done = true
			return it.acc, true, nil
		}
		it.acc = it.fn(it.acc, val)
	}
}

func (it *foldIter[T, R]) Close() error { return it.source.Close() }

type instrumentIter[T any] struct {
	source Iterator[T]
	stage  string
	rec    Recorder
}

func (it *instrumentIter[T]) Next(ctx context.Context) (T, bool, error) {
	val, ok, err := it.source.Next(ctx)
	it.rec.RecordPull(ctx, it.stage, ok && err == nil)
	return val, ok, err
}

func (it *instrumentIter[T]) Close() error { return it.source.Close() }
