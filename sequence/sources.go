package sequence

import (
	"context"
	"slices"

	apperrors "github.com/kbukum/lazyseq/errors"
)

// From wraps an existing iterator. The resulting sequence is one-shot: every
// materialization shares the same iterator.
func From[T any](it Iterator[T]) *Sequence[T] {
	return &Sequence[T]{
		create: func(_ context.Context) Iterator[T] {
			return it
		},
	}
}

// FromSlice creates a restartable sequence over a copy of items.
func FromSlice[T any](items []T) *Sequence[T] {
	items = slices.Clone(items)
	return &Sequence[T]{
		create: func(_ context.Context) Iterator[T] {
			return &sliceIter[T]{items: items}
		},
	}
}

// FromFunc creates a sequence from an iterator factory. It is restartable as
// long as the factory returns a fresh iterator per call.
func FromFunc[T any](fn func(ctx context.Context) Iterator[T]) *Sequence[T] {
	return &Sequence[T]{create: fn}
}

// Range yields the inclusive progression first, first+step, ... up to last.
// A negative step counts down. A zero step fails on the first pull.
//
//	Range(1, 4, 1)  // 1 2 3 4
//	Range(4, 1, -2) // 4 2
func Range(first, last, step int) *Sequence[int] {
	return &Sequence[int]{
		create: func(_ context.Context) Iterator[int] {
			return &rangeIter{next: first, last: last, step: step}
		},
	}
}

// Generate yields seed and then repeatedly applies next to the previous value
// until next reports false. The sequence may be unbounded; bound it with Take.
func Generate[T any](seed T, next func(T) (T, bool)) *Sequence[T] {
	return &Sequence[T]{
		create: func(_ context.Context) Iterator[T] {
			return &generateIter[T]{cur: seed, next: next}
		},
	}
}

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if it.index >= len(it.items) {
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }

type rangeIter struct {
	next int
	last int
	step int
	done bool
}

func (it *rangeIter) Next(ctx context.Context) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	if it.step == 0 {
		return 0, false, apperrors.InvalidInput("step", "range step must not be zero")
	}
	if it.done || (it.step > 0 && it.next > it.last) || (it.step < 0 && it.next < it.last) {
		it.done = true
		return 0, false, nil
	}
	val := it.next
	// Stop before next+step would pass last; also avoids overflow at the ends.
	if (it.step > 0 && val > it.last-it.step) || (it.step < 0 && val < it.last-it.step) {
		it.done = true
	} else {
		it.next += it.step
	}
	return val, true, nil
}

func (it *rangeIter) Close() error { return nil }

type generateIter[T any] struct {
	cur     T
	next    func(T) (T, bool)
	started bool
	done    bool
}

func (it *generateIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if it.done {
		return zero, false, nil
	}
	if !it.started {
		it.started = true
		return it.cur, true, nil
	}
	val, ok := it.next(it.cur)
	if !ok {
		it.done = true
		return zero, false, nil
	}
	it.cur = val
	return val, true, nil
}

func (it *generateIter[T]) Close() error { return nil }
