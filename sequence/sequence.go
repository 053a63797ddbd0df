package sequence

import "context"

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Sequence is a lazy, restartable description of a chain of stages.
// No work happens until values are pulled.
type Sequence[T any] struct {
	create func(ctx context.Context) Iterator[T]
}

// Iter builds the iterator chain for one pass over the sequence.
// The caller must Close it.
func (s *Sequence[T]) Iter(ctx context.Context) Iterator[T] {
	return s.create(ctx)
}

// ToList pulls the sequence to exhaustion and returns the values in order.
// On error it returns the values produced before the failing pull.
func ToList[T any](ctx context.Context, s *Sequence[T]) ([]T, error) {
	it := s.create(ctx)
	defer it.Close()

	out := make([]T, 0)
	for {
		val, ok, err := it.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, val)
	}
}

// ForEach pulls every value and hands it to fn, stopping at the first error.
func ForEach[T any](ctx context.Context, s *Sequence[T], fn func(context.Context, T) error) error {
	it := s.create(ctx)
	defer it.Close()

	for {
		val, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(ctx, val); err != nil {
			return err
		}
	}
}
