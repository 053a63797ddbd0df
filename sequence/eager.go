package sequence

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	apperrors "github.com/kbukum/lazyseq/errors"
)

// EagerFilter returns a new slice holding the items that satisfy pred.
func EagerFilter[T any](items []T, pred func(T) bool) []T {
	return lo.Filter(items, func(v T, _ int) bool {
		return pred(v)
	})
}

// EagerMap applies fn to every item before returning. It stops at the first
// error and returns the items mapped so far.
func EagerMap[I, O any](ctx context.Context, items []I, fn func(context.Context, I) (O, error)) ([]O, error) {
	out := make([]O, 0, len(items))
	for _, v := range items {
		o, err := fn(ctx, v)
		if err != nil {
			return out, err
		}
		out = append(out, o)
	}
	return out, nil
}

// EagerTake returns the first n items, or all of them when n exceeds the length.
func EagerTake[T any](items []T, n int) ([]T, error) {
	if n < 0 {
		return nil, apperrors.InvalidInput("take", fmt.Sprintf("requested element count %d is less than zero", n))
	}
	return lo.Slice(items, 0, n), nil
}
