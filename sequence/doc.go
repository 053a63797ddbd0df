// Package sequence provides lazy, pull-based sequences with filter, map and
// take stages, plus an eager reference evaluation for comparison.
//
// A Sequence is a description: nothing runs until values are pulled with
// ToList, ForEach or Iter. Each stage wraps the iterator of the stage before
// it, so a single element travels through the whole chain before the next
// source element is examined.
//
// # Lazy vs eager
//
// Given the source [0 1 2 3 4]:
//
//	src := sequence.FromSlice([]int{0, 1, 2, 3, 4})
//	big := sequence.Filter(src, func(n int) bool { return n > 1 })
//	doubled := sequence.Map(big, func(_ context.Context, n int) (int, error) {
//	    fmt.Print(n * 2)
//	    return n * 2, nil
//	})
//	first, _ := sequence.ToList(ctx, sequence.Take(doubled, 1))
//
// prints only "4", because Take stops pulling once it has produced one value.
// The eager reference (EagerFilter, EagerMap, EagerTake) materializes every
// stage in full and prints "468" for the same chain. Chain evaluates the same
// stage list under either Mode.
//
// # Restartability
//
// Sequences built by FromSlice, Range and Generate create a fresh iterator
// chain per materialization and can be collected any number of times. A
// sequence wrapping an existing Iterator (From) is one-shot.
package sequence
