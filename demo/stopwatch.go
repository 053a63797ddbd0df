package demo

import "time"

// Stopwatch runs fn and reports how long it took, along with fn's error.
func Stopwatch(fn func() error) (time.Duration, error) {
	start := time.Now()
	err := fn()
	return time.Since(start), err
}
