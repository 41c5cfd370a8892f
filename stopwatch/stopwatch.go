package stopwatch

import "time"

// Measure runs work synchronously and returns the wall-clock time it took.
// Panics from work propagate to the caller. The result is never negative;
// zero is possible for sub-millisecond work, so callers dividing by the
// elapsed time must guard against it.
func Measure(work func()) time.Duration {
	start := time.Now()
	work()

	elapsed := time.Since(start)
	if elapsed < 0 {
		return 0
	}

	return elapsed
}
