// Package worker runs a set of batches concurrently, one worker per batch.
//
// The pool deliberately spawns exactly one goroutine per batch instead of
// queueing batches onto a fixed-size pool: the number of simultaneously
// running workers must equal the number of batches, since that is the
// concurrency the benchmark is measuring.
package worker

import "github.com/pkg/errors"

// Result reports how a single worker finished. Err is nil when the worker
// processed its whole batch.
type Result struct {
	Worker int
	Err    error
}

// Run starts one worker per batch and blocks until every worker has finished.
// Each worker invokes perItem for the items of its batch in order and stops at
// the first error, leaving the rest of its batch unprocessed. One worker
// failing never prevents the others from running to completion.
func Run[T any](batches [][]T, perItem func(item T) error) []Result {
	return RunBatches(batches, func(_ int, batch []T) error {
		for _, item := range batch {
			if err := perItem(item); err != nil {
				return err
			}
		}
		return nil
	})
}

// RunBatches is the batch-level variant of Run: perBatch receives the worker
// index and the whole batch, and owns the iteration. All workers are started
// before any of them is awaited, so observed concurrency always equals
// len(batches).
func RunBatches[T any](batches [][]T, perBatch func(worker int, batch []T) error) []Result {
	c := make(chan Result, len(batches))

	for i, batch := range batches {
		go func(i int, batch []T) {
			c <- runOne(i, batch, perBatch)
		}(i, batch)
	}

	results := make([]Result, 0, len(batches))
	for range batches {
		results = append(results, <-c)
	}

	return results
}

// runOne shields the pool from a panicking callback: the panic terminates only
// the worker that raised it and is reported through its Result.
func runOne[T any](worker int, batch []T, perBatch func(int, []T) error) (result Result) {
	result = Result{Worker: worker}

	defer func() {
		if r := recover(); r != nil {
			result.Err = errors.Errorf("worker %d panicked: %v", worker, r)
		}
	}()

	result.Err = perBatch(worker, batch)
	return result
}
