package worker

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errItem = errors.New("item failed")

func TestRunProcessesEveryItemExactlyOnce(t *testing.T) {
	batches := [][]int{
		{0, 1, 2, 3},
		{4, 5, 6, 7},
		{8, 9},
		{10},
	}

	var counts [11]int32
	results := Run(batches, func(item int) error {
		atomic.AddInt32(&counts[item], 1)
		return nil
	})

	require.Len(t, results, len(batches))
	for _, result := range results {
		assert.NoError(t, result.Err)
	}
	for item, count := range counts {
		assert.Equal(t, int32(1), count, "item %d", item)
	}
}

// All workers must be started before any of them is joined. The callbacks
// rendezvous on a barrier, so the pool only returns if every worker really
// runs at the same time.
func TestRunBatchesStartsAllWorkersConcurrently(t *testing.T) {
	const workers = 16
	batches := make([][]int, workers)
	for i := range batches {
		batches[i] = []int{i}
	}

	var barrier sync.WaitGroup
	barrier.Add(workers)

	done := make(chan []Result, 1)
	go func() {
		done <- RunBatches(batches, func(_ int, _ []int) error {
			barrier.Done()
			barrier.Wait()
			return nil
		})
	}()

	select {
	case results := <-done:
		assert.Len(t, results, workers)
	case <-time.After(5 * time.Second):
		t.Fatal("workers did not run concurrently")
	}
}

func TestRunFailureStopsOnlyTheFailingWorker(t *testing.T) {
	batches := [][]int{
		{0, 1, 2, 3, 4},
		{5, 6, 7, 8, 9},
		{10, 11, 12, 13, 14},
	}

	var processed int32
	results := Run(batches, func(item int) error {
		if item == 7 {
			return errItem
		}
		atomic.AddInt32(&processed, 1)
		return nil
	})

	require.Len(t, results, 3)

	var failed []Result
	for _, result := range results {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}

	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].Worker)
	assert.ErrorIs(t, failed[0].Err, errItem)

	// worker 1 processed 5 and 6 before failing; 8 and 9 were dropped
	assert.Equal(t, int32(12), processed)
}

func TestRunBatchesRecoversPanickingWorker(t *testing.T) {
	batches := [][]int{{0}, {1}, {2}}

	var processed int32
	results := RunBatches(batches, func(_ int, batch []int) error {
		if batch[0] == 1 {
			panic("boom")
		}
		atomic.AddInt32(&processed, 1)
		return nil
	})

	require.Len(t, results, 3)

	var failed []Result
	for _, result := range results {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}

	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].Worker)
	assert.Contains(t, failed[0].Err.Error(), "panicked")
	assert.Equal(t, int32(2), processed)
}

func TestRunEmptyBatchSet(t *testing.T) {
	results := Run([][]int{}, func(int) error { return nil })
	assert.Empty(t, results)
}
