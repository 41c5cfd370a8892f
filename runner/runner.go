// Package runner orchestrates one evaluation phase: partition the values,
// run the workers under the stopwatch, and log the resulting throughput.
package runner

import (
	"fmt"
	"math/rand"
	"time"

	zlog "github.com/rs/zerolog/log"

	"cassbench/partition"
	"cassbench/stopwatch"
	"cassbench/store"
	"cassbench/worker"
)

const millisecondsPerSecond = 1000

const (
	insertPhrase = "Inserting %d items using %d threads"
	selectPhrase = "Selecting %d items randomly using %d threads"
)

// EvaluateInsert writes every value through the facade, one worker per batch,
// and logs elapsed time and throughput. A failing worker drops the rest of
// its batch and is logged as interrupted; the evaluation itself still
// completes.
func EvaluateInsert(facade store.Facade, values []int32, threads int) error {
	batches, err := partition.Split(values, threads)
	if err != nil {
		return err
	}

	zlog.Info().Msg(fmt.Sprintf(insertPhrase, len(values), len(batches)))

	elapsed := stopwatch.Measure(func() {
		logInterrupted(worker.Run(batches, facade.Insert))
	})

	zlog.Info().Msg(FormatSummary(insertPhrase, len(values), len(batches), elapsed))
	return nil
}

// EvaluateSelect performs len(batch) point lookups per batch, each against a
// uniformly random value of that same batch rather than the worker's own
// assigned item. Duplicate lookups within a batch are possible and some
// assigned values are never read back; this randomized access pattern is the
// workload being measured and must not be replaced with a one-to-one scan.
// A lookup that finds nothing logs a missing-value warning and the worker
// moves on.
func EvaluateSelect(facade store.Facade, values []int32, threads int) error {
	batches, err := partition.Split(values, threads)
	if err != nil {
		return err
	}

	zlog.Info().Msg(fmt.Sprintf(selectPhrase, len(values), len(batches)))

	elapsed := stopwatch.Measure(func() {
		results := worker.RunBatches(batches, func(_ int, batch []int32) error {
			// worker-local source, so the measured loop never contends on
			// the global rand lock
			rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

			for range batch {
				value := batch[rnd.Intn(len(batch))]

				record, err := facade.SelectOne(value)
				if err != nil {
					return err
				}
				if record == nil {
					zlog.Warn().Int32("value", value).Msg("Missing value")
				}
			}
			return nil
		})
		logInterrupted(results)
	})

	zlog.Info().Msg(FormatSummary(selectPhrase, len(values), len(batches), elapsed))
	return nil
}

// FormatSummary renders the per-phase summary line. An elapsed time that
// rounds to zero milliseconds skips the average instead of dividing by zero.
func FormatSummary(phrase string, items, threads int, elapsed time.Duration) string {
	head := fmt.Sprintf(phrase, items, threads)

	millis := elapsed.Milliseconds()
	if millis <= 0 {
		return head + " takes under a millisecond"
	}

	return head + fmt.Sprintf(" takes %.2f seconds (average: %.2f per second)",
		float64(millis)/millisecondsPerSecond,
		float64(items)/float64(millis)*millisecondsPerSecond)
}

func logInterrupted(results []worker.Result) {
	for _, result := range results {
		if result.Err != nil {
			zlog.Warn().Int("worker", result.Worker).Err(result.Err).Msg("A worker was interrupted")
		}
	}
}
