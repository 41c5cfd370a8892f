package partition

import "github.com/pkg/errors"

// ErrInvalidPartitionCount is returned when the requested partition count is
// zero or negative.
var ErrInvalidPartitionCount = errors.New("partition count must be positive")

// Split divides items into contiguous, order-preserving batches of
// ceil(len(items)/count) elements each; the final batch holds the remainder.
// The number of batches produced can be smaller than count when the batch size
// rounds up, and that number is what determines the actual concurrency of a
// run, so the rounding must stay as-is.
func Split[T any](items []T, count int) ([][]T, error) {
	if count <= 0 {
		return nil, ErrInvalidPartitionCount
	}

	if len(items) == 0 {
		return [][]T{}, nil
	}

	size := (len(items) + count - 1) / count
	batches := make([][]T, 0, (len(items)+size-1)/size)

	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}

	return batches, nil
}
