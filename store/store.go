// Package store defines the data access boundary the benchmark drives.
// Engine implementations live in the subpackages.
package store

import (
	"fmt"
	"strconv"
)

// Record is one row of the benchmark table.
type Record struct {
	ID     string
	Value  int32
	Hex    string
	Random string
}

// Facade is the per-item data access surface invoked by the workload workers.
// Implementations must be safe for concurrent use: a single Facade is shared
// by every worker of a run without additional locking.
type Facade interface {
	// Insert writes one record derived from value: the decimal id, the value
	// itself, its hex form, and a fresh random string.
	Insert(value int32) error
	// SelectOne looks up the record keyed by the decimal form of value.
	// A missing record is (nil, nil), not an error.
	SelectOne(value int32) (*Record, error)
}

// Admin provisions the schema before a run. All calls are idempotent and are
// invoked once, before any workload phase.
type Admin interface {
	EnsureKeyspace(name string, replicationFactor int) error
	EnsureTable(keyspace, table string) error
	EnsureSecondaryIndex(keyspace, table, column string) error
}

// RecordID is the primary key derived from a value.
func RecordID(value int32) string {
	return strconv.Itoa(int(value))
}

// RecordHex renders value as its 32-bit two's-complement hex form, so
// negative values come out as "ffffffff"-style strings rather than with a
// minus sign.
func RecordHex(value int32) string {
	return fmt.Sprintf("%x", uint32(value))
}
