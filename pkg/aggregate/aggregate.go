package aggregate

import "fmt"

// Record is one key/value pair parsed from a frame. Records appear in
// line order; duplicate keys within a frame are kept as separate records
// and resolved only during aggregation.
type Record struct {
	Key   string
	Value uint64
}

// Aggregator folds per-frame record lists into one final mapping.
//
// Add may be called concurrently from different workers, but each worker
// index must only be used by one goroutine at a time. Result must not be
// called until every Add has returned.
//
// Duplicate keys resolve last-write-wins. Within one frame "last" is the
// later line; across frames processed concurrently the winner depends on
// completion order and may differ between runs.
type Aggregator interface {
	// Add folds one frame's records into the aggregate on behalf of the
	// worker with the given index.
	Add(worker int, recs []Record)

	// Result finalizes the aggregate and returns the mapping.
	Result() Mapping
}

// New returns an Aggregator implementing the given strategy for a pool
// of workers goroutines. Worker indices passed to Add must be in
// [0, workers).
func New(strategy Strategy, workers int) (Aggregator, error) {
	if workers < 1 {
		return nil, fmt.Errorf("worker count must be at least 1, got %d", workers)
	}
	switch strategy {
	case ConcurrentMap:
		return newSharedAggregator(), nil
	case LocalThenCombine:
		return newLocalAggregator(workers), nil
	case ParallelReduce:
		return newReduceAggregator(workers), nil
	default:
		return nil, fmt.Errorf("unknown aggregation strategy %d", int(strategy))
	}
}
