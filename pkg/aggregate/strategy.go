package aggregate

import "fmt"

// Strategy selects how per-frame records are folded into the final mapping.
type Strategy int

const (
	// ConcurrentMap stores every record directly into one shared
	// concurrency-safe map as frames complete. No merge phase.
	ConcurrentMap Strategy = iota

	// LocalThenCombine gives each worker a private map and combines
	// them into one final map in a single serial pass at the end.
	LocalThenCombine

	// ParallelReduce folds each frame into a small map and merges maps
	// pairwise, always inserting the smaller map into the larger one.
	ParallelReduce
)

// String returns the selector string accepted by ParseStrategy.
func (s Strategy) String() string {
	switch s {
	case ConcurrentMap:
		return "concurrent-map"
	case LocalThenCombine:
		return "local-then-combine"
	case ParallelReduce:
		return "parallel-reduce"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy converts a selector string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "concurrent-map":
		return ConcurrentMap, nil
	case "local-then-combine":
		return LocalThenCombine, nil
	case "parallel-reduce":
		return ParallelReduce, nil
	default:
		return 0, fmt.Errorf("unknown aggregation strategy %q (valid: concurrent-map, local-then-combine, parallel-reduce)", s)
	}
}
