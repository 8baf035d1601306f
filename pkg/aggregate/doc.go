// Package aggregate folds per-frame key/value records into one final
// mapping using one of three interchangeable concurrency strategies.
//
// All three strategies converge to the same mapping content for inputs
// without duplicate keys. They differ in how contention and allocation
// are traded off:
//
//   - concurrent-map: one shared concurrency-safe map written directly
//     by every worker, no merge phase.
//   - local-then-combine: unsynchronized per-worker maps combined in one
//     serial pass at the end.
//   - parallel-reduce: per-frame maps merged pairwise in a reduction
//     tree, always inserting the smaller map into the larger one.
//
// Duplicate keys resolve last-write-wins. When frames race, which write
// is "last" depends on scheduling, so duplicate values may differ
// between runs under concurrent-map and parallel-reduce.
//
// # Usage
//
//	agg, err := aggregate.New(aggregate.LocalThenCombine, workers)
//	if err != nil {
//	    return err
//	}
//
//	// from worker w, once per decoded frame:
//	agg.Add(w, records)
//
//	// after all workers have finished:
//	mapping := agg.Result()
//	fmt.Println(mapping.Len())
//
// Callers that need the concrete backing structure can narrow the
// result with [AsMap] or [AsConcurrent].
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package aggregate
