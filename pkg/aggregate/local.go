package aggregate

import "maps"

// localAggregator implements the local-then-combine strategy: each
// worker accumulates into a private map with no synchronization, and
// Result combines the private maps into one final map in a single
// serial pass.
type localAggregator struct {
	locals []map[string]uint64
}

func newLocalAggregator(workers int) *localAggregator {
	locals := make([]map[string]uint64, workers)
	for i := range locals {
		locals[i] = make(map[string]uint64)
	}
	return &localAggregator{locals: locals}
}

func (a *localAggregator) Add(worker int, recs []Record) {
	m := a.locals[worker]
	for _, r := range recs {
		m[r.Key] = r.Value
	}
}

func (a *localAggregator) Result() Mapping {
	var total int
	for _, m := range a.locals {
		total += len(m)
	}
	final := make(map[string]uint64, total)
	for _, m := range a.locals {
		maps.Copy(final, m)
	}
	return mapMapping(final)
}
