package aggregate

import "maps"

// reduceAggregator implements the parallel-reduce strategy: each frame's
// records become a small map, folded into the owning worker's slot as
// work completes, and Result merges the slots pairwise in a reduction
// tree. Every merge inserts the smaller map into the larger one, which
// bounds the total number of entries ever re-inserted.
type reduceAggregator struct {
	slots []map[string]uint64
}

func newReduceAggregator(workers int) *reduceAggregator {
	return &reduceAggregator{slots: make([]map[string]uint64, workers)}
}

func (a *reduceAggregator) Add(worker int, recs []Record) {
	frame := make(map[string]uint64, len(recs))
	for _, r := range recs {
		frame[r.Key] = r.Value
	}
	a.slots[worker] = mergeSizeBiased(a.slots[worker], frame)
}

func (a *reduceAggregator) Result() Mapping {
	ms := make([]map[string]uint64, 0, len(a.slots))
	for _, m := range a.slots {
		if len(m) > 0 {
			ms = append(ms, m)
		}
	}
	if len(ms) == 0 {
		return mapMapping(map[string]uint64{})
	}
	for len(ms) > 1 {
		next := make([]map[string]uint64, 0, (len(ms)+1)/2)
		for i := 0; i+1 < len(ms); i += 2 {
			next = append(next, mergeSizeBiased(ms[i], ms[i+1]))
		}
		if len(ms)%2 == 1 {
			next = append(next, ms[len(ms)-1])
		}
		ms = next
	}
	return mapMapping(ms[0])
}

// mergeSizeBiased merges b into a, swapping first if b is larger, and
// returns the combined map. Either argument may be nil.
func mergeSizeBiased(a, b map[string]uint64) map[string]uint64 {
	if len(a) < len(b) {
		a, b = b, a
	}
	if a == nil {
		return map[string]uint64{}
	}
	maps.Copy(a, b)
	return a
}
