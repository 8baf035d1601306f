package aggregate

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// sharedAggregator implements the concurrent-map strategy: every worker
// stores records straight into one concurrency-safe map. Each store is
// an independent linearizable operation, so there is nothing to merge.
type sharedAggregator struct {
	m *xsync.MapOf[string, uint64]
}

func newSharedAggregator() *sharedAggregator {
	return &sharedAggregator{m: xsync.NewMapOf[string, uint64]()}
}

func (a *sharedAggregator) Add(_ int, recs []Record) {
	for _, r := range recs {
		a.m.Store(r.Key, r.Value)
	}
}

func (a *sharedAggregator) Result() Mapping {
	return &concurrentMapping{m: a.m}
}
