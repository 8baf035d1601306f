package aggregate

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// Mapping is the uniform read view of an aggregation result, whatever
// concrete structure backs it.
type Mapping interface {
	// Len returns the number of distinct keys.
	Len() int

	// Load returns the value stored for key, if any.
	Load(key string) (uint64, bool)

	// Range calls fn for each entry until fn returns false.
	// Iteration order is unspecified.
	Range(fn func(key string, value uint64) bool)
}

// AsMap returns the plain map backing m, if that is what backs it.
// Mutating the returned map mutates the Mapping.
func AsMap(m Mapping) (map[string]uint64, bool) {
	mm, ok := m.(mapMapping)
	if !ok {
		return nil, false
	}
	return map[string]uint64(mm), true
}

// AsConcurrent returns the concurrent map backing m, if that is what
// backs it. The returned map remains safe for concurrent use.
func AsConcurrent(m Mapping) (*xsync.MapOf[string, uint64], bool) {
	cm, ok := m.(*concurrentMapping)
	if !ok {
		return nil, false
	}
	return cm.m, true
}

// mapMapping adapts a plain map to the Mapping interface.
type mapMapping map[string]uint64

func (m mapMapping) Len() int { return len(m) }

func (m mapMapping) Load(key string) (uint64, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapMapping) Range(fn func(key string, value uint64) bool) {
	for k, v := range m {
		if !fn(k, v) {
			return
		}
	}
}

// concurrentMapping adapts an xsync map to the Mapping interface.
type concurrentMapping struct {
	m *xsync.MapOf[string, uint64]
}

func (c *concurrentMapping) Len() int { return c.m.Size() }

func (c *concurrentMapping) Load(key string) (uint64, bool) {
	return c.m.Load(key)
}

func (c *concurrentMapping) Range(fn func(key string, value uint64) bool) {
	c.m.Range(fn)
}
