package pivot

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
)

const (
	groupMapLoadFactor     = 0.75       // load factor before resize
	groupMapGrowthFactor   = 2          // growth factor for resize
	groupMapCapacityFactor = 1.3        // capacity factor for initial sizing
	hashSignBitMask        = 0x7FFFFFFF // mask to remove sign bit from hash for positive modulo
)

// group holds one pivot bucket: the (row-key, column-key) pair and one
// accumulator cell per requested value-field/aggregation.
type group struct {
	rowKey []Scalar
	colKey []Scalar
	cells  []accumulator
}

// groupMap indexes groups by their canonical composite key bytes using
// xxhash. Each partition of a parallel scan owns one map; maps merge after
// the scan completes.
type groupMap struct {
	buckets    [][]groupEntry
	capacity   int
	size       int
	loadFactor float64
}

type groupEntry struct {
	key   []byte
	group *group
}

// newGroupMap creates a group map sized for an estimated group count.
func newGroupMap(estimatedSize int) *groupMap {
	capacity := nextPowerOfTwo(int(float64(estimatedSize) * groupMapCapacityFactor))
	return &groupMap{
		buckets:    make([][]groupEntry, capacity),
		capacity:   capacity,
		loadFactor: groupMapLoadFactor,
	}
}

// findOrCreate returns the group stored under key, creating it via create
// when absent. The key slice is copied on insert so callers may reuse a
// scratch buffer across rows.
func (gm *groupMap) findOrCreate(key []byte, create func() *group) *group {
	hash := xxhash.Sum64(key)
	if gm.capacity <= 0 {
		return nil
	}
	//nolint:gosec // capacity is validated to be positive above
	bucketIdx := int((hash & hashSignBitMask) % uint64(gm.capacity))

	for _, entry := range gm.buckets[bucketIdx] {
		if bytes.Equal(entry.key, key) {
			return entry.group
		}
	}

	g := create()
	keyCopy := make([]byte, len(key))
	copy(keyCopy, key)
	gm.buckets[bucketIdx] = append(gm.buckets[bucketIdx], groupEntry{
		key:   keyCopy,
		group: g,
	})
	gm.size++

	if float64(gm.size) > float64(gm.capacity)*gm.loadFactor {
		gm.resize()
	}

	return g
}

// get retrieves the group stored under key.
func (gm *groupMap) get(key []byte) (*group, bool) {
	hash := xxhash.Sum64(key)
	if gm.capacity <= 0 {
		return nil, false
	}
	//nolint:gosec // capacity is validated to be positive above
	bucketIdx := int((hash & hashSignBitMask) % uint64(gm.capacity))

	for _, entry := range gm.buckets[bucketIdx] {
		if bytes.Equal(entry.key, key) {
			return entry.group, true
		}
	}

	return nil, false
}

// len returns the number of distinct groups.
func (gm *groupMap) len() int {
	return gm.size
}

// each visits every group with its canonical key in unspecified order.
func (gm *groupMap) each(fn func(key []byte, g *group)) {
	for _, bucket := range gm.buckets {
		for _, entry := range bucket {
			fn(entry.key, entry.group)
		}
	}
}

// mergeFrom folds another map's groups into this one. Groups present in both
// maps merge cell-wise; merge order never affects results because every
// accumulator merge is associative and commutative.
func (gm *groupMap) mergeFrom(other *groupMap) {
	other.each(func(key []byte, src *group) {
		dst := gm.findOrCreate(key, func() *group {
			return src
		})
		if dst == src {
			return
		}
		for i := range dst.cells {
			dst.cells[i].merge(src.cells[i])
		}
	})
}

// resize doubles the capacity and rehashes all entries.
func (gm *groupMap) resize() {
	newCapacity := gm.capacity * groupMapGrowthFactor
	newBuckets := make([][]groupEntry, newCapacity)

	for _, bucket := range gm.buckets {
		for _, entry := range bucket {
			hash := xxhash.Sum64(entry.key)
			if newCapacity <= 0 {
				continue
			}
			//nolint:gosec // newCapacity is validated to be positive above
			newBucketIdx := int((hash & hashSignBitMask) % uint64(newCapacity))
			newBuckets[newBucketIdx] = append(newBuckets[newBucketIdx], entry)
		}
	}

	gm.buckets = newBuckets
	gm.capacity = newCapacity
}

// nextPowerOfTwo returns the next power of two >= n.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	power := 1
	for power < n {
		power <<= 1
	}
	return power
}
