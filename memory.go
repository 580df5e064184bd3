package crosstab

import (
	"sync"

	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Releasable represents any resource that can be released to free memory.
//
// Datasets and Columns are backed by Apache Arrow buffers and implement this
// interface. Always call Release() when done with a resource to prevent
// memory leaks.
//
// The recommended pattern is to use defer for automatic cleanup:
//
//	ds := crosstab.NewDataset(region, amount)
//	defer ds.Release()
type Releasable interface {
	Release()
}

// MemoryManager helps track and release multiple resources automatically.
//
// MemoryManager is useful when many short-lived datasets or columns are
// created and need bulk cleanup, for example when computing a batch of pivot
// requests over intermediate datasets. For most use cases, prefer the defer
// pattern with individual Release() calls for better readability.
//
// The MemoryManager is safe for concurrent use from multiple goroutines.
//
// Example:
//
//	err := crosstab.WithMemoryManager(mem, func(manager *crosstab.MemoryManager) error {
//		for _, path := range paths {
//			ds, err := crosstab.ReadFile(path, mem)
//			if err != nil {
//				return err
//			}
//			manager.Track(ds) // Will be released automatically
//		}
//		return nil
//	})
//	// All tracked resources are released here
type MemoryManager struct {
	allocator memory.Allocator
	resources []Releasable
	mu        sync.Mutex // Mutex to synchronize access to resources
}

// NewMemoryManager creates a new memory manager with the given allocator
func NewMemoryManager(allocator memory.Allocator) *MemoryManager {
	return &MemoryManager{
		allocator: allocator,
		resources: make([]Releasable, 0),
	}
}

// Track adds a resource to be managed and automatically released
func (m *MemoryManager) Track(resource Releasable) {
	if resource != nil {
		m.mu.Lock()
		m.resources = append(m.resources, resource)
		m.mu.Unlock()
	}
}

// Count returns the number of tracked resources
func (m *MemoryManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.resources)
}

// ReleaseAll releases all tracked resources and clears the tracking list
func (m *MemoryManager) ReleaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, resource := range m.resources {
		if resource != nil {
			resource.Release()
		}
	}
	m.resources = m.resources[:0] // Clear the slice but keep capacity
}

// WithDataset provides automatic resource management for dataset operations.
//
// This helper creates a Dataset using the provided factory function, executes
// the given operation, and releases the Dataset when done. Any error from the
// operation function is returned to the caller.
//
// Example:
//
//	err := crosstab.WithDataset(func() *crosstab.Dataset {
//		mem := memory.NewGoAllocator()
//		region := crosstab.NewColumn("region", []string{"east", "west"}, mem)
//		amount := crosstab.NewColumn("amount", []int64{10, 20}, mem)
//		return crosstab.NewDataset(region, amount)
//	}, func(ds *crosstab.Dataset) error {
//		result, err := crosstab.ComputePivot(ds, req)
//		if err != nil {
//			return err
//		}
//		fmt.Println(len(result.Data))
//		return nil
//	})
//	// Dataset is automatically released here
func WithDataset(factory func() *Dataset, fn func(*Dataset) error) error {
	ds := factory()
	defer ds.Release()
	return fn(ds)
}

// WithColumn creates a Column, executes a function with it, and automatically releases it
func WithColumn(factory func() *Column, fn func(*Column) error) error {
	col := factory()
	defer col.Release()
	return fn(col)
}

// WithMemoryManager creates a memory manager, executes a function with it, and releases all tracked resources
func WithMemoryManager(allocator memory.Allocator, fn func(*MemoryManager) error) error {
	manager := NewMemoryManager(allocator)
	defer manager.ReleaseAll()
	return fn(manager)
}
