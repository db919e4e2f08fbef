package faiss

import (
	"github.com/hupe1980/go-faiss/native"
)

// Idx is the label type of stored vectors.
type Idx = int64

// NoLabel marks result slots for which no neighbor exists.
const NoLabel Idx = -1

// MetricType is the distance function an index is configured with.
type MetricType = native.MetricType

const (
	MetricInnerProduct = native.MetricInnerProduct
	MetricL2           = native.MetricL2
	MetricL1           = native.MetricL1
	MetricLinf         = native.MetricLinf
)

// Index is the operation set every index variant implements.
//
// Mutating operations (Train, Add, AddWithIDs, Reset, Close) must be
// serialized by the caller. Calling any method other than Close after the
// index has been closed, wrapped or converted panics.
type Index interface {
	// IsTrained reports whether the index is ready to accept vectors.
	IsTrained() bool
	// NTotal returns the number of stored vectors.
	NTotal() uint64
	// D returns the dimension of the stored vectors.
	D() uint32
	// MetricType returns the distance function of the index.
	MetricType() MetricType

	// Train learns the index parameters from a row-major sample.
	Train(x []float32) error
	// Add appends vectors. Labels are assigned sequentially from NTotal.
	Add(x []float32) error
	// AddWithIDs appends vectors under caller-chosen labels, one per vector.
	AddWithIDs(x []float32, ids []Idx) error
	// Assign returns the labels of the k nearest neighbors of each query.
	Assign(q []float32, k int) (AssignSearchResult, error)
	// Search returns the k nearest neighbors of each query, nearest first.
	Search(q []float32, k int) (SearchResult, error)
	// RangeSearch returns every stored vector within radius of each query.
	// The result owns native memory and must be closed.
	RangeSearch(q []float32, radius float32) (*RangeSearchResult, error)
	// Reset removes all stored vectors. The trained state is kept.
	Reset() error

	// Concurrent returns the read-only facet when the variant's read path
	// may be called from several goroutines at once.
	Concurrent() (ConcurrentIndex, bool)

	// Close releases the native index. It is safe to call more than once.
	Close() error
}

// NativeIndex is an Index backed by a single native handle that can be
// handed to an IDMap.
type NativeIndex interface {
	Index
	core() *indexCore
	rebind(h *handle) Index
}

// Compile-time checks to ensure the variants satisfy the interfaces.
var (
	_ NativeIndex = (*IndexImpl)(nil)
	_ NativeIndex = (*FlatIndex)(nil)
	_ NativeIndex = (*IVFFlatIndex)(nil)
	_ Index       = (*IDMap[*FlatIndex])(nil)
)
