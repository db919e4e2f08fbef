package faiss

import (
	"context"

	"github.com/hupe1980/go-faiss/resource"
)

// AssignSearchResult holds the labels of an assign call, k per query,
// row-major. Slots without a neighbor hold NoLabel.
type AssignSearchResult struct {
	Labels []Idx
	K      int
}

// NQ returns the number of queries.
func (r AssignSearchResult) NQ() int {
	if r.K == 0 {
		return 0
	}
	return len(r.Labels) / r.K
}

// Query returns the labels of query i.
func (r AssignSearchResult) Query(i int) []Idx {
	return r.Labels[i*r.K : (i+1)*r.K]
}

// SearchResult holds the distances and labels of a search call, k per
// query, row-major and nearest first. Slots without a neighbor hold NoLabel.
type SearchResult struct {
	Distances []float32
	Labels    []Idx
	K         int
}

// NQ returns the number of queries.
func (r SearchResult) NQ() int {
	if r.K == 0 {
		return 0
	}
	return len(r.Labels) / r.K
}

// Query returns the distances and labels of query i.
func (r SearchResult) Query(i int) ([]float32, []Idx) {
	return r.Distances[i*r.K : (i+1)*r.K], r.Labels[i*r.K : (i+1)*r.K]
}

// RangeSearchResult holds the output of a range search in a buffer owned by
// the engine. Query i owns the entries between Lims()[i] and Lims()[i+1].
//
// The accessors return copies, so their values stay valid after Close.
// Close must be called once the result is no longer needed.
type RangeSearchResult struct {
	h         *handle
	resources *resource.Controller
	reserved  int64
	logger    *Logger
}

// NQ returns the number of queries.
func (r *RangeSearchResult) NQ() int {
	return int(r.h.engine.RangeSearchResultNQ(r.h.raw()))
}

// Len returns the total number of entries over all queries.
func (r *RangeSearchResult) Len() int {
	lims := r.h.engine.RangeSearchResultLims(r.h.raw())
	return int(lims[len(lims)-1])
}

// Lims returns a copy of the offset table, of length NQ()+1.
func (r *RangeSearchResult) Lims() []uint64 {
	return append([]uint64(nil), r.h.engine.RangeSearchResultLims(r.h.raw())...)
}

// Labels returns the labels found for query i, in engine order.
func (r *RangeSearchResult) Labels(i int) []Idx {
	labels, _ := r.Query(i)
	return labels
}

// Distances returns the distances found for query i, in engine order.
func (r *RangeSearchResult) Distances(i int) []float32 {
	_, distances := r.Query(i)
	return distances
}

// Query returns the labels and distances found for query i.
func (r *RangeSearchResult) Query(i int) ([]Idx, []float32) {
	raw := r.h.raw()
	lims := r.h.engine.RangeSearchResultLims(raw)
	labels, distances := r.h.engine.RangeSearchResultLabels(raw)
	lo, hi := lims[i], lims[i+1]
	return append([]Idx(nil), labels[lo:hi]...), append([]float32(nil), distances[lo:hi]...)
}

// Close releases the native buffer. It is safe to call more than once.
func (r *RangeSearchResult) Close() error {
	if r.h.release() {
		r.resources.ReleaseMemory(r.reserved)
		r.logger.LogRelease(context.Background(), r.h.kind, r.h.ptr)
	}
	return nil
}
