package reference

import (
	"fmt"

	"github.com/hupe1980/go-faiss/native"
)

// rangeResult holds variable-length range search output. Query i owns
// labels[lims[i]:lims[i+1]] and the matching distances.
type rangeResult struct {
	nq        int64
	lims      []uint64
	labels    []int64
	distances []float32
}

// RangeSearchResultNew implements native.Engine.
func (e *Engine) RangeSearchResultNew(nq int64) (native.Handle, error) {
	if nq < 0 {
		return native.Null, faissError("Error: 'nq >= 0' failed")
	}
	return e.register(&rangeResult{nq: nq, lims: make([]uint64, nq+1)}), nil
}

// RangeSearchResultFree implements native.Engine.
func (e *Engine) RangeSearchResultFree(h native.Handle) {
	if _, ok := e.unregister(h).(*rangeResult); !ok {
		panic(fmt.Sprintf("reference: handle %#x is not a range-search result", uintptr(h)))
	}
}

// RangeSearchResultNQ implements native.Engine.
func (e *Engine) RangeSearchResultNQ(h native.Handle) int64 { return e.rangeResult(h).nq }

// RangeSearchResultLims implements native.Engine.
func (e *Engine) RangeSearchResultLims(h native.Handle) []uint64 { return e.rangeResult(h).lims }

// RangeSearchResultLabels implements native.Engine.
func (e *Engine) RangeSearchResultLabels(h native.Handle) ([]int64, []float32) {
	r := e.rangeResult(h)
	return r.labels, r.distances
}

func (e *Engine) rangeResult(h native.Handle) *rangeResult {
	r, ok := e.lookup(h).(*rangeResult)
	if !ok {
		panic(fmt.Sprintf("reference: handle %#x is not a range-search result", uintptr(h)))
	}
	return r
}
