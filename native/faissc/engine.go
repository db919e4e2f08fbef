//go:build darwin || linux

package faissc

import (
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/hupe1980/go-faiss/native"
)

// Compile-time check to ensure Engine satisfies the native boundary.
var _ native.Engine = (*Engine)(nil)

// Engine calls into a loaded libfaiss_c.
type Engine struct {
	lib  uintptr
	path string
	sym  symbols
}

// Name implements native.Engine.
func (e *Engine) Name() string { return "faiss_c" }

// Path returns the library the engine was loaded from.
func (e *Engine) Path() string { return e.path }

// call runs fn on a locked OS thread so that the thread-local last error
// read on failure belongs to this call.
func (e *Engine) call(fn func() int32) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if code := fn(); code != native.CodeOK {
		return &native.Error{Code: int(code), Message: e.sym.getLastError()}
	}
	return nil
}

func ptrF32(x []float32) *float32 {
	if len(x) == 0 {
		return nil
	}
	return &x[0]
}

func ptrI64(x []int64) *int64 {
	if len(x) == 0 {
		return nil
	}
	return &x[0]
}

// IndexFactory implements native.Engine.
func (e *Engine) IndexFactory(d int, description string, metric native.MetricType) (native.Handle, error) {
	var p uintptr
	err := e.call(func() int32 { return e.sym.indexFactory(&p, int32(d), description, int32(metric)) })
	return native.Handle(p), err
}

// IndexFree implements native.Engine.
func (e *Engine) IndexFree(h native.Handle) { e.sym.indexFree(uintptr(h)) }

// CloneIndex implements native.Engine.
func (e *Engine) CloneIndex(h native.Handle) (native.Handle, error) {
	var p uintptr
	err := e.call(func() int32 { return e.sym.cloneIndex(uintptr(h), &p) })
	return native.Handle(p), err
}

// IndexIsTrained implements native.Engine.
func (e *Engine) IndexIsTrained(h native.Handle) bool { return e.sym.indexIsTrained(uintptr(h)) != 0 }

// IndexNTotal implements native.Engine.
func (e *Engine) IndexNTotal(h native.Handle) int64 { return e.sym.indexNTotal(uintptr(h)) }

// IndexD implements native.Engine.
func (e *Engine) IndexD(h native.Handle) int { return int(e.sym.indexD(uintptr(h))) }

// IndexMetricType implements native.Engine.
func (e *Engine) IndexMetricType(h native.Handle) native.MetricType {
	return native.MetricType(e.sym.indexMetricType(uintptr(h)))
}

// IndexTrain implements native.Engine.
func (e *Engine) IndexTrain(h native.Handle, n int64, x []float32) error {
	return e.call(func() int32 { return e.sym.indexTrain(uintptr(h), n, ptrF32(x)) })
}

// IndexAdd implements native.Engine.
func (e *Engine) IndexAdd(h native.Handle, n int64, x []float32) error {
	return e.call(func() int32 { return e.sym.indexAdd(uintptr(h), n, ptrF32(x)) })
}

// IndexAddWithIDs implements native.Engine.
func (e *Engine) IndexAddWithIDs(h native.Handle, n int64, x []float32, ids []int64) error {
	return e.call(func() int32 { return e.sym.indexAddWithIDs(uintptr(h), n, ptrF32(x), ptrI64(ids)) })
}

// IndexAssign implements native.Engine.
func (e *Engine) IndexAssign(h native.Handle, n int64, x []float32, labels []int64, k int64) error {
	return e.call(func() int32 { return e.sym.indexAssign(uintptr(h), n, ptrF32(x), ptrI64(labels), k) })
}

// IndexSearch implements native.Engine.
func (e *Engine) IndexSearch(h native.Handle, n int64, x []float32, k int64, distances []float32, labels []int64) error {
	return e.call(func() int32 {
		return e.sym.indexSearch(uintptr(h), n, ptrF32(x), k, ptrF32(distances), ptrI64(labels))
	})
}

// IndexRangeSearch implements native.Engine.
func (e *Engine) IndexRangeSearch(h native.Handle, n int64, x []float32, radius float32, result native.Handle) error {
	return e.call(func() int32 {
		return e.sym.indexRange(uintptr(h), n, ptrF32(x), radius, uintptr(result))
	})
}

// IndexReset implements native.Engine.
func (e *Engine) IndexReset(h native.Handle) error {
	return e.call(func() int32 { return e.sym.indexReset(uintptr(h)) })
}

// IndexRemoveIDs implements native.Engine.
func (e *Engine) IndexRemoveIDs(h native.Handle, sel native.Handle) (int64, error) {
	var removed uint64
	err := e.call(func() int32 { return e.sym.indexRemoveIDs(uintptr(h), uintptr(sel), &removed) })
	return int64(removed), err
}

// IndexFlatNew implements native.Engine.
func (e *Engine) IndexFlatNew(d int, metric native.MetricType) (native.Handle, error) {
	var p uintptr
	err := e.call(func() int32 { return e.sym.flatNewWith(&p, int64(d), int32(metric)) })
	return native.Handle(p), err
}

// IndexFlatCast implements native.Engine.
func (e *Engine) IndexFlatCast(h native.Handle) native.Handle {
	return native.Handle(e.sym.flatCast(uintptr(h)))
}

// IndexFlatXb implements native.Engine. The slice aliases engine memory.
func (e *Engine) IndexFlatXb(h native.Handle) []float32 {
	var (
		xb   *float32
		size uint64
	)
	e.sym.flatXb(uintptr(h), &xb, &size)
	if xb == nil {
		return nil
	}
	return unsafe.Slice(xb, size)
}

// IndexIVFCast implements native.Engine.
func (e *Engine) IndexIVFCast(h native.Handle) native.Handle {
	return native.Handle(e.sym.ivfCast(uintptr(h)))
}

// IndexIVFNList implements native.Engine.
func (e *Engine) IndexIVFNList(h native.Handle) int { return int(e.sym.ivfNList(uintptr(h))) }

// IndexIVFNProbe implements native.Engine.
func (e *Engine) IndexIVFNProbe(h native.Handle) int { return int(e.sym.ivfNProbe(uintptr(h))) }

// IndexIVFSetNProbe implements native.Engine.
func (e *Engine) IndexIVFSetNProbe(h native.Handle, nprobe int) {
	e.sym.ivfSetNProbe(uintptr(h), uint64(nprobe))
}

// IndexIDMapNew implements native.Engine.
func (e *Engine) IndexIDMapNew(inner native.Handle) (native.Handle, error) {
	var p uintptr
	err := e.call(func() int32 { return e.sym.idMapNew(&p, uintptr(inner)) })
	return native.Handle(p), err
}

// IndexIDMapOwnFields implements native.Engine.
func (e *Engine) IndexIDMapOwnFields(h native.Handle) bool {
	return e.sym.idMapOwnFields(uintptr(h)) != 0
}

// IndexIDMapSetOwnFields implements native.Engine.
func (e *Engine) IndexIDMapSetOwnFields(h native.Handle, own bool) {
	var v int32
	if own {
		v = 1
	}
	e.sym.idMapSetOwnFields(uintptr(h), v)
}

// IndexIDMapIDMap implements native.Engine. The slice aliases engine memory.
func (e *Engine) IndexIDMapIDMap(h native.Handle) []int64 {
	var (
		ids  *int64
		size uint64
	)
	e.sym.idMapIDMap(uintptr(h), &ids, &size)
	if ids == nil {
		return nil
	}
	return unsafe.Slice(ids, size)
}

// IndexIDMapSubIndex implements native.Engine.
func (e *Engine) IndexIDMapSubIndex(h native.Handle) native.Handle {
	return native.Handle(e.sym.idMapSubIndex(uintptr(h)))
}

// RangeSearchResultNew implements native.Engine.
func (e *Engine) RangeSearchResultNew(nq int64) (native.Handle, error) {
	var p uintptr
	err := e.call(func() int32 { return e.sym.rangeNew(&p, nq) })
	return native.Handle(p), err
}

// RangeSearchResultFree implements native.Engine.
func (e *Engine) RangeSearchResultFree(h native.Handle) { e.sym.rangeFree(uintptr(h)) }

// RangeSearchResultNQ implements native.Engine.
func (e *Engine) RangeSearchResultNQ(h native.Handle) int64 {
	return int64(e.sym.rangeNQ(uintptr(h)))
}

// RangeSearchResultLims implements native.Engine. The slice aliases engine
// memory.
func (e *Engine) RangeSearchResultLims(h native.Handle) []uint64 {
	var lims *uint64
	e.sym.rangeLims(uintptr(h), &lims)
	if lims == nil {
		return nil
	}
	return unsafe.Slice(lims, e.RangeSearchResultNQ(h)+1)
}

// RangeSearchResultLabels implements native.Engine. The slices alias engine
// memory.
func (e *Engine) RangeSearchResultLabels(h native.Handle) ([]int64, []float32) {
	lims := e.RangeSearchResultLims(h)
	if len(lims) == 0 {
		return nil, nil
	}
	n := lims[len(lims)-1]

	var (
		labels    *int64
		distances *float32
	)
	e.sym.rangeLabels(uintptr(h), &labels, &distances)
	if labels == nil || distances == nil {
		return nil, nil
	}
	return unsafe.Slice(labels, n), unsafe.Slice(distances, n)
}

// IDSelectorBatchNew implements native.Engine.
func (e *Engine) IDSelectorBatchNew(ids []int64) (native.Handle, error) {
	var p uintptr
	err := e.call(func() int32 { return e.sym.selectorBatchNew(&p, uint64(len(ids)), ptrI64(ids)) })
	return native.Handle(p), err
}

// IDSelectorRangeNew implements native.Engine.
func (e *Engine) IDSelectorRangeNew(imin, imax int64) (native.Handle, error) {
	var p uintptr
	err := e.call(func() int32 { return e.sym.selectorRangeNew(&p, imin, imax) })
	return native.Handle(p), err
}

// IDSelectorFree implements native.Engine.
func (e *Engine) IDSelectorFree(h native.Handle) { e.sym.selectorFree(uintptr(h)) }

// Close unloads the library. Handles created by the engine must be released
// before.
func (e *Engine) Close() error {
	return purego.Dlclose(e.lib)
}
