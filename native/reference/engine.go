package reference

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/go-faiss/native"
)

// Compile-time check to ensure Engine satisfies the native boundary.
var _ native.Engine = (*Engine)(nil)

// Options contains configuration options for the reference engine.
type Options struct {
	// MaxResultEntries caps the number of (label, distance) pairs a single
	// range search may produce. Exceeding it fails the search the way an
	// allocation failure does in the native library. 0 means unlimited.
	MaxResultEntries int

	// KMeansIterations is the number of Lloyd iterations used when training
	// IVF coarse quantizers.
	KMeansIterations int

	// Seed initialises the k-means centroid sampling.
	Seed int64
}

// DefaultOptions contains the default configuration options for the engine.
var DefaultOptions = Options{
	MaxResultEntries: 0,
	KMeansIterations: 25,
	Seed:             1234,
}

// Engine is a pure-Go implementation of the native boundary.
//
// Resources live in a handle table. Freeing a handle that is not in the
// table panics, which makes double frees visible in tests instead of
// corrupting memory as they would in the native library.
type Engine struct {
	opts Options

	mu      sync.RWMutex
	next    native.Handle
	objects map[native.Handle]any
}

// New creates a new reference engine.
func New(optFns ...func(o *Options)) *Engine {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.KMeansIterations <= 0 {
		opts.KMeansIterations = DefaultOptions.KMeansIterations
	}

	return &Engine{
		opts:    opts,
		next:    0x1000,
		objects: make(map[native.Handle]any),
	}
}

// Name implements native.Engine.
func (e *Engine) Name() string { return "reference" }

// Live returns the number of resources that have been allocated and not yet
// freed.
func (e *Engine) Live() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.objects)
}

func (e *Engine) register(obj any) native.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.next += 0x10
	h := e.next
	e.objects[h] = obj
	return h
}

func (e *Engine) lookup(h native.Handle) any {
	e.mu.RLock()
	obj, ok := e.objects[h]
	e.mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("reference: invalid handle %#x", uintptr(h)))
	}
	return obj
}

func (e *Engine) unregister(h native.Handle) any {
	e.mu.Lock()
	defer e.mu.Unlock()

	obj, ok := e.objects[h]
	if !ok {
		panic(fmt.Sprintf("reference: free of unknown handle %#x", uintptr(h)))
	}
	delete(e.objects, h)
	return obj
}

func (e *Engine) index(h native.Handle) index {
	switch obj := e.lookup(h).(type) {
	case index:
		return obj
	default:
		panic(fmt.Sprintf("reference: handle %#x is not an index", uintptr(h)))
	}
}

func (e *Engine) rng() *rand.Rand {
	return rand.New(rand.NewSource(e.opts.Seed))
}

// faissError builds the error the native library reports for a caught
// engine exception.
func faissError(format string, args ...any) error {
	return &native.Error{Code: native.CodeFaissException, Message: fmt.Sprintf(format, args...)}
}

func badAlloc() error {
	return &native.Error{Code: native.CodeStdException, Message: "std::bad_alloc"}
}

// IndexFactory implements native.Engine.
func (e *Engine) IndexFactory(d int, description string, metric native.MetricType) (native.Handle, error) {
	idx, err := e.parse(d, description, metric)
	if err != nil {
		return native.Null, err
	}
	return e.register(idx), nil
}

// IndexFree implements native.Engine.
func (e *Engine) IndexFree(h native.Handle) {
	obj := e.unregister(h)
	if m, ok := obj.(*idMapIndex); ok && m.ownFields {
		e.IndexFree(m.subHandle)
	}
}

// CloneIndex implements native.Engine.
func (e *Engine) CloneIndex(h native.Handle) (native.Handle, error) {
	cloned, err := e.cloneIndex(e.index(h))
	if err != nil {
		return native.Null, err
	}
	return e.register(cloned), nil
}

func (e *Engine) cloneIndex(idx index) (index, error) {
	switch x := idx.(type) {
	case *flatIndex:
		return x.clone(), nil
	case *ivfIndex:
		return x.clone(), nil
	case *idMapIndex:
		sub, err := e.cloneIndex(x.sub)
		if err != nil {
			return nil, err
		}
		return &idMapIndex{
			sub:       sub,
			subHandle: e.register(sub),
			ownFields: true,
			ids:       append([]int64(nil), x.ids...),
		}, nil
	default:
		return nil, faissError("clone not supported for this type of index")
	}
}

// IndexIsTrained implements native.Engine.
func (e *Engine) IndexIsTrained(h native.Handle) bool { return e.index(h).isTrained() }

// IndexNTotal implements native.Engine.
func (e *Engine) IndexNTotal(h native.Handle) int64 { return e.index(h).ntotal() }

// IndexD implements native.Engine.
func (e *Engine) IndexD(h native.Handle) int { return e.index(h).dim() }

// IndexMetricType implements native.Engine.
func (e *Engine) IndexMetricType(h native.Handle) native.MetricType { return e.index(h).metricType() }

// IndexTrain implements native.Engine.
func (e *Engine) IndexTrain(h native.Handle, n int64, x []float32) error {
	idx := e.index(h)
	if err := checkBuffer(x, n, idx.dim()); err != nil {
		return err
	}
	return idx.train(e, int(n), x)
}

// IndexAdd implements native.Engine.
func (e *Engine) IndexAdd(h native.Handle, n int64, x []float32) error {
	idx := e.index(h)
	if err := checkBuffer(x, n, idx.dim()); err != nil {
		return err
	}
	return idx.add(int(n), x)
}

// IndexAddWithIDs implements native.Engine.
func (e *Engine) IndexAddWithIDs(h native.Handle, n int64, x []float32, ids []int64) error {
	idx := e.index(h)
	if err := checkBuffer(x, n, idx.dim()); err != nil {
		return err
	}
	if int64(len(ids)) < n {
		return faissError("Error: 'xids' too short: %d < %d", len(ids), n)
	}
	return idx.addWithIDs(int(n), x, ids[:n])
}

// IndexAssign implements native.Engine.
func (e *Engine) IndexAssign(h native.Handle, n int64, x []float32, labels []int64, k int64) error {
	distances := make([]float32, len(labels))
	return e.IndexSearch(h, n, x, k, distances, labels)
}

// IndexSearch implements native.Engine.
func (e *Engine) IndexSearch(h native.Handle, n int64, x []float32, k int64, distances []float32, labels []int64) error {
	idx := e.index(h)
	if k <= 0 {
		return faissError("Error: 'k > 0' failed")
	}
	if err := checkBuffer(x, n, idx.dim()); err != nil {
		return err
	}
	if int64(len(labels)) < n*k || int64(len(distances)) < n*k {
		return faissError("Error: output buffers too short for %d x %d results", n, k)
	}
	search(idx, int(n), x, int(k), distances, labels)
	return nil
}

// IndexRangeSearch implements native.Engine.
func (e *Engine) IndexRangeSearch(h native.Handle, n int64, x []float32, radius float32, result native.Handle) error {
	idx := e.index(h)
	res := e.rangeResult(result)
	if err := checkBuffer(x, n, idx.dim()); err != nil {
		return err
	}
	if n != res.nq {
		return faissError("Error: 'result->nq == n' failed")
	}
	return rangeSearch(idx, int(n), x, radius, res, e.opts.MaxResultEntries)
}

// IndexReset implements native.Engine.
func (e *Engine) IndexReset(h native.Handle) error {
	e.index(h).reset()
	return nil
}

// IndexRemoveIDs implements native.Engine.
func (e *Engine) IndexRemoveIDs(h native.Handle, sel native.Handle) (int64, error) {
	idx := e.index(h)
	s, ok := e.lookup(sel).(selector)
	if !ok {
		panic(fmt.Sprintf("reference: handle %#x is not an id selector", uintptr(sel)))
	}
	return idx.removeIDs(s)
}

// IndexFlatNew implements native.Engine.
func (e *Engine) IndexFlatNew(d int, metric native.MetricType) (native.Handle, error) {
	idx, err := newFlat(d, metric)
	if err != nil {
		return native.Null, err
	}
	return e.register(idx), nil
}

// IndexFlatCast implements native.Engine.
func (e *Engine) IndexFlatCast(h native.Handle) native.Handle {
	if _, ok := e.lookup(h).(*flatIndex); ok {
		return h
	}
	return native.Null
}

// IndexFlatXb implements native.Engine.
func (e *Engine) IndexFlatXb(h native.Handle) []float32 {
	return e.lookup(h).(*flatIndex).xb
}

// IndexIVFCast implements native.Engine.
func (e *Engine) IndexIVFCast(h native.Handle) native.Handle {
	if _, ok := e.lookup(h).(*ivfIndex); ok {
		return h
	}
	return native.Null
}

// IndexIVFNList implements native.Engine.
func (e *Engine) IndexIVFNList(h native.Handle) int { return e.lookup(h).(*ivfIndex).nlist }

// IndexIVFNProbe implements native.Engine.
func (e *Engine) IndexIVFNProbe(h native.Handle) int { return e.lookup(h).(*ivfIndex).nprobe }

// IndexIVFSetNProbe implements native.Engine.
func (e *Engine) IndexIVFSetNProbe(h native.Handle, nprobe int) {
	e.lookup(h).(*ivfIndex).nprobe = nprobe
}

// IndexIDMapNew implements native.Engine.
func (e *Engine) IndexIDMapNew(inner native.Handle) (native.Handle, error) {
	sub := e.index(inner)
	if sub.ntotal() != 0 {
		return native.Null, faissError("Error: 'index->ntotal == 0' failed: index must be empty on input")
	}
	return e.register(&idMapIndex{sub: sub, subHandle: inner}), nil
}

// IndexIDMapOwnFields implements native.Engine.
func (e *Engine) IndexIDMapOwnFields(h native.Handle) bool { return e.idMap(h).ownFields }

// IndexIDMapSetOwnFields implements native.Engine.
func (e *Engine) IndexIDMapSetOwnFields(h native.Handle, own bool) { e.idMap(h).ownFields = own }

// IndexIDMapIDMap implements native.Engine.
func (e *Engine) IndexIDMapIDMap(h native.Handle) []int64 { return e.idMap(h).ids }

// IndexIDMapSubIndex implements native.Engine.
func (e *Engine) IndexIDMapSubIndex(h native.Handle) native.Handle { return e.idMap(h).subHandle }

func (e *Engine) idMap(h native.Handle) *idMapIndex {
	m, ok := e.lookup(h).(*idMapIndex)
	if !ok {
		panic(fmt.Sprintf("reference: handle %#x is not an id-map index", uintptr(h)))
	}
	return m
}

func checkBuffer(x []float32, n int64, d int) error {
	if n < 0 {
		return faissError("Error: 'n >= 0' failed")
	}
	if int64(len(x)) < n*int64(d) {
		return faissError("Error: input buffer holds %d floats, need %d", len(x), n*int64(d))
	}
	return nil
}
