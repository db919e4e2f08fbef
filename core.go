package faiss

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hupe1980/go-faiss/native"
)

// indexCore implements the operation set over one native index handle.
// Variants embed it and declare their capabilities through its fields.
type indexCore struct {
	h    *handle
	opts options

	// arbitraryIDs is false for variants known to reject add_with_ids.
	arbitraryIDs bool
	// reentrant is true when the native read path may run concurrently.
	reentrant bool
}

func newIndexCore(h *handle, opts options, arbitraryIDs, reentrant bool) indexCore {
	return indexCore{
		h: h,
		opts: options{
			engine:           opts.engine,
			metricsCollector: opts.metricsCollector,
			logger:           opts.logger.WithEngine(opts.engine.Name()).WithDimension(opts.engine.IndexD(h.ptr)),
			resources:        opts.resources,
			reentrantReads:   opts.reentrantReads,
			maxResultBytes:   opts.maxResultBytes,
		},
		arbitraryIDs: arbitraryIDs,
		reentrant:    reentrant,
	}
}

func (c *indexCore) core() *indexCore { return c }

func (c *indexCore) engine() native.Engine { return c.opts.engine }

// with returns a copy of c that operates on h.
func (c *indexCore) with(h *handle) indexCore {
	cp := *c
	cp.h = h
	return cp
}

// Handle returns the native address of the index without transferring
// ownership. It panics if the index no longer owns its handle.
func (c *indexCore) Handle() native.Handle { return c.h.raw() }

// IsTrained implements Index.
func (c *indexCore) IsTrained() bool { return c.engine().IndexIsTrained(c.h.raw()) }

// NTotal implements Index.
func (c *indexCore) NTotal() uint64 { return uint64(c.engine().IndexNTotal(c.h.raw())) }

// D implements Index.
func (c *indexCore) D() uint32 { return uint32(c.engine().IndexD(c.h.raw())) }

// MetricType implements Index.
func (c *indexCore) MetricType() MetricType { return c.engine().IndexMetricType(c.h.raw()) }

// Train implements Index.
func (c *indexCore) Train(x []float32) error {
	start := time.Now()
	n, err := c.train(x)
	c.opts.metricsCollector.RecordTrain(n, time.Since(start), err)
	c.opts.logger.LogTrain(context.Background(), n, err)
	return err
}

func (c *indexCore) train(x []float32) (int, error) {
	raw := c.h.raw()
	n, err := checkVectors("vectors", x, c.engine().IndexD(raw))
	if err != nil {
		return 0, err
	}
	return n, translateError("train", c.engine().IndexTrain(raw, int64(n), x))
}

// Add implements Index.
func (c *indexCore) Add(x []float32) error {
	start := time.Now()
	n, err := c.add(x)
	c.opts.metricsCollector.RecordAdd(n, time.Since(start), err)
	c.opts.logger.LogAdd(context.Background(), n, false, err)
	return err
}

func (c *indexCore) add(x []float32) (int, error) {
	raw := c.h.raw()
	n, err := checkVectors("vectors", x, c.engine().IndexD(raw))
	if err != nil {
		return 0, err
	}
	return n, translateError("add", c.engine().IndexAdd(raw, int64(n), x))
}

// AddWithIDs implements Index.
func (c *indexCore) AddWithIDs(x []float32, ids []Idx) error {
	start := time.Now()
	n, err := c.addWithIDs(x, ids)
	c.opts.metricsCollector.RecordAdd(n, time.Since(start), err)
	c.opts.logger.LogAdd(context.Background(), n, true, err)
	return err
}

func (c *indexCore) addWithIDs(x []float32, ids []Idx) (int, error) {
	raw := c.h.raw()
	n, err := checkVectors("vectors", x, c.engine().IndexD(raw))
	if err != nil {
		return 0, err
	}
	if len(ids) != n {
		return 0, &DimensionMismatchError{Field: "ids", Expected: n, Actual: len(ids)}
	}
	if !c.arbitraryIDs {
		return 0, ErrUnsupportedOperation
	}
	return n, translateError("add_with_ids", c.engine().IndexAddWithIDs(raw, int64(n), x, ids))
}

// Assign implements Index.
func (c *indexCore) Assign(q []float32, k int) (AssignSearchResult, error) {
	start := time.Now()
	nq, res, err := c.assign(q, k)
	c.opts.metricsCollector.RecordSearch(nq, k, time.Since(start), err)
	c.opts.logger.LogSearch(context.Background(), nq, k, err)
	return res, err
}

func (c *indexCore) assign(q []float32, k int) (int, AssignSearchResult, error) {
	raw := c.h.raw()
	nq, reserved, err := c.checkQuery(raw, q, k)
	if err != nil {
		return nq, AssignSearchResult{}, err
	}

	if err := c.reserve(reserved); err != nil {
		return nq, AssignSearchResult{}, err
	}
	defer c.opts.resources.ReleaseMemory(reserved)

	labels := make([]Idx, nq*k)
	if err := c.engine().IndexAssign(raw, int64(nq), q, labels, int64(k)); err != nil {
		return nq, AssignSearchResult{}, translateError("assign", err)
	}
	return nq, AssignSearchResult{Labels: labels, K: k}, nil
}

// Search implements Index.
func (c *indexCore) Search(q []float32, k int) (SearchResult, error) {
	start := time.Now()
	nq, res, err := c.search(q, k)
	c.opts.metricsCollector.RecordSearch(nq, k, time.Since(start), err)
	c.opts.logger.LogSearch(context.Background(), nq, k, err)
	return res, err
}

func (c *indexCore) search(q []float32, k int) (int, SearchResult, error) {
	raw := c.h.raw()
	nq, reserved, err := c.checkQuery(raw, q, k)
	if err != nil {
		return nq, SearchResult{}, err
	}

	if err := c.reserve(reserved); err != nil {
		return nq, SearchResult{}, err
	}
	defer c.opts.resources.ReleaseMemory(reserved)

	distances := make([]float32, nq*k)
	labels := make([]Idx, nq*k)
	if err := c.engine().IndexSearch(raw, int64(nq), q, int64(k), distances, labels); err != nil {
		return nq, SearchResult{}, translateError("search", err)
	}
	return nq, SearchResult{Distances: distances, Labels: labels, K: k}, nil
}

// RangeSearch implements Index.
func (c *indexCore) RangeSearch(q []float32, radius float32) (*RangeSearchResult, error) {
	start := time.Now()
	nq, res, err := c.rangeSearch(q, radius)
	found := 0
	if res != nil {
		found = res.Len()
	}
	c.opts.metricsCollector.RecordRangeSearch(nq, found, time.Since(start), err)
	c.opts.logger.LogRangeSearch(context.Background(), nq, found, err)
	return res, err
}

func (c *indexCore) rangeSearch(q []float32, radius float32) (int, *RangeSearchResult, error) {
	raw := c.h.raw()
	nq, err := checkVectors("query", q, c.engine().IndexD(raw))
	if err != nil {
		return 0, nil, err
	}

	ptr, err := c.engine().RangeSearchResultNew(int64(nq))
	if err != nil {
		return nq, nil, translateError("range_search", err)
	}
	res := &RangeSearchResult{
		h:         newHandle(c.engine(), ptr, native.KindRangeSearchResult),
		resources: c.opts.resources,
		logger:    c.opts.logger,
	}

	if err := c.engine().IndexRangeSearch(raw, int64(nq), q, radius, ptr); err != nil {
		res.h.release()
		return nq, nil, translateError("range_search", err)
	}

	// The result size is only known now; account for it until Close.
	size := int64(res.Len())*resultEntryBytes + int64(nq+1)*8
	if err := c.reserve(size); err != nil {
		res.h.release()
		return nq, nil, err
	}
	res.reserved = size

	return nq, res, nil
}

// Reset implements Index.
func (c *indexCore) Reset() error {
	start := time.Now()
	err := translateError("reset", c.engine().IndexReset(c.h.raw()))
	c.opts.metricsCollector.RecordReset(time.Since(start), err)
	c.opts.logger.LogReset(context.Background(), err)
	return err
}

// RemoveIDs removes the vectors whose labels are selected and returns how
// many were removed. Not every variant supports removal.
func (c *indexCore) RemoveIDs(sel *IDSelector) (uint64, error) {
	start := time.Now()
	n, err := c.removeIDs(sel)
	c.opts.metricsCollector.RecordRemoveIDs(int(n), time.Since(start), err)
	c.opts.logger.LogRemoveIDs(context.Background(), n, err)
	return n, err
}

func (c *indexCore) removeIDs(sel *IDSelector) (uint64, error) {
	raw := c.h.raw()
	if sel.h.engine != c.engine() {
		return 0, ErrEngineMismatch
	}
	n, err := c.engine().IndexRemoveIDs(raw, sel.h.raw())
	if err != nil {
		return 0, translateError("remove_ids", err)
	}
	return uint64(n), nil
}

// Concurrent implements Index.
func (c *indexCore) Concurrent() (ConcurrentIndex, bool) {
	if !c.reentrant {
		return nil, false
	}
	return concurrentView{c: c}, true
}

// Close implements Index.
func (c *indexCore) Close() error {
	if c.h.release() {
		c.opts.logger.LogRelease(context.Background(), c.h.kind, c.h.ptr)
	}
	return nil
}

func (c *indexCore) cloneHandle() (*handle, error) {
	ptr, err := c.engine().CloneIndex(c.h.raw())
	if err != nil {
		return nil, translateError("clone", err)
	}
	return newHandle(c.engine(), ptr, c.h.kind), nil
}

// checkQuery validates a k-NN request and returns the number of queries
// and the size of the result buffers.
func (c *indexCore) checkQuery(raw native.Handle, q []float32, k int) (int, int64, error) {
	if k < 1 {
		return 0, 0, ErrInvalidK
	}
	nq, err := checkVectors("query", q, c.engine().IndexD(raw))
	if err != nil {
		return 0, 0, err
	}
	size, err := resultBytes(nq, k, c.opts.maxResultBytes)
	return nq, size, err
}

// resultEntryBytes is the size of one (label, distance) pair.
const resultEntryBytes = 12

// resultBytes returns the size of an nq x k result. Results that overflow
// or exceed limit (when positive) fail with ErrResourceExhausted before
// anything is allocated.
func resultBytes(nq, k int, limit int64) (int64, error) {
	if nq > 0 && int64(k) > math.MaxInt64/resultEntryBytes/int64(nq) {
		return 0, fmt.Errorf("%w: %d queries x k=%d overflows the result size", ErrResourceExhausted, nq, k)
	}
	size := int64(nq) * int64(k) * resultEntryBytes
	if limit > 0 && size > limit {
		return 0, fmt.Errorf("%w: %d queries x k=%d needs %d result bytes, limit is %d", ErrResourceExhausted, nq, k, size, limit)
	}
	return size, nil
}

func (c *indexCore) reserve(bytes int64) error {
	if err := c.opts.resources.AcquireMemory(bytes); err != nil {
		return fmt.Errorf("%w: %w", ErrResourceExhausted, err)
	}
	return nil
}
