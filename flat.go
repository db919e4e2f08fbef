package faiss

import (
	"fmt"

	"github.com/hupe1980/go-faiss/native"
)

// FlatIndex stores vectors verbatim and answers queries by exhaustive
// search. It needs no training, labels vectors by insertion order, and its
// read path is reentrant.
type FlatIndex struct {
	indexCore
}

// NewFlatIndex creates an empty flat index.
func NewFlatIndex(d int, metric MetricType, optFns ...Option) (*FlatIndex, error) {
	if d <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, d)
	}

	opts := applyOptions(optFns)

	ptr, err := opts.engine.IndexFlatNew(d, metric)
	if err != nil {
		return nil, translateError("index_flat_new", err)
	}

	h := newHandle(opts.engine, ptr, native.KindIndex)
	return &FlatIndex{indexCore: newIndexCore(h, opts, false, true)}, nil
}

// NewFlatIndexL2 creates an empty flat index using squared Euclidean
// distance.
func NewFlatIndexL2(d int, optFns ...Option) (*FlatIndex, error) {
	return NewFlatIndex(d, MetricL2, optFns...)
}

// NewFlatIndexIP creates an empty flat index using inner product.
func NewFlatIndexIP(d int, optFns ...Option) (*FlatIndex, error) {
	return NewFlatIndex(d, MetricInnerProduct, optFns...)
}

// Xb returns a copy of the stored vectors, row-major.
func (idx *FlatIndex) Xb() []float32 {
	eng := idx.engine()
	return append([]float32(nil), eng.IndexFlatXb(eng.IndexFlatCast(idx.h.raw()))...)
}

// TryClone returns an independently owned copy of the index.
func (idx *FlatIndex) TryClone() (*FlatIndex, error) {
	h, err := idx.cloneHandle()
	if err != nil {
		return nil, err
	}
	return &FlatIndex{indexCore: idx.with(h)}, nil
}

func (idx *FlatIndex) rebind(h *handle) Index {
	return &FlatIndex{indexCore: idx.with(h)}
}
