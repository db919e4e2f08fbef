package faiss

import (
	"fmt"

	"github.com/hupe1980/go-faiss/native"
)

// IVFFlatIndex partitions vectors into nlist inverted lists around trained
// centroids and scans the nprobe closest lists per query. It must be
// trained before vectors are added, accepts caller-chosen labels natively,
// and its read path is reentrant.
type IVFFlatIndex struct {
	indexCore
}

// NewIVFFlatIndex creates an untrained inverted-file index with nlist lists.
func NewIVFFlatIndex(d, nlist int, metric MetricType, optFns ...Option) (*IVFFlatIndex, error) {
	if d <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, d)
	}

	opts := applyOptions(optFns)

	ptr, err := opts.engine.IndexFactory(d, fmt.Sprintf("IVF%d,Flat", nlist), metric)
	if err != nil {
		return nil, translateError("index_factory", err)
	}

	h := newHandle(opts.engine, ptr, native.KindIndex)
	return &IVFFlatIndex{indexCore: newIndexCore(h, opts, true, true)}, nil
}

// NList returns the number of inverted lists.
func (idx *IVFFlatIndex) NList() int {
	eng := idx.engine()
	return eng.IndexIVFNList(eng.IndexIVFCast(idx.h.raw()))
}

// NProbe returns the number of lists scanned per query.
func (idx *IVFFlatIndex) NProbe() int {
	eng := idx.engine()
	return eng.IndexIVFNProbe(eng.IndexIVFCast(idx.h.raw()))
}

// SetNProbe sets the number of lists scanned per query. It is a mutation
// and must not overlap concurrent reads.
func (idx *IVFFlatIndex) SetNProbe(nprobe int) {
	eng := idx.engine()
	eng.IndexIVFSetNProbe(eng.IndexIVFCast(idx.h.raw()), nprobe)
}

// TryClone returns an independently owned copy of the index.
func (idx *IVFFlatIndex) TryClone() (*IVFFlatIndex, error) {
	h, err := idx.cloneHandle()
	if err != nil {
		return nil, err
	}
	return &IVFFlatIndex{indexCore: idx.with(h)}, nil
}

func (idx *IVFFlatIndex) rebind(h *handle) Index {
	return &IVFFlatIndex{indexCore: idx.with(h)}
}
