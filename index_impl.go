package faiss

import (
	"fmt"

	"github.com/hupe1980/go-faiss/native"
)

// IndexImpl is an index of any type built from a factory description.
//
// Its capabilities are those of whatever the engine built: add_with_ids is
// attempted and reported as ErrUnsupportedOperation if the engine rejects
// it, and the concurrent facet is only offered when the index was built
// with WithReentrantReads.
type IndexImpl struct {
	indexCore
}

// IndexFactory builds an index from a faiss factory description such as
// "Flat", "IVF1024,Flat" or "IDMap,Flat".
func IndexFactory(d int, description string, metric MetricType, optFns ...Option) (*IndexImpl, error) {
	if d <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, d)
	}

	opts := applyOptions(optFns)

	ptr, err := opts.engine.IndexFactory(d, description, metric)
	if err != nil {
		return nil, translateError("index_factory", err)
	}

	h := newHandle(opts.engine, ptr, native.KindIndex)
	return &IndexImpl{indexCore: newIndexCore(h, opts, true, opts.reentrantReads)}, nil
}

// TryClone returns an independently owned copy of the index.
func (idx *IndexImpl) TryClone() (*IndexImpl, error) {
	h, err := idx.cloneHandle()
	if err != nil {
		return nil, err
	}
	return &IndexImpl{indexCore: idx.with(h)}, nil
}

// IntoFlat converts the index into a FlatIndex, which takes over the
// native handle. On ErrBadCast the index is left untouched.
func (idx *IndexImpl) IntoFlat() (*FlatIndex, error) {
	if idx.engine().IndexFlatCast(idx.h.raw()) == native.Null {
		return nil, ErrBadCast
	}
	c := idx.with(idx.h.move(native.KindIndex))
	c.arbitraryIDs = false
	c.reentrant = true
	return &FlatIndex{indexCore: c}, nil
}

// IntoIVFFlat converts the index into an IVFFlatIndex, which takes over the
// native handle. On ErrBadCast the index is left untouched.
func (idx *IndexImpl) IntoIVFFlat() (*IVFFlatIndex, error) {
	if idx.engine().IndexIVFCast(idx.h.raw()) == native.Null {
		return nil, ErrBadCast
	}
	c := idx.with(idx.h.move(native.KindIndex))
	c.arbitraryIDs = true
	c.reentrant = true
	return &IVFFlatIndex{indexCore: c}, nil
}

func (idx *IndexImpl) rebind(h *handle) Index {
	return &IndexImpl{indexCore: idx.with(h)}
}
