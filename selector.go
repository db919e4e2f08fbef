package faiss

import (
	"context"
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/go-faiss/native"
)

// IDSelector picks the labels affected by RemoveIDs. It owns a native
// selector and must be closed.
type IDSelector struct {
	h      *handle
	logger *Logger
}

// NewIDSelectorBatch selects every label in ids. Labels are signed, so a
// bitmap holding a value above math.MaxInt64 fails with ErrInvalidLabel.
func NewIDSelectorBatch(ids *roaring64.Bitmap, optFns ...Option) (*IDSelector, error) {
	if !ids.IsEmpty() && ids.Maximum() > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLabel, ids.Maximum())
	}

	opts := applyOptions(optFns)

	labels := make([]int64, 0, ids.GetCardinality())
	it := ids.Iterator()
	for it.HasNext() {
		labels = append(labels, int64(it.Next()))
	}

	ptr, err := opts.engine.IDSelectorBatchNew(labels)
	if err != nil {
		return nil, translateError("id_selector_batch_new", err)
	}
	return &IDSelector{h: newHandle(opts.engine, ptr, native.KindIDSelector), logger: opts.logger}, nil
}

// NewIDSelectorRange selects the labels in [imin, imax).
func NewIDSelectorRange(imin, imax Idx, optFns ...Option) (*IDSelector, error) {
	opts := applyOptions(optFns)

	ptr, err := opts.engine.IDSelectorRangeNew(imin, imax)
	if err != nil {
		return nil, translateError("id_selector_range_new", err)
	}
	return &IDSelector{h: newHandle(opts.engine, ptr, native.KindIDSelector), logger: opts.logger}, nil
}

// Close releases the native selector. It is safe to call more than once.
func (s *IDSelector) Close() error {
	if s.h.release() {
		s.logger.LogRelease(context.Background(), s.h.kind, s.h.ptr)
	}
	return nil
}
