package faiss

import (
	"context"

	"github.com/hupe1980/go-faiss/native"
)

// IDMap gives any index the ability to store vectors under caller-chosen
// labels. It keeps the algorithm of the wrapped index I and records the
// position→label table in an engine-side id map, which owns the wrapped
// index until the map is closed or unwrapped.
//
// All operations go through the id map, so results carry external labels.
type IDMap[I NativeIndex] struct {
	indexCore
	inner I
}

// NewIDMap wraps index in an id map. The id map takes over the index: from
// here on the index must only be reached through the returned value, and
// closing the id map releases both. If the engine refuses the wrap, index
// is returned to the caller's ownership unchanged.
//
// The index must be empty.
func NewIDMap[I NativeIndex](index I) (*IDMap[I], error) {
	c := index.core()
	eng := c.engine()
	raw := c.h.raw()

	ptr, err := eng.IndexIDMapNew(raw)
	if err != nil {
		err = translateError("index_idmap_new", err)
		c.opts.logger.LogWrap(context.Background(), raw, err)
		return nil, err
	}

	c.h.transfer()
	eng.IndexIDMapSetOwnFields(ptr, true)
	c.opts.logger.LogWrap(context.Background(), raw, nil)

	outer := c.with(newHandle(eng, ptr, native.KindIDMap))
	outer.arbitraryIDs = true

	return &IDMap[I]{indexCore: outer, inner: index}, nil
}

// IDMap returns a copy of the position→label table. Its length is NTotal.
func (m *IDMap[I]) IDMap() []Idx {
	return append([]Idx(nil), m.engine().IndexIDMapIDMap(m.h.raw())...)
}

// InnerHandle returns the native address of the wrapped index. The id map
// owns it; building an index from it would double-free. Use Unwrap instead.
func (m *IDMap[I]) InnerHandle() native.Handle {
	return m.inner.core().h.ptr
}

// Unwrap discards the id map and returns the wrapped index, which is again
// the sole owner of its handle. The id map must not be used afterwards.
//
// The returned index keeps the vectors added through the map, now labelled
// by position.
func (m *IDMap[I]) Unwrap() I {
	eng := m.engine()
	raw := m.h.raw()

	eng.IndexIDMapSetOwnFields(raw, false)
	m.h.release()

	inner := m.inner.core()
	inner.h.reclaim()
	m.opts.logger.LogUnwrap(context.Background(), inner.h.ptr, m.inner.NTotal())

	return m.inner
}

// Close releases the id map and the index it owns. It is safe to call more
// than once.
func (m *IDMap[I]) Close() error {
	if m.h.load() != handleOwned {
		return nil
	}

	owns := m.engine().IndexIDMapOwnFields(m.h.raw())
	if !m.h.release() {
		return nil
	}
	m.opts.logger.LogRelease(context.Background(), m.h.kind, m.h.ptr)

	if inner := m.inner.core().h; owns && inner.dispose() {
		m.opts.logger.LogRelease(context.Background(), inner.kind, inner.ptr)
	}
	return nil
}

// TryClone returns an independently owned copy of the id map and the index
// it wraps.
func (m *IDMap[I]) TryClone() (*IDMap[I], error) {
	h, err := m.cloneHandle()
	if err != nil {
		return nil, err
	}

	eng := m.engine()
	innerCore := m.inner.core()
	sub := newChildHandle(eng, eng.IndexIDMapSubIndex(h.ptr), innerCore.h.kind)

	return &IDMap[I]{
		indexCore: m.with(h),
		inner:     m.inner.rebind(sub).(I),
	}, nil
}
