package faiss

import (
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/go-faiss/native"
)

// handleState is the ownership state of a native resource.
//
//	owned ──release──▶ released
//	  │ ▲
//	  │ └─reclaim── transferred ──dispose──▶ released
//	  └──transfer──────┘
//	owned ──move──▶ moved (a new handle owns the address)
type handleState uint32

const (
	handleOwned handleState = iota
	handleTransferred
	handleMoved
	handleReleased
)

func (s handleState) String() string {
	switch s {
	case handleOwned:
		return "owned"
	case handleTransferred:
		return "transferred"
	case handleMoved:
		return "moved"
	case handleReleased:
		return "released"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(s))
	}
}

// handle is the single owner of a native resource. Every ownership change
// is one compare-and-swap on state, so no two Go values can ever believe
// they are responsible for freeing the same address.
type handle struct {
	engine native.Engine
	ptr    native.Handle
	kind   native.Kind
	state  atomic.Uint32
}

func newHandle(engine native.Engine, ptr native.Handle, kind native.Kind) *handle {
	return &handle{engine: engine, ptr: ptr, kind: kind}
}

func (h *handle) load() handleState { return handleState(h.state.Load()) }

// raw returns the address for a native call. Using a handle that is no
// longer owned is a programming error.
func (h *handle) raw() native.Handle {
	if s := h.load(); s != handleOwned {
		panic(fmt.Sprintf("faiss: use of %s %s handle %#x", s, h.kind, uintptr(h.ptr)))
	}
	return h.ptr
}

// release frees the resource if this handle still owns it and reports
// whether it did. Released, moved and transferred handles are left alone.
func (h *handle) release() bool {
	if !h.cas(handleOwned, handleReleased) {
		return false
	}

	switch h.kind {
	case native.KindIndex, native.KindIDMap:
		h.engine.IndexFree(h.ptr)
	case native.KindRangeSearchResult:
		h.engine.RangeSearchResultFree(h.ptr)
	case native.KindIDSelector:
		h.engine.IDSelectorFree(h.ptr)
	default:
		panic(fmt.Sprintf("faiss: release of unknown resource kind %s", h.kind))
	}
	return true
}

// transfer hands ownership to a native parent.
func (h *handle) transfer() {
	h.mustCAS(handleOwned, handleTransferred)
}

// reclaim takes ownership back from a native parent that has been told to
// disown the resource.
func (h *handle) reclaim() {
	h.mustCAS(handleTransferred, handleOwned)
}

// dispose records that the native parent freed the resource.
func (h *handle) dispose() bool {
	return h.cas(handleTransferred, handleReleased)
}

// move retires h and returns a new handle owning the same address.
func (h *handle) move(kind native.Kind) *handle {
	h.mustCAS(handleOwned, handleMoved)
	return newHandle(h.engine, h.ptr, kind)
}

func (h *handle) cas(from, to handleState) bool {
	return h.state.CompareAndSwap(uint32(from), uint32(to))
}

func (h *handle) mustCAS(from, to handleState) {
	if !h.cas(from, to) {
		panic(fmt.Sprintf("faiss: %s handle %#x is %s, want %s", h.kind, uintptr(h.ptr), h.load(), from))
	}
}

// newChildHandle returns a handle for a resource that a native parent
// already owns.
func newChildHandle(engine native.Engine, ptr native.Handle, kind native.Kind) *handle {
	h := newHandle(engine, ptr, kind)
	h.state.Store(uint32(handleTransferred))
	return h
}
