package reference

import (
	"fmt"

	"github.com/hupe1980/go-faiss/native"
)

type selector interface {
	isMember(id int64) bool
}

type batchSelector map[int64]struct{}

func (s batchSelector) isMember(id int64) bool {
	_, ok := s[id]
	return ok
}

// rangeSelector selects ids in [imin, imax).
type rangeSelector struct {
	imin, imax int64
}

func (s rangeSelector) isMember(id int64) bool { return id >= s.imin && id < s.imax }

// translatedSelector maps sub-index positions to external labels before
// consulting the wrapped selector.
type translatedSelector struct {
	ids []int64
	sel selector
}

func (s translatedSelector) isMember(pos int64) bool {
	return pos >= 0 && pos < int64(len(s.ids)) && s.sel.isMember(s.ids[pos])
}

// IDSelectorBatchNew implements native.Engine.
func (e *Engine) IDSelectorBatchNew(ids []int64) (native.Handle, error) {
	s := make(batchSelector, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return e.register(s), nil
}

// IDSelectorRangeNew implements native.Engine.
func (e *Engine) IDSelectorRangeNew(imin, imax int64) (native.Handle, error) {
	return e.register(rangeSelector{imin: imin, imax: imax}), nil
}

// IDSelectorFree implements native.Engine.
func (e *Engine) IDSelectorFree(h native.Handle) {
	if _, ok := e.unregister(h).(selector); !ok {
		panic(fmt.Sprintf("reference: handle %#x is not an id selector", uintptr(h)))
	}
}
