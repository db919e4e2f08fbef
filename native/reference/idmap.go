package reference

import "github.com/hupe1980/go-faiss/native"

// idMapIndex adds arbitrary external labels on top of a sub-index that only
// knows insertion positions. ids[i] is the external label of position i.
type idMapIndex struct {
	sub       index
	subHandle native.Handle
	ownFields bool
	ids       []int64
}

func (m *idMapIndex) dim() int                      { return m.sub.dim() }
func (m *idMapIndex) metricType() native.MetricType { return m.sub.metricType() }
func (m *idMapIndex) ntotal() int64                 { return int64(len(m.ids)) }
func (m *idMapIndex) isTrained() bool               { return m.sub.isTrained() }

func (m *idMapIndex) train(e *Engine, n int, x []float32) error {
	return m.sub.train(e, n, x)
}

func (m *idMapIndex) add(int, []float32) error {
	return faissError("add does not make sense with IndexIDMap, use add_with_ids")
}

func (m *idMapIndex) addWithIDs(n int, x []float32, ids []int64) error {
	if err := m.sub.add(n, x); err != nil {
		return err
	}
	m.ids = append(m.ids, ids[:n]...)
	return nil
}

func (m *idMapIndex) reset() {
	m.sub.reset()
	m.ids = nil
}

// removeIDs removes the positions whose external label is selected and
// compacts the label table the same way the sub-index compacts its storage.
func (m *idMapIndex) removeIDs(sel selector) (int64, error) {
	if _, ok := m.sub.(*flatIndex); !ok {
		return 0, faissError("remove_ids on IndexIDMap requires a compacting sub-index")
	}

	translated := translatedSelector{ids: m.ids, sel: sel}
	removed, err := m.sub.removeIDs(translated)
	if err != nil {
		return 0, err
	}

	j := 0
	for _, id := range m.ids {
		if sel.isMember(id) {
			continue
		}
		m.ids[j] = id
		j++
	}
	m.ids = m.ids[:j]
	return removed, nil
}

func (m *idMapIndex) scan(q []float32, visit func(label int64, dist float32)) {
	m.sub.scan(q, func(label int64, dist float32) {
		if label >= 0 && label < int64(len(m.ids)) {
			label = m.ids[label]
		}
		visit(label, dist)
	})
}
