package reference

import "github.com/hupe1980/go-faiss/native"

// flatIndex stores vectors contiguously and answers queries by exact scan.
// Labels are insertion positions; arbitrary ids are not supported.
type flatIndex struct {
	metricSpace
	xb []float32
}

func newFlat(d int, metric native.MetricType) (*flatIndex, error) {
	space, err := newMetricSpace(d, metric)
	if err != nil {
		return nil, err
	}
	return &flatIndex{metricSpace: space}, nil
}

func (f *flatIndex) ntotal() int64   { return int64(len(f.xb) / f.d) }
func (f *flatIndex) isTrained() bool { return true }

func (f *flatIndex) train(*Engine, int, []float32) error { return nil }

func (f *flatIndex) add(n int, x []float32) error {
	f.xb = append(f.xb, x[:n*f.d]...)
	return nil
}

func (f *flatIndex) addWithIDs(int, []float32, []int64) error {
	return faissError("add_with_ids not implemented for this type of index")
}

func (f *flatIndex) reset() { f.xb = nil }

// removeIDs drops the selected positions and shifts the remaining vectors
// down, so labels stay sequential.
func (f *flatIndex) removeIDs(sel selector) (int64, error) {
	n := f.ntotal()
	j := int64(0)
	for i := int64(0); i < n; i++ {
		if sel.isMember(i) {
			continue
		}
		if i != j {
			copy(f.xb[j*int64(f.d):(j+1)*int64(f.d)], f.xb[i*int64(f.d):(i+1)*int64(f.d)])
		}
		j++
	}
	f.xb = f.xb[:j*int64(f.d)]
	return n - j, nil
}

func (f *flatIndex) scan(q []float32, visit func(label int64, dist float32)) {
	n := len(f.xb) / f.d
	for i := 0; i < n; i++ {
		visit(int64(i), f.fn(q, f.xb[i*f.d:(i+1)*f.d]))
	}
}

func (f *flatIndex) clone() *flatIndex {
	return &flatIndex{
		metricSpace: f.metricSpace,
		xb:          append([]float32(nil), f.xb...),
	}
}
