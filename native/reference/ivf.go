package reference

import (
	"slices"

	"github.com/hupe1980/go-faiss/internal/kmeans"
	"github.com/hupe1980/go-faiss/native"
)

type ivfList struct {
	ids     []int64
	vectors []float32
}

// ivfIndex partitions vectors into nlist inverted lists around centroids
// learned by k-means. Queries scan the nprobe closest lists.
type ivfIndex struct {
	metricSpace
	nlist     int
	nprobe    int
	trained   bool
	centroids []float32
	lists     []ivfList
	count     int64
}

func newIVF(d, nlist int, metric native.MetricType) (*ivfIndex, error) {
	space, err := newMetricSpace(d, metric)
	if err != nil {
		return nil, err
	}
	if nlist <= 0 {
		return nil, faissError("Error: 'nlist > 0' failed")
	}
	return &ivfIndex{
		metricSpace: space,
		nlist:       nlist,
		nprobe:      1,
		lists:       make([]ivfList, nlist),
	}, nil
}

func (v *ivfIndex) ntotal() int64   { return v.count }
func (v *ivfIndex) isTrained() bool { return v.trained }

func (v *ivfIndex) train(e *Engine, n int, x []float32) error {
	centroids, err := kmeans.Train(x[:n*v.d], v.d, v.nlist, v.kind, e.opts.KMeansIterations, e.rng())
	if err != nil {
		return faissError("Error: 'nx >= k' failed: %v", err)
	}
	v.centroids = centroids
	v.trained = true
	return nil
}

func (v *ivfIndex) add(n int, x []float32) error {
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = v.count + int64(i)
	}
	return v.addWithIDs(n, x, ids)
}

func (v *ivfIndex) addWithIDs(n int, x []float32, ids []int64) error {
	if !v.trained {
		return faissError("Error: 'is_trained' failed")
	}
	for i := 0; i < n; i++ {
		vec := x[i*v.d : (i+1)*v.d]
		list, err := kmeans.Assign(vec, v.centroids, v.d, v.kind)
		if err != nil {
			return faissError("%v", err)
		}
		l := &v.lists[list]
		l.ids = append(l.ids, ids[i])
		l.vectors = append(l.vectors, vec...)
	}
	v.count += int64(n)
	return nil
}

// reset empties the inverted lists and keeps the trained centroids.
func (v *ivfIndex) reset() {
	v.lists = make([]ivfList, v.nlist)
	v.count = 0
}

func (v *ivfIndex) removeIDs(sel selector) (int64, error) {
	var removed int64
	for li := range v.lists {
		l := &v.lists[li]
		j := 0
		for i, id := range l.ids {
			if sel.isMember(id) {
				removed++
				continue
			}
			l.ids[j] = id
			copy(l.vectors[j*v.d:(j+1)*v.d], l.vectors[i*v.d:(i+1)*v.d])
			j++
		}
		l.ids = l.ids[:j]
		l.vectors = l.vectors[:j*v.d]
	}
	v.count -= removed
	return removed, nil
}

func (v *ivfIndex) scan(q []float32, visit func(label int64, dist float32)) {
	if !v.trained {
		return
	}
	for _, li := range v.probe(q) {
		l := &v.lists[li]
		for i, id := range l.ids {
			visit(id, v.fn(q, l.vectors[i*v.d:(i+1)*v.d]))
		}
	}
}

// probe returns the nprobe lists closest to q, closest first.
func (v *ivfIndex) probe(q []float32) []int {
	nprobe := min(max(v.nprobe, 1), v.nlist)

	order := make([]int, v.nlist)
	scores := make([]float32, v.nlist)
	for j := range order {
		order[j] = j
		scores[j] = v.fn(q, v.centroids[j*v.d:(j+1)*v.d])
	}
	slices.SortStableFunc(order, func(a, b int) int {
		sa, sb := scores[a], scores[b]
		if v.similarity() {
			sa, sb = sb, sa
		}
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		default:
			return 0
		}
	})
	return order[:nprobe]
}

func (v *ivfIndex) clone() *ivfIndex {
	lists := make([]ivfList, len(v.lists))
	for i, l := range v.lists {
		lists[i] = ivfList{
			ids:     slices.Clone(l.ids),
			vectors: slices.Clone(l.vectors),
		}
	}
	return &ivfIndex{
		metricSpace: v.metricSpace,
		nlist:       v.nlist,
		nprobe:      v.nprobe,
		trained:     v.trained,
		centroids:   slices.Clone(v.centroids),
		lists:       lists,
		count:       v.count,
	}
}
