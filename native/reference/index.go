package reference

import (
	"math"

	"github.com/hupe1980/go-faiss/distance"
	"github.com/hupe1980/go-faiss/internal/queue"
	"github.com/hupe1980/go-faiss/native"
)

// index is the behaviour shared by every index variant in the table.
type index interface {
	dim() int
	metricType() native.MetricType
	ntotal() int64
	isTrained() bool

	train(e *Engine, n int, x []float32) error
	add(n int, x []float32) error
	addWithIDs(n int, x []float32, ids []int64) error
	reset()
	removeIDs(sel selector) (int64, error)

	// scan reports every stored vector that may be a neighbor of q. The
	// visit order is deterministic for a given data layout and breaks ties
	// between equal distances.
	scan(q []float32, visit func(label int64, dist float32))
}

// metricSpace bundles the per-metric pieces every variant needs.
type metricSpace struct {
	d      int
	metric native.MetricType
	fn     distance.Func
	kind   distance.Metric
}

func newMetricSpace(d int, metric native.MetricType) (metricSpace, error) {
	if d <= 0 {
		return metricSpace{}, faissError("Error: 'd > 0' failed")
	}

	var kind distance.Metric
	switch metric {
	case native.MetricL2:
		kind = distance.MetricL2
	case native.MetricInnerProduct:
		kind = distance.MetricDot
	case native.MetricL1:
		kind = distance.MetricL1
	case native.MetricLinf:
		kind = distance.MetricLinf
	default:
		return metricSpace{}, faissError("metric type %d not supported", int32(metric))
	}

	fn, err := distance.Provider(kind)
	if err != nil {
		return metricSpace{}, faissError("%v", err)
	}

	return metricSpace{d: d, metric: metric, fn: fn, kind: kind}, nil
}

func (s metricSpace) dim() int                      { return s.d }
func (s metricSpace) metricType() native.MetricType { return s.metric }

// similarity reports whether larger scores are better.
func (s metricSpace) similarity() bool { return s.kind.HigherIsCloser() }

// worst is the score reported for unfilled result slots.
func (s metricSpace) worst() float32 {
	if s.similarity() {
		return -math.MaxFloat32
	}
	return math.MaxFloat32
}

// within reports whether a score falls inside a range-search radius.
func (s metricSpace) within(score, radius float32) bool {
	if s.similarity() {
		return score > radius
	}
	return score < radius
}

// spaceOf returns the metric space of an index, looking through id maps.
func spaceOf(idx index) metricSpace {
	switch x := idx.(type) {
	case *flatIndex:
		return x.metricSpace
	case *ivfIndex:
		return x.metricSpace
	case *idMapIndex:
		return spaceOf(x.sub)
	default:
		panic("reference: unknown index variant")
	}
}

func search(idx index, n int, x []float32, k int, distances []float32, labels []int64) {
	space := spaceOf(idx)
	d := space.d
	// A scan never visits more than ntotal vectors.
	q := queue.NewTopK(int(min(int64(k), idx.ntotal())), space.similarity())

	for i := 0; i < n; i++ {
		var seq int64
		idx.scan(x[i*d:(i+1)*d], func(label int64, dist float32) {
			q.Push(queue.Item{Label: label, Distance: dist, Seq: seq})
			seq++
		})

		row := q.Sorted()
		for j := 0; j < k; j++ {
			if j < len(row) {
				labels[i*k+j] = row[j].Label
				distances[i*k+j] = row[j].Distance
			} else {
				labels[i*k+j] = -1
				distances[i*k+j] = space.worst()
			}
		}
	}
}

func rangeSearch(idx index, n int, x []float32, radius float32, res *rangeResult, maxEntries int) error {
	space := spaceOf(idx)
	d := space.d

	lims := make([]uint64, n+1)
	var (
		labels    []int64
		distances []float32
	)

	for i := 0; i < n; i++ {
		idx.scan(x[i*d:(i+1)*d], func(label int64, dist float32) {
			if space.within(dist, radius) {
				labels = append(labels, label)
				distances = append(distances, dist)
			}
		})
		if maxEntries > 0 && len(labels) > maxEntries {
			return badAlloc()
		}
		lims[i+1] = uint64(len(labels))
	}

	res.lims = lims
	res.labels = labels
	res.distances = distances
	return nil
}
