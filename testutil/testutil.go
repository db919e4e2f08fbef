package testutil

import (
	"cmp"
	"math"
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/go-faiss/distance"
)

// Neighbor is one (label, distance) entry of a k-NN answer.
type Neighbor struct {
	Label    int64
	Distance float32
}

// Neighbors zips parallel label and distance rows.
func Neighbors(labels []int64, distances []float32) []Neighbor {
	out := make([]Neighbor, len(labels))
	for i, l := range labels {
		out[i] = Neighbor{Label: l, Distance: distances[i]}
	}
	return out
}

// RNG produces reproducible test data. Safe for concurrent use.
type RNG struct {
	mu   sync.Mutex
	src  *rand.Rand
	seed int64
}

// NewRNG returns a generator seeded with seed.
func NewRNG(seed int64) *RNG {
	return &RNG{src: rand.New(rand.NewSource(seed)), seed: seed}
}

// Seed returns the seed the generator started from.
func (r *RNG) Seed() int64 { return r.seed }

// Reset rewinds the generator to its seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	r.src = rand.New(rand.NewSource(r.seed))
	r.mu.Unlock()
}

// matrix returns n*d values produced by gen under one lock.
func (r *RNG) matrix(n, d int, gen func(src *rand.Rand) float32) []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	x := make([]float32, n*d)
	for i := range x {
		x[i] = gen(r.src)
	}
	return x
}

// UniformVectors returns n row-major vectors with components in [0, 1).
func (r *RNG) UniformVectors(n, d int) []float32 {
	return r.matrix(n, d, (*rand.Rand).Float32)
}

// UniformRangeVectors returns n row-major vectors with components in
// [-1, 1).
func (r *RNG) UniformRangeVectors(n, d int) []float32 {
	return r.matrix(n, d, func(src *rand.Rand) float32 { return 2*src.Float32() - 1 })
}

// GaussianVectors returns n row-major vectors with standard normal
// components.
func (r *RNG) GaussianVectors(n, d int) []float32 {
	return r.matrix(n, d, func(src *rand.Rand) float32 { return float32(src.NormFloat64()) })
}

// UnitVectors returns n row-major vectors spread uniformly over the unit
// sphere, suitable for inner-product tests.
func (r *RNG) UnitVectors(n, d int) []float32 {
	x := r.GaussianVectors(n, d)
	for row := range slices.Chunk(x, d) {
		var sq float64
		for _, v := range row {
			sq += float64(v) * float64(v)
		}
		if sq == 0 {
			continue
		}
		scale := float32(1 / math.Sqrt(sq))
		for j := range row {
			row[j] *= scale
		}
	}
	return x
}

// ClusteredVectors returns n row-major vectors drawn around `clusters` unit
// centres with per-component noise of the given standard deviation. Row i
// belongs to centre i % clusters.
func (r *RNG) ClusteredVectors(n, d, clusters int, spread float32) []float32 {
	centres := r.UnitVectors(clusters, d)
	noise := r.GaussianVectors(n, d)

	for i := range n {
		c := centres[(i%clusters)*d : (i%clusters+1)*d]
		row := noise[i*d : (i+1)*d]
		for j := range row {
			row[j] = c[j] + row[j]*spread
		}
	}
	return noise
}

// UniqueLabels returns n distinct non-negative labels in random order.
func (r *RNG) UniqueLabels(n int) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	perm := r.src.Perm(n * 10)
	labels := make([]int64, n)
	for i := range labels {
		labels[i] = int64(perm[i])
	}
	return labels
}

// ExactSearch ranks every row of x against q and returns the k best. Rows
// are labelled by position unless labels is given. Equal distances keep
// row order.
func ExactSearch(x []float32, d int, labels []int64, q []float32, k int, metric distance.Metric) []Neighbor {
	fn, err := distance.Provider(metric)
	if err != nil {
		panic(err)
	}

	all := make([]Neighbor, 0, len(x)/d)
	for i := range len(x) / d {
		label := int64(i)
		if labels != nil {
			label = labels[i]
		}
		all = append(all, Neighbor{Label: label, Distance: fn(q, x[i*d:(i+1)*d])})
	}

	sign := 1
	if metric.HigherIsCloser() {
		sign = -1
	}
	slices.SortStableFunc(all, func(a, b Neighbor) int {
		return sign * cmp.Compare(a.Distance, b.Distance)
	})

	return all[:min(k, len(all))]
}

// Recall returns the fraction of the first len(got) exact neighbors that
// appear in got. Two empty answers agree fully.
func Recall(exact, got []Neighbor) float64 {
	k := min(len(exact), len(got))
	if k == 0 {
		if len(exact) == len(got) {
			return 1
		}
		return 0
	}

	want := make(map[int64]bool, k)
	for _, n := range exact[:k] {
		want[n.Label] = true
	}

	hits := 0
	for _, n := range got {
		if want[n.Label] {
			hits++
		}
	}
	return float64(hits) / float64(k)
}
