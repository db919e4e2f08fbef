package kmeans

import (
	"fmt"
	"math/rand"

	"github.com/hupe1980/go-faiss/distance"
)

// InsufficientPointsError is returned when fewer training vectors than
// clusters are supplied.
type InsufficientPointsError struct {
	Points   int
	Clusters int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("number of training points (%d) should be at least as large as number of clusters (%d)", e.Points, e.Clusters)
}

// Train runs Lloyd iterations over the row-major vectors x and returns k
// centroids, row-major. Seeding and empty-cluster recovery draw from rng,
// so equal seeds give equal centroids. It stops early once no vector
// changes cluster.
func Train(x []float32, dim int, k int, metric distance.Metric, maxIter int, rng *rand.Rand) ([]float32, error) {
	n := len(x) / dim
	if n < k {
		return nil, &InsufficientPointsError{Points: n, Clusters: k}
	}

	fn, err := distance.Provider(metric)
	if err != nil {
		return nil, err
	}

	row := func(m []float32, i int) []float32 { return m[i*dim : (i+1)*dim] }

	c := make([]float32, k*dim)
	for j, i := range rng.Perm(n)[:k] {
		copy(row(c, j), row(x, i))
	}

	owner := make([]int, n)
	for i := range owner {
		owner[i] = -1
	}
	size := make([]int, k)
	sum := make([]float32, k*dim)

	for range maxIter {
		moved := 0
		for i := range n {
			if j := nearest(row(x, i), c, dim, metric, fn); j != owner[i] {
				owner[i] = j
				moved++
			}
		}
		if moved == 0 {
			break
		}

		clear(size)
		clear(sum)
		for i, j := range owner {
			size[j]++
			acc := row(sum, j)
			for t, v := range row(x, i) {
				acc[t] += v
			}
		}

		for j := range k {
			if size[j] == 0 {
				copy(row(c, j), row(x, rng.Intn(n)))
				continue
			}
			inv := 1 / float32(size[j])
			dst := row(c, j)
			for t, v := range row(sum, j) {
				dst[t] = v * inv
			}
		}
	}

	return c, nil
}

// Assign returns the index of the centroid closest to vec.
func Assign(vec []float32, centroids []float32, dim int, metric distance.Metric) (int, error) {
	fn, err := distance.Provider(metric)
	if err != nil {
		return -1, err
	}
	return nearest(vec, centroids, dim, metric, fn), nil
}

func nearest(vec, centroids []float32, dim int, metric distance.Metric, fn distance.Func) int {
	best := -1
	var bestScore float32
	similarity := metric.HigherIsCloser()

	for j := range len(centroids) / dim {
		s := fn(vec, centroids[j*dim:(j+1)*dim])
		if best < 0 || (similarity && s > bestScore) || (!similarity && s < bestScore) {
			best, bestScore = j, s
		}
	}
	return best
}
