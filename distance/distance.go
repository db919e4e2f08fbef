package distance

import (
	"fmt"
	"math"
)

// Dot returns the inner product of a and b, which must have equal length.
func Dot(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}
	return ret
}

// SquaredL2 returns the squared Euclidean distance between a and b. faiss
// reports L2 results in this form, without the square root.
func SquaredL2(a, b []float32) float32 {
	var ret float32
	for i := range a {
		d := a[i] - b[i]
		ret += d * d
	}
	return ret
}

// L1 calculates the Manhattan distance between two vectors.
func L1(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += float32(math.Abs(float64(a[i] - b[i])))
	}
	return ret
}

// Linf calculates the Chebyshev distance between two vectors.
func Linf(a, b []float32) float32 {
	var ret float32
	for i := range a {
		if d := float32(math.Abs(float64(a[i] - b[i]))); d > ret {
			ret = d
		}
	}
	return ret
}

// Metric names a comparison between two vectors.
type Metric int

const (
	MetricL2 Metric = iota
	MetricDot
	MetricL1
	MetricLinf
)

func (m Metric) String() string {
	switch m {
	case MetricL2:
		return "L2"
	case MetricDot:
		return "Dot"
	case MetricL1:
		return "L1"
	case MetricLinf:
		return "Linf"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// HigherIsCloser reports whether larger values mean more similar vectors.
// Only the dot product is a similarity; the others are distances.
func (m Metric) HigherIsCloser() bool {
	return m == MetricDot
}

// Func scores a pair of equal-length vectors.
type Func func(a, b []float32) float32

// Provider returns the kernel implementing m.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricL2:
		return SquaredL2, nil
	case MetricDot:
		return Dot, nil
	case MetricL1:
		return L1, nil
	case MetricLinf:
		return Linf, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
