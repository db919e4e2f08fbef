// Package distance provides scalar vector distance calculations.
//
// # Supported Metrics
//
//   - MetricL2: Squared Euclidean distance (default)
//   - MetricDot: Dot product (inner product), a similarity
//   - MetricL1: Manhattan distance
//   - MetricLinf: Chebyshev distance
//
// # Usage
//
//	dist := distance.SquaredL2(a, b)
//	sim := distance.Dot(a, b)
//	fn, err := distance.Provider(distance.MetricL1)
package distance
