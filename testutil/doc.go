// Package testutil generates reproducible vector data and exact k-NN
// answers for tests.
//
//	rng := testutil.NewRNG(42)
//	x := rng.UniformVectors(1000, 128) // row-major, values in [0, 1)
//
//	exact := testutil.ExactSearch(x, 128, nil, q, 10, distance.MetricL2)
//	recall := testutil.Recall(exact, testutil.Neighbors(labels, distances))
package testutil
