package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(items []Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}

func TestTopK_Distances(t *testing.T) {
	q := NewTopK(3, false)
	for i, d := range []float32{5, 1, 4, 2, 3} {
		q.Push(Item{Label: int64(i), Distance: d, Seq: int64(i)})
	}

	require.Equal(t, 3, q.Len())
	assert.Equal(t, []int64{1, 3, 4}, labels(q.Sorted()))
	assert.Zero(t, q.Len())
}

func TestTopK_Similarities(t *testing.T) {
	q := NewTopK(2, true)
	for i, d := range []float32{0.1, 0.9, 0.5} {
		q.Push(Item{Label: int64(i), Distance: d, Seq: int64(i)})
	}

	assert.Equal(t, []int64{1, 2}, labels(q.Sorted()))
}

func TestTopK_TiesKeepScanOrder(t *testing.T) {
	q := NewTopK(2, false)
	assert.True(t, q.Push(Item{Label: 10, Distance: 1, Seq: 0}))
	assert.True(t, q.Push(Item{Label: 20, Distance: 1, Seq: 1}))
	// Equal distance, later position: rejected.
	assert.False(t, q.Push(Item{Label: 30, Distance: 1, Seq: 2}))

	assert.Equal(t, []int64{10, 20}, labels(q.Sorted()))
}

func TestTopK_ZeroK(t *testing.T) {
	q := NewTopK(0, false)
	assert.False(t, q.Push(Item{Label: 1}))
	assert.Empty(t, q.Sorted())
}
