package faiss

import (
	"context"
	"testing"

	"github.com/hupe1980/go-faiss/native/reference"
	"github.com/hupe1980/go-faiss/resource"
	"github.com/hupe1980/go-faiss/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParallelFixture(t *testing.T) (*IDMap[*FlatIndex], []float32) {
	t.Helper()

	const (
		d = 8
		n = 300
	)

	rng := testutil.NewRNG(99)
	eng := reference.New()

	idx, err := NewFlatIndexL2(d, WithEngine(eng))
	require.NoError(t, err)
	m, err := NewIDMap(idx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	require.NoError(t, m.AddWithIDs(rng.UniformVectors(n, d), rng.UniqueLabels(n)))
	return m, rng.UniformVectors(203, d)
}

func TestParallelSearcher_MatchesSequential(t *testing.T) {
	m, queries := newParallelFixture(t)

	facet, ok := m.Concurrent()
	require.True(t, ok)

	want, err := m.Search(queries, 7)
	require.NoError(t, err)
	wantAssign, err := m.Assign(queries, 7)
	require.NoError(t, err)

	ps := NewParallelSearcher(facet, func(o *ParallelOptions) {
		o.ChunkSize = 10
		o.Resources = resource.NewController(resource.Config{MaxWorkers: 3})
	})

	got, err := ps.Search(t.Context(), queries, 7)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	gotAssign, err := ps.Assign(t.Context(), queries, 7)
	require.NoError(t, err)
	assert.Equal(t, wantAssign, gotAssign)
}

func TestParallelSearcher_Defaults(t *testing.T) {
	m, queries := newParallelFixture(t)

	facet, ok := m.Concurrent()
	require.True(t, ok)

	ps := NewParallelSearcher(facet, func(o *ParallelOptions) { o.ChunkSize = 0 })
	assert.Equal(t, DefaultParallelOptions.ChunkSize, ps.opts.ChunkSize)
	assert.NotNil(t, ps.opts.Resources)

	want, err := m.Search(queries, 3)
	require.NoError(t, err)
	got, err := ps.Search(t.Context(), queries, 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParallelSearcher_RateLimited(t *testing.T) {
	m, queries := newParallelFixture(t)

	facet, ok := m.Concurrent()
	require.True(t, ok)

	ps := NewParallelSearcher(facet, func(o *ParallelOptions) {
		o.ChunkSize = 50
		o.Resources = resource.NewController(resource.Config{QueriesPerSecond: 1e6, QueryBurst: 64})
	})

	want, err := m.Search(queries, 2)
	require.NoError(t, err)
	got, err := ps.Search(t.Context(), queries, 2)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParallelSearcher_InvalidInput(t *testing.T) {
	m, _ := newParallelFixture(t)

	facet, ok := m.Concurrent()
	require.True(t, ok)
	ps := NewParallelSearcher(facet)

	_, err := ps.Search(t.Context(), make([]float32, 8), 0)
	assert.ErrorIs(t, err, ErrInvalidK)

	_, err = ps.Assign(t.Context(), make([]float32, 9), 1)
	var dm *DimensionMismatchError
	assert.ErrorAs(t, err, &dm)

	res, err := ps.Search(t.Context(), nil, 4)
	require.NoError(t, err)
	assert.Zero(t, res.NQ())
}

func TestParallelSearcher_ResultTooLarge(t *testing.T) {
	m, queries := newParallelFixture(t)

	facet, ok := m.Concurrent()
	require.True(t, ok)
	ps := NewParallelSearcher(facet)

	_, err := ps.Search(t.Context(), queries, 1<<62)
	assert.ErrorIs(t, err, ErrResourceExhausted)
	_, err = ps.Assign(t.Context(), queries, 1<<40)
	assert.ErrorIs(t, err, ErrResourceExhausted)

	// 203 queries x 12 bytes.
	small := NewParallelSearcher(facet, func(o *ParallelOptions) { o.MaxResultBytes = 203 * 12 })
	_, err = small.Search(t.Context(), queries, 1)
	require.NoError(t, err)
	_, err = small.Search(t.Context(), queries, 2)
	assert.ErrorIs(t, err, ErrResourceExhausted)
}

func TestParallelSearcher_Canceled(t *testing.T) {
	m, queries := newParallelFixture(t)

	facet, ok := m.Concurrent()
	require.True(t, ok)
	ps := NewParallelSearcher(facet)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := ps.Search(ctx, queries, 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParallelSearcher_PropagatesErrors(t *testing.T) {
	eng := reference.New()
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64})

	idx, err := NewFlatIndexL2(2, WithEngine(eng), WithResourceController(rc))
	require.NoError(t, err)
	defer idx.Close()
	require.NoError(t, idx.Add(make([]float32, 20)))

	facet, ok := idx.Concurrent()
	require.True(t, ok)

	ps := NewParallelSearcher(facet, func(o *ParallelOptions) { o.ChunkSize = 1 })

	// Every chunk needs 10 results of 12 bytes, more than the limit allows.
	_, err = ps.Search(t.Context(), make([]float32, 8), 10)
	assert.ErrorIs(t, err, ErrResourceExhausted)
}
