package reference

import (
	"errors"
	"math"
	"testing"

	"github.com/hupe1980/go-faiss/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireNativeCode(t *testing.T, err error, code int) *native.Error {
	t.Helper()
	var ne *native.Error
	require.True(t, errors.As(err, &ne), "expected *native.Error, got %v", err)
	assert.Equal(t, code, ne.Code)
	return ne
}

func TestEngine_FlatLifecycle(t *testing.T) {
	e := New()

	h, err := e.IndexFactory(2, "Flat", native.MetricL2)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Live())

	assert.True(t, e.IndexIsTrained(h))
	assert.Equal(t, 2, e.IndexD(h))
	assert.Equal(t, native.MetricL2, e.IndexMetricType(h))
	assert.Equal(t, h, e.IndexFlatCast(h))
	assert.Equal(t, native.Null, e.IndexIVFCast(h))

	require.NoError(t, e.IndexAdd(h, 3, []float32{0, 0, 1, 1, 5, 5}))
	assert.Equal(t, int64(3), e.IndexNTotal(h))
	assert.Equal(t, []float32{0, 0, 1, 1, 5, 5}, e.IndexFlatXb(h))

	labels := make([]int64, 4)
	distances := make([]float32, 4)
	require.NoError(t, e.IndexSearch(h, 1, []float32{0.9, 0.9}, 4, distances, labels))
	assert.Equal(t, []int64{1, 0, 2, -1}, labels)
	assert.InDelta(t, 0.02, distances[0], 1e-6)
	assert.Equal(t, float32(math.MaxFloat32), distances[3])

	err = e.IndexAddWithIDs(h, 1, []float32{1, 1}, []int64{7})
	ne := requireNativeCode(t, err, native.CodeFaissException)
	assert.Contains(t, ne.Message, "add_with_ids not implemented")

	require.NoError(t, e.IndexReset(h))
	assert.Zero(t, e.IndexNTotal(h))

	e.IndexFree(h)
	assert.Zero(t, e.Live())
	assert.Panics(t, func() { e.IndexFree(h) })
}

func TestEngine_SearchRejectsZeroK(t *testing.T) {
	e := New()
	h, err := e.IndexFlatNew(2, native.MetricL2)
	require.NoError(t, err)
	defer e.IndexFree(h)

	err = e.IndexSearch(h, 1, []float32{0, 0}, 0, nil, nil)
	requireNativeCode(t, err, native.CodeFaissException)
}

func TestEngine_InnerProductOrdersBySimilarity(t *testing.T) {
	e := New()
	h, err := e.IndexFlatNew(2, native.MetricInnerProduct)
	require.NoError(t, err)
	defer e.IndexFree(h)

	require.NoError(t, e.IndexAdd(h, 3, []float32{1, 0, 0, 1, 0.7, 0.7}))

	labels := make([]int64, 3)
	distances := make([]float32, 3)
	require.NoError(t, e.IndexSearch(h, 1, []float32{0, 1}, 3, distances, labels))
	assert.Equal(t, []int64{1, 2, 0}, labels)
	assert.GreaterOrEqual(t, distances[0], distances[1])
	assert.GreaterOrEqual(t, distances[1], distances[2])
}

func TestEngine_FactoryParse(t *testing.T) {
	e := New()

	for _, desc := range []string{"Flat", " Flat ", "IVF4,Flat", "IDMap,Flat", "IDMap,IVF2,Flat"} {
		h, err := e.IndexFactory(4, desc, native.MetricL2)
		require.NoError(t, err, desc)
		e.IndexFree(h)
	}
	assert.Zero(t, e.Live())

	for _, desc := range []string{"HNSW32", "IVFx,Flat", "IVF4,PQ8", ""} {
		_, err := e.IndexFactory(4, desc, native.MetricL2)
		ne := requireNativeCode(t, err, native.CodeFaissException)
		assert.Contains(t, ne.Message, "could not parse index string")
	}

	_, err := e.IndexFactory(0, "Flat", native.MetricL2)
	requireNativeCode(t, err, native.CodeFaissException)

	_, err = e.IndexFactory(4, "Flat", native.MetricType(42))
	requireNativeCode(t, err, native.CodeFaissException)
}

func TestEngine_IVF(t *testing.T) {
	e := New()
	h, err := e.IndexFactory(2, "IVF2,Flat", native.MetricL2)
	require.NoError(t, err)
	defer e.IndexFree(h)

	assert.False(t, e.IndexIsTrained(h))
	assert.Equal(t, 2, e.IndexIVFNList(h))
	assert.Equal(t, 1, e.IndexIVFNProbe(h))

	data := []float32{0, 0, 0, 1, 1, 0, 10, 10, 10, 11, 11, 10}

	err = e.IndexAdd(h, 6, data)
	ne := requireNativeCode(t, err, native.CodeFaissException)
	assert.Contains(t, ne.Message, "is_trained")

	err = e.IndexTrain(h, 1, data)
	ne = requireNativeCode(t, err, native.CodeFaissException)
	assert.Contains(t, ne.Message, "number of training points (1)")
	assert.False(t, e.IndexIsTrained(h))

	require.NoError(t, e.IndexTrain(h, 6, data))
	assert.True(t, e.IndexIsTrained(h))

	ids := []int64{100, 101, 102, 200, 201, 202}
	require.NoError(t, e.IndexAddWithIDs(h, 6, data, ids))
	assert.Equal(t, int64(6), e.IndexNTotal(h))

	e.IndexIVFSetNProbe(h, 2)
	labels := make([]int64, 1)
	distances := make([]float32, 1)
	require.NoError(t, e.IndexSearch(h, 1, []float32{10.1, 10.1}, 1, distances, labels))
	assert.Equal(t, []int64{200}, labels)

	require.NoError(t, e.IndexReset(h))
	assert.Zero(t, e.IndexNTotal(h))
	assert.True(t, e.IndexIsTrained(h))
}

func TestEngine_IDMapOwnFields(t *testing.T) {
	e := New()

	inner, err := e.IndexFlatNew(2, native.MetricL2)
	require.NoError(t, err)

	outer, err := e.IndexIDMapNew(inner)
	require.NoError(t, err)
	assert.False(t, e.IndexIDMapOwnFields(outer))
	assert.Equal(t, inner, e.IndexIDMapSubIndex(outer))

	e.IndexIDMapSetOwnFields(outer, true)
	require.NoError(t, e.IndexAddWithIDs(outer, 2, []float32{0, 0, 3, 3}, []int64{42, 7}))
	assert.Equal(t, []int64{42, 7}, e.IndexIDMapIDMap(outer))
	assert.Equal(t, int64(2), e.IndexNTotal(inner))

	err = e.IndexAdd(outer, 1, []float32{1, 1})
	requireNativeCode(t, err, native.CodeFaissException)

	// Owning id map releases the sub-index too.
	e.IndexFree(outer)
	assert.Zero(t, e.Live())
}

func TestEngine_IDMapDisowned(t *testing.T) {
	e := New()

	inner, err := e.IndexFlatNew(2, native.MetricL2)
	require.NoError(t, err)
	outer, err := e.IndexIDMapNew(inner)
	require.NoError(t, err)

	e.IndexFree(outer)
	assert.Equal(t, 1, e.Live())
	e.IndexFree(inner)
	assert.Zero(t, e.Live())
}

func TestEngine_IDMapRequiresEmptySubIndex(t *testing.T) {
	e := New()
	inner, err := e.IndexFlatNew(2, native.MetricL2)
	require.NoError(t, err)
	defer e.IndexFree(inner)
	require.NoError(t, e.IndexAdd(inner, 1, []float32{1, 1}))

	_, err = e.IndexIDMapNew(inner)
	requireNativeCode(t, err, native.CodeFaissException)
}

func TestEngine_RangeSearch(t *testing.T) {
	e := New()
	h, err := e.IndexFlatNew(1, native.MetricL2)
	require.NoError(t, err)
	defer e.IndexFree(h)
	require.NoError(t, e.IndexAdd(h, 4, []float32{0, 1, 2, 3}))

	res, err := e.RangeSearchResultNew(2)
	require.NoError(t, err)
	defer e.RangeSearchResultFree(res)

	require.NoError(t, e.IndexRangeSearch(h, 2, []float32{0, 3}, 1.5, res))
	assert.Equal(t, int64(2), e.RangeSearchResultNQ(res))
	assert.Equal(t, []uint64{0, 2, 4}, e.RangeSearchResultLims(res))

	labels, distances := e.RangeSearchResultLabels(res)
	assert.Equal(t, []int64{0, 1, 2, 3}, labels)
	assert.Equal(t, []float32{0, 1, 1, 0}, distances)
}

func TestEngine_RangeSearchBadAlloc(t *testing.T) {
	e := New(func(o *Options) { o.MaxResultEntries = 2 })
	h, err := e.IndexFlatNew(1, native.MetricL2)
	require.NoError(t, err)
	defer e.IndexFree(h)
	require.NoError(t, e.IndexAdd(h, 4, []float32{0, 1, 2, 3}))

	res, err := e.RangeSearchResultNew(1)
	require.NoError(t, err)
	defer e.RangeSearchResultFree(res)

	err = e.IndexRangeSearch(h, 1, []float32{0}, 100, res)
	ne := requireNativeCode(t, err, native.CodeStdException)
	assert.Equal(t, "std::bad_alloc", ne.Message)
}

func TestEngine_RemoveIDs(t *testing.T) {
	e := New()

	h, err := e.IndexFactory(1, "IDMap,Flat", native.MetricL2)
	require.NoError(t, err)
	defer e.IndexFree(h)
	require.NoError(t, e.IndexAddWithIDs(h, 4, []float32{0, 1, 2, 3}, []int64{10, 11, 12, 13}))

	sel, err := e.IDSelectorBatchNew([]int64{11, 13, 99})
	require.NoError(t, err)
	defer e.IDSelectorFree(sel)

	n, err := e.IndexRemoveIDs(h, sel)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, []int64{10, 12}, e.IndexIDMapIDMap(h))

	labels := make([]int64, 2)
	distances := make([]float32, 2)
	require.NoError(t, e.IndexSearch(h, 1, []float32{2}, 2, distances, labels))
	assert.Equal(t, []int64{12, 10}, labels)

	rsel, err := e.IDSelectorRangeNew(0, 11)
	require.NoError(t, err)
	defer e.IDSelectorFree(rsel)
	n, err = e.IndexRemoveIDs(h, rsel)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, []int64{12}, e.IndexIDMapIDMap(h))
}

func TestEngine_Clone(t *testing.T) {
	e := New()
	h, err := e.IndexFactory(1, "IDMap,Flat", native.MetricL2)
	require.NoError(t, err)
	require.NoError(t, e.IndexAddWithIDs(h, 2, []float32{0, 1}, []int64{5, 6}))

	c, err := e.CloneIndex(h)
	require.NoError(t, err)
	require.NoError(t, e.IndexReset(h))

	assert.Equal(t, int64(2), e.IndexNTotal(c))
	assert.Equal(t, []int64{5, 6}, e.IndexIDMapIDMap(c))

	e.IndexFree(h)
	e.IndexFree(c)
	assert.Zero(t, e.Live())
}

func TestEngine_InvalidHandlePanics(t *testing.T) {
	e := New()
	assert.Panics(t, func() { e.IndexNTotal(native.Handle(0xdead)) })
	assert.Panics(t, func() { e.RangeSearchResultFree(native.Handle(0xbeef)) })
}
