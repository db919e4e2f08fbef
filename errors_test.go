package faiss

import (
	"errors"
	"testing"

	"github.com/hupe1980/go-faiss/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateError(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, translateError("search", nil))
	})

	t.Run("NativeError", func(t *testing.T) {
		cause := &native.Error{Code: native.CodeFaissException, Message: "Error: 'is_trained' failed"}
		err := translateError("add", cause)

		var ne *NativeError
		require.ErrorAs(t, err, &ne)
		assert.Equal(t, "add", ne.Op)
		assert.Equal(t, native.CodeFaissException, ne.Code)
		assert.Equal(t, "Error: 'is_trained' failed", ne.Message)
		assert.Equal(t, "add: native error -2: Error: 'is_trained' failed", ne.Error())
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, ErrUnsupportedOperation)
		assert.NotErrorIs(t, err, ErrResourceExhausted)
	})

	t.Run("NotImplemented", func(t *testing.T) {
		err := translateError("add_with_ids", &native.Error{
			Code:    native.CodeFaissException,
			Message: "add_with_ids not implemented for this type of index",
		})

		assert.ErrorIs(t, err, ErrUnsupportedOperation)
		var ne *NativeError
		assert.ErrorAs(t, err, &ne)
	})

	t.Run("BadAlloc", func(t *testing.T) {
		err := translateError("range_search", &native.Error{Code: native.CodeStdException, Message: "std::bad_alloc"})

		assert.ErrorIs(t, err, ErrResourceExhausted)
		var ne *NativeError
		require.ErrorAs(t, err, &ne)
		assert.Equal(t, native.CodeStdException, ne.Code)
	})

	t.Run("Foreign", func(t *testing.T) {
		cause := errors.New("boom")
		err := translateError("train", cause)

		assert.ErrorIs(t, err, cause)
		assert.EqualError(t, err, "train: boom")
	})
}

func TestNativeError_NoMessage(t *testing.T) {
	err := &NativeError{Op: "reset", Code: native.CodeUnknown}
	assert.Equal(t, "reset: native error -1", err.Error())
	assert.NoError(t, err.Unwrap())
}

func TestDimensionMismatchError(t *testing.T) {
	err := &DimensionMismatchError{Field: "vectors", Expected: 8, Actual: 12}
	assert.Equal(t, "dimension mismatch: vectors length 12 is not a multiple of d=8", err.Error())

	err = &DimensionMismatchError{Field: "ids", Expected: 3, Actual: 2}
	assert.Equal(t, "dimension mismatch: expected 3 ids, got 2", err.Error())
}

func TestCheckVectors(t *testing.T) {
	n, err := checkVectors("query", make([]float32, 12), 4)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = checkVectors("query", nil, 4)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = checkVectors("query", make([]float32, 5), 4)
	var dm *DimensionMismatchError
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, "query", dm.Field)
	assert.Equal(t, 4, dm.Expected)
	assert.Equal(t, 5, dm.Actual)
}
