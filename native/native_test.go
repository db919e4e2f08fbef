package native

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "index", KindIndex.String())
	assert.Equal(t, "id-map index", KindIDMap.String())
	assert.Equal(t, "range-search result", KindRangeSearchResult.String())
	assert.Equal(t, "id selector", KindIDSelector.String())
	assert.Equal(t, "Unknown(42)", Kind(42).String())
}

func TestMetricTypeString(t *testing.T) {
	assert.Equal(t, "L2", MetricL2.String())
	assert.Equal(t, "InnerProduct", MetricInnerProduct.String())
	assert.Equal(t, "Unknown(99)", MetricType(99).String())
}

func TestError(t *testing.T) {
	var err error = &Error{Code: CodeFaissException, Message: "boom"}
	assert.Equal(t, "native error -2: boom", err.Error())

	var ne *Error
	assert.True(t, errors.As(err, &ne))
	assert.Equal(t, CodeFaissException, ne.Code)

	assert.Equal(t, "native error -1", (&Error{Code: CodeUnknown}).Error())
}
