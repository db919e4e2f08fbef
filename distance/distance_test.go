package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 32},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Mixed", []float32{1, -1, 2}, []float32{1, 1, -2}, -4},
		{"Empty", []float32{}, []float32{}, 0},
		{"Single", []float32{2}, []float32{3}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Dot(tt.a, tt.b), 1e-5)
		})
	}
}

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 27},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"Mixed", []float32{1, -1}, []float32{-1, 1}, 8},
		{"Empty", []float32{}, []float32{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SquaredL2(tt.a, tt.b), 1e-5)
		})
	}
}

func TestL1AndLinf(t *testing.T) {
	a := []float32{1, -2, 3}
	b := []float32{4, 2, 3}

	assert.InDelta(t, 7, L1(a, b), 1e-6)
	assert.InDelta(t, 4, Linf(a, b), 1e-6)
	assert.Zero(t, Linf(a, a))
}

func TestProvider(t *testing.T) {
	for _, m := range []Metric{MetricL2, MetricDot, MetricL1, MetricLinf} {
		fn, err := Provider(m)
		require.NoError(t, err, m.String())
		assert.NotNil(t, fn)
	}

	_, err := Provider(Metric(99))
	assert.Error(t, err)
	assert.Equal(t, "Unknown(99)", Metric(99).String())
}

func TestHigherIsCloser(t *testing.T) {
	assert.True(t, MetricDot.HigherIsCloser())
	assert.False(t, MetricL2.HigherIsCloser())
	assert.False(t, MetricL1.HigherIsCloser())
}
