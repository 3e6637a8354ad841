package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregates(t *testing.T) {
	xs := []float64{3, 1, 2, 4}
	assert.Equal(t, 10.0, Sum(xs))
	assert.Equal(t, 2.5, Mean(xs))
	assert.Equal(t, 1.0, Min(xs))
	assert.Equal(t, 4.0, Max(xs))
	assert.Equal(t, 2.5, Median(xs))
	assert.Equal(t, []float64{3, 1, 2, 4}, xs, "median must not reorder input")
	assert.Equal(t, 2.0, Median([]float64{5, 1, 2}))
	assert.InDelta(t, 1.2910, StdDev(xs), 1e-4)
}

func TestAggregates_Empty(t *testing.T) {
	assert.Zero(t, Mean(nil))
	assert.Zero(t, Median(nil))
	assert.Zero(t, StdDev([]float64{7}))
	assert.Zero(t, Min(nil))
	assert.Zero(t, Max(nil))
}

func TestPearson(t *testing.T) {
	r, ok := Pearson([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-9)

	r, ok = Pearson([]float64{1, 2, 3, 4}, []float64{8, 6, 4, 2})
	require.True(t, ok)
	assert.InDelta(t, -1.0, r, 1e-9)

	_, ok = Pearson([]float64{1, 1, 1}, []float64{1, 2, 3})
	assert.False(t, ok, "zero variance has no correlation")
}

func TestSolve(t *testing.T) {
	// 2x + y = 5, x - y = 1 → x=2, y=1
	x, err := Solve([][]float64{{2, 1}, {1, -1}}, []float64{5, 1})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, x[0], 1e-9)
	assert.InDelta(t, 1.0, x[1], 1e-9)

	_, err = Solve([][]float64{{1, 2}, {2, 4}}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrSingular)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.23, Round(1.2345, 2))
	assert.Equal(t, 2.0, Round(1.9999, 3))
}

func TestRound_LargeValues(t *testing.T) {
	assert.Equal(t, 1e308, Round(1e308, 6))
	assert.Equal(t, 1.5, Round(1.5, 400))
	assert.True(t, math.IsInf(Round(math.Inf(1), 2), 1))
	assert.True(t, math.IsNaN(Round(math.NaN(), 2)))
	assert.Equal(t, Round(1.0/3, MaxDecimals), Round(1.0/3, 40))
}

func TestMeanAndMedian_NoOverflow(t *testing.T) {
	xs := []float64{1e308, 1e308}
	assert.True(t, math.IsInf(Sum(xs), 1))
	assert.Equal(t, 1e308, Mean(xs))
	assert.Equal(t, 1e308, Median(xs))
	assert.True(t, Finite(Mean([]float64{-1e308, 1e308, 1e308})))
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite(0))
	assert.False(t, Finite(math.Inf(-1)))
	assert.False(t, Finite(math.NaN()))
}
