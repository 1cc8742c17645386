package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-bench/pulse/pkg/errors"
)

const epsilon = 1e-9

func TestComputeEmpty(t *testing.T) {
	t.Parallel()

	_, err := Compute(nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmptyInput))
}

func TestComputeSingleValue(t *testing.T) {
	t.Parallel()

	agg, err := Compute([]float64{42.5})
	require.NoError(t, err)

	assert.Equal(t, 42.5, agg.Mean)
	assert.Equal(t, 42.5, agg.Median)
	assert.Equal(t, 42.5, agg.Min)
	assert.Equal(t, 42.5, agg.Max)
	assert.Zero(t, agg.StdDev)
	assert.Zero(t, agg.Confidence95)
	assert.Zero(t, agg.CoefficientOfVariation)
	assert.Equal(t, 1, agg.Samples)
}

func TestCompute(t *testing.T) {
	t.Parallel()

	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	agg, err := Compute(values)
	require.NoError(t, err)

	assert.InDelta(t, 5.0, agg.Mean, epsilon)
	assert.InDelta(t, 4.5, agg.Median, epsilon)
	assert.Equal(t, 2.0, agg.Min)
	assert.Equal(t, 9.0, agg.Max)
	assert.Equal(t, 8, agg.Samples)

	// sample stddev of the classic sequence
	wantStd := math.Sqrt(32.0 / 7.0)
	assert.InDelta(t, wantStd, agg.StdDev, epsilon)
	assert.InDelta(t, wantStd/5.0, agg.CoefficientOfVariation, epsilon)
	assert.InDelta(t, 1.96*wantStd/math.Sqrt(8), agg.Confidence95, epsilon)
}

func TestComputeZeroMean(t *testing.T) {
	t.Parallel()

	agg, err := Compute([]float64{-1, 1})
	require.NoError(t, err)
	assert.Zero(t, agg.CoefficientOfVariation)
}

func TestMedianOddLength(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	t.Run("range bound", func(t *testing.T) {
		t.Parallel()

		out := Normalize([]float64{3, 9, 6, 12})
		for _, v := range out {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
		assert.Equal(t, 0.0, out[0])
		assert.Equal(t, 1.0, out[3])
	})

	t.Run("all equal yields all ones", func(t *testing.T) {
		t.Parallel()

		out := Normalize([]float64{7, 7, 7})
		for _, v := range out {
			assert.Equal(t, 1.0, v)
		}
	})

	t.Run("empty yields nil", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, Normalize(nil))
	})
}

func TestRelativeImprovement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		baseline  float64
		candidate float64
		want      float64
	}{
		{"improvement", 100, 150, 50},
		{"regression", 100, 75, -25},
		{"zero baseline", 0, 10, 0},
		{"no change", 5, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, RelativeImprovement(tt.baseline, tt.candidate), epsilon)
		})
	}
}

func TestStabilityFromStd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mean   float64
		stddev float64
		want   float64
	}{
		{"zero mean", 0, 123, 0},
		{"perfectly stable", 1, 0, 1},
		{"moderate variance", 10, 2, 0.8},
		{"clamped at zero", 1, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := StabilityFromStd(tt.mean, tt.stddev)
			assert.InDelta(t, tt.want, got, epsilon)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}
