package recommender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-bench/pulse/pkg/analyzer"
	"github.com/pulse-bench/pulse/pkg/errors"
)

func TestRecommendSustainability(t *testing.T) {
	t.Parallel()

	rec, err := Recommend(&analyzer.Result{
		EfficiencyScore:   2.0,
		StabilityScore:    0.95,
		EnergyPer1KTokens: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, "cpu", rec.Backend)
	assert.Equal(t, ModeSustainability, rec.Mode)
	assert.Equal(t, 0.95, rec.Confidence)
	assert.Contains(t, rec.Rationale, "efficiency")
	assert.Nil(t, rec.Scores)
}

func TestRecommendPerformanceOnLowStability(t *testing.T) {
	t.Parallel()

	rec, err := Recommend(&analyzer.Result{
		EfficiencyScore: 2.0,
		StabilityScore:  0.4,
	})
	require.NoError(t, err)

	assert.Equal(t, "gpu", rec.Backend)
	assert.Equal(t, ModePerformance, rec.Mode)
	assert.Equal(t, 0.4, rec.Confidence)
	assert.Contains(t, rec.Rationale, "throughput")
}

func TestRecommendPerformanceOnZeroEfficiency(t *testing.T) {
	t.Parallel()

	rec, err := Recommend(&analyzer.Result{
		EfficiencyScore: 0,
		StabilityScore:  0.9,
	})
	require.NoError(t, err)

	assert.Equal(t, "gpu", rec.Backend)
	assert.Equal(t, ModePerformance, rec.Mode)
}

func TestRecommendNilAnalysis(t *testing.T) {
	t.Parallel()

	_, err := Recommend(nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmptyInput))
}

func TestRecommendConfidenceRounding(t *testing.T) {
	t.Parallel()

	rec, err := Recommend(&analyzer.Result{
		EfficiencyScore: 1,
		StabilityScore:  0.87654,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.877, rec.Confidence)
}

func TestScoreWeights(t *testing.T) {
	t.Parallel()

	s := Score(&analyzer.Result{
		EfficiencyScore: 2.0,
		Throughput:      10.0,
		StabilityScore:  1.0,
	})
	// 0.5*2 + 0.3*10 + 0.2*1
	assert.InDelta(t, 4.2, s, 1e-9)

	assert.Zero(t, Score(nil))
}

func TestRecommendFromComparison(t *testing.T) {
	t.Parallel()

	results := map[string]*analyzer.Result{
		"cpu": {
			EfficiencyScore:   3.0,
			Throughput:        100,
			StabilityScore:    0.9,
			EnergyPer1KTokens: 40,
		},
		"gpu": {
			EfficiencyScore:   1.0,
			Throughput:        50,
			StabilityScore:    0.8,
			EnergyPer1KTokens: 400,
		},
	}

	rec, err := RecommendFromComparison(results)
	require.NoError(t, err)

	assert.Equal(t, "cpu", rec.Backend)
	assert.Equal(t, ModeSustainability, rec.Mode)
	assert.Len(t, rec.Scores, 2)
	assert.Greater(t, rec.Scores["cpu"], rec.Scores["gpu"])
}

func TestRecommendFromComparisonModes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		analysis *analyzer.Result
		mode     string
	}{
		{
			name:     "unstable winner is experimental",
			analysis: &analyzer.Result{StabilityScore: 0.5, EnergyPer1KTokens: 10},
			mode:     ModeExperimental,
		},
		{
			name:     "low energy winner is sustainability",
			analysis: &analyzer.Result{StabilityScore: 0.9, EnergyPer1KTokens: 99},
			mode:     ModeSustainability,
		},
		{
			name:     "high energy winner is performance",
			analysis: &analyzer.Result{StabilityScore: 0.9, EnergyPer1KTokens: 500},
			mode:     ModePerformance,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := RecommendFromComparison(map[string]*analyzer.Result{
				"only": tc.analysis,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.mode, rec.Mode)
		})
	}
}

func TestRecommendFromComparisonTieBreak(t *testing.T) {
	t.Parallel()

	same := analyzer.Result{
		EfficiencyScore: 1,
		Throughput:      1,
		StabilityScore:  1,
	}
	a, b := same, same

	rec, err := RecommendFromComparison(map[string]*analyzer.Result{
		"gpu": &b,
		"cpu": &a,
	})
	require.NoError(t, err)
	assert.Equal(t, "cpu", rec.Backend)
}

func TestRecommendFromComparisonEmpty(t *testing.T) {
	t.Parallel()

	_, err := RecommendFromComparison(nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmptyInput))
}
