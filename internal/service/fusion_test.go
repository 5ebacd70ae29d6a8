package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"promptscore/internal/model"
)

func metricSet(intent, clarity, specificity, background, constraints, complexity, role float64) model.MetricSet {
	values := map[model.MetricName]float64{
		model.MetricIntentStrength: intent,
		model.MetricClarity:        clarity,
		model.MetricSpecificity:    specificity,
		model.MetricContext:        background,
		model.MetricConstraints:    constraints,
		model.MetricComplexity:     complexity,
		model.MetricRoleDefinition: role,
	}
	set := make(model.MetricSet, len(values))
	for name, v := range values {
		set[name] = model.Metric{Value: v, Present: true}
	}
	return set
}

func TestFuseAccepted(t *testing.T) {
	decision := Fuse(40, metricSet(95, 80, 70, 50, 60, 40, 30))

	assert.Equal(t, model.StatusAccepted, decision.Status)
	assert.InDelta(t, 55.0, decision.QualityAverage, 1e-9)
	assert.Equal(t, 55.0, decision.LLMScore)
	assert.Equal(t, 50.5, decision.FinalScore)
	assert.False(t, decision.Boosted)
	assert.Empty(t, decision.Msg)
}

func TestFuseLowIntentIgnoresBert(t *testing.T) {
	metrics := metricSet(19.9, 100, 100, 100, 100, 100, 100)

	low := Fuse(0, metrics)
	high := Fuse(100, metrics)

	assert.Equal(t, model.StatusRejected, low.Status)
	assert.Equal(t, MsgLowIntent, low.Msg)
	assert.Equal(t, 100.0, low.FinalScore)
	assert.Equal(t, low.FinalScore, high.FinalScore)
	assert.False(t, low.Boosted, "no role boost on rejection")
}

func TestFuseIntentThresholdIsInclusive(t *testing.T) {
	decision := Fuse(50, metricSet(20, 50, 50, 50, 50, 50, 50))
	assert.Equal(t, model.StatusAccepted, decision.Status)
	assert.Equal(t, 50.0, decision.FinalScore)
}

func TestFuseRoleBoost(t *testing.T) {
	t.Run("boost applied", func(t *testing.T) {
		// (60*5 + 90) / 6 = 65, boosted to 71.5
		decision := Fuse(0, metricSet(90, 60, 60, 60, 60, 60, 90))
		assert.True(t, decision.Boosted)
		assert.Equal(t, 71.5, decision.LLMScore)
		assert.Equal(t, 50.05, decision.FinalScore)
	})

	t.Run("capped at 100", func(t *testing.T) {
		decision := Fuse(100, metricSet(100, 100, 100, 100, 100, 100, 100))
		assert.True(t, decision.Boosted)
		assert.Equal(t, 100.0, decision.QualityAverage)
		assert.Equal(t, 100.0, decision.LLMScore)
		assert.Equal(t, 100.0, decision.FinalScore)
	})

	t.Run("threshold is exclusive", func(t *testing.T) {
		decision := Fuse(0, metricSet(90, 80, 80, 80, 80, 80, 80))
		assert.False(t, decision.Boosted)
		assert.Equal(t, 80.0, decision.LLMScore)
	})
}

func TestFuseRounding(t *testing.T) {
	// quality = (33+33+33+33+33+34)/6 = 33.1666...
	decision := Fuse(12.345, metricSet(50, 33, 33, 33, 33, 33, 34))
	assert.Equal(t, 33.2, decision.LLMScore)
	// (12.345*30 + 33.1666*70) / 100 = 26.92016...
	assert.Equal(t, 26.92, decision.FinalScore)
}

func TestFuseFinalScoreInRange(t *testing.T) {
	for bert := 0.0; bert <= 100; bert += 12.5 {
		for q := 0.0; q <= 100; q += 7.3 {
			decision := Fuse(bert, metricSet(50, q, q, q, q, q, q))
			assert.GreaterOrEqual(t, decision.FinalScore, 0.0)
			assert.LessOrEqual(t, decision.FinalScore, 100.0)
		}
	}
}

func TestFuseMissingMetricsCountAsZero(t *testing.T) {
	set := model.MetricSet{
		model.MetricIntentStrength: {Value: 90, Present: true},
		model.MetricClarity:        {Value: 60, Present: true},
	}
	decision := Fuse(0, set)
	assert.Equal(t, 10.0, decision.LLMScore)
	assert.Equal(t, 7.0, decision.FinalScore)
}
