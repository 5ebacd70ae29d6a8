package service

import (
	"math"

	"github.com/montanaflynn/stats"

	"promptscore/internal/model"
)

// Fusion weights and decision thresholds
const (
	WeightBERT  = 30
	WeightLLM   = 70
	TotalWeight = WeightBERT + WeightLLM

	MinIntentScore     = 20.0
	RoleBoostThreshold = 80.0
	RoleBoostFactor    = 1.1

	MsgLowIntent = "Input appears to be content rather than an instruction."
)

// Decision is the fused outcome for one prompt
type Decision struct {
	Status         model.Status
	FinalScore     float64
	LLMScore       float64
	QualityAverage float64
	Boosted        bool
	Msg            string
}

// Fuse combines the classifier score with the judge metrics.
// Prompts without a clear instruction are rejected before the role boost
// and without the classifier score.
func Fuse(bertScore float64, metrics model.MetricSet) Decision {
	quality := qualityAverage(metrics)
	intent := metrics.Value(model.MetricIntentStrength)
	role := metrics.Value(model.MetricRoleDefinition)

	if intent < MinIntentScore {
		return Decision{
			Status:         model.StatusRejected,
			FinalScore:     round(quality, 2),
			LLMScore:       round(quality, 1),
			QualityAverage: quality,
			Msg:            MsgLowIntent,
		}
	}

	boosted := false
	if role > RoleBoostThreshold {
		quality = math.Min(100, quality*RoleBoostFactor)
		boosted = true
	}

	final := (bertScore*WeightBERT + quality*WeightLLM) / TotalWeight
	return Decision{
		Status:         model.StatusAccepted,
		FinalScore:     round(final, 2),
		LLMScore:       round(quality, 1),
		QualityAverage: quality,
		Boosted:        boosted,
	}
}

func qualityAverage(metrics model.MetricSet) float64 {
	values := make(stats.Float64Data, 0, len(model.QualityMetrics))
	for _, name := range model.QualityMetrics {
		values = append(values, metrics.Value(name))
	}
	mean, err := values.Mean()
	if err != nil {
		return 0
	}
	return mean
}

func round(v float64, places int) float64 {
	r, err := stats.Round(v, places)
	if err != nil {
		return 0
	}
	return r
}
