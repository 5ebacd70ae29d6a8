package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"promptscore/internal/model"
)

// Metrics exposes Prometheus collectors for the scoring pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	analyses       *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec
	scorerFailures *prometheus.CounterVec
	finalScore     prometheus.Histogram
}

// NewMetrics registers the pipeline collectors with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "promptscore",
				Name:      "analyses_total",
				Help:      "Completed prompt analyses by terminal status.",
			},
			[]string{"status"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "promptscore",
				Name:      "stage_duration_seconds",
				Help:      "Time spent in each pipeline stage.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		scorerFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "promptscore",
				Name:      "scorer_failures_total",
				Help:      "Remote quality scorer calls degraded to a zero score.",
			},
			[]string{"reason"},
		),
		finalScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "promptscore",
				Name:      "final_score",
				Help:      "Distribution of accepted final scores.",
				Buckets:   prometheus.LinearBuckets(0, 10, 11),
			},
		),
	}
	reg.MustRegister(m.analyses, m.stageDuration, m.scorerFailures, m.finalScore)
	return m
}

func (m *Metrics) observeResult(result *model.ScoreResult) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(string(result.Status)).Inc()
	if result.Status == model.StatusAccepted {
		m.finalScore.Observe(result.FinalScore)
	}
}

func (m *Metrics) observeStage(stage Stage, started time.Time) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(string(stage)).Observe(time.Since(started).Seconds())
}

func (m *Metrics) scorerFailed(reason string) {
	if m == nil {
		return
	}
	m.scorerFailures.WithLabelValues(reason).Inc()
}
