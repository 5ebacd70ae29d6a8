package service

import (
	"regexp"
	"strconv"

	"promptscore/internal/model"
)

var metricPatterns = func() map[model.MetricName]*regexp.Regexp {
	patterns := make(map[model.MetricName]*regexp.Regexp, len(model.AllMetrics))
	for _, name := range model.AllMetrics {
		patterns[name] = metricPattern(string(name))
	}
	return patterns
}()

func metricPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(name) + `:\s*(\d+(?:\.\d+)?)`)
}

// ExtractScore finds the first "<name>: <number>" in the judge output.
// The match is case-sensitive; ok is false when the metric is absent.
func ExtractScore(text string, name model.MetricName) (float64, bool) {
	re, known := metricPatterns[name]
	if !known {
		re = metricPattern(string(name))
	}

	match := re.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// ExtractMetrics pulls all seven ratings from the judge output. Missing
// metrics are recorded as absent with value 0; values are clamped to [0,100].
func ExtractMetrics(text string) model.MetricSet {
	set := make(model.MetricSet, len(model.AllMetrics))
	for _, name := range model.AllMetrics {
		value, ok := ExtractScore(text, name)
		set[name] = model.Metric{Value: clampScore(value), Present: ok}
	}
	return set
}

func clampScore(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
