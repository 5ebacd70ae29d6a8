package service

import (
	"context"
	"fmt"
	"strings"
)

// MockJudge produces deterministic ratings from surface features of the
// prompt. It is used for offline runs when no model is available.
type MockJudge struct{}

// NewMockJudge creates a mock judge
func NewMockJudge() *MockJudge {
	return &MockJudge{}
}

var (
	instructionVerbs = []string{"write", "explain", "create", "generate", "fix", "list", "describe",
		"summarize", "imagine", "act", "design", "translate", "compare", "give", "help"}
	personaMarkers    = []string{"act as", "you are", "pretend to be", "as an expert", "role of"}
	constraintMarkers = []string{"must", "only", "at most", "at least", "no more than", "words", "limit", "format"}
	contextMarkers    = []string{"because", "for my", "background", "context", "i am", "we are", "audience"}
	reasoningMarkers  = []string{"why", "how", "compare", "analyze", "step by step", "trade-off", "tradeoff"}
)

// Judge implements JudgmentEngine
func (m *MockJudge) Judge(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lower := strings.ToLower(prompt)
	words := strings.Fields(lower)
	length := float64(len(words))

	intent := 10.0
	if (len(words) > 0 && hasAnyPrefix(words[0], instructionVerbs)) || strings.HasSuffix(strings.TrimSpace(lower), "?") {
		intent = 90
	} else if containsAny(lower, instructionVerbs) {
		intent = 60
	}

	specificity := minFloat(100, length*4)
	clarity := minFloat(100, 40+length*2)

	scores := []struct {
		name  string
		value float64
	}{
		{"Intent_Strength", intent},
		{"Clarity", clarity},
		{"Specificity", specificity},
		{"Context", markerScore(lower, contextMarkers)},
		{"Constraints", markerScore(lower, constraintMarkers)},
		{"Complexity", markerScore(lower, reasoningMarkers)},
		{"Role_Definition", markerScore(lower, personaMarkers)},
	}

	var sb strings.Builder
	for _, s := range scores {
		sb.WriteString(fmt.Sprintf("%s: %.0f\n", s.name, s.value))
	}
	return sb.String(), nil
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func markerScore(s string, markers []string) float64 {
	hits := 0
	for _, m := range markers {
		if strings.Contains(s, m) {
			hits++
		}
	}
	return minFloat(100, float64(hits)*45)
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
