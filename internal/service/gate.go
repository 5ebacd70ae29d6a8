package service

import (
	"fmt"
	"strings"

	"promptscore/internal/model"
)

const (
	minPromptWords     = 3
	maxRepetitionRatio = 0.5
	expectedLanguage   = "en"

	ReasonPass       = "Pass"
	ReasonTooShort   = "Prompt is too short."
	ReasonRepetitive = "Detected repetitive spam."
)

// Gate runs the cheap local checks that run before any remote call
type Gate struct {
	languages LanguageDetector
}

// NewGate creates a gate. A nil detector skips the language check.
func NewGate(languages LanguageDetector) *Gate {
	return &Gate{languages: languages}
}

// Check validates a prompt, stopping at the first failing rule
func (g *Gate) Check(text string) model.GateResult {
	words := strings.Fields(text)
	if len(words) < minPromptWords {
		return model.GateResult{Valid: false, Reason: ReasonTooShort}
	}

	if isRepetitive(words) {
		return model.GateResult{Valid: false, Reason: ReasonRepetitive}
	}

	if g.languages != nil {
		// Undetectable text passes.
		if lang, ok := g.languages.Detect(text); ok && lang != expectedLanguage {
			return model.GateResult{Valid: false, Reason: fmt.Sprintf("Detected non-English text (%s).", lang)}
		}
	}

	return model.GateResult{Valid: true, Reason: ReasonPass}
}

// isRepetitive reports whether the most frequent lowercase token makes up
// more than half of all tokens
func isRepetitive(words []string) bool {
	counts := make(map[string]int, len(words))
	top := 0
	for _, w := range words {
		w = strings.ToLower(w)
		counts[w]++
		if counts[w] > top {
			top = counts[w]
		}
	}
	return float64(top)/float64(len(words)) > maxRepetitionRatio
}
