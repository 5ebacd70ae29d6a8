package service

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LanguageDetector reports the dominant language of a text as a lowercase
// ISO 639-1 code. ok is false when the text is too ambiguous to call.
type LanguageDetector interface {
	Detect(text string) (code string, ok bool)
}

// LinguaDetector detects languages with lingua's statistical models
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

// minRelativeDistance makes lingua decline to answer when the top two
// candidates are close, which is the norm for short prompts.
const minRelativeDistance = 0.25

// NewLinguaDetector builds a detector over all supported languages
func NewLinguaDetector() *LinguaDetector {
	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithMinimumRelativeDistance(minRelativeDistance).
			Build(),
	}
}

// Detect implements LanguageDetector
func (d *LinguaDetector) Detect(text string) (string, bool) {
	language, exists := d.detector.DetectLanguageOf(text)
	if !exists {
		return "", false
	}
	return strings.ToLower(language.IsoCode639_1().String()), true
}
