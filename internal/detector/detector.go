// Package detector identifies the language a draft is written in.
package detector

import (
	"fmt"
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// MinCheckLength is the minimum rune count Check needs before it trusts the
// detector. Shorter texts pass unchecked.
const MinCheckLength = 20

// Detector wraps a lingua detector. Building one is expensive; reuse it.
type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lower-case ISO 639-1 code of text's language.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// Check reports whether text is written in want (an ISO 639-1 code). It
// returns the detected code, empty when the text is too short or ambiguous,
// in which case the check passes.
func (d *Detector) Check(text, want string) (string, error) {
	text = strings.TrimSpace(text)
	if want == "" || len([]rune(text)) < MinCheckLength {
		return "", nil
	}

	detected, ok := d.DetectISO(text)
	if !ok {
		return "", nil
	}
	if !strings.EqualFold(detected, want) {
		return detected, fmt.Errorf("expected %s but detected %s", strings.ToLower(want), detected)
	}
	return detected, nil
}
