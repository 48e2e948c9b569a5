package humanize

import (
	"sort"
	"strings"
)

// FindingKind names the pattern a Finding points at.
type FindingKind string

const (
	KindVerbosePhrase FindingKind = "verbose_phrase"
	KindBannedWord    FindingKind = "banned_word"
	KindEmDash        FindingKind = "em_dash"
	KindEmphasisQuote FindingKind = "emphasis_quote"
)

// Finding is one AI-typical pattern located in a text.
type Finding struct {
	Kind   FindingKind `json:"kind"`
	Match  string      `json:"match"`
	Offset int         `json:"offset"`
}

// Detect reports the patterns Humanize would rewrite, without rewriting
// anything. Findings are ordered by byte offset. A banned word inside a
// verbose phrase match is reported once, as the phrase.
func (h *Humanizer) Detect(text string) []Finding {
	if text == "" {
		return nil
	}

	var findings []Finding
	var phraseSpans [][]int
	for _, r := range h.phrases {
		for _, loc := range r.re.findAll(text) {
			phraseSpans = append(phraseSpans, loc)
			findings = append(findings, Finding{Kind: KindVerbosePhrase, Match: text[loc[0]:loc[1]], Offset: loc[0]})
		}
	}

	key := foldKey(text)
	for _, r := range h.words {
		if !strings.Contains(key, r.key) {
			continue
		}
		for _, loc := range r.re.findAll(text) {
			if covered(phraseSpans, loc) {
				continue
			}
			findings = append(findings, Finding{Kind: KindBannedWord, Match: text[loc[0]:loc[1]], Offset: loc[0]})
		}
	}

	for off := 0; ; {
		i := strings.Index(text[off:], "—")
		if i < 0 {
			break
		}
		findings = append(findings, Finding{Kind: KindEmDash, Match: "—", Offset: off + i})
		off += i + len("—")
	}

	for _, re := range emphasisQuoteRes {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			findings = append(findings, Finding{Kind: KindEmphasisQuote, Match: text[loc[0]:loc[1]], Offset: loc[0]})
		}
	}

	sort.SliceStable(findings, func(i, j int) bool { return findings[i].Offset < findings[j].Offset })
	return findings
}

func covered(spans [][]int, loc []int) bool {
	for _, s := range spans {
		if s[0] <= loc[0] && loc[1] <= s[1] {
			return true
		}
	}
	return false
}

// Detect runs the default Humanizer's detector over text.
func Detect(text string) []Finding {
	return defaultHumanizer.Detect(text)
}
