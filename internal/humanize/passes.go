package humanize

import (
	"regexp"
	"strings"
)

// --- Pass 1: verbose phrases ---

func (h *Humanizer) simplifyPhrases(text string) string {
	for _, r := range h.phrases {
		text = r.re.replaceAllFunc(text, func(m string) string {
			return ApplyCasePattern(m, r.simple)
		})
	}
	return text
}

// --- Pass 2: banned words ---

// replaceWords skips a term whose fold key does not occur in the text. The
// skip never changes the result, since every match implies the key occurs.
func (h *Humanizer) replaceWords(text string) string {
	key := foldKey(text)
	for _, r := range h.words {
		if !strings.Contains(key, r.key) {
			continue
		}
		replaced := r.re.replaceAllFunc(text, func(m string) string {
			return ApplyCasePattern(m, r.replacement)
		})
		if replaced != text {
			text = replaced
			key = foldKey(text)
		}
	}
	return text
}

// --- Pass 3: dashes ---

var (
	emDashRe      = regexp.MustCompile(`\s*\x{2014}\s*`)
	doubleCommaRe = regexp.MustCompile(`,\s*,`)
	periodCommaRe = regexp.MustCompile(`\.\s*,`)
	commaPeriodRe = regexp.MustCompile(`,\s*\.`)
)

// removeDashes turns em-dashes into ", " and en-dashes into hyphens, then
// repairs the comma artifacts that leaves next to existing punctuation.
func removeDashes(text string) string {
	text = emDashRe.ReplaceAllLiteralString(text, ", ")
	text = strings.ReplaceAll(text, "\u2013", "-")

	text = doubleCommaRe.ReplaceAllLiteralString(text, ",")
	text = periodCommaRe.ReplaceAllLiteralString(text, ".")
	text = commaPeriodRe.ReplaceAllLiteralString(text, ".")
	return text
}

// --- Pass 4: emphasis quotes ---

// quoteClass accepts straight and curly double quotes on either side.
const quoteClass = `["\x{201C}\x{201D}]`

// emphasisQuoteRes unwrap one, two and three word spans, in that order.
// Anything longer is treated as a genuine quotation and left alone.
var emphasisQuoteRes = []*regexp.Regexp{
	regexp.MustCompile(quoteClass + `(` + word + `{1,20})` + quoteClass),
	regexp.MustCompile(quoteClass + `(` + word + `+\s` + word + `+)` + quoteClass),
	regexp.MustCompile(quoteClass + `(` + word + `+\s` + word + `+\s` + word + `+)` + quoteClass),
}

func stripEmphasisQuotes(text string) string {
	for _, re := range emphasisQuoteRes {
		text = re.ReplaceAllString(text, "${1}")
	}
	return text
}

// --- Pass 5: contractions ---

func (h *Humanizer) injectContractions(text string) string {
	for _, r := range h.contractions {
		text = r.re.replaceAllFunc(text, func(m string) string {
			return ApplyCasePattern(m, r.contracted)
		})
	}
	return text
}

// --- Pass 6: cleanup ---

var (
	// wordTokenRe treats an inner apostrophe as part of the word so that
	// "don't don't" is seen as a repeat.
	wordTokenRe      = regexp.MustCompile(word + `+(?:['\x{2019}]` + word + `+)*`)
	multiSpaceRe     = regexp.MustCompile(`  +`)
	spaceBeforeRe    = regexp.MustCompile(`\s+([.,!?;:])`)
	punctuationRunRe = regexp.MustCompile(`[.,!?;:](?:\s*[.,!?;:])+`)
)

func cleanup(text string) string {
	text = collapseRepeatedWords(text)
	text = multiSpaceRe.ReplaceAllLiteralString(text, " ")
	text = spaceBeforeRe.ReplaceAllString(text, "${1}")
	text = punctuationRunRe.ReplaceAllStringFunc(text, collapsePunctuation)
	return strings.TrimSpace(text)
}

// collapseRepeatedWords drops every word that repeats the one before it
// (case-insensitively) when only whitespace separates them. The first
// occurrence keeps its casing.
func collapseRepeatedWords(text string) string {
	locs := wordTokenRe.FindAllStringIndex(text, -1)
	if len(locs) < 2 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	cursor := 0
	anchor := locs[0]
	for _, loc := range locs[1:] {
		gap := text[anchor[1]:loc[0]]
		if cursor > anchor[1] {
			gap = text[cursor:loc[0]]
		}
		if gap != "" && strings.TrimSpace(gap) == "" &&
			strings.EqualFold(text[anchor[0]:anchor[1]], text[loc[0]:loc[1]]) {
			if cursor < anchor[1] {
				b.WriteString(text[cursor:anchor[1]])
			}
			cursor = loc[1]
			continue
		}
		anchor = loc
	}
	if cursor == 0 {
		return text
	}
	b.WriteString(text[cursor:])
	return b.String()
}

// collapsePunctuation keeps the first mark of a run, except that a leading
// ellipsis survives intact.
func collapsePunctuation(run string) string {
	if strings.HasPrefix(run, "...") {
		return "..."
	}
	return run[:1]
}
