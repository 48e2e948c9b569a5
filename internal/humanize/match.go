package humanize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// wordClass is the Unicode word character set. Go's \w and \b only know
// ASCII, so "écrucial" would otherwise contain the word "crucial".
const wordClass = `\p{L}\p{M}\p{N}_`

// word is one Unicode word rune as a regexp class.
const word = `[` + wordClass + `]`

func isWordRune(r rune) bool {
	return r == '_' || unicode.In(r, unicode.L, unicode.M, unicode.N)
}

// termRe matches a literal term case-insensitively. A bounded term only
// matches where neither edge touches another word rune.
type termRe struct {
	re      *regexp.Regexp
	bounded bool
}

func compileTerm(term string, bounded bool) (termRe, error) {
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(term))
	if err != nil {
		return termRe{}, err
	}
	return termRe{re: re, bounded: bounded}, nil
}

// findAll returns the byte spans of every non-overlapping match, leftmost
// first. A candidate rejected at a word boundary is retried one rune later.
func (t termRe) findAll(text string) [][]int {
	var locs [][]int
	for start := 0; start < len(text); {
		loc := t.re.FindStringIndex(text[start:])
		if loc == nil || loc[0] == loc[1] {
			break
		}
		s, e := start+loc[0], start+loc[1]
		if !t.bounded || atWordBoundary(text, s, e) {
			locs = append(locs, []int{s, e})
			start = e
			continue
		}
		_, size := utf8.DecodeRuneInString(text[s:])
		start = s + size
	}
	return locs
}

func (t termRe) replaceAllFunc(text string, fn func(string) string) string {
	locs := t.findAll(text)
	if len(locs) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, loc := range locs {
		b.WriteString(text[prev:loc[0]])
		b.WriteString(fn(text[loc[0]:loc[1]]))
		prev = loc[1]
	}
	b.WriteString(text[prev:])
	return b.String()
}

// atWordBoundary is \b on both ends of text[s:e], with Unicode word runes.
// An edge that is not itself a word rune needs no boundary.
func atWordBoundary(text string, s, e int) bool {
	if first, _ := utf8.DecodeRuneInString(text[s:]); isWordRune(first) && s > 0 {
		if prev, _ := utf8.DecodeLastRuneInString(text[:s]); isWordRune(prev) {
			return false
		}
	}
	if last, _ := utf8.DecodeLastRuneInString(text[:e]); isWordRune(last) && e < len(text) {
		if next, _ := utf8.DecodeRuneInString(text[e:]); isWordRune(next) {
			return false
		}
	}
	return true
}

// foldKey maps every rune to the smallest member of its case-folding orbit,
// the equivalence (?i) matching uses. If a term matches text, foldKey(term)
// is a substring of foldKey(text).
func foldKey(s string) string {
	return strings.Map(func(r rune) rune {
		low := r
		for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
			if f < low {
				low = f
			}
		}
		return low
	}, s)
}
