package humanize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ApplyCasePattern returns replacement recased to follow original: an
// all-caps original gives an all-caps replacement, a capitalized original
// gives a capitalized replacement, anything else keeps the replacement as
// the table writes it ("i am" becomes "I'm").
func ApplyCasePattern(original, replacement string) string {
	if original == "" || replacement == "" {
		return replacement
	}
	if isAllUpper(original) {
		return strings.ToUpper(replacement)
	}
	first, _ := utf8.DecodeRuneInString(original)
	if unicode.IsUpper(first) {
		return capitalize(replacement)
	}
	return replacement
}

// isAllUpper reports whether s has at least one cased rune and no lower-case
// ones.
func isAllUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			return false
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			cased = true
		}
	}
	return cased
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return strings.ToLower(s)
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
