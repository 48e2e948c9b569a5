// Package chunker splits text at natural boundaries: source texts that are
// too long to send to a model, tweets that run past their limit, and short
// previews for listings.
package chunker

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultPreviewWords is the number of words Preview keeps when asked for
// zero or fewer.
const DefaultPreviewWords = 12

var reBlankLine = regexp.MustCompile(`\r?\n[ \t]*\r?\n`)

// Chunk splits text into pieces each no longer than maxChars unicode
// code points. Splits are attempted (in order of preference) at:
//  1. Paragraph boundaries (a blank line)
//  2. Sentence-ending punctuation (. ! ?) followed by whitespace
//  3. Whitespace (word boundary)
//  4. Hard cut at maxChars if no suitable boundary is found
//
// If text fits entirely within maxChars, a single-element slice is returned.
// If maxChars ≤ 0 it is treated as unlimited.
func Chunk(text string, maxChars int) []string {
	runes := []rune(text)
	if maxChars <= 0 || len(runes) <= maxChars {
		return []string{text}
	}

	var chunks []string
	for len(runes) > maxChars {
		split := findSplit(runes[:maxChars])
		if chunk := strings.TrimSpace(string(runes[:split])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		runes = []rune(strings.TrimSpace(string(runes[split:])))
	}
	if rest := strings.TrimSpace(string(runes)); rest != "" {
		chunks = append(chunks, rest)
	}

	return chunks
}

// findSplit returns the rune index at which to cut candidate, searching
// backwards for the best boundary.
func findSplit(candidate []rune) int {
	n := len(candidate)

	for i := n - 1; i > 0; i-- {
		if candidate[i] == '\n' && candidate[i-1] == '\n' {
			return i + 1
		}
	}

	for i := n - 2; i > 0; i-- {
		switch candidate[i] {
		case '.', '!', '?':
			if unicode.IsSpace(candidate[i+1]) {
				return i + 1
			}
		}
	}

	for i := n - 1; i > 0; i-- {
		if unicode.IsSpace(candidate[i]) {
			return i
		}
	}

	return n
}

// Paragraphs splits text on blank lines and drops empty pieces. Twitter
// threads are written one tweet per paragraph.
func Paragraphs(text string) []string {
	var out []string
	for _, p := range reBlankLine.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Preview returns the first wordCount words of text on one line, with an
// ellipsis when words were dropped.
func Preview(text string, wordCount int) string {
	if wordCount <= 0 {
		wordCount = DefaultPreviewWords
	}
	words := strings.Fields(text)
	if len(words) <= wordCount {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:wordCount], " ") + "..."
}
