// Package humanize rewrites generated prose to remove the patterns that make
// it read as machine-written: stock vocabulary, verbose phrasing, em-dashes,
// emphasis quotes and stiff uncontracted grammar.
//
// A Humanizer is compiled once from rule Tables and is immutable afterwards,
// so a single instance can be shared by any number of goroutines. Every call
// runs the same six passes in the same order:
//  1. Phrase simplification (longest phrase first)
//  2. Word replacement (longest term first, case preserved)
//  3. Dash removal
//  4. Emphasis-quote stripping
//  5. Contraction injection (case preserved)
//  6. Duplicate-word and whitespace cleanup
//
// Later passes depend on artifacts left by earlier ones, so the order is
// fixed.
package humanize

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

type phraseRule struct {
	phrase string
	simple string
	re     termRe
}

type wordRule struct {
	term        string
	key         string
	replacement string
	re          termRe
}

type contractionRule struct {
	formal     string
	contracted string
	re         termRe
}

type pass struct {
	name  string
	apply func(string) string
}

// Step is the output of one pass, as reported by Trace.
type Step struct {
	Pass   string `json:"pass"`
	Output string `json:"output"`
}

// Humanizer applies compiled rule tables to text.
type Humanizer struct {
	phrases      []phraseRule
	words        []wordRule
	contractions []contractionRule
	passes       []pass
}

// New compiles t into a Humanizer. It fails on an empty key, a duplicate key
// within one table, or a replacement entry without alternatives.
func New(t Tables) (*Humanizer, error) {
	h := &Humanizer{}

	seen := make(map[string]bool, len(t.Phrases))
	for _, p := range t.Phrases {
		key := strings.ToLower(strings.TrimSpace(p.Phrase))
		if key == "" {
			return nil, fmt.Errorf("phrase table: empty phrase")
		}
		if seen[key] {
			return nil, fmt.Errorf("phrase table: duplicate phrase %q", p.Phrase)
		}
		seen[key] = true

		// Multi-word phrases match anywhere; single words need boundaries.
		re, err := compileTerm(p.Phrase, !strings.Contains(p.Phrase, " "))
		if err != nil {
			return nil, fmt.Errorf("phrase table: compile %q: %w", p.Phrase, err)
		}
		h.phrases = append(h.phrases, phraseRule{phrase: p.Phrase, simple: p.Simple, re: re})
	}
	sort.SliceStable(h.phrases, func(i, j int) bool {
		return utf8.RuneCountInString(h.phrases[i].phrase) > utf8.RuneCountInString(h.phrases[j].phrase)
	})

	seen = make(map[string]bool, len(t.Words))
	for _, w := range t.Words {
		key := strings.ToLower(strings.TrimSpace(w.Term))
		if key == "" {
			return nil, fmt.Errorf("word table: empty term")
		}
		if seen[key] {
			return nil, fmt.Errorf("word table: duplicate term %q", w.Term)
		}
		seen[key] = true
		if len(w.Alternatives) == 0 || w.Alternatives[0] == "" {
			return nil, fmt.Errorf("word table: term %q has no alternatives", w.Term)
		}

		re, err := compileTerm(w.Term, true)
		if err != nil {
			return nil, fmt.Errorf("word table: compile %q: %w", w.Term, err)
		}
		h.words = append(h.words, wordRule{
			term:        w.Term,
			key:         foldKey(w.Term),
			replacement: w.Alternatives[0],
			re:          re,
		})
	}
	sort.SliceStable(h.words, func(i, j int) bool {
		return utf8.RuneCountInString(h.words[i].term) > utf8.RuneCountInString(h.words[j].term)
	})

	seen = make(map[string]bool, len(t.Contractions))
	for _, c := range t.Contractions {
		key := strings.ToLower(strings.TrimSpace(c.Formal))
		if key == "" {
			return nil, fmt.Errorf("contraction table: empty formal phrase")
		}
		if seen[key] {
			return nil, fmt.Errorf("contraction table: duplicate formal phrase %q", c.Formal)
		}
		seen[key] = true

		re, err := compileTerm(c.Formal, true)
		if err != nil {
			return nil, fmt.Errorf("contraction table: compile %q: %w", c.Formal, err)
		}
		h.contractions = append(h.contractions, contractionRule{formal: c.Formal, contracted: c.Contracted, re: re})
	}

	h.passes = []pass{
		{"simplify_phrases", h.simplifyPhrases},
		{"replace_words", h.replaceWords},
		{"remove_dashes", removeDashes},
		{"strip_emphasis_quotes", stripEmphasisQuotes},
		{"inject_contractions", h.injectContractions},
		{"cleanup", cleanup},
	}

	return h, nil
}

// MustNew is like New but panics if the tables do not compile.
func MustNew(t Tables) *Humanizer {
	h, err := New(t)
	if err != nil {
		panic(fmt.Sprintf("humanize: %v", err))
	}
	return h
}

// Humanize runs every pass over text. Empty input is returned unchanged.
func (h *Humanizer) Humanize(text string) string {
	if text == "" {
		return text
	}
	for _, p := range h.passes {
		text = p.apply(text)
	}
	return text
}

// HumanizeBatch humanizes each text independently, keeping order and length.
// A nil slice is returned as nil.
func (h *Humanizer) HumanizeBatch(texts []string) []string {
	if texts == nil {
		return nil
	}
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = h.Humanize(t)
	}
	return out
}

// Trace humanizes text and records the result of every pass.
func (h *Humanizer) Trace(text string) []Step {
	steps := make([]Step, 0, len(h.passes))
	if text == "" {
		return steps
	}
	for _, p := range h.passes {
		text = p.apply(text)
		steps = append(steps, Step{Pass: p.name, Output: text})
	}
	return steps
}

var defaultHumanizer = MustNew(DefaultTables())

// Default returns the Humanizer built from DefaultTables.
func Default() *Humanizer {
	return defaultHumanizer
}

// Humanize runs the default Humanizer over text.
func Humanize(text string) string {
	return defaultHumanizer.Humanize(text)
}

// HumanizeBatch runs the default Humanizer over each of texts.
func HumanizeBatch(texts []string) []string {
	return defaultHumanizer.HumanizeBatch(texts)
}
