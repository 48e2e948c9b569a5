package humanize

import "testing"

func TestSimplifyPhrases(t *testing.T) {
	h := Default()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "multi-word phrase",
			input:    "We did this in order to win.",
			expected: "We did this to win.",
		},
		{
			name:     "longest phrase wins at sentence start",
			input:    "Due to the fact that it rained, we stayed.",
			expected: "Because it rained, we stayed.",
		},
		{
			name:     "single word uses word boundaries",
			input:    "Please utilize it.",
			expected: "Please use it.",
		},
		{
			name:     "longer single word is not clipped by shorter one",
			input:    "utilization rate",
			expected: "use rate",
		},
		{
			name:     "all caps",
			input:    "LEVERAGE this",
			expected: "USE this",
		},
		{
			name:     "capitalized",
			input:    "Subsequently, we left.",
			expected: "Then, we left.",
		},
		{
			name:     "multi-word phrase matches without word boundaries",
			input:    "prior tokens",
			expected: "beforekens",
		},
		{
			name:     "nothing to simplify",
			input:    "Plain text stays.",
			expected: "Plain text stays.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := h.simplifyPhrases(tt.input)
			if result != tt.expected {
				t.Errorf("simplifyPhrases(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestReplaceWords(t *testing.T) {
	h := Default()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lower case",
			input:    "This is crucial.",
			expected: "This is key.",
		},
		{
			name:     "capitalized at sentence start",
			input:    "Crucial point.",
			expected: "Key point.",
		},
		{
			name:     "all caps",
			input:    "A CRUCIAL point",
			expected: "A KEY point",
		},
		{
			name:     "longer term first",
			input:    "implementation details",
			expected: "setup details",
		},
		{
			name:     "past tense form",
			input:    "We analyzed it",
			expected: "We looked at it",
		},
		{
			name:     "hyphenated term",
			input:    "cutting-edge tools",
			expected: "latest tools",
		},
		{
			name:     "stock phrase",
			input:    "Let's dive in!",
			expected: "Let's go!",
		},
		{
			name:     "several terms",
			input:    "Furthermore, the ecosystem is seamless.",
			expected: "Also, the system is smooth.",
		},
		{
			name:     "accented letter glued to a term is part of the word",
			input:    "écrucial step",
			expected: "écrucial step",
		},
		{
			name:     "term next to an accented word",
			input:    "A crucial café visit",
			expected: "A key café visit",
		},
		{
			name:     "term followed by an accented letter",
			input:    "robustà",
			expected: "robustà",
		},
		{
			name:     "term inside a longer word is kept",
			input:    "The atmosphere is calm.",
			expected: "The atmosphere is calm.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := h.replaceWords(tt.input)
			if result != tt.expected {
				t.Errorf("replaceWords(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRemoveDashes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "em-dash without spaces",
			input:    "The analysis—a crucial step—helps",
			expected: "The analysis, a crucial step, helps",
		},
		{
			name:     "em-dash with spaces",
			input:    "word — word",
			expected: "word, word",
		},
		{
			name:     "en-dash becomes hyphen",
			input:    "pages 10–20",
			expected: "pages 10-20",
		},
		{
			name:     "dash before period",
			input:    "Done—.",
			expected: "Done.",
		},
		{
			name:     "dash after period",
			input:    "Wait.—next",
			expected: "Wait. next",
		},
		{
			name:     "dash before comma",
			input:    "a—, b",
			expected: "a, b",
		},
		{
			name:     "no dashes",
			input:    "no dashes here",
			expected: "no dashes here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := removeDashes(tt.input)
			if result != tt.expected {
				t.Errorf("removeDashes(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestStripEmphasisQuotes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single word",
			input:    `the "robust" methodology`,
			expected: `the robust methodology`,
		},
		{
			name:     "two words",
			input:    `a "really big" deal`,
			expected: `a really big deal`,
		},
		{
			name:     "three words in curly quotes",
			input:    "a “truly great idea” here",
			expected: "a truly great idea here",
		},
		{
			name:     "mixed straight and curly",
			input:    "“robust\"",
			expected: "robust",
		},
		{
			name:     "long quotation is kept",
			input:    `He said "this is a full sentence" loudly`,
			expected: `He said "this is a full sentence" loudly`,
		},
		{
			name:     "single word longer than twenty characters is kept",
			input:    `"supercalifragilisticexpialidocious"`,
			expected: `"supercalifragilisticexpialidocious"`,
		},
		{
			name:     "accented single word",
			input:    `Our "résumé" tips.`,
			expected: `Our résumé tips.`,
		},
		{
			name:     "diaeresis",
			input:    `A "naïve" plan.`,
			expected: `A naïve plan.`,
		},
		{
			name:     "accented two words in curly quotes",
			input:    "The “café culture” shift.",
			expected: "The café culture shift.",
		},
		{
			name:     "short genuine quotation is unwrapped too",
			input:    `signed by "Ada Lovelace" herself`,
			expected: `signed by Ada Lovelace herself`,
		},
		{
			name:     "two separate emphasis quotes",
			input:    `"fast" and "cheap"`,
			expected: `fast and cheap`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := stripEmphasisQuotes(tt.input)
			if result != tt.expected {
				t.Errorf("stripEmphasisQuotes(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestInjectContractions(t *testing.T) {
	h := Default()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "do not",
			input:    "We do not know.",
			expected: "We don't know.",
		},
		{
			name:     "capitalized",
			input:    "It is fine.",
			expected: "It's fine.",
		},
		{
			name:     "all caps",
			input:    "IT IS FINE",
			expected: "IT'S FINE",
		},
		{
			name:     "first person",
			input:    "I am here and I will stay",
			expected: "I'm here and I'll stay",
		},
		{
			name:     "lower-case pronoun keeps its capital",
			input:    "so i am here and i will go",
			expected: "so I'm here and I'll go",
		},
		{
			name:     "pair glued to an accented letter is left alone",
			input:    "éit is here",
			expected: "éit is here",
		},
		{
			name:     "cannot",
			input:    "You cannot go.",
			expected: "You can't go.",
		},
		{
			name:     "earlier pair wins over later overlapping pair",
			input:    "It is not ready.",
			expected: "It isn't ready.",
		},
		{
			name:     "existing contraction untouched",
			input:    "it isn't",
			expected: "it isn't",
		},
		{
			name:     "let us",
			input:    "Let us go",
			expected: "Let's go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := h.injectContractions(tt.input)
			if result != tt.expected {
				t.Errorf("injectContractions(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCollapseRepeatedWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple repeat",
			input:    "into into the",
			expected: "into the",
		},
		{
			name:     "case-insensitive, first casing kept",
			input:    "The the cat",
			expected: "The cat",
		},
		{
			name:     "run of repeats",
			input:    "a a a b",
			expected: "a b",
		},
		{
			name:     "contraction repeat",
			input:    "don't don't skip this",
			expected: "don't skip this",
		},
		{
			name:     "accented repeat",
			input:    "The café café opens.",
			expected: "The café opens.",
		},
		{
			name:     "accented prefix is not a repeat",
			input:    "caf café",
			expected: "caf café",
		},
		{
			name:     "prefix is not a repeat",
			input:    "into intolerable",
			expected: "into intolerable",
		},
		{
			name:     "punctuation between words",
			input:    "word. word",
			expected: "word. word",
		},
		{
			name:     "single word",
			input:    "word",
			expected: "word",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := collapseRepeatedWords(tt.input)
			if result != tt.expected {
				t.Errorf("collapseRepeatedWords(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCleanup(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "double spaces",
			input:    "Hello  world",
			expected: "Hello world",
		},
		{
			name:     "space before punctuation",
			input:    "Hello , world .",
			expected: "Hello, world.",
		},
		{
			name:     "period then comma",
			input:    "Wait.,",
			expected: "Wait.",
		},
		{
			name:     "interrobang",
			input:    "Really?!",
			expected: "Really?",
		},
		{
			name:     "ellipsis kept",
			input:    "Wait... what",
			expected: "Wait... what",
		},
		{
			name:     "trim",
			input:    "  padded  ",
			expected: "padded",
		},
		{
			name:     "line breaks kept",
			input:    "line one\nline two",
			expected: "line one\nline two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cleanup(tt.input)
			if result != tt.expected {
				t.Errorf("cleanup(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

// replaceWordsUnfiltered is replaceWords without the fold-key skip.
func replaceWordsUnfiltered(h *Humanizer, text string) string {
	for _, r := range h.words {
		text = r.re.replaceAllFunc(text, func(m string) string {
			return ApplyCasePattern(m, r.replacement)
		})
	}
	return text
}

func TestReplaceWords_SkipDoesNotChangeOutput(t *testing.T) {
	h := Default()

	corpus := []string{
		"",
		"The analysis—a crucial step—helps you leverage your data effectively.",
		"It's important to note that we need to utilize comprehensive strategies.",
		`Let's delve into the "robust" methodology.`,
		"do not do not skip this",
		"Furthermore, the ECOSYSTEM is Seamless and cutting-edge.",
		"écrucial naïve café, a crucial résumé",
		"\u017feamless and \u212arucial",
		"A plethora of synergy in the realm of paradigm shifts.",
		"Nothing to replace here at all.",
	}

	for _, text := range corpus {
		want := replaceWordsUnfiltered(h, text)
		if got := h.replaceWords(text); got != want {
			t.Errorf("replaceWords(%q) = %q, unfiltered loop gives %q", text, got, want)
		}
	}
}
