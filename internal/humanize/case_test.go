package humanize

import "testing"

func TestApplyCasePattern(t *testing.T) {
	tests := []struct {
		name        string
		original    string
		replacement string
		expected    string
	}{
		{"all caps", "LEVERAGE", "use", "USE"},
		{"capitalized", "Leverage", "use", "Use"},
		{"lower case", "leverage", "use", "use"},
		{"capitalized phrase", "It's important to note", "note that", "Note that"},
		{"capitalize lowers the rest", "Crucial", "Key Point", "Key point"},
		{"pronoun contraction", "I am", "I'm", "I'm"},
		{"lower-case pronoun keeps table form", "i am", "I'm", "I'm"},
		{"all caps contraction", "DO NOT", "don't", "DON'T"},
		{"empty original", "", "x", "x"},
		{"empty replacement", "Word", "", ""},
		{"no cased runes", "123", "Use", "Use"},
		{"accented capital", "Équipe", "team", "Team"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ApplyCasePattern(tt.original, tt.replacement)
			if result != tt.expected {
				t.Errorf("ApplyCasePattern(%q, %q) = %q, want %q", tt.original, tt.replacement, result, tt.expected)
			}
		})
	}
}
