package humanize

import "testing"

func TestDetect(t *testing.T) {
	findings := Detect("The analysis—a crucial step.")

	want := []Finding{
		{Kind: KindBannedWord, Match: "analysis", Offset: 4},
		{Kind: KindEmDash, Match: "—", Offset: 12},
		{Kind: KindBannedWord, Match: "crucial", Offset: 17},
	}
	if len(findings) != len(want) {
		t.Fatalf("expected %d findings, got %d: %+v", len(want), len(findings), findings)
	}
	for i := range want {
		if findings[i] != want[i] {
			t.Errorf("finding %d = %+v, want %+v", i, findings[i], want[i])
		}
	}
}

func TestDetect_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  FindingKind
	}{
		{"verbose phrase", "We left in order to rest.", KindVerbosePhrase},
		{"banned word", "A ROBUST plan", KindBannedWord},
		{"em-dash", "this—that", KindEmDash},
		{"emphasis quote", `a "bold" claim`, KindEmphasisQuote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := false
			for _, f := range Detect(tt.input) {
				if f.Kind == tt.kind {
					found = true
				}
			}
			if !found {
				t.Errorf("Detect(%q) did not report %s", tt.input, tt.kind)
			}
		})
	}
}

func TestDetect_Clean(t *testing.T) {
	if got := Detect(""); got != nil {
		t.Errorf("expected nil for empty text, got %+v", got)
	}
	if got := Detect(Humanize("Furthermore, the \"robust\" ecosystem—truly seamless.")); len(got) != 0 {
		t.Errorf("expected no findings after Humanize, got %+v", got)
	}
}

func TestDetect_PhraseCoversWord(t *testing.T) {
	// "leverage" is in both the phrase and the word table.
	findings := Detect("We leverage it.")

	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %+v", findings)
	}
	want := Finding{Kind: KindVerbosePhrase, Match: "leverage", Offset: 3}
	if findings[0] != want {
		t.Errorf("finding = %+v, want %+v", findings[0], want)
	}
}

func TestDetect_UnicodeWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"term glued to accented letter", "écrucial step", 0},
		{"term beside accented word", "crucial café", 1},
		{"accented emphasis quote", `Our "résumé" tips`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.input); len(got) != tt.want {
				t.Errorf("Detect(%q) = %+v, want %d findings", tt.input, got, tt.want)
			}
		})
	}
}
