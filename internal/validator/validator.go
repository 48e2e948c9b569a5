// Package validator measures a finished draft and checks it against its
// platform's limits.
package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/valpere/recast/internal/chunker"
	"github.com/valpere/recast/internal/detector"
	"github.com/valpere/recast/internal/humanize"
	"github.com/valpere/recast/internal/placeholder"
	"github.com/valpere/recast/internal/platform"
)

// hookWindow is how many leading runes are searched for a hook.
const hookWindow = 100

var (
	reHashtag = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	reHook    = regexp.MustCompile(`[?!]`)

	ctaKeywords = []string{"click", "subscribe", "comment", "share", "read more", "learn", "try", "join"}
)

// Metadata describes one draft.
type Metadata struct {
	CharacterCount    int                `json:"character_count"`
	WordCount         int                `json:"word_count"`
	Hashtags          []string           `json:"hashtags"`
	HasHook           bool               `json:"has_hook"`
	HasCTA            bool               `json:"has_cta"`
	PlatformCompliant bool               `json:"platform_compliant"`
	Suggestions       []string           `json:"suggestions,omitempty"`
	AIPatterns        []humanize.Finding `json:"ai_patterns,omitempty"`
	Language          string             `json:"language,omitempty"`
}

// Validator checks drafts. Language checking is optional; the detector is
// expensive to build, so one instance is shared.
type Validator struct {
	humanizer *humanize.Humanizer
	det       *detector.Detector
	language  string
}

// New creates a Validator. With a nil detector or empty language the
// language check is skipped. A nil humanizer uses the default rule tables
// for AI pattern detection.
func New(h *humanize.Humanizer, det *detector.Detector, language string) *Validator {
	if h == nil {
		h = humanize.Default()
	}
	return &Validator{humanizer: h, det: det, language: language}
}

// Validate measures draft against p. Only character limits make a draft
// non-compliant; every other problem is reported as a suggestion.
func (v *Validator) Validate(p platform.Platform, draft string) Metadata {
	meta := Metadata{
		CharacterCount:    utf8.RuneCountInString(draft),
		WordCount:         len(strings.Fields(draft)),
		Hashtags:          reHashtag.FindAllString(draft, -1),
		HasHook:           hasHook(draft),
		HasCTA:            hasCTA(draft),
		PlatformCompliant: true,
		AIPatterns:        v.AIPatterns(draft),
	}

	if p.MaxChars > 0 && meta.CharacterCount > p.MaxChars {
		meta.PlatformCompliant = false
		meta.Suggestions = append(meta.Suggestions,
			fmt.Sprintf("Content exceeds %s character limit (%d chars)", thousands(p.MaxChars), meta.CharacterCount))
	}

	if p.PerPostChars > 0 {
		for i, post := range chunker.Paragraphs(draft) {
			if n := utf8.RuneCountInString(post); n > p.PerPostChars {
				meta.PlatformCompliant = false
				meta.Suggestions = append(meta.Suggestions,
					fmt.Sprintf("Tweet %d exceeds %d characters (%d); split it into %d",
						i+1, p.PerPostChars, n, len(chunker.Chunk(post, p.PerPostChars))))
			}
		}
	}

	tags := len(meta.Hashtags)
	switch {
	case p.ForbidHashtags && tags > 0:
		meta.Suggestions = append(meta.Suggestions, fmt.Sprintf("%s posts should have no hashtags (found %d)", p.Name, tags))
	case p.MinHashtags > 0 && p.MaxHashtags > 0 && (tags < p.MinHashtags || tags > p.MaxHashtags):
		meta.Suggestions = append(meta.Suggestions,
			fmt.Sprintf("%s needs %d-%d hashtags (found %d)", p.Name, p.MinHashtags, p.MaxHashtags, tags))
	case p.MaxHashtags > 0 && tags > p.MaxHashtags:
		meta.Suggestions = append(meta.Suggestions,
			fmt.Sprintf("%s works best with 1-%d hashtags (found %d)", p.Name, p.MaxHashtags, tags))
	}

	if p.MinWords > 0 && meta.WordCount < p.MinWords {
		meta.Suggestions = append(meta.Suggestions, fmt.Sprintf("Too short for %s: %d words, aim for %d-%d", p.Name, meta.WordCount, p.MinWords, p.MaxWords))
	} else if p.MaxWords > 0 && meta.WordCount > p.MaxWords {
		meta.Suggestions = append(meta.Suggestions, fmt.Sprintf("Too long for %s: %d words, aim for %d-%d", p.Name, meta.WordCount, p.MinWords, p.MaxWords))
	}

	if n := len(meta.AIPatterns); n > 0 {
		meta.Suggestions = append(meta.Suggestions, fmt.Sprintf("%d AI writing pattern(s) remain", n))
	}

	if v.det != nil && v.language != "" {
		detected, err := v.det.Check(draft, v.language)
		meta.Language = detected
		if err != nil {
			meta.Suggestions = append(meta.Suggestions, fmt.Sprintf("Language: %v", err))
		}
	}

	return meta
}

// AIPatterns runs the humanizer's detector and drops findings inside links,
// mentions, hashtags and code, which rewriting never touches.
func (v *Validator) AIPatterns(draft string) []humanize.Finding {
	findings := v.humanizer.Detect(draft)
	if len(findings) == 0 {
		return nil
	}

	spans := placeholder.Spans(draft)
	var out []humanize.Finding
	for _, f := range findings {
		if !insideAny(f.Offset, spans) {
			out = append(out, f)
		}
	}
	return out
}

func insideAny(offset int, spans [][]int) bool {
	for _, s := range spans {
		if offset >= s[0] && offset < s[1] {
			return true
		}
	}
	return false
}

func hasHook(draft string) bool {
	head := draft
	if utf8.RuneCountInString(head) > hookWindow {
		head = string([]rune(head)[:hookWindow])
	}
	return reHook.MatchString(head)
}

func hasCTA(draft string) bool {
	lower := strings.ToLower(draft)
	for _, kw := range ctaKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func thousands(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var sb strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		sb.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}
