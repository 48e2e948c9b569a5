// Package placeholder shields the parts of a post that text rewriting must
// never touch (code, links, addresses, mentions and hashtags) by swapping
// them for numbered markers ([PH0], [PH1], …). Restore puts them back.
package placeholder

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// fenced code blocks: ```...``` (non-greedy, may span lines)
	reFencedCode = regexp.MustCompile("(?s)```.*?```")

	// inline code spans: `...`
	reInlineCode = regexp.MustCompile("`[^`]+`")

	// links; trailing sentence punctuation stays outside the marker
	reURL = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"'\[\]]*[^\s<>"'\[\].,;:!?)]`)

	reEmail = regexp.MustCompile(`[\w.+-]+@[\w-]+(?:\.[\w-]+)+`)

	reMention = regexp.MustCompile(`@\w+`)

	reHashtag = regexp.MustCompile(`#\w+`)

	// placeholder reference in rewritten text
	rePlaceholder = regexp.MustCompile(`\[PH(\d+)\]`)

	// Order matters: code first so links and tags inside it stay whole,
	// emails before mentions so the domain is not split off.
	protected = []*regexp.Regexp{reFencedCode, reInlineCode, reURL, reEmail, reMention, reHashtag}
)

// Protect replaces code, links, email addresses, @mentions and #hashtags
// with numbered placeholders. It returns the modified text and the captured
// originals so Restore can put them back.
func Protect(text string) (string, []string) {
	var markers []string

	replace := func(match string) string {
		id := fmt.Sprintf("[PH%d]", len(markers))
		markers = append(markers, match)
		return id
	}

	for _, re := range protected {
		text = re.ReplaceAllStringFunc(text, replace)
	}

	return text, markers
}

// Spans returns the byte ranges of text that Protect would replace, in
// no particular order. Ranges may nest.
func Spans(text string) [][]int {
	var spans [][]int
	for _, re := range protected {
		spans = append(spans, re.FindAllStringIndex(text, -1)...)
	}
	return spans
}

// Restore substitutes [PHn] markers in text back with the originals captured
// by Protect. Unrecognised indices leave the placeholder as-is.
func Restore(text string, markers []string) string {
	if len(markers) == 0 {
		return text
	}
	return rePlaceholder.ReplaceAllStringFunc(text, func(match string) string {
		sub := rePlaceholder.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}
		idx := 0
		fmt.Sscanf(sub[1], "%d", &idx)
		if idx < 0 || idx >= len(markers) {
			return match
		}
		return markers[idx]
	})
}

// Validate reports the indices of markers that no longer appear in text.
func Validate(text string, markers []string) []int {
	var missing []int
	for i := range markers {
		if !strings.Contains(text, fmt.Sprintf("[PH%d]", i)) {
			missing = append(missing, i)
		}
	}
	return missing
}
