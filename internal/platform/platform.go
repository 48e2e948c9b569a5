// Package platform lists the publishing targets recast writes for.
package platform

import (
	"fmt"
	"strings"
)

const (
	LinkedIn      = "LinkedIn"
	Twitter       = "Twitter/X"
	ShortBlog     = "Short Blog"
	EmailSequence = "Email Sequence"
	Reddit        = "Reddit"
	Substack      = "Substack"
)

// Platform describes one target and the limits its drafts are checked
// against. A zero limit means unchecked.
type Platform struct {
	Name           string
	Rules          string
	MaxChars       int
	PerPostChars   int
	MinHashtags    int
	MaxHashtags    int
	ForbidHashtags bool
	MinWords       int
	MaxWords       int
}

var all = []Platform{
	{
		Name: LinkedIn,
		Rules: "At most 1,300 characters. Open with two lines that stop the scroll, then 3-5 short " +
			"paragraphs with line breaks, one concrete takeaway and a conversational question. " +
			"End with 3-5 relevant hashtags.",
		MaxChars:    1300,
		MinHashtags: 3,
		MaxHashtags: 5,
	},
	{
		Name: Twitter,
		Rules: "A thread of 3-7 tweets separated by blank lines, each at most 280 characters and " +
			"numbered like 1/5. One idea per tweet. At most 2 hashtags, only in the last tweet.",
		PerPostChars: 280,
		MaxHashtags:  2,
	},
	{
		Name: ShortBlog,
		Rules: "500-700 words with a plain headline, a 2-3 sentence intro, 3-4 sections under H2 " +
			"headers and a closing next step for the reader.",
		MinWords: 500,
		MaxWords: 700,
	},
	{
		Name: EmailSequence,
		Rules: "Three emails, each with a subject line: a story hook with no call to action, a " +
			"specific insight with a soft reply request, and a recap with one clear next step.",
	},
	{
		Name: Reddit,
		Rules: "300-500 words with a question or TIL style title, personal context, specific " +
			"details and a TL;DR line at the end. No hashtags.",
		ForbidHashtags: true,
		MinWords:       300,
		MaxWords:       500,
	},
	{
		Name: Substack,
		Rules: "800-1200 words in an essay voice: open with a story or observation, 3-5 sections " +
			"that flow into each other, and close with a question worth replying to.",
		MinWords: 800,
		MaxWords: 1200,
	},
}

var aliases = map[string]string{
	"twitter": Twitter,
	"x":       Twitter,
	"blog":    ShortBlog,
	"email":   EmailSequence,
}

// All returns every supported platform in display order.
func All() []Platform {
	out := make([]Platform, len(all))
	copy(out, all)
	return out
}

// Lookup finds a platform by name, ignoring case. Short aliases such as
// "twitter" and "email" are accepted.
func Lookup(name string) (Platform, bool) {
	key := strings.TrimSpace(name)
	if canonical, ok := aliases[strings.ToLower(key)]; ok {
		key = canonical
	}
	for _, p := range all {
		if strings.EqualFold(p.Name, key) {
			return p, true
		}
	}
	return Platform{}, false
}

// Resolve maps user-supplied names to platforms, preserving order and
// dropping duplicates.
func Resolve(names []string) ([]Platform, error) {
	seen := make(map[string]bool)
	var out []Platform
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		p, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown platform %q", name)
		}
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no platforms selected")
	}
	return out, nil
}
