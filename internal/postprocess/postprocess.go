// Package postprocess removes common LLM artifacts from generated posts.
//
// It is applied to the raw text returned by every llm client before the
// draft reaches the humanizer.
package postprocess

import (
	"regexp"
	"strings"
)

// phases run in order; each returns trimmed text.
var phases = []func(string) string{
	removeThinkingBlocks,
	removeFenceWrapping,
	removeInstructionEchoes,
	removeSignOffs,
	removeQuoteWrapping,
}

// Clean strips reasoning blocks, a code fence around the whole answer,
// leading prompt echoes, trailing assistant sign-offs and outer quotes.
func Clean(text string) string {
	text = strings.TrimSpace(text)
	for _, phase := range phases {
		text = phase(text)
	}
	return text
}

// thinkingTags are the reasoning wrappers models emit. RE2 has no
// backreferences, so every tag gets its own alternative.
var thinkingTags = []string{"thinking", "think", "reasoning", "reflection", "scratchpad"}

var thinkingBlockRe, truncatedThinkingRe = compileThinking(thinkingTags)

func compileThinking(tags []string) (*regexp.Regexp, *regexp.Regexp) {
	closed := make([]string, len(tags))
	open := make([]string, len(tags))
	for i, tag := range tags {
		closed[i] = "<" + tag + ">.*?</" + tag + ">"
		open[i] = "<" + tag + ">"
	}
	return regexp.MustCompile(`(?is)` + strings.Join(closed, "|")),
		// An opened tag with no closing one means the model was cut off.
		regexp.MustCompile(`(?is)(?:` + strings.Join(open, "|") + `).*$`)
}

func removeThinkingBlocks(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = truncatedThinkingRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// fenceRe matches an answer that is entirely one fenced block, optionally
// tagged markdown, md or text.
var fenceRe = regexp.MustCompile("(?s)^```(?:markdown|md|text)?[ \t]*\r?\n(.*?)\r?\n```$")

func removeFenceWrapping(text string) string {
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// echoPatterns match introductory phrases that models prepend to a post even
// when told to output only the content. Each is anchored to the start and
// requires a colon, so a post that opens with "Here's the thing" survives.
var echoPatterns = []*regexp.Regexp{
	// "[Sure,] Here is / Here's [your] [LinkedIn] post:"
	regexp.MustCompile(`(?i)^(?:(?:certainly|sure|of course|okay)[,.!]?\s+)?here(?:'s| is| are)(?: the| your| a)?[^:\n]{0,40}?\b(?:posts?|drafts?|threads?|tweets?|versions?|variations?|content|rewrite)\s*:`),
	// "[Sure,] Below is [the] ...:"
	regexp.MustCompile(`(?i)^(?:(?:certainly|sure|of course|okay)[,.!]?\s+)?below (?:is|are)[^:\n]{0,60}:`),
	// "[The] [final|revised] post|draft:"
	regexp.MustCompile(`(?i)^(?:the )?(?:final |revised |polished )?(?:post|draft|rewrite)\s*:`),
}

func removeInstructionEchoes(text string) string {
	for _, re := range echoPatterns {
		if loc := re.FindStringIndex(text); loc != nil {
			text = strings.TrimSpace(text[loc[1]:])
		}
	}
	return text
}

// signOffRe matches a final paragraph in which the assistant talks to the
// user instead of the reader.
var signOffRe = regexp.MustCompile(`(?is)\n\s*\n\s*(?:---\s*\n\s*)?(?:let me know if|i hope this helps|feel free to (?:adjust|tweak|modify)|would you like me to|happy to (?:adjust|revise|tweak))[^\n]*$`)

func removeSignOffs(text string) string {
	return strings.TrimSpace(signOffRe.ReplaceAllString(text, ""))
}

// quotePairs are the outer quote pairs a whole answer may be wrapped in.
var quotePairs = map[rune]rune{
	'"':      '"',
	'\'':     '\'',
	'«':      '»',
	'\u201C': '\u201D',
	'\u2018': '\u2019',
}

// removeQuoteWrapping strips one matching pair of outer quotes, but only
// when no other quote of that kind appears inside, so a post that opens and
// closes with two separate quotations is left alone.
func removeQuoteWrapping(text string) string {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text
	}

	closer, ok := quotePairs[runes[0]]
	if !ok || runes[n-1] != closer {
		return text
	}
	inner := runes[1 : n-1]
	for _, r := range inner {
		if r == runes[0] || r == closer {
			return text
		}
	}
	return strings.TrimSpace(string(inner))
}
