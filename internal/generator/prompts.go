package generator

import (
	"fmt"
	"strings"
)

const writingRules = `Write like a person, not an assistant:
- No em dashes. Use commas or periods.
- No quotation marks for emphasis.
- Avoid: delve, crucial, leverage, utilize, comprehensive, robust, seamless, cutting-edge, furthermore, moreover, landscape, realm.
- Use contractions (don't, it's, you're).
- Vary sentence length. A fragment now and then is fine.
- Prefer specific details (a day, a number, a name) over generalities.`

const coreMessageSystem = `You are a content strategist. Read the text and extract what must survive when it is rewritten for other platforms.
Return valid JSON with exactly these keys:
"topic": the central topic in 2-5 words,
"thesis": the main argument in 1-2 sentences,
"insights": a list of 5-7 specific, actionable insights,
"audience_analysis": who would care about this and why.`

const draftSystem = `You are a content creator known for authentic posts that people actually finish reading.
` + writingRules + `
Output only the final content. No explanations, no preamble.`

const variationsSystem = `You are a content creator known for authentic posts that people actually finish reading.
` + writingRules + `
Each variation must take a different hook and angle, and each must be complete and ready to post.
Return valid JSON with exactly this structure: {"variations": ["...", "..."]}`

func buildCoreMessagePrompt(text string) string {
	return "Text to analyze:\n" + text
}

func buildDraftPrompt(req Request) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Write a %s post.\n\n", req.Platform.Name))
	sb.WriteString(fmt.Sprintf("TARGET AUDIENCE: %s\n\n", req.Audience))
	sb.WriteString("PLATFORM RULES:\n")
	sb.WriteString(req.Platform.Rules)
	sb.WriteString("\n\nCORE MESSAGE:\n")
	sb.WriteString(fmt.Sprintf("- Topic: %s\n", req.Core.Topic))
	sb.WriteString(fmt.Sprintf("- Thesis: %s\n", req.Core.Thesis))
	if len(req.Core.Insights) > 0 {
		sb.WriteString("- Insights:\n")
		for _, insight := range req.Core.Insights {
			sb.WriteString(fmt.Sprintf("  - %s\n", insight))
		}
	}
	if req.Variations > 1 {
		sb.WriteString(fmt.Sprintf("\nWrite %d distinct variations.", req.Variations))
	}

	return sb.String()
}
