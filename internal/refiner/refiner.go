// Package refiner revises a draft that breaks its platform's hard limits.
// It runs at most once per platform, after validation.
package refiner

import (
	"context"
	"fmt"
	"strings"

	"github.com/valpere/recast/internal/llm"
	"github.com/valpere/recast/internal/platform"
)

// Refiner rewrites draft so it fits p, addressing problems.
type Refiner interface {
	Refine(ctx context.Context, p platform.Platform, draft string, problems []string) (string, error)
}

// LLMRefiner asks a chat model for the revision.
type LLMRefiner struct {
	client llm.Client
}

func NewLLMRefiner(client llm.Client) *LLMRefiner {
	return &LLMRefiner{client: client}
}

const refineSystem = `You are an editor who tightens social posts without losing their voice.
Keep the hook, the specific details and every link, mention and hashtag exactly as written.
Do not add em dashes, quotation marks for emphasis, or filler words.
Output only the revised post. No explanations, no preamble.`

// Refine returns the revised draft. An empty answer keeps the original.
func (r *LLMRefiner) Refine(ctx context.Context, p platform.Platform, draft string, problems []string) (string, error) {
	completion, err := r.client.Complete(ctx, llm.Prompt{
		System:      refineSystem,
		User:        buildRefinePrompt(p, draft, problems),
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("refine request failed: %w", err)
	}

	revised := strings.TrimSpace(completion.Text)
	if revised == "" {
		return draft, nil
	}
	return revised, nil
}

func buildRefinePrompt(p platform.Platform, draft string, problems []string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Revise this %s post.\n", p.Name))
	switch {
	case p.MaxChars > 0:
		sb.WriteString(fmt.Sprintf("It must be at most %d characters in total.\n", p.MaxChars))
	case p.PerPostChars > 0:
		sb.WriteString(fmt.Sprintf("Every tweet, separated by a blank line, must be at most %d characters.\n", p.PerPostChars))
	}

	if len(problems) > 0 {
		sb.WriteString("\nProblems to fix:\n")
		for _, problem := range problems {
			sb.WriteString("- " + problem + "\n")
		}
	}

	sb.WriteString("\nPost:\n")
	sb.WriteString(draft)
	return sb.String()
}
