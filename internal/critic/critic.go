// Package critic picks the strongest of several A/B draft variations.
package critic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/valpere/recast/internal/llm"
)

type Verdict struct {
	Selected  int    `json:"selected"`
	Scores    []int  `json:"scores,omitempty"`
	Reasoning string `json:"reasoning"`
}

type Critic interface {
	Choose(ctx context.Context, platform, audience string, drafts []string) (*Verdict, error)
}

// LLMCritic asks a chat model to rank the drafts.
type LLMCritic struct {
	client llm.Client
}

func NewLLMCritic(client llm.Client) *LLMCritic {
	return &LLMCritic{client: client}
}

const criticSystem = `You are a strict content editor. You spot writing that sounds machine-made: em dashes, quotation marks used for emphasis, stock words like delve, crucial, leverage or robust, and prose that is too polished.
Judge each variation on hook strength, platform fit, specific detail and how human it sounds.
Respond ONLY in JSON:
{
  "best": <number of the best variation>,
  "scores": [<0-100 for each variation, in order>],
  "reasoning": "..."
}`

func (c *LLMCritic) Choose(ctx context.Context, platform, audience string, drafts []string) (*Verdict, error) {
	if len(drafts) == 0 {
		return nil, fmt.Errorf("no drafts to evaluate")
	}

	if len(drafts) == 1 {
		return &Verdict{
			Selected:  0,
			Reasoning: "Only one variation available",
		}, nil
	}

	completion, err := c.client.Complete(ctx, llm.Prompt{
		System:      criticSystem,
		User:        buildCriticPrompt(platform, audience, drafts),
		JSON:        true,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("critic request failed: %w", err)
	}

	return parseCriticResponse(completion.Text, len(drafts))
}

func buildCriticPrompt(platform, audience string, drafts []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Platform: %s\n", platform))
	if audience != "" {
		sb.WriteString(fmt.Sprintf("Audience: %s\n", audience))
	}
	sb.WriteString("\nVariations:\n")

	for i, d := range drafts {
		sb.WriteString(fmt.Sprintf("\n--- %d ---\n%s\n", i+1, d))
	}

	sb.WriteString("\nWhich variation should be published?")
	return sb.String()
}

func parseCriticResponse(response string, n int) (*Verdict, error) {
	response = strings.TrimSpace(response)
	if start, end := strings.Index(response, "{"), strings.LastIndex(response, "}"); start >= 0 && end > start {
		response = response[start : end+1]
	}

	var parsed struct {
		Best      int    `json:"best"`
		Scores    []int  `json:"scores"`
		Reasoning string `json:"reasoning"`
	}

	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse critic response as JSON: %w", err)
	}

	if parsed.Best < 1 || parsed.Best > n {
		return nil, fmt.Errorf("critic picked variation %d of %d", parsed.Best, n)
	}
	if len(parsed.Scores) != n {
		parsed.Scores = nil
	}

	return &Verdict{
		Selected:  parsed.Best - 1,
		Scores:    parsed.Scores,
		Reasoning: parsed.Reasoning,
	}, nil
}
