// Package generator turns a source text into platform drafts with an llm
// client: one call extracts the core message, then one call per platform
// writes a draft or a set of A/B variations.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/valpere/recast/internal/chunker"
	"github.com/valpere/recast/internal/llm"
	"github.com/valpere/recast/internal/platform"
)

const (
	// MaxSourceChars bounds the text sent for core message extraction.
	MaxSourceChars = 12000

	maxVariationAttempts = 2
	variationSeparator   = "---VARIATION---"
)

// CoreMessage is what every platform draft must preserve.
type CoreMessage struct {
	Topic            string   `json:"topic"`
	Thesis           string   `json:"thesis"`
	Insights         []string `json:"insights"`
	AudienceAnalysis string   `json:"audience_analysis"`
}

// Request asks for drafts for one platform.
type Request struct {
	Platform   platform.Platform
	Audience   string
	Core       CoreMessage
	Variations int
}

// ExtractCoreMessage asks the model for the topic, thesis and insights of
// text. Text longer than MaxSourceChars is cut at a paragraph or sentence
// boundary first.
func ExtractCoreMessage(ctx context.Context, client llm.Client, text string) (*CoreMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("source text is empty")
	}
	text = chunker.Chunk(text, MaxSourceChars)[0]

	completion, err := client.Complete(ctx, llm.Prompt{
		System:      coreMessageSystem,
		User:        buildCoreMessagePrompt(text),
		JSON:        true,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("core message: %w", err)
	}

	var core CoreMessage
	if err := json.Unmarshal([]byte(extractJSON(completion.Text)), &core); err != nil {
		return nil, fmt.Errorf("failed to parse core message as JSON: %w", err)
	}
	if core.Topic == "" && core.Thesis == "" {
		return nil, fmt.Errorf("core message has no topic or thesis")
	}

	return &core, nil
}

// Generate writes drafts for req.Platform. With Variations <= 1 it returns a
// single draft; otherwise it returns up to Variations distinct drafts.
func Generate(ctx context.Context, client llm.Client, req Request) ([]string, error) {
	if req.Variations <= 1 {
		completion, err := client.Complete(ctx, llm.Prompt{
			System:      draftSystem,
			User:        buildDraftPrompt(req),
			Temperature: 0.75,
		})
		if err != nil {
			return nil, fmt.Errorf("draft: %w", err)
		}
		if completion.Text == "" {
			return nil, fmt.Errorf("draft: empty completion")
		}
		return []string{completion.Text}, nil
	}

	var variations []string
	for attempt := 0; attempt < maxVariationAttempts; attempt++ {
		completion, err := client.Complete(ctx, llm.Prompt{
			System:      variationsSystem,
			User:        buildDraftPrompt(req),
			JSON:        true,
			Temperature: 0.85,
		})
		if err != nil {
			return nil, fmt.Errorf("variations: %w", err)
		}

		found := parseVariations(completion.Text)
		if len(found) > len(variations) {
			variations = found
		}
		if len(variations) >= req.Variations {
			return variations[:req.Variations], nil
		}
	}
	if len(variations) > 0 {
		return variations, nil
	}

	// JSON mode gave nothing usable; fall back to plain text with separators.
	completion, err := client.Complete(ctx, llm.Prompt{
		System: fmt.Sprintf("Create %d distinct variations of this content. Return them separated by '%s'.",
			req.Variations, variationSeparator),
		User:        buildDraftPrompt(req),
		Temperature: 0.9,
	})
	if err != nil {
		return nil, fmt.Errorf("variations fallback: %w", err)
	}
	for _, v := range strings.Split(completion.Text, variationSeparator) {
		if v = strings.TrimSpace(v); v != "" {
			variations = append(variations, v)
		}
	}
	if len(variations) == 0 {
		return nil, fmt.Errorf("variations: empty completion")
	}
	if len(variations) > req.Variations {
		variations = variations[:req.Variations]
	}
	return variations, nil
}

// parseVariations accepts the shapes models actually return: a "variations"
// or "variation" list, numbered keys, or failing that any long string value.
func parseVariations(raw string) []string {
	var data map[string]json.RawMessage
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil
	}

	for _, key := range []string{"variations", "variation"} {
		var list []string
		if msg, ok := data[key]; ok && json.Unmarshal(msg, &list) == nil {
			return nonEmpty(list)
		}
	}

	var out []string
	for _, key := range []string{"variation_1", "variation_2", "variation_3", "variation_4", "variation_5", "v1", "v2", "v3", "1", "2", "3"} {
		var s string
		if msg, ok := data[key]; ok && json.Unmarshal(msg, &s) == nil {
			out = append(out, s)
		}
	}
	if out = nonEmpty(out); len(out) > 0 {
		return out
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var s string
		if json.Unmarshal(data[k], &s) == nil && len(s) > 50 {
			out = append(out, s)
		}
	}
	return nonEmpty(out)
}

// extractJSON strips code fences and any prose around the outermost object.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end < start {
		return s
	}
	return s[start : end+1]
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
