package markdown

import (
	"fmt"
	"strings"
	"time"

	"github.com/valpere/recast/internal/pipeline"
)

// RunReport lays out a finished run: the core message first, then one
// section per draft with its validation notes. Only the selected draft of an
// A/B set is marked.
func RunReport(run *pipeline.Run) Document {
	doc := Document{
		Title: "Recast run " + shortID(run.ID),
		Summary: []string{
			"Created: " + run.Timestamp.Format(time.RFC1123),
			"Platforms: " + strings.Join(run.Platforms, ", "),
			fmt.Sprintf("Duration: %s", run.Duration.Round(time.Millisecond)),
		},
	}
	if run.Audience != "" {
		doc.Summary = append(doc.Summary, "Audience: "+run.Audience)
	}
	if n := run.Failed(); n > 0 {
		doc.Summary = append(doc.Summary, fmt.Sprintf("Failed platforms: %d", n))
	}

	if run.Core != nil {
		core := Section{Title: "Core message", Body: run.Core.Thesis}
		if run.Core.Topic != "" {
			core.Notes = append(core.Notes, "Topic: "+run.Core.Topic)
		}
		for _, insight := range run.Core.Insights {
			core.Notes = append(core.Notes, "Insight: "+insight)
		}
		if run.Core.AudienceAnalysis != "" {
			core.Notes = append(core.Notes, "Audience: "+run.Core.AudienceAnalysis)
		}
		doc.Sections = append(doc.Sections, core)
	}

	for _, res := range run.Results {
		if res.Error != "" {
			doc.Sections = append(doc.Sections, Section{
				Title: res.Platform,
				Notes: []string{"Failed: " + res.Error},
			})
			continue
		}

		for i, d := range res.Drafts {
			title := res.Platform
			if len(res.Drafts) > 1 {
				title = fmt.Sprintf("%s, variation %d", res.Platform, i+1)
				if i == res.Selected {
					title += " (selected)"
				}
			}
			doc.Sections = append(doc.Sections, Section{
				Title: title,
				Body:  d.Text,
				Notes: draftNotes(res, i),
			})
		}
	}

	return doc
}

func draftNotes(res pipeline.PlatformResult, i int) []string {
	meta := res.Drafts[i].Metadata
	compliant := "yes"
	if !meta.PlatformCompliant {
		compliant = "no"
	}

	notes := []string{
		fmt.Sprintf("%d characters, %d words, compliant: %s", meta.CharacterCount, meta.WordCount, compliant),
	}
	if len(meta.Hashtags) > 0 {
		notes = append(notes, "Hashtags: "+strings.Join(meta.Hashtags, " "))
	}
	if i < len(res.Scores) {
		notes = append(notes, fmt.Sprintf("Critic score: %d", res.Scores[i]))
	}
	if i == res.Selected && res.Reasoning != "" {
		notes = append(notes, "Critic: "+res.Reasoning)
	}
	for _, f := range meta.AIPatterns {
		notes = append(notes, fmt.Sprintf("AI pattern (%s): %q", f.Kind, f.Match))
	}
	notes = append(notes, meta.Suggestions...)
	if meta.Language != "" {
		notes = append(notes, "Language: "+meta.Language)
	}
	return notes
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
