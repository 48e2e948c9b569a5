/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valpere/recast/internal/critic"
	"github.com/valpere/recast/internal/detector"
	"github.com/valpere/recast/internal/llm"
	"github.com/valpere/recast/internal/markdown"
	"github.com/valpere/recast/internal/pipeline"
	"github.com/valpere/recast/internal/refiner"
	"github.com/valpere/recast/internal/validator"
)

var (
	repurposeInput      string
	repurposeOutput     string
	repurposeHTML       string
	repurposePlatforms  []string
	repurposeAudience   string
	repurposeAB         bool
	repurposeVariations int
	repurposeJSON       bool
	repurposePlain      bool
	repurposeNoCritic   bool
	repurposeRefine     bool
	repurposeNoHistory  bool
	repurposeLanguage   string
	repurposeProvider   string
	repurposeModel      string
	repurposeQuiet      bool
)

var repurposeCmd = &cobra.Command{
	Use:   "repurpose",
	Short: "Turn long-form content into platform-ready posts",
	Long: `Extract the core message of a text once, then draft, humanize and validate a
post for every selected platform in parallel.

Platforms: LinkedIn, Twitter/X, Short Blog, Email Sequence, Reddit, Substack
Select several: --platforms LinkedIn,Twitter/X,Reddit

A/B testing:
  --ab          draft several variations per platform and let a critic pick one
  --refine      revise a selected draft once when it breaks a character limit

Providers (set in recast.yaml or with --provider): groq, openai, openrouter, ollama.
API keys are read from RECAST_PROVIDER_API_KEY.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(repurposeInput)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("platforms") {
			cfg.Pipeline.Platforms = repurposePlatforms
		}
		if cmd.Flags().Changed("audience") {
			cfg.Pipeline.Audience = repurposeAudience
		}
		if cmd.Flags().Changed("ab") {
			cfg.Pipeline.ABTesting = repurposeAB
		}
		if cmd.Flags().Changed("variations") {
			if repurposeVariations < 2 || repurposeVariations > 5 {
				return fmt.Errorf("--variations must be between 2 and 5")
			}
			cfg.Pipeline.Variations = repurposeVariations
		}
		if cmd.Flags().Changed("language") {
			cfg.Pipeline.Language = repurposeLanguage
		}
		if repurposeNoCritic {
			cfg.Pipeline.Critic = false
		}
		if repurposeRefine {
			cfg.Pipeline.Refine = true
		}
		if repurposeProvider != "" {
			cfg.Provider.Name = repurposeProvider
		}
		if repurposeModel != "" {
			cfg.Provider.Model = repurposeModel
		}

		client, err := llm.New(cfg.Provider, log)
		if err != nil {
			return err
		}

		h, err := cfg.Humanizer()
		if err != nil {
			return fmt.Errorf("invalid humanize rules: %w", err)
		}

		var det *detector.Detector
		if cfg.Pipeline.Language != "" {
			det = detector.New()
		}

		var c critic.Critic
		if cfg.Pipeline.Critic {
			c = critic.NewLLMCritic(client)
		}

		p := pipeline.New(client, h, validator.New(h, det, cfg.Pipeline.Language), c, cfg.PipelineOptions(), log)
		if cfg.Pipeline.Refine {
			p.WithRefiner(refiner.NewLLMRefiner(client))
		}
		if !repurposeQuiet {
			p.OnEvent(printEvent)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		run, runErr := p.Run(ctx, pipeline.Request{
			Text:      text,
			Audience:  cfg.Pipeline.Audience,
			Platforms: cfg.Pipeline.Platforms,
			ABTesting: cfg.Pipeline.ABTesting,
		})
		if run == nil {
			return runErr
		}

		if cfg.History.Enabled && !repurposeNoHistory {
			if err := saveRun(run); err != nil {
				log.Warn("failed to save run history", zap.Error(err))
				fmt.Fprintf(os.Stderr, "Warning: run not saved to history: %v\n", err)
			}
		}

		if err := writeRun(run); err != nil {
			return err
		}

		if runErr != nil {
			return runErr
		}
		if run.Failed() == len(run.Results) {
			return fmt.Errorf("all %d platform(s) failed", len(run.Results))
		}
		if n := run.Failed(); n > 0 {
			fmt.Fprintf(os.Stderr, "%d of %d platform(s) failed\n", n, len(run.Results))
		}
		return nil
	},
}

func printEvent(e pipeline.Event) {
	switch {
	case e.Err != nil && e.Platform != "":
		fmt.Fprintf(os.Stderr, "[%s] failed: %v\n", e.Platform, e.Err)
	case e.Err != nil:
		fmt.Fprintf(os.Stderr, "failed: %v\n", e.Err)
	case e.Platform == "":
		fmt.Fprintf(os.Stderr, "%s...\n", strings.ReplaceAll(string(e.Stage), "_", " "))
	default:
		fmt.Fprintf(os.Stderr, "[%s] %s\n", e.Platform, e.Stage)
	}
}

func saveRun(run *pipeline.Run) error {
	db, err := openHistory("")
	if err != nil {
		return err
	}
	defer db.Close()

	rec, drafts, err := run.Records()
	if err != nil {
		return err
	}
	if err := db.SaveRun(context.Background(), rec, drafts); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved run %s\n", run.ID)
	return nil
}

func writeRun(run *pipeline.Run) error {
	if repurposeHTML != "" {
		doc := markdown.RunReport(run)
		if err := writeOutput(repurposeHTML, markdown.Page(doc.Title, markdown.Render(doc))); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote HTML report to %s\n", repurposeHTML)
	}

	switch {
	case repurposeJSON:
		data, err := json.MarshalIndent(run, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode run: %w", err)
		}
		return writeOutput(repurposeOutput, string(data))
	case repurposePlain:
		return writeOutput(repurposeOutput, plainPosts(run))
	default:
		return writeOutput(repurposeOutput, string(markdown.Render(markdown.RunReport(run))))
	}
}

// plainPosts prints only the selected post of each platform, without
// Markdown formatting.
func plainPosts(run *pipeline.Run) string {
	var sb strings.Builder
	for _, res := range run.Results {
		best := res.Best()
		if best == nil {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "=== %s ===\n\n%s", res.Platform, markdown.ToPlainText([]byte(best.Text)))
	}
	return sb.String()
}

func init() {
	rootCmd.AddCommand(repurposeCmd)

	repurposeCmd.Flags().StringVarP(&repurposeInput, "input", "i", "", "Input file (default: stdin)")
	repurposeCmd.Flags().StringVarP(&repurposeOutput, "output", "o", "", "Output file (default: stdout)")
	repurposeCmd.Flags().StringVar(&repurposeHTML, "html", "", "Also write an HTML report to this file")
	repurposeCmd.Flags().StringSliceVarP(&repurposePlatforms, "platforms", "p", nil, "Target platforms (comma-separated)")
	repurposeCmd.Flags().StringVarP(&repurposeAudience, "audience", "a", "", "Target audience description")
	repurposeCmd.Flags().BoolVar(&repurposeAB, "ab", false, "Draft several variations per platform")
	repurposeCmd.Flags().IntVar(&repurposeVariations, "variations", pipeline.DefaultVariations, "Variations per platform with --ab (2-5)")
	repurposeCmd.Flags().BoolVar(&repurposeJSON, "json", false, "Print the run as JSON")
	repurposeCmd.Flags().BoolVar(&repurposePlain, "plain", false, "Print only the selected posts as plain text")
	repurposeCmd.Flags().BoolVar(&repurposeNoCritic, "no-critic", false, "Keep the first variation instead of asking the critic")
	repurposeCmd.Flags().BoolVar(&repurposeRefine, "refine", false, "Revise selected drafts that break a character limit")
	repurposeCmd.Flags().BoolVar(&repurposeNoHistory, "no-history", false, "Do not save the run to history")
	repurposeCmd.Flags().StringVar(&repurposeLanguage, "language", "", "Flag drafts not written in this language (ISO 639-1)")
	repurposeCmd.Flags().StringVar(&repurposeProvider, "provider", "", "LLM provider: groq, openai, openrouter, ollama")
	repurposeCmd.Flags().StringVar(&repurposeModel, "model", "", "Model name for the provider")
	repurposeCmd.Flags().BoolVarP(&repurposeQuiet, "quiet", "q", false, "Do not print progress to stderr")
}
