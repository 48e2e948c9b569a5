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
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/recast/internal/chunker"
	"github.com/valpere/recast/internal/placeholder"
)

var (
	humanizeInput   string
	humanizeOutput  string
	humanizeTrace   bool
	humanizeSplit   bool
	humanizeProtect bool
)

var humanizeCmd = &cobra.Command{
	Use:   "humanize",
	Short: "Strip AI writing patterns from text",
	Long: `Run the rule-based humanizer over a file or stdin.

The humanizer simplifies verbose phrases, swaps stock AI words for plain ones,
removes em dashes and emphasis quotes, adds contractions and tidies spacing.
It never calls a model and always produces the same output for the same input.

Links, @mentions, #hashtags and code spans are left untouched unless
--protect=false is given.

  --split   treat blank-line separated blocks as separate texts
  --trace   print the text after every pass to stderr`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(humanizeInput)
		if err != nil {
			return err
		}

		h, err := cfg.Humanizer()
		if err != nil {
			return fmt.Errorf("invalid humanize rules: %w", err)
		}

		texts := []string{text}
		if humanizeSplit {
			texts = chunker.Paragraphs(text)
		}

		markers := make([][]string, len(texts))
		if humanizeProtect {
			for i := range texts {
				texts[i], markers[i] = placeholder.Protect(texts[i])
			}
		}

		if humanizeTrace {
			for i, t := range texts {
				for _, step := range h.Trace(t) {
					fmt.Fprintf(os.Stderr, "[%d] %-22s %s\n", i+1, step.Pass, placeholder.Restore(step.Output, markers[i]))
				}
			}
		}

		out := h.HumanizeBatch(texts)
		for i := range out {
			if missing := placeholder.Validate(out[i], markers[i]); len(missing) > 0 {
				fmt.Fprintf(os.Stderr, "Warning: %d protected span(s) lost in block %d\n", len(missing), i+1)
			}
			out[i] = placeholder.Restore(out[i], markers[i])
		}

		return writeOutput(humanizeOutput, strings.Join(out, "\n\n"))
	},
}

func init() {
	rootCmd.AddCommand(humanizeCmd)

	humanizeCmd.Flags().StringVarP(&humanizeInput, "input", "i", "", "Input file (default: stdin)")
	humanizeCmd.Flags().StringVarP(&humanizeOutput, "output", "o", "", "Output file (default: stdout)")
	humanizeCmd.Flags().BoolVar(&humanizeTrace, "trace", false, "Print the output of every pass to stderr")
	humanizeCmd.Flags().BoolVar(&humanizeSplit, "split", false, "Humanize blank-line separated blocks independently")
	humanizeCmd.Flags().BoolVar(&humanizeProtect, "protect", true, "Leave links, mentions, hashtags and code untouched")
}
