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
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/recast/internal/detector"
	"github.com/valpere/recast/internal/validator"
)

var (
	detectInput    string
	detectJSON     bool
	detectLanguage string
	detectFail     bool
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "List AI writing patterns in text",
	Long: `Report the patterns the humanizer would rewrite, without rewriting anything:
verbose phrases, banned words, em dashes and emphasis quotes. Matches inside
links, mentions, hashtags and code are ignored.

With --language, the text's language is also checked (ISO 639-1 code).
With --fail, the command exits non-zero when any pattern is found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(detectInput)
		if err != nil {
			return err
		}

		h, err := cfg.Humanizer()
		if err != nil {
			return fmt.Errorf("invalid humanize rules: %w", err)
		}

		findings := validator.New(h, nil, "").AIPatterns(text)

		var detected string
		var langErr error
		if detectLanguage != "" {
			detected, langErr = detector.New().Check(text, detectLanguage)
		}

		if detectJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			report := map[string]interface{}{"findings": findings}
			if detected != "" {
				report["language"] = detected
			}
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			if len(findings) == 0 {
				fmt.Println("No AI writing patterns found.")
			} else {
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "OFFSET\tKIND\tMATCH")
				for _, f := range findings {
					fmt.Fprintf(w, "%d\t%s\t%q\n", f.Offset, f.Kind, f.Match)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}
			if detected != "" {
				fmt.Printf("Language: %s\n", detected)
			}
		}

		if langErr != nil {
			fmt.Fprintf(os.Stderr, "Language check: %v\n", langErr)
		}
		if !detectFail {
			return nil
		}
		if len(findings) > 0 {
			return fmt.Errorf("%d AI writing pattern(s) found", len(findings))
		}
		return langErr
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().StringVarP(&detectInput, "input", "i", "", "Input file (default: stdin)")
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "Print findings as JSON")
	detectCmd.Flags().StringVar(&detectLanguage, "language", "", "Expected language (ISO 639-1), e.g. en")
	detectCmd.Flags().BoolVar(&detectFail, "fail", false, "Exit non-zero when patterns are found")
}
