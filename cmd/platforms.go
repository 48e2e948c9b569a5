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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/recast/internal/platform"
)

var platformsVerbose bool

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List supported platforms and their limits",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PLATFORM\tCHARACTERS\tHASHTAGS\tWORDS")
		for _, p := range platform.All() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, charLimit(p), hashtagLimit(p), wordRange(p))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if platformsVerbose {
			for _, p := range platform.All() {
				fmt.Printf("\n%s\n  %s\n", p.Name, p.Rules)
			}
		}
		return nil
	},
}

func charLimit(p platform.Platform) string {
	switch {
	case p.MaxChars > 0:
		return fmt.Sprintf("<= %d", p.MaxChars)
	case p.PerPostChars > 0:
		return fmt.Sprintf("<= %d per post", p.PerPostChars)
	}
	return "-"
}

func hashtagLimit(p platform.Platform) string {
	switch {
	case p.ForbidHashtags:
		return "none"
	case p.MinHashtags > 0:
		return fmt.Sprintf("%d-%d", p.MinHashtags, p.MaxHashtags)
	case p.MaxHashtags > 0:
		return fmt.Sprintf("<= %d", p.MaxHashtags)
	}
	return "-"
}

func wordRange(p platform.Platform) string {
	if p.MinWords == 0 && p.MaxWords == 0 {
		return "-"
	}
	return fmt.Sprintf("%d-%d", p.MinWords, p.MaxWords)
}

func init() {
	rootCmd.AddCommand(platformsCmd)

	platformsCmd.Flags().BoolVarP(&platformsVerbose, "verbose", "v", false, "Also print each platform's writing rules")
}
