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
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/recast/internal/chunker"
	"github.com/valpere/recast/internal/store"
	"github.com/valpere/recast/internal/validator"
)

var (
	historyDBPath string
	historyLimit  int
	historyAll    bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past repurposing runs",
	Long:  `List, inspect, and clear the SQLite history of repurposing runs.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory(historyDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		if len(runs) == 0 {
			fmt.Println("No runs in history.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tPLATFORMS\tA/B\tTOPIC\tSOURCE")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\t%s\n",
				shortRunID(r.ID), r.Timestamp.Local().Format("2006-01-02 15:04"),
				strings.Join(r.Platforms, ","), r.ABTesting, r.Topic,
				chunker.Preview(r.SourceText, 8))
		}
		return w.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a run and its drafts (an ID prefix is enough)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory(historyDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		run, drafts, err := db.GetRun(context.Background(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no run matches %q", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to load run: %w", err)
		}

		fmt.Printf("Run:       %s\n", run.ID)
		fmt.Printf("Created:   %s\n", run.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Duration:  %s\n", run.Duration)
		fmt.Printf("Platforms: %s\n", strings.Join(run.Platforms, ", "))
		if run.Audience != "" {
			fmt.Printf("Audience:  %s\n", run.Audience)
		}
		if run.Topic != "" {
			fmt.Printf("Topic:     %s\n", run.Topic)
		}
		if run.Thesis != "" {
			fmt.Printf("Thesis:    %s\n", run.Thesis)
		}

		for _, d := range drafts {
			if !historyAll && !d.Selected && d.Error == "" {
				continue
			}
			fmt.Printf("\n=== %s", d.Platform)
			if run.ABTesting && d.Error == "" {
				fmt.Printf(" (variation %d)", d.Variant+1)
			}
			fmt.Println(" ===")

			if d.Error != "" {
				fmt.Printf("Failed: %s\n", d.Error)
				continue
			}
			fmt.Println(d.Humanized)

			var meta validator.Metadata
			if err := json.Unmarshal([]byte(d.Metadata), &meta); err == nil {
				fmt.Printf("\n%d chars, %d words, compliant: %v\n", meta.CharacterCount, meta.WordCount, meta.PlatformCompliant)
				for _, s := range meta.Suggestions {
					fmt.Printf("  - %s\n", s)
				}
			}
		}
		return nil
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show history statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory(historyDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Runs:             %d\n", stats.Runs)
		fmt.Printf("Distinct sources: %d\n", stats.DistinctSources)
		fmt.Printf("Drafts:           %d\n", stats.Drafts)
		fmt.Printf("Failed platforms: %d\n", stats.FailedPlatforms)
		fmt.Printf("Compliant picks:  %d\n", stats.Compliant)

		names := make([]string, 0, len(stats.ByPlatform))
		for name := range stats.ByPlatform {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-16s %d\n", name, stats.ByPlatform[name])
		}
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a run by ID or ID prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory(historyDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		run, _, err := db.GetRun(ctx, args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no run matches %q", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to load run: %w", err)
		}

		if err := db.DeleteRun(ctx, run.ID); err != nil {
			return fmt.Errorf("failed to delete run: %w", err)
		}
		fmt.Printf("Deleted run: %s\n", run.ID)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all runs from history",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory(historyDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.Clear(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Printf("Cleared %d runs from history.\n", n)
		return nil
	},
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.PersistentFlags().StringVar(&historyDBPath, "db", "", "Database path (default: history.path from config)")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show (0 for all)")
	historyShowCmd.Flags().BoolVar(&historyAll, "all", false, "Show every variation, not only the selected ones")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
}
