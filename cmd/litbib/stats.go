package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count entries by type and year",
	Long:  `Count indexed entries by entry type and by year. Run 'litbib index' first.`,
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

// StatsResult is the response for the stats command.
type StatsResult struct {
	Entries int            `json:"entries"`
	ByType  map[string]int `json:"by_type"`
	ByYear  map[string]int `json:"by_year"`
}

func runStats(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	cfg := mustLoadConfig(root)
	db := mustOpenIndex(cfg, root)
	defer db.Close()
	mustHaveEntries(db)

	var result StatsResult
	var err error
	if result.Entries, err = db.Count(); err != nil {
		exitWithError(ExitError, "counting entries: %v", err)
	}
	if result.ByType, err = db.CountBy("type"); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if result.ByYear, err = db.CountBy("year"); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("%d entries\n\nBy type:\n", result.Entries)
		printCounts(result.ByType)
		fmt.Printf("\nBy year:\n")
		printCounts(result.ByYear)
	} else {
		outputJSON(result)
	}
	return nil
}

func printCounts(counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		label := k
		if label == "" {
			label = "(none)"
		}
		fmt.Printf("  %-16s %5d\n", label, counts[k])
	}
}
