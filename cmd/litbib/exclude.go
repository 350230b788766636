package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/litbib/internal/exclusion"
	"github.com/matsen/litbib/internal/match"
)

var (
	excludeDOI    string
	excludeTitle  string
	excludeReason string
	excludeList   bool
)

func init() {
	rootCmd.AddCommand(excludeCmd)

	excludeCmd.Flags().StringVar(&excludeDOI, "doi", "", "Exclude a DOI")
	excludeCmd.Flags().StringVar(&excludeTitle, "title", "", "Title, for the record")
	excludeCmd.Flags().StringVar(&excludeReason, "reason", "", "Why the paper does not belong in the bibliography")
	excludeCmd.Flags().BoolVar(&excludeList, "list", false, "List the exclusion list instead of adding to it")
}

var excludeCmd = &cobra.Command{
	Use:   "exclude [paper-id]",
	Short: "Keep a paper out of the bibliography",
	Long: `Add a Semantic Scholar paper id or a DOI to the exclusion list.

Excluded papers are never added by 'litbib discover', and never queued for
review again.

Examples:
  litbib exclude 649def34f8be52c8b66281af98ae884c09aef38b --reason "wrong author"
  litbib exclude --doi 10.1000/xyz123 --reason "erratum"
  litbib exclude --list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExclude,
}

// ExcludeResult is the response for the exclude command.
type ExcludeResult struct {
	Status string          `json:"status"`
	Path   string          `json:"path"`
	Entry  exclusion.Entry `json:"entry"`
}

func runExclude(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	cfg := mustLoadConfig(root)
	path := cfg.ExclusionPath(root)

	list, err := exclusion.Load(path)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if excludeList {
		entries := list.Entries()
		if entries == nil {
			entries = []exclusion.Entry{}
		}
		if humanOutput {
			fmt.Printf("%d excluded papers\n", len(entries))
			for _, e := range entries {
				fmt.Printf("  %s  %s  %s\n", orDash(e.ExternalID), orDash(e.DOI), truncateString(e.Title, ReviewTitleMaxLen))
			}
		} else {
			outputJSON(entries)
		}
		return nil
	}

	entry := exclusion.Entry{
		DOI:    match.NormalizeDOI(excludeDOI),
		Title:  strings.TrimSpace(excludeTitle),
		Reason: strings.TrimSpace(excludeReason),
	}
	if len(args) > 0 {
		entry.ExternalID = strings.TrimSpace(args[0])
	}
	if entry.ExternalID == "" && entry.DOI == "" {
		exitWithError(ExitError, "a paper id or --doi is required")
	}

	status := "added"
	if list.Contains(entry.ExternalID) || list.Contains(entry.DOI) {
		status = "exists"
	} else if err := list.Append(entry); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	entries := list.Entries()
	if status == "added" {
		entry = entries[len(entries)-1]
	}

	result := ExcludeResult{Status: status, Path: path, Entry: entry}
	if humanOutput {
		if status == "exists" {
			fmt.Println("Already excluded")
		} else {
			outputOK("Excluded %s", orDash(entry.ExternalID+" "+entry.DOI))
		}
	} else {
		outputJSON(result)
	}
	return nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return strings.TrimSpace(s)
}
