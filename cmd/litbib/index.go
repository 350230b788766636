package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the query index from the bib file",
	Long: `Rebuild the SQLite query index from the bib file.

The index backs 'litbib search' and 'litbib stats'. It is derived data:
run this after editing the bib file, or delete it at any time.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

// IndexResult is the response for the index command.
type IndexResult struct {
	Status  string `json:"status"`
	Path    string `json:"path"`
	Entries int    `json:"entries"`
}

func runIndex(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	cfg := mustLoadConfig(root)
	records := mustReadBib(cfg.BibPath(root))

	db := mustOpenIndex(cfg, root)
	defer db.Close()

	n, err := db.RebuildFromRecords(records)
	if err != nil {
		exitWithError(ExitDataError, "rebuilding index: %v", err)
	}

	result := IndexResult{Status: "rebuilt", Path: cfg.IndexPath(root), Entries: n}
	if humanOutput {
		outputOK("Indexed %d entries", n)
		outputHuman("  %s\n", result.Path)
	} else {
		outputJSON(result)
	}
	return nil
}
