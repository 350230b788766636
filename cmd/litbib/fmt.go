package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/litbib/internal/bibfile"
	"github.com/matsen/litbib/internal/textnorm"
)

var (
	fmtMonths   bool
	fmtOptnotes bool
	fmtAccents  bool
	fmtCheck    bool
)

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVar(&fmtMonths, "months", false, "Rewrite month fields as {1} .. {12}")
	fmtCmd.Flags().BoolVar(&fmtOptnotes, "optnote", false, "Sort and deduplicate optnote labels")
	fmtCmd.Flags().BoolVar(&fmtAccents, "accents", false, "Rewrite accent macros in author fields to canonical form")
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "Report whether the file would change without writing it")
}

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Rewrite the bib file in canonical form",
	Long: `Rewrite the bib file in canonical form.

String macros come first, then entries sorted by key. Only allow-listed
fields are written; others are dropped (see 'litbib check').
Formatting an already formatted file changes nothing.`,
	Args: cobra.NoArgs,
	RunE: runFmt,
}

// FmtResult is the response for the fmt command.
type FmtResult struct {
	Status  string   `json:"status"`
	Path    string   `json:"path"`
	Changed bool     `json:"changed"`
	Records int      `json:"records"`
	Dropped []string `json:"dropped_fields,omitempty"`
	Digest  string   `json:"digest,omitempty"`
}

func runFmt(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	cfg := mustLoadConfig(root)
	path := cfg.BibPath(root)

	original, err := os.ReadFile(path)
	if err != nil {
		exitWithError(ExitError, "reading bibliography: %v", err)
	}
	records := mustReadBib(path)
	normalizeRecords(records, fmtMonths, fmtOptnotes, fmtAccents)

	result := FmtResult{Path: path, Records: len(records)}
	for _, v := range bibfile.DroppedFields(records, bibfile.DefaultSchema()) {
		result.Dropped = append(result.Dropped, v.Key+"."+v.Field)
	}

	content := bibfile.Serialize(records)
	if cfg.Ending() == bibfile.CRLF {
		content = strings.ReplaceAll(content, "\n", "\r\n")
	}
	result.Changed = content != string(original)

	switch {
	case fmtCheck:
		result.Status = "clean"
		if result.Changed {
			result.Status = "would_change"
		}
		result.Digest = bibfile.Digest(original)
	case result.Changed:
		result.Status = "formatted"
		result.Digest = mustWriteBib(cfg, path, records)
	default:
		result.Status = "unchanged"
		result.Digest = bibfile.Digest(original)
	}

	if humanOutput {
		switch result.Status {
		case "would_change":
			outputWarning("%s is not formatted", path)
		case "formatted":
			outputOK("Formatted %s (%d records)", path, result.Records)
		default:
			fmt.Printf("%s already formatted (%d records)\n", path, result.Records)
		}
		for _, d := range result.Dropped {
			fmt.Printf("  dropped %s\n", d)
		}
	} else {
		outputJSON(result)
	}

	if fmtCheck && result.Changed {
		os.Exit(ExitDataError)
	}
	return nil
}

// normalizeRecords applies the optional field normalizations in place.
func normalizeRecords(records []*bibfile.Record, months, optnotes, accents bool) {
	for _, r := range records {
		if !r.IsEntry() {
			continue
		}
		if months && r.Has(bibfile.FieldMonth) {
			if m, ok := bibfile.NormalizeMonth(r.Get(bibfile.FieldMonth)); ok {
				r.Set(bibfile.FieldMonth, m)
			}
		}
		if optnotes && r.Has(bibfile.FieldOptnote) {
			r.Set(bibfile.FieldOptnote, bibfile.NormalizeOptnote(r.Get(bibfile.FieldOptnote)))
		}
		if accents && r.Has(bibfile.FieldAuthor) {
			r.Set(bibfile.FieldAuthor, textnorm.Canonicalize(r.Get(bibfile.FieldAuthor)))
		}
	}
}
