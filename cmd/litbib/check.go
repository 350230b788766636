package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/litbib/internal/bibfile"
	"github.com/matsen/litbib/internal/check"
	"github.com/matsen/litbib/internal/config"
	"github.com/matsen/litbib/internal/pdf"
)

var (
	checkPDFs   bool
	checkOthers bool
)

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkPDFs, "pdfs", false, "Check that papers have a PDF whose DOI matches")
	checkCmd.Flags().BoolVar(&checkOthers, "others", true, "Check for keys shared with the other_bibs files")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Lint the bib file",
	Long: `Lint the bib file.

Checks key format and length, key/year agreement, duplicate keys, titles,
missing DOIs, months, fields outside the allow-list, accent spellings of
configured names, doubly encoded characters and trailing whitespace.
With --pdfs, journal and conference papers must have <pdf_root>/<key>.pdf
and the DOI printed in it must match the entry.

Exits with code 3 when anything is found.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status   string          `json:"status"`
	Path     string          `json:"path"`
	Entries  int             `json:"entries"`
	Findings []check.Finding `json:"findings"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	cfg := mustLoadConfig(root)
	path := cfg.BibPath(root)

	content, err := os.ReadFile(path)
	if err != nil {
		exitWithError(ExitError, "reading bibliography: %v", err)
	}
	records, err := bibfile.Parse(string(content))
	if err != nil {
		exitWithError(ExitDataError, "parsing %s: %v", path, err)
	}

	opts := check.Options{AccentedNames: cfg.AccentedNames}
	if checkPDFs {
		pdfRoot := cfg.PDFPath(root)
		if pdfRoot == "" {
			exitWithError(ExitConfigError, "pdf_root not configured in %s", config.ProjectFile)
		}
		if err := config.ValidatePDFRoot(pdfRoot); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		opts.PDFs = pdf.NewStore(pdfRoot)
	}
	if checkOthers && len(cfg.OtherBibs) > 0 {
		others, err := check.LoadOthers(root, cfg.OtherBibs, path)
		if err != nil {
			exitWithError(ExitConfigError, "loading other bib files: %v", err)
		}
		opts.Others = others
	}

	findings := check.Run(records, opts)
	findings = append(findings, check.Text(string(content))...)
	if findings == nil {
		findings = []check.Finding{}
	}

	result := CheckResult{
		Status:   "ok",
		Path:     path,
		Findings: findings,
	}
	for _, r := range records {
		if r.IsEntry() {
			result.Entries++
		}
	}
	if len(findings) > 0 {
		result.Status = "issues_found"
	}

	if humanOutput {
		if len(findings) == 0 {
			outputOK("%s: %d entries, no issues", path, result.Entries)
		} else {
			fmt.Printf("%s: %d entries, %d issues\n\n", path, result.Entries, len(findings))
			for _, f := range findings {
				fmt.Printf("  %s\n", f)
			}
		}
	} else {
		outputJSON(result)
	}

	if len(findings) > 0 {
		os.Exit(ExitDataError)
	}
	return nil
}
