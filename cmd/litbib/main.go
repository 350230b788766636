// Package main provides the litbib CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/litbib/internal/bibfile"
	"github.com/matsen/litbib/internal/config"
	"github.com/matsen/litbib/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors is set, so cobra errors are printed here
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "litbib",
	Short: "Maintain a research group's bibliography",
	Long: `litbib maintains the bibliography of a research group.

Core features:
  - Deterministic formatting of the bib file (allow-listed fields, sorted keys)
  - Lint checks for keys, years, months, accents, PDFs and encoding
  - Discovery of new staff publications via Semantic Scholar and doi.org
  - A manual review queue for ambiguous matches
  - Citation count updates

The bib file is the source of truth; the SQLite index is rebuilt from it.
All commands output JSON by default. Use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for S2_API_KEY)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVar(&color.NoColor, "no-color", color.NoColor, "Disable coloured output (also set by NO_COLOR)")
	rootCmd.Version = Version
}

// commandContext returns a context cancelled on SIGINT or SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// mustFindProject finds the project root, exits on error.
func mustFindProject() string {
	cwd, err := os.Getwd()
	if err != nil {
		os.Exit(outputError(ExitError, "getting current directory: %v", err))
	}

	root, err := config.FindProject(cwd)
	if err != nil {
		if errors.Is(err, config.ErrNotProject) {
			exitWithError(ExitConfigError, "%v\n\nCreate a %s file in the project root or set %s.", err, config.ProjectFile, config.EnvRoot)
		}
		exitWithError(ExitConfigError, "finding project: %v", err)
	}
	return root
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(root string) *config.Config {
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustReadBib reads and parses the bib file, exits on error.
func mustReadBib(path string) []*bibfile.Record {
	records, err := bibfile.ReadFile(path)
	if err != nil {
		var perr *bibfile.ParseError
		if errors.As(err, &perr) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}
	return records
}

// mustWriteBib writes the bib file with the project's line ending, exits
// on error. Optnote labels are sorted on every write. It returns the
// digest of the written file.
func mustWriteBib(cfg *config.Config, path string, records []*bibfile.Record) string {
	normalizeRecords(records, false, true, false)
	if err := bibfile.WriteFile(path, records, cfg.Ending()); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	digest, err := bibfile.DigestFile(path)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return digest
}

// mustOpenIndex opens the SQLite index, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenIndex(cfg *config.Config, root string) *storage.DB {
	path := cfg.IndexPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		exitWithError(ExitError, "creating index directory: %v", err)
	}
	db, err := storage.OpenDB(path)
	if err != nil {
		exitWithError(ExitError, "opening index: %v", err)
	}
	return db
}
