package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/litbib/internal/storage"
)

var (
	searchLimit   int
	searchAuthor  string
	searchYear    string
	searchTitle   string
	searchJournal string
	searchOptnote string
	searchDOI     string
)

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	searchCmd.Flags().StringVarP(&searchAuthor, "author", "a", "", "Search by author name (prefix match)")
	searchCmd.Flags().StringVar(&searchYear, "year", "", "Filter by year: exact (2024), range (2020:2024), or open (2020: or :2024)")
	searchCmd.Flags().StringVarP(&searchTitle, "title", "t", "", "Search in title only")
	searchCmd.Flags().StringVar(&searchJournal, "journal", "", "Filter by journal (partial match)")
	searchCmd.Flags().StringVar(&searchOptnote, "optnote", "", "Filter by optnote label (partial match)")
	searchCmd.Flags().StringVar(&searchDOI, "doi", "", "Lookup by exact DOI")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the bib file by keyword, author, or year",
	Long: `Search the indexed bib file with flexible filtering options.

The positional query searches keys, titles, abstracts, authors and
journals. Run 'litbib index' first.

Year syntax:
  --year 2024         - Exact year
  --year 2020:2024    - Range (inclusive)
  --year 2020:        - 2020 and later
  --year :2020        - 2020 and earlier

Examples:
  litbib search "lung nodule"
  litbib search -a "Ginneken" --year 2020:
  litbib search --title "segmentation" --journal "Medical Image Analysis"
  litbib search --doi "10.1016/j.media.2017.07.005"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	cfg := mustLoadConfig(root)
	db := mustOpenIndex(cfg, root)
	defer db.Close()
	mustHaveEntries(db)

	filters := storage.SearchFilters{
		Author:  searchAuthor,
		Title:   searchTitle,
		Journal: searchJournal,
		Optnote: searchOptnote,
		DOI:     searchDOI,
	}
	if len(args) > 0 {
		filters.Keyword = args[0]
	}
	if searchYear != "" {
		from, to, err := parseYearRange(searchYear)
		if err != nil {
			exitWithError(ExitError, "invalid year format: %v", err)
		}
		filters.YearFrom = from
		filters.YearTo = to
	}

	entries, err := db.SearchWithFilters(filters, searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	// Empty result is not an error
	if entries == nil {
		entries = []storage.Entry{}
	}

	if humanOutput {
		if len(entries) == 0 {
			fmt.Println("No entries found")
		} else {
			fmt.Printf("Found %d entries:\n\n", len(entries))
			for i, e := range entries {
				printEntrySummary(i+1, e)
			}
		}
	} else {
		outputJSON(entries)
	}
	return nil
}

// mustHaveEntries exits when the index has not been built.
func mustHaveEntries(db *storage.DB) {
	n, err := db.Count()
	if err != nil {
		exitWithError(ExitError, "reading index: %v", err)
	}
	if n == 0 {
		exitWithError(ExitConfigError, "index is empty\n\nRun 'litbib index' to build it from the bib file.")
	}
}

// parseYearRange parses a year specification into from/to values.
// Supported formats: "2024", "2020:2024", "2020:", ":2024"
func parseYearRange(spec string) (from, to int, err error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, 0, nil
	}

	if strings.Contains(spec, ":") {
		parts := strings.SplitN(spec, ":", 2)

		if parts[0] != "" {
			from, err = strconv.Atoi(parts[0])
			if err != nil {
				return 0, 0, fmt.Errorf("invalid start year %q", parts[0])
			}
		}
		if parts[1] != "" {
			to, err = strconv.Atoi(parts[1])
			if err != nil {
				return 0, 0, fmt.Errorf("invalid end year %q", parts[1])
			}
		}
		if from > 0 && to > 0 && from > to {
			return 0, 0, fmt.Errorf("start year %d after end year %d", from, to)
		}
		return from, to, nil
	}

	year, err := strconv.Atoi(spec)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year %q", spec)
	}
	return year, year, nil
}

func printEntrySummary(num int, e storage.Entry) {
	fmt.Printf("[%d] %s (%s)\n", num, e.Key, e.Type)
	fmt.Printf("    %s\n", truncateString(e.Title, SearchTitleMaxLen))
	if e.Authors != "" {
		fmt.Printf("    %s\n", truncateString(e.Authors, SearchTitleMaxLen))
	}
	if e.Journal != "" {
		fmt.Printf("    %s (%d)\n", e.Journal, e.Year)
	} else if e.Year > 0 {
		fmt.Printf("    (%d)\n", e.Year)
	}
	fmt.Println()
}
