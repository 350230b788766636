package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/litbib/internal/bibfile"
	"github.com/matsen/litbib/internal/config"
	"github.com/matsen/litbib/internal/s2"
)

// A stored count this much larger than the fetched one is reported.
const (
	suspiciousRatio = 1.5
	suspiciousDiff  = 10
)

var (
	citesKeys   []string
	citesDryRun bool
)

func init() {
	rootCmd.AddCommand(citesCmd)

	citesCmd.Flags().StringSliceVar(&citesKeys, "key", nil, "Only update these keys (repeatable)")
	citesCmd.Flags().BoolVar(&citesDryRun, "dry-run", false, "Fetch counts without writing the bib file")
}

var citesCmd = &cobra.Command{
	Use:   "cites",
	Short: "Update citation counts from Semantic Scholar",
	Long: `Update the gscites field of every entry linked to Semantic Scholar.

The count of an entry is the sum over all its Semantic Scholar ids.
gscites is only ever raised. A stored count far above the fetched one is
reported as suspicious, and ids Semantic Scholar no longer knows are
listed.`,
	Args: cobra.NoArgs,
	RunE: runCites,
}

// CitesResult is the response for the cites command.
type CitesResult struct {
	Checked    int            `json:"checked"`
	Updated    []CiteChange   `json:"updated,omitempty"`
	Suspicious []CiteChange   `json:"suspicious,omitempty"`
	NotFound   []CiteNotFound `json:"not_found,omitempty"`
	Errors     []CiteNotFound `json:"errors,omitempty"`
	Digest     string         `json:"digest,omitempty"`
	DryRun     bool           `json:"dry_run,omitempty"`
}

// CiteChange is the stored and fetched count of one entry.
type CiteChange struct {
	Key     string `json:"key"`
	Stored  int    `json:"stored"`
	Fetched int    `json:"fetched"`
}

// CiteNotFound is an id that could not be looked up.
type CiteNotFound struct {
	Key   string `json:"key"`
	ID    string `json:"id"`
	Error string `json:"error,omitempty"`
}

// citationSource returns the citation count of a paper. *s2.Client
// implements it.
type citationSource interface {
	CitationCount(ctx context.Context, id string) (int, error)
}

func runCites(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	cfg := mustLoadConfig(root)
	bibPath := cfg.BibPath(root)
	records := mustReadBib(bibPath)

	ctx, cancel := commandContext()
	defer cancel()

	client := s2.NewClient(s2.WithAPIKey(config.GetS2APIKey()))
	result := updateCitations(ctx, client, records, citesKeys)
	result.DryRun = citesDryRun

	if !citesDryRun && len(result.Updated) > 0 {
		result.Digest = mustWriteBib(cfg, bibPath, records)
	}

	if humanOutput {
		printCitesHuman(result)
	} else {
		outputJSON(result)
	}
	return nil
}

// updateCitations fetches the counts of every linked entry and raises
// gscites where the fetched count is higher. Only keys are visited when
// given.
func updateCitations(ctx context.Context, src citationSource, records []*bibfile.Record, keys []string) CitesResult {
	only := make(map[string]bool, len(keys))
	for _, k := range keys {
		only[k] = true
	}

	var result CitesResult
	for _, r := range records {
		if !r.IsEntry() || (len(only) > 0 && !only[r.Key]) {
			continue
		}
		ids := linkedIDs(r)
		if len(ids) == 0 {
			continue
		}
		result.Checked++
		progress("%s: fetching %d ids", r.Key, len(ids))

		fetched, found := 0, 0
		for _, id := range ids {
			n, err := src.CitationCount(ctx, id)
			if err != nil {
				miss := CiteNotFound{Key: r.Key, ID: id, Error: err.Error()}
				if s2.IsNotFound(err) {
					result.NotFound = append(result.NotFound, miss)
				} else {
					result.Errors = append(result.Errors, miss)
				}
				continue
			}
			fetched += n
			found++
		}
		if found == 0 {
			continue
		}

		stored := storedCites(r)
		change := CiteChange{Key: r.Key, Stored: stored, Fetched: fetched}
		if isSuspicious(stored, fetched) {
			result.Suspicious = append(result.Suspicious, change)
		}
		if fetched > stored {
			r.Set(bibfile.FieldGSCites, bibfile.Braced(strconv.Itoa(fetched)))
			result.Updated = append(result.Updated, change)
		}
	}
	return result
}

// linkedIDs returns ss_id followed by the other ids in all_ss_ids.
func linkedIDs(r *bibfile.Record) []string {
	var ids []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id = strings.TrimSpace(id); id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	add(r.Text(bibfile.FieldExternalID))
	for _, id := range r.ExternalIDs() {
		add(id)
	}
	return ids
}

// storedCites reads gscites. A missing or unreadable value counts as 0.
func storedCites(r *bibfile.Record) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.Text(bibfile.FieldGSCites)))
	if err != nil {
		return 0
	}
	return n
}

func isSuspicious(stored, fetched int) bool {
	return float64(stored) > suspiciousRatio*float64(fetched) && stored-fetched >= suspiciousDiff
}

func printCitesHuman(result CitesResult) {
	fmt.Printf("Checked %d entries, updated %d\n", result.Checked, len(result.Updated))
	for _, c := range result.Updated {
		outputOK("  %-8s %5d -> %d", c.Key, c.Stored, c.Fetched)
	}
	for _, c := range result.Suspicious {
		outputWarning("%s stores %d citations but Semantic Scholar reports %d", c.Key, c.Stored, c.Fetched)
	}
	for _, m := range result.NotFound {
		outputWarning("%s: id %s not found", m.Key, m.ID)
	}
	for _, m := range result.Errors {
		outputWarning("%s: id %s: %s", m.Key, m.ID, m.Error)
	}
	if result.DryRun {
		fmt.Println("Dry run: nothing written")
	}
}
