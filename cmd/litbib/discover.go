package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matsen/litbib/internal/bibfile"
	"github.com/matsen/litbib/internal/config"
	"github.com/matsen/litbib/internal/doi"
	"github.com/matsen/litbib/internal/exclusion"
	"github.com/matsen/litbib/internal/reconcile"
	"github.com/matsen/litbib/internal/reference"
	"github.com/matsen/litbib/internal/review"
	"github.com/matsen/litbib/internal/s2"
)

var (
	discoverStaff       string
	discoverDryRun      bool
	discoverForce       bool
	discoverInteractive bool
)

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().StringVar(&discoverStaff, "staff", "", "Only look up the staff member with this name")
	discoverCmd.Flags().BoolVar(&discoverDryRun, "dry-run", false, "Classify candidates without writing anything")
	discoverCmd.Flags().BoolVar(&discoverForce, "force", false, "Overwrite today's review queue if it exists")
	discoverCmd.Flags().BoolVarP(&discoverInteractive, "interactive", "i", false, "Ask at the terminal about candidates that need review")
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find new staff publications and reconcile them",
	Long: `Find the publications of every staff member on Semantic Scholar and
reconcile them against the bib file.

Papers outside a member's years in the group, or older than min_year, are
ignored. Each remaining paper is classified:
  duplicate         already referenced by its Semantic Scholar id
  blacklisted       on the exclusion list
  update_existing   a record has the same DOI; the id is added to it
  append_new        no similar record; a new record is built from doi.org
  needs_review      similar titles, or no DOI; left for a person

Papers that need review are written to review/manual_check_YYYYMMDD.jsonl.
Fill in each item's action and run 'litbib apply'.

Set S2_API_KEY (environment or .env) for higher rate limits.`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

// DiscoverResult is the response for the discover command.
type DiscoverResult struct {
	RunID       string                    `json:"run_id"`
	Candidates  int                       `json:"candidates"`
	Counts      map[reconcile.Outcome]int `json:"counts"`
	Added       []string                  `json:"added,omitempty"`
	Updated     []string                  `json:"updated,omitempty"`
	Review      int                       `json:"review"`
	ReviewPath  string                    `json:"review_path,omitempty"`
	Failures    []reconcile.Failure       `json:"failures,omitempty"`
	LookupFails []LookupFailure           `json:"lookup_failures,omitempty"`
	Digest      string                    `json:"digest,omitempty"`
	DryRun      bool                      `json:"dry_run,omitempty"`
}

// LookupFailure is an author whose papers could not be fetched.
type LookupFailure struct {
	Staff    string `json:"staff"`
	AuthorID string `json:"author_id"`
	Error    string `json:"error"`
}

// authorPaperSource lists the papers of an author. *s2.Client implements it.
type authorPaperSource interface {
	AuthorPapers(ctx context.Context, authorID string) ([]s2.Paper, error)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	cfg := mustLoadConfig(root)
	bibPath := cfg.BibPath(root)

	staff := cfg.Staff
	if discoverStaff != "" {
		staff = nil
		for _, s := range cfg.Staff {
			if s.Name == discoverStaff {
				staff = append(staff, s)
			}
		}
		if len(staff) == 0 {
			exitWithError(ExitConfigError, "no staff member named %q in %s", discoverStaff, config.ProjectFile)
		}
	}
	if len(staff) == 0 {
		exitWithError(ExitConfigError, "no staff configured in %s", config.ProjectFile)
	}

	now := time.Now()
	reviewPath := filepath.Join(cfg.ReviewPath(root), review.FileName(now))
	if !discoverDryRun && !discoverForce {
		if _, err := os.Stat(reviewPath); err == nil {
			exitWithError(ExitError, "review queue %s already exists\n\nApply it with 'litbib apply' or rerun with --force.", reviewPath)
		}
	}

	records := mustReadBib(bibPath)
	exclusions, err := exclusion.Load(cfg.ExclusionPath(root))
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	client := s2.NewClient(s2.WithAPIKey(config.GetS2APIKey()))
	candidates, lookupFails := collectCandidates(ctx, client, staff, cfg.MinYear)
	progress("Found %d candidate papers", len(candidates))

	var list reconcile.ExclusionList = exclusions
	if discoverDryRun {
		list = exclusion.NewMemory(exclusions.Entries()...)
	}
	rec := reconcile.New(records, list,
		reconcile.WithResolver(doi.NewClient(doi.WithMailto(config.GetMailto()))),
		reconcile.WithOptnote(cfg.Optnote),
	)

	var decider reconcile.Decider = reconcile.DeferAll
	if discoverInteractive {
		decider = newPromptDecider(os.Stdin, os.Stderr)
	}
	sum := rec.Run(ctx, candidates, decider)

	header := review.NewHeader("", now)
	result := DiscoverResult{
		RunID:       header.RunID,
		Candidates:  len(candidates),
		Counts:      sum.Counts,
		Added:       sum.Added,
		Updated:     sum.Updated,
		Review:      len(sum.Review),
		Failures:    sum.Failures,
		LookupFails: lookupFails,
		DryRun:      discoverDryRun,
	}

	if !discoverDryRun {
		if sum.Changed() {
			result.Digest = mustWriteBib(cfg, bibPath, rec.Records())
		} else if result.Digest, err = bibfile.DigestFile(bibPath); err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if len(sum.Review) > 0 {
			header.BibDigest = result.Digest
			q := &review.Queue{Header: header}
			for _, res := range sum.Review {
				q.Items = append(q.Items, review.FromResult(res))
			}
			if err := os.MkdirAll(filepath.Dir(reviewPath), 0755); err != nil {
				exitWithError(ExitError, "creating review directory: %v", err)
			}
			if err := review.Write(reviewPath, q); err != nil {
				exitWithError(ExitError, "%v", err)
			}
			result.ReviewPath = reviewPath
		}
	}

	if humanOutput {
		printDiscoverHuman(result, sum)
	} else {
		outputJSON(result)
	}
	return nil
}

// collectCandidates fetches the papers of every staff author id, keeping
// those from years the member was in the group and not before minYear.
// A paper found for several members is kept once, for the first.
func collectCandidates(ctx context.Context, src authorPaperSource, staff []config.StaffMember, minYear int) ([]reference.Candidate, []LookupFailure) {
	var out []reference.Candidate
	var fails []LookupFailure
	seen := make(map[string]bool)
	for _, member := range staff {
		for _, id := range member.AuthorIDs {
			if ctx.Err() != nil {
				fails = append(fails, LookupFailure{Staff: member.Name, AuthorID: id, Error: ctx.Err().Error()})
				continue
			}
			progress("Fetching papers of %s (%s)", member.Name, id)
			papers, err := src.AuthorPapers(ctx, id)
			if err != nil {
				fails = append(fails, LookupFailure{Staff: member.Name, AuthorID: id, Error: err.Error()})
				continue
			}
			for _, c := range s2.Candidates(papers, member.Name) {
				if c.Year == 0 || c.Year < minYear || !member.Active(c.Year) {
					continue
				}
				if seen[c.ExternalID] {
					continue
				}
				seen[c.ExternalID] = true
				out = append(out, c)
			}
		}
	}
	return out, fails
}

func printDiscoverHuman(result DiscoverResult, sum *reconcile.Summary) {
	fmt.Printf("Run %s: %d candidates\n", result.RunID, result.Candidates)
	for _, o := range reconcile.Outcomes {
		if n := result.Counts[o]; n > 0 {
			fmt.Printf("  %-16s %4d\n", o, n)
		}
	}
	for _, res := range sum.Results {
		switch res.Outcome {
		case reconcile.OutcomeAppendNew:
			outputOK("  added   %s  %s", res.TargetKey, truncateString(res.Candidate.Title, ReviewTitleMaxLen))
		case reconcile.OutcomeUpdateExisting:
			outputOK("  linked  %s  %s", res.TargetKey, truncateString(res.Candidate.Title, ReviewTitleMaxLen))
		}
	}
	for _, f := range result.LookupFails {
		outputWarning("fetching %s (%s): %s", f.Staff, f.AuthorID, f.Error)
	}
	for _, f := range result.Failures {
		outputWarning("%s: %s", f.Candidate.Label(), f.Message)
	}
	if result.ReviewPath != "" {
		fmt.Printf("\n%d candidates need review: %s\n", result.Review, result.ReviewPath)
	}
	if result.DryRun {
		fmt.Println("\nDry run: nothing written")
	}
}
