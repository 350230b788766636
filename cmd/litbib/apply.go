package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/litbib/internal/bibfile"
	"github.com/matsen/litbib/internal/config"
	"github.com/matsen/litbib/internal/doi"
	"github.com/matsen/litbib/internal/exclusion"
	"github.com/matsen/litbib/internal/reconcile"
	"github.com/matsen/litbib/internal/review"
)

var applyDryRun bool

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Show what would be done without writing anything")
}

var applyCmd = &cobra.Command{
	Use:   "apply [queue-file]",
	Short: "Apply the decisions of a review queue",
	Long: `Apply the decisions filled in a review queue.

Without an argument the newest queue in review_dir is used. Each item's
action is one of:
  link      add the paper's id to link_key, or to the best guess
  add       build a new record from doi.org
  exclude   put the paper on the exclusion list (exclude_reason)
  skip      leave the paper alone

Items with no action, or more than one, are reported and kept in the
queue. Applying a queue twice changes nothing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApply,
}

// ApplyResult is the response for the apply command.
type ApplyResult struct {
	Queue      string              `json:"queue"`
	Counts     map[string]int      `json:"counts"`
	Added      []string            `json:"added,omitempty"`
	Updated    []string            `json:"updated,omitempty"`
	Unresolved []UnresolvedItem    `json:"unresolved,omitempty"`
	Failures   []reconcile.Failure `json:"failures,omitempty"`
	Remaining  int                 `json:"remaining"`
	Stale      bool                `json:"stale,omitempty"`
	Digest     string              `json:"digest,omitempty"`
	DryRun     bool                `json:"dry_run,omitempty"`
}

// UnresolvedItem is a queue item that could not be turned into a decision.
type UnresolvedItem struct {
	ExternalID string `json:"external_id"`
	Title      string `json:"title"`
	Action     string `json:"action"`
	Error      string `json:"error"`
}

func runApply(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	cfg := mustLoadConfig(root)
	bibPath := cfg.BibPath(root)

	queuePath := ""
	if len(args) > 0 {
		queuePath = args[0]
	} else {
		var err error
		queuePath, err = review.Latest(cfg.ReviewPath(root))
		if err != nil {
			if errors.Is(err, review.ErrNoQueue) {
				exitWithError(ExitConfigError, "no review queue in %s\n\nRun 'litbib discover' first.", cfg.ReviewPath(root))
			}
			exitWithError(ExitError, "%v", err)
		}
	}
	q, err := review.Read(queuePath)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	digest, err := bibfile.DigestFile(bibPath)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	records := mustReadBib(bibPath)
	exclusions, err := exclusion.Load(cfg.ExclusionPath(root))
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	var list reconcile.ExclusionList = exclusions
	if applyDryRun {
		list = exclusion.NewMemory(exclusions.Entries()...)
	}
	rec := reconcile.New(records, list,
		reconcile.WithResolver(doi.NewClient(doi.WithMailto(config.GetMailto()))),
		reconcile.WithOptnote(cfg.Optnote),
	)

	ctx, cancel := commandContext()
	defer cancel()

	result := ApplyResult{
		Queue:  queuePath,
		Counts: make(map[string]int),
		Stale:  q.Header.BibDigest != "" && q.Header.BibDigest != digest,
		DryRun: applyDryRun,
	}
	if result.Stale {
		outputWarning("%s changed since the queue was written; decisions are re-checked", bibPath)
	}

	var remaining []review.Item
	for _, item := range q.Items {
		dec, err := item.Decision()
		if err != nil {
			result.Unresolved = append(result.Unresolved, UnresolvedItem{
				ExternalID: item.Candidate.ExternalID,
				Title:      item.Candidate.Title,
				Action:     item.Action,
				Error:      err.Error(),
			})
			remaining = append(remaining, item)
			continue
		}
		res, err := rec.Resolve(ctx, item.Candidate, dec)
		if err != nil {
			result.Failures = append(result.Failures, reconcile.Failure{Candidate: item.Candidate, Err: err, Message: err.Error()})
			remaining = append(remaining, item)
			continue
		}
		result.Counts[string(res.Outcome)]++
		switch {
		case res.Outcome == reconcile.OutcomeAppendNew:
			result.Added = append(result.Added, res.TargetKey)
		case res.Outcome == reconcile.OutcomeUpdateExisting:
			result.Updated = append(result.Updated, res.TargetKey)
		case res.Outcome == reconcile.OutcomeNeedsReview && !res.Skipped:
			// e.g. add failed because doi.org had no record
			item.Reason = res.Reason
			item.Action = ""
			remaining = append(remaining, item)
		}
	}
	result.Remaining = len(remaining)

	if !applyDryRun {
		result.Digest = digest
		if len(result.Added) > 0 || len(result.Updated) > 0 {
			result.Digest = mustWriteBib(cfg, bibPath, rec.Records())
		}
		if err := rewriteQueue(queuePath, q.Header, remaining, result.Digest); err != nil {
			exitWithError(ExitError, "%v", err)
		}
	}

	if humanOutput {
		printApplyHuman(result)
	} else {
		outputJSON(result)
	}

	if len(result.Unresolved) > 0 {
		os.Exit(ExitUnresolved)
	}
	return nil
}

// rewriteQueue keeps the items still open, or removes the queue when none
// are left.
func rewriteQueue(path string, header review.Header, items []review.Item, digest string) error {
	if len(items) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing review queue: %w", err)
		}
		return nil
	}
	header.BibDigest = digest
	return review.Write(path, &review.Queue{Header: header, Items: items})
}

func printApplyHuman(result ApplyResult) {
	fmt.Printf("Applied %s\n", result.Queue)
	for _, key := range result.Added {
		outputOK("  added   %s", key)
	}
	for _, key := range result.Updated {
		outputOK("  linked  %s", key)
	}
	for _, u := range result.Unresolved {
		outputWarning("%s %q: %s (action %q)", u.ExternalID, truncateString(u.Title, ReviewTitleMaxLen), u.Error, u.Action)
	}
	for _, f := range result.Failures {
		outputWarning("%s: %s", f.Candidate.Label(), f.Message)
	}
	if result.Remaining > 0 {
		fmt.Printf("\n%d items remain in the queue\n", result.Remaining)
	} else if !result.DryRun {
		fmt.Println("\nQueue complete")
	}
	if result.DryRun {
		fmt.Println("Dry run: nothing written")
	}
}
