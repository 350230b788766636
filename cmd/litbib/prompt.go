package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matsen/litbib/internal/reconcile"
	"github.com/matsen/litbib/internal/reference"
	"github.com/matsen/litbib/internal/review"
)

// promptDecider asks a person at the terminal what to do with each
// candidate that needs review. An empty answer or end of input defers the
// candidate to the review queue.
type promptDecider struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptDecider(in io.Reader, out io.Writer) *promptDecider {
	return &promptDecider{in: bufio.NewReader(in), out: out}
}

func (p *promptDecider) Decide(c reference.Candidate, matches []reconcile.Match) reconcile.Decision {
	fmt.Fprintf(p.out, "\n%s\n", c.Label())
	fmt.Fprintf(p.out, "  %s\n", truncateString(c.Title, ReviewTitleMaxLen))
	if c.DOI != "" {
		fmt.Fprintf(p.out, "  doi: %s\n", c.DOI)
	}
	if u := c.URL(); u != "" {
		fmt.Fprintf(p.out, "  %s\n", u)
	}
	for i, m := range matches {
		fmt.Fprintf(p.out, "  [%d] %-8s %.2f %s\n", i+1, m.Key, m.Score, truncateString(m.Title, ReviewTitleMaxLen))
	}

	for {
		fmt.Fprint(p.out, "Action [link N|add|exclude|skip], empty to defer: ")
		line, err := p.in.ReadString('\n')
		answer := strings.TrimSpace(line)
		if answer == "" {
			return reconcile.Decision{Action: reconcile.ActionDefer}
		}
		dec, perr := parseAnswer(answer, matches)
		if perr == nil {
			return dec
		}
		fmt.Fprintf(p.out, "%v\n", perr)
		if err != nil {
			// Input ended on an unusable answer.
			return reconcile.Decision{Action: reconcile.ActionDefer}
		}
	}
}

// parseAnswer reads "link 2", "link Smit23", "add", "exclude <reason>" or
// "skip". A link without an argument goes to the first match.
func parseAnswer(answer string, matches []reconcile.Match) (reconcile.Decision, error) {
	word, arg, _ := strings.Cut(answer, " ")
	arg = strings.TrimSpace(arg)
	action, err := review.ParseAction(word)
	if err != nil {
		return reconcile.Decision{}, err
	}
	switch action {
	case review.ActionLink:
		if arg == "" {
			if len(matches) == 0 {
				return reconcile.Decision{}, review.ErrNoLinkKey
			}
			return reconcile.Link(matches[0].Key), nil
		}
		if n, err := strconv.Atoi(arg); err == nil {
			if n < 1 || n > len(matches) {
				return reconcile.Decision{}, fmt.Errorf("no match numbered %d", n)
			}
			return reconcile.Link(matches[n-1].Key), nil
		}
		return reconcile.Link(arg), nil
	case review.ActionAdd:
		return reconcile.AddNew(), nil
	case review.ActionExclude:
		return reconcile.Exclude(arg), nil
	case review.ActionSkip:
		return reconcile.Skip(), nil
	}
	return reconcile.Decision{}, errors.New("unhandled action")
}
