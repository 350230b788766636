package review

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matsen/litbib/internal/reconcile"
)

// Action is a reviewer's choice for an item.
type Action string

const (
	// ActionLink adds the candidate's id to an existing record.
	ActionLink Action = "link"
	// ActionAdd creates a new record from the candidate's DOI.
	ActionAdd Action = "add"
	// ActionExclude puts the candidate on the exclusion list.
	ActionExclude Action = "exclude"
	// ActionSkip leaves the candidate alone.
	ActionSkip Action = "skip"
)

// Actions lists the accepted actions, as written in the queue header.
var Actions = []Action{ActionLink, ActionAdd, ActionExclude, ActionSkip}

// legacyActions maps the spellings of the spreadsheet workflow.
var legacyActions = map[string]Action{
	"add ss_id":       ActionLink,
	"add new item":    ActionAdd,
	"blacklist ss_id": ActionExclude,
	"blacklist":       ActionExclude,
	"none":            ActionSkip,
}

var (
	// ErrNoAction marks an item the reviewer has not filled in.
	ErrNoAction = errors.New("no action given")
	// ErrMultipleActions marks an item listing more than one action.
	ErrMultipleActions = errors.New("more than one action given")
	// ErrUnknownAction marks an action that is not recognized.
	ErrUnknownAction = errors.New("unknown action")
	// ErrNoLinkKey marks a link action with no key to link to.
	ErrNoLinkKey = errors.New("link action without a key")
)

// ParseAction reads an action as typed by a reviewer.
func ParseAction(s string) (Action, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrNoAction
	}
	if strings.ContainsAny(s, ",;|") {
		return "", fmt.Errorf("%w: %q", ErrMultipleActions, s)
	}
	word := strings.ToLower(strings.TrimSpace(strings.Trim(s, "[]")))
	for _, a := range Actions {
		if word == string(a) {
			return a, nil
		}
	}
	if a, ok := legacyActions[word]; ok {
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Decision converts the reviewer's answer into a reconciler decision. A
// link goes to LinkKey, or to the best guess when LinkKey is empty.
func (it Item) Decision() (reconcile.Decision, error) {
	action, err := ParseAction(it.Action)
	if err != nil {
		return reconcile.Decision{}, err
	}
	switch action {
	case ActionLink:
		key := strings.TrimSpace(it.LinkKey)
		if key == "" && it.BestGuess != nil {
			key = it.BestGuess.Key
		}
		if key == "" {
			return reconcile.Decision{}, ErrNoLinkKey
		}
		return reconcile.Link(key), nil
	case ActionAdd:
		return reconcile.AddNew(), nil
	case ActionExclude:
		return reconcile.Exclude(strings.TrimSpace(it.ExcludeReason)), nil
	default:
		return reconcile.Skip(), nil
	}
}
