package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/matsen/litbib/internal/bibfile"
	"github.com/matsen/litbib/internal/doi"
	"github.com/matsen/litbib/internal/reference"
	"github.com/matsen/litbib/internal/textnorm"
)

// errCannotSynthesize marks a candidate whose record could not be built
// from resolved metadata. Such candidates go to manual review.
var errCannotSynthesize = errors.New("cannot synthesize record")

var dashReplacer = strings.NewReplacer("\u2013", "-")

// entryKind maps a CSL item type to an entry type and journal value.
func entryKind(item *doi.Item, id string) (typ, journal string, ok bool) {
	container := strings.TrimSpace(string(item.ContainerTitle))
	switch t := strings.ToLower(item.Type); {
	case strings.Contains(t, "proceedings-article"):
		return "inproceedings", container, true
	case strings.Contains(t, "journal-article"):
		return "article", container, true
	case strings.Contains(t, "article"):
		return "article", arxivJournal(id), true
	case strings.Contains(t, "book-chapter"):
		return "book", container, true
	case strings.Contains(t, "posted-content"):
		return "article", "Preprint", true
	}
	return "", "", false
}

// arxivJournal turns "10.48550/arXiv.2301.12345" into "arXiv:2301.12345".
func arxivJournal(id string) string {
	i := strings.Index(strings.ToLower(id), "arxiv")
	if i < 0 {
		return ""
	}
	return strings.Replace("arXiv"+id[i+len("arxiv"):], ".", ":", 1)
}

// firstFamily returns the family name used for the key.
func firstFamily(item *doi.Item) string {
	if len(item.Author) == 0 {
		return ""
	}
	if a := item.Author[0]; a.Family != "" {
		return a.Family
	}
	return item.Author[0].Literal
}

// authorList formats names as "Family, Given and Family and Literal".
func authorList(names []doi.Name) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		switch {
		case n.Literal != "":
			parts = append(parts, n.Literal)
		case n.Given != "":
			parts = append(parts, n.Family+", "+n.Given)
		default:
			parts = append(parts, n.Family)
		}
	}
	return strings.Join(parts, " and ")
}

// fileField links the entry to its PDF in the group's document store.
func fileField(key string) string {
	return "{" + key + `.pdf:pdf\\` + key + ".pdf:PDF}"
}

// newRecord builds the entry for a resolved candidate. Fields are written
// in a fixed order so new entries look alike in the file.
func newRecord(key, typ, journal string, item *doi.Item, c reference.Candidate, optnote string, accents *textnorm.AccentTable) *bibfile.Record {
	rec := bibfile.NewEntry(typ, key)
	set := func(name, plain string) {
		if plain = strings.TrimSpace(textnorm.BalanceBraces(plain)); plain != "" {
			rec.Set(name, "{"+dashReplacer.Replace(plain)+"}")
		}
	}
	latex := func(s string) string {
		return accents.ToLatex(bibfile.EscapeLatex(s))
	}

	id := item.DOI
	if id == "" {
		id = c.DOI
	}
	abstract := item.Abstract
	if abstract == "" {
		abstract = doi.DefaultAbstract
	}

	set(bibfile.FieldAuthor, accents.ToLatex(authorList(item.Author)))
	set(bibfile.FieldTitle, latex(string(item.Title)))
	set(bibfile.FieldDOI, id)
	set(bibfile.FieldYear, strconv.Itoa(item.Year()))
	set(bibfile.FieldAbstract, latex(abstract))
	set(bibfile.FieldURL, item.URL)
	rec.Set(bibfile.FieldFile, fileField(key))
	if optnote != "" {
		rec.Set(bibfile.FieldOptnote, bibfile.NormalizeOptnote("{"+optnote+"}"))
	}
	set(bibfile.FieldJournal, latex(journal))
	rec.Set(bibfile.FieldAutomatic, "{yes}")
	if item.ReferencedBy != nil {
		set(bibfile.FieldCitationCount, strconv.Itoa(*item.ReferencedBy))
	}
	set(bibfile.FieldPages, string(item.Page))
	set(bibfile.FieldVolume, string(item.Volume))
	set(bibfile.FieldPMID, c.PMID)
	if c.ExternalID != "" {
		set(bibfile.FieldExternalID, c.ExternalID)
		rec.AddExternalID(c.ExternalID)
	}
	return rec
}

// synthesize resolves the candidate's DOI and builds a new record with a
// free key. The record is not yet added to the bibliography.
func (r *Reconciler) synthesize(ctx context.Context, c reference.Candidate) (*bibfile.Record, error) {
	if r.resolver == nil {
		return nil, fmt.Errorf("%w: no metadata resolver", errCannotSynthesize)
	}
	if c.DOI == "" {
		return nil, fmt.Errorf("%w: no DOI", errCannotSynthesize)
	}
	res := r.resolver.Resolve(ctx, c.DOI)
	if res.Status != doi.StatusFound || res.Item == nil {
		if res.Err != nil {
			return nil, fmt.Errorf("%w: %s: %v", errCannotSynthesize, res.Status, res.Err)
		}
		return nil, fmt.Errorf("%w: %s", errCannotSynthesize, res.Status)
	}
	item := res.Item
	typ, journal, ok := entryKind(item, c.DOI)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported type %q", errCannotSynthesize, item.Type)
	}
	key, err := NextKey(KeyBase(firstFamily(item), item.Year()), r.index.Keys())
	if err != nil {
		return nil, err
	}
	return newRecord(key, typ, journal, item, c, r.optnote, r.accents), nil
}
