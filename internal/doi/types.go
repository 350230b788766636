package doi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Status is the outcome of a metadata lookup.
type Status int

const (
	// StatusFound means a usable item was returned.
	StatusFound Status = iota
	// StatusNotFound means the DOI is not registered.
	StatusNotFound
	// StatusMalformed means the response lacks fields needed to build a
	// record, or could not be decoded.
	StatusMalformed
	// StatusFailed means the lookup could not be completed.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusMalformed:
		return "malformed"
	default:
		return "failed"
	}
}

// Result is the outcome of Resolve. Item is set only for StatusFound.
type Result struct {
	Status Status
	Item   *Item
	Err    error
}

// Item is the subset of a CSL-JSON record used to build a bibliography
// entry.
type Item struct {
	Type           string     `json:"type"`
	Title          Text       `json:"title"`
	Author         []Name     `json:"author"`
	ContainerTitle Text       `json:"container-title"`
	Publisher      string     `json:"publisher"`
	Published      *DateParts `json:"published"`
	Issued         *DateParts `json:"issued"`
	Page           Text       `json:"page"`
	Volume         Text       `json:"volume"`
	Abstract       string     `json:"abstract"`
	URL            string     `json:"URL"`
	DOI            string     `json:"DOI"`
	Number         Text       `json:"number"`
	// ReferencedBy is the registrar's citation count, when reported.
	ReferencedBy *int `json:"is-referenced-by-count"`
}

// Name is a CSL name. Literal holds names given as a single string.
type Name struct {
	Family  string `json:"family"`
	Given   string `json:"given"`
	Literal string `json:"literal"`
}

// DateParts is a CSL date; only the first part is used.
type DateParts struct {
	Parts [][]Text `json:"date-parts"`
}

// Year returns the year of the date, or 0.
func (d *DateParts) Year() int {
	if d == nil || len(d.Parts) == 0 || len(d.Parts[0]) == 0 {
		return 0
	}
	y, err := strconv.Atoi(string(d.Parts[0][0]))
	if err != nil {
		return 0
	}
	return y
}

// Text decodes a CSL value that services send as a string, a number or a
// list of strings. Lists keep their first element.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case len(data) > 0 && data[0] == '[':
		var list []Text
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		if len(list) > 0 {
			*t = list[0]
		} else {
			*t = ""
		}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unsupported CSL value %s", data)
	}
	*t = Text(n.String())
	return nil
}

// Year returns the publication year, preferring "published" over "issued".
func (it *Item) Year() int {
	if y := it.Published.Year(); y > 0 {
		return y
	}
	return it.Issued.Year()
}

// ErrMalformed marks an item that cannot be turned into a record.
var ErrMalformed = errors.New("malformed metadata")

// Validate checks the fields every synthesized record needs.
func (it *Item) Validate() error {
	var missing []string
	if it.Type == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(string(it.Title)) == "" {
		missing = append(missing, "title")
	}
	if len(it.Author) == 0 || it.Author[0].Family == "" && it.Author[0].Literal == "" {
		missing = append(missing, "author")
	}
	if it.Year() == 0 {
		missing = append(missing, "year")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrMalformed, strings.Join(missing, ", "))
	}
	return nil
}
