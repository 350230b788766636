package bibfile

import (
	"strconv"
	"strings"
	"time"
)

// MonthTable maps the month spellings found in the wild to the numeric
// form {N}. It is read-only after construction.
type MonthTable struct {
	forms map[string]string
}

// NewMonthTable builds the table. Each month accepts its number with or
// without a leading zero and its English name in full, in three and in
// four letters, capitalized or lower-case, each with or without braces.
func NewMonthTable() *MonthTable {
	t := &MonthTable{forms: make(map[string]string)}
	for m := time.January; m <= time.December; m++ {
		canonical := "{" + strconv.Itoa(int(m)) + "}"
		name := m.String()
		forms := []string{
			strconv.Itoa(int(m)),
			"0" + strconv.Itoa(int(m)),
			name,
			name[:3],
		}
		if len(name) >= 4 {
			forms = append(forms, name[:4])
		}
		for _, f := range forms {
			for _, v := range []string{f, strings.ToLower(f)} {
				t.forms[v] = canonical
				t.forms["{"+v+"}"] = canonical
			}
		}
	}
	return t
}

// Normalize returns the canonical month for value.
func (t *MonthTable) Normalize(value string) (string, bool) {
	v, ok := t.forms[strings.TrimSpace(value)]
	return v, ok
}

var defaultMonths = NewMonthTable()

// NormalizeMonth maps a month field value to {1} .. {12}.
func NormalizeMonth(value string) (string, bool) {
	return defaultMonths.Normalize(value)
}
