package bibfile

import (
	"sort"
	"strings"

	"github.com/matsen/litbib/internal/textnorm"
)

// NormalizeOptnote sorts the comma-separated labels of an optnote value,
// so "{RADIOLOGY, DIAG}" becomes "{DIAG, RADIOLOGY}". Values without any
// label are returned unchanged.
func NormalizeOptnote(value string) string {
	var labels []string
	for _, l := range strings.Split(textnorm.StripOuterBraces(value), ",") {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}
	if len(labels) == 0 {
		return value
	}
	sort.Strings(labels)
	return "{" + strings.Join(labels, ", ") + "}"
}
