package check

import (
	"strings"

	"github.com/matsen/litbib/internal/textnorm"
)

// Text checks the raw file content line by line for doubly encoded
// characters and trailing whitespace.
func Text(content string) []Finding {
	var out []Finding
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		n := i + 1
		for _, m := range textnorm.FindMojibake(line) {
			out = append(out, Finding{Type: TypeEncoding, Line: n, Found: m.Text, Expected: m.Fixed})
		}
		if trimmed := strings.TrimRight(line, " \t"); len(trimmed) != len(line) {
			out = append(out, Finding{Type: TypeTrailingWhitespace, Line: n})
		}
	}
	return out
}
