package bibfile

import "strings"

// latexEscaper escapes characters that are special in LaTeX text but
// leaves braces alone, since values are already brace-delimited.
var latexEscaper = strings.NewReplacer(
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
)

// EscapeLatex escapes LaTeX special characters in plain text taken from
// an external service.
func EscapeLatex(s string) string {
	return latexEscaper.Replace(s)
}

// Braced wraps a plain value in braces. Empty values stay empty.
func Braced(s string) string {
	if s == "" {
		return ""
	}
	return "{" + s + "}"
}
