package bibfile

import "fmt"

// ParseError reports a malformed block. Parsing stops at the first one.
type ParseError struct {
	// Line is the 1-based line where the block starts.
	Line int
	// FirstLine is the text of that line.
	FirstLine string
	Message   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Message, e.FirstLine)
}
