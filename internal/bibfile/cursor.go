package bibfile

import "strings"

// cursor walks a flattened block. All positions are byte offsets into s.
type cursor struct {
	s   string
	pos int
}

func (c *cursor) peek() byte {
	if c.pos >= len(c.s) {
		return 0
	}
	return c.s[c.pos]
}

// find returns the offset of the next b at or after pos, or -1.
func (c *cursor) find(b byte) int {
	if c.pos >= len(c.s) {
		return -1
	}
	i := strings.IndexByte(c.s[c.pos:], b)
	if i < 0 {
		return -1
	}
	return c.pos + i
}

func (c *cursor) skipSpace() {
	for c.pos < len(c.s) {
		switch c.s[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return
		}
	}
}

// group returns the offset just past the brace matching the '{' at open.
func (c *cursor) group(open int) (int, bool) {
	depth := 0
	for i := open; i < len(c.s); i++ {
		switch c.s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}
