package bibfile

import (
	"strings"
)

// Parse splits text into blocks at every line starting with '@' and
// parses each block into a Record. Text before the first block is
// ignored, as are lines inside a block whose first non-blank character
// is '%'. Blocks with an empty key are dropped, which discards comments.
//
// The first malformed block aborts the parse with a *ParseError.
func Parse(text string) ([]*Record, error) {
	text = NormalizeNewlines(text)

	var records []*Record
	var block []string
	start := 0

	flush := func() error {
		if block == nil {
			return nil
		}
		rec, err := parseBlock(block, start)
		if err != nil {
			return err
		}
		if rec != nil {
			records = append(records, rec)
		}
		return nil
	}

	for i, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "@") {
			if err := flush(); err != nil {
				return nil, err
			}
			block = []string{line}
			start = i + 1
			continue
		}
		if block == nil || strings.HasPrefix(strings.TrimSpace(line), "%") {
			continue
		}
		block = append(block, line)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return records, nil
}

// NormalizeNewlines converts CRLF and lone CR line endings to LF.
func NormalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func parseBlock(lines []string, line int) (*Record, error) {
	fail := func(msg string) error {
		return &ParseError{Line: line, FirstLine: strings.TrimRight(lines[0], " \t"), Message: msg}
	}

	flat := strings.TrimSpace(strings.Join(lines, " "))
	c := &cursor{s: flat, pos: 1}
	open := c.find('{')
	if open < 0 {
		return nil, fail("missing '{' after entry type")
	}
	typ := strings.ToLower(strings.TrimSpace(flat[1:open]))
	c.pos = open + 1

	var rec *Record
	var err error
	switch typ {
	case "string":
		rec, err = parseString(c)
	case "comment":
		rec, err = parseComment(c, open)
	default:
		rec, err = parseEntry(c, typ)
	}
	if err != nil {
		return nil, fail(err.Error())
	}
	if rec.Key == "" {
		return nil, nil
	}
	rec.Line = line
	return rec, nil
}

type blockError string

func (e blockError) Error() string { return string(e) }

func parseString(c *cursor) (*Record, error) {
	eq := c.find('=')
	if eq < 0 {
		return nil, blockError("string macro without '='")
	}
	key := strings.TrimSpace(c.s[c.pos:eq])
	c.pos = eq + 1
	c.skipSpace()

	var value string
	if c.peek() == '{' {
		end, ok := c.group(c.pos)
		if !ok {
			return nil, blockError("unbalanced braces in string macro")
		}
		value = c.s[c.pos:end]
	} else {
		closing := strings.LastIndexByte(c.s, '}')
		if closing < c.pos {
			return nil, blockError("string macro without closing '}'")
		}
		value = strings.TrimSpace(c.s[c.pos:closing])
	}
	return NewString(key, value), nil
}

func parseComment(c *cursor, open int) (*Record, error) {
	end, ok := c.group(open)
	if !ok {
		return nil, blockError("unbalanced braces in comment")
	}
	return &Record{
		Type:  "comment",
		Kind:  KindComment,
		Value: strings.TrimSpace(c.s[open+1 : end-1]),
	}, nil
}

func parseEntry(c *cursor, typ string) (*Record, error) {
	comma := c.find(',')
	if comma < 0 {
		return nil, blockError("missing ',' after key")
	}
	rec := NewEntry(typ, strings.TrimSpace(c.s[c.pos:comma]))
	if typ == "" {
		rec.Kind = KindUnknown
	}

	body := strings.TrimSpace(c.s[comma+1:])
	if !strings.HasSuffix(body, "}") {
		return nil, blockError("missing closing '}'")
	}
	// A trailing comma guarantees every value ends at a delimiter.
	body = body[:len(body)-1] + ",}"

	fc := &cursor{s: body}
	for {
		eq := fc.find('=')
		if eq < 0 {
			break
		}
		name := strings.TrimSpace(body[fc.pos:eq])
		fc.pos = eq + 1

		brace, delim := fc.find('{'), fc.find(',')
		var value string
		switch {
		case brace >= 0 && (delim < 0 || brace < delim):
			end, ok := fc.group(brace)
			if !ok {
				return nil, blockError("unbalanced braces in field " + name)
			}
			value = body[brace:end]
			fc.pos = end
		case delim >= 0:
			value = strings.TrimSpace(body[fc.pos:delim])
			fc.pos = delim
		default:
			return nil, blockError("field " + name + " has no terminating ','")
		}

		fc.skipSpace()
		if fc.peek() == ',' {
			fc.pos++
		}
		rec.Fields.Set(name, value)
	}
	return rec, nil
}
