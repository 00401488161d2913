package mimeparse

import (
	"regexp"

	"github.com/pkg/errors"
)

var (
	// A field line: name, colon, optional whitespace-led value, up to the line
	// break or the end of the text.
	fieldLineRegex = regexp.MustCompile("^([A-Za-z0-9_][A-Za-z0-9_!#$%&'*+.^`|~-]*:(?:[ \\t][^\\r\\n]*)?)(?:\\r?\\n|$)")
	// A continuation line of a folded field.
	foldLineRegex  = regexp.MustCompile(`^([ \t][^\r\n]*)(?:\r?\n|$)`)
	blankLineRegex = regexp.MustCompile(`(?m)^\r?\n`)
)

// ReadHeaderField reads one logical header field at the cursor, joining any
// folded continuation lines to it. Continuation lines are appended with their
// leading whitespace and no separator.
//
// The bool is false if no field starts at the cursor, including at the end of
// the text. The cursor is left on the first line that is not part of the field.
func ReadHeaderField(c *Cursor) (string, bool) {
	m, err := c.MatchPrefix(fieldLineRegex)
	if err != nil {
		return "", false
	}
	field, _ := m.Group(1)
	for {
		m, err := c.MatchPrefix(foldLineRegex)
		if err != nil {
			break
		}
		fold, _ := m.Group(1)
		field += fold
	}
	return field, true
}

// ReadHeader reads header fields until a line that is not a field, usually the
// blank line before the body, or the end of the text. That line is not
// consumed. Field order is kept and duplicates are returned as is.
func ReadHeader(c *Cursor) ([]string, error) {
	var fields []string
	for {
		field, ok := ReadHeaderField(c)
		if !ok || field == "" {
			break
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return nil, errors.Wrapf(ErrHeaderNotFound, "at offset %d", c.Offset())
	}
	return fields, nil
}

// ReadBody skips to the first blank line and returns the text after it, the
// body of a document that is not multipart. Without a blank line the body is
// empty and the error is io.EOF at the end of the text, ErrNoMatchFound
// otherwise.
func ReadBody(c *Cursor) (string, error) {
	if _, err := c.MatchFirst(blankLineRegex); err != nil {
		return "", err
	}
	return c.Remainder(), nil
}
