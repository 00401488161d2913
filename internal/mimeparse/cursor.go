package mimeparse

import (
	"io"
	"regexp"
)

// Cursor is a read position over an immutable text. The text is never
// modified, and the position only moves forward.
//
// A Cursor belongs to a single parse and must not be shared between goroutines.
type Cursor struct {
	text string
	pos  int
}

// NewCursor returns a cursor at the start of text.
func NewCursor(text string) *Cursor {
	return &Cursor{text: text}
}

// Offset returns the current read position in bytes.
func (c *Cursor) Offset() int {
	return c.pos
}

// AtEnd returns whether all text has been consumed.
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.text)
}

// Match is a successful match of a pattern against the unread text.
type Match struct {
	s   string // Unread text at the time of the match.
	loc []int  // Submatch offsets into s, as returned by regexp.
}

// Group returns submatch i. The bool is false if the group did not take part in
// the match.
func (m Match) Group(i int) (string, bool) {
	if i < 0 || 2*i+1 >= len(m.loc) || m.loc[2*i] < 0 {
		return "", false
	}
	return m.s[m.loc[2*i]:m.loc[2*i+1]], true
}

// Text returns the full matched text.
func (m Match) Text() string {
	s, _ := m.Group(0)
	return s
}

// Skipped returns the unread text that was passed over before the match
// started. Always empty for anchored matches.
func (m Match) Skipped() string {
	if len(m.loc) == 0 {
		return ""
	}
	return m.s[:m.loc[0]]
}

// MatchPrefix matches re at the current position and advances past the match.
// Patterns should be anchored with "^" so a failed match does not scan the
// remaining text.
//
// MatchPrefix returns io.EOF if the cursor is at the end of the text, and
// ErrNoMatchFound if re does not match at the current position.
func (c *Cursor) MatchPrefix(re *regexp.Regexp) (Match, error) {
	if c.AtEnd() {
		return Match{}, io.EOF
	}
	s := c.text[c.pos:]
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil || loc[0] != 0 {
		return Match{}, ErrNoMatchFound
	}
	c.pos += loc[1]
	return Match{s, loc}, nil
}

// MatchFirst finds the first match of re anywhere in the unread text and
// advances past it. Errors are as for MatchPrefix.
func (c *Cursor) MatchFirst(re *regexp.Regexp) (Match, error) {
	if c.AtEnd() {
		return Match{}, io.EOF
	}
	s := c.text[c.pos:]
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return Match{}, ErrNoMatchFound
	}
	c.pos += loc[1]
	return Match{s, loc}, nil
}

// Remainder returns all unread text and moves the cursor to the end.
func (c *Cursor) Remainder() string {
	s := c.text[c.pos:]
	c.pos = len(c.text)
	return s
}
