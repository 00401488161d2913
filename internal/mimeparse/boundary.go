package mimeparse

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// BoundaryScanner walks the body of a multipart document delimited by one
// boundary, as described in RFC 2046 section 5.1.1.
type BoundaryScanner struct {
	c        *Cursor
	boundary string

	start *regexp.Regexp // Line break, dash-boundary, transport padding, line break.
	delim *regexp.Regexp // Line break, dash-boundary, then padding and line break or "--".
}

// NewBoundaryScanner returns a scanner for parts delimited by boundary,
// reading from c.
func NewBoundaryScanner(c *Cursor, boundary string) *BoundaryScanner {
	dash := "--" + regexp.QuoteMeta(boundary)
	return &BoundaryScanner{
		c:        c,
		boundary: boundary,
		start:    regexp.MustCompile(`\r?\n` + dash + `[ \t]*\r?\n`),
		delim:    regexp.MustCompile(`\r?\n` + dash + `([ \t]*\r?\n|--)`),
	}
}

// SkipToBodyStart moves the cursor past the first dash-boundary line,
// discarding the preamble.
func (s *BoundaryScanner) SkipToBodyStart() error {
	if _, err := s.c.MatchFirst(s.start); err != nil {
		return errors.Wrapf(ErrMissingMultipartBodyStartMarker, "boundary %q", s.boundary)
	}
	return nil
}

// ReadPartBody returns the raw body of the current part, up to the next
// delimiter, and moves the cursor past that delimiter. Closing reports whether
// it was the close-delimiter. The line break that separates the part header
// from the body is not included in body.
//
// The first delimiter found ends the part. Body text that contains the
// delimiter cuts the part short.
func (s *BoundaryScanner) ReadPartBody() (body string, closing bool, err error) {
	m, err := s.c.MatchFirst(s.delim)
	if err != nil {
		return "", false, errors.Wrapf(ErrMissingPartBoundary, "boundary %q at offset %d", s.boundary, s.c.Offset())
	}
	suffix, ok := m.Group(1)
	if !ok {
		return "", false, errors.Wrap(ErrMatchIntegrity, "delimiter suffix")
	}
	closing = strings.HasPrefix(suffix, "--")

	run := m.Skipped()
	if run == "" {
		return "", closing, nil
	}
	if body, ok := strings.CutPrefix(run, "\r\n"); ok {
		return body, closing, nil
	}
	if body, ok := strings.CutPrefix(run, "\n"); ok {
		return body, closing, nil
	}
	return "", false, errors.Wrap(ErrMatchIntegrity, "part body does not start with a line break")
}
