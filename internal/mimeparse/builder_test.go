package mimeparse

import (
	"bytes"
	"encoding/base64"
	"mime/quotedprintable"
	"strings"
)

var eols = []string{"\n", "\r\n"}

var encodings = []string{"base64", "quoted-printable", "8bit", "7bit", "binary"}

// entry is one piece of a test document. text renders it with line ending eol,
// content is what a reader is expected to return for it.
type entry interface {
	text(eol string) string
	content() string
}

type field string

func (f field) text(eol string) string { return string(f) + eol }
func (f field) content() string        { return string(f) }

// eofField is a field that ends the document without a line break.
type eofField string

func (f eofField) text(eol string) string { return string(f) }
func (f eofField) content() string        { return string(f) }

type foldedField struct {
	lines []string
}

// folded makes a field of lines, each continuation prefixed by ws.
func folded(ws string, lines ...string) foldedField {
	l := []string{lines[0]}
	for _, s := range lines[1:] {
		l = append(l, ws+s)
	}
	return foldedField{l}
}

func (f foldedField) text(eol string) string { return strings.Join(f.lines, eol) + eol }
func (f foldedField) content() string        { return strings.Join(f.lines, "") }

type blank struct{}

func (blank) text(eol string) string { return eol }
func (blank) content() string        { return "" }

type bodyStart string

func (b bodyStart) text(eol string) string { return eol + "--" + string(b) + eol }
func (b bodyStart) content() string        { return "--" + string(b) }

type delimiter string

func (b delimiter) text(eol string) string { return eol + "--" + string(b) + eol }
func (b delimiter) content() string        { return "--" + string(b) }

type closeDelimiter string

func (b closeDelimiter) text(eol string) string { return eol + "--" + string(b) + "--" + eol }
func (b closeDelimiter) content() string        { return "--" + string(b) + "--" }

// body is a body in the given content-transfer-encoding.
type body struct {
	s        string
	encoding string
}

func (b body) text(eol string) string {
	switch b.encoding {
	case "base64":
		return base64.StdEncoding.EncodeToString([]byte(b.s))
	case "quoted-printable":
		return encodeQP(b.s)
	}
	return b.s
}

func (b body) content() string { return b.s }

func encodeQP(s string) string {
	var buf bytes.Buffer
	w := quotedprintable.NewWriter(&buf)
	if _, err := w.Write([]byte(s)); err != nil {
		panic(err)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.String()
}

func build(eol string, entries ...entry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.text(eol))
	}
	return sb.String()
}

func withBlank(entries []entry) []entry {
	return append(append([]entry{}, entries...), blank{})
}

var dummyHeader = []entry{
	field("header-field-1: value 1"),
	field("header-field-2: value 2"),
	folded("\t", "folded-header-field-3: value 3", "3.A", "3.B", "3.C"),
	field("header-field-4: value 4"),
	folded(" ", "folded-header-field-5: value 5", "5.i", "5.ii", "5.iii", "5.iv", "5.v"),
}

var multipartHeader = []entry{
	field("From: <Saved by Blink>"),
	field("Snapshot-Content-Location: https://google.com"),
	field("Subject: =?utf-8?Q?The=20=E2=80=98"),
	field("Date: Sat, 2 Dec 2023 18:16:40 -0800"),
	field("MIME-Version: 1.0"),
	folded(" ",
		"Content-Type: multipart/related;",
		`type="text/html";`,
		`boundary="----MultipartBoundary--91CIefJbpm72OBDEE6zCI8OLw8h18kJbYxeqmjA2Zd----"`,
	),
}

var multipartPartHeader = []entry{
	field("Content-Type: application/x-authorware-map"),
	field("Content-Transfer-Encoding: binary"),
	field("Content-Location: cid:b44c8605-ad39-43d4-973f-d7f747ccc741@mhtml.blink"),
}
