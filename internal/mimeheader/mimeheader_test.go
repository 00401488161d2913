package mimeheader

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emurenMRz/mimeview/internal/mimeparse"
)

func TestFields(t *testing.T) {
	h := NewFields([]string{
		"Subject: first",
		"X-Empty:",
		"subject: second",
		"not a field",
		"Content-Type: text/plain;\tcharset=utf-8",
	})
	assert.Equal(t, 4, h.Len())

	v, ok := h.Get("SUBJECT")
	require.True(t, ok)
	assert.Equal(t, "first", v, "first wins")
	assert.Equal(t, []string{"first", "second"}, h.Values("Subject"))
	assert.Equal(t, "Subject", h.Name("subject"))

	v, ok = h.Get("x-empty")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = h.Get("missing")
	assert.False(t, ok)
	assert.False(t, h.Has("missing"))
	assert.True(t, h.Has("content-type"))
}

func TestParseFields(t *testing.T) {
	h := Parse("From: a@example.com\r\nSubject: folded\r\n line\r\n\r\nbody")
	assert.Equal(t, 2, h.Len())
	v, _ := h.Get("subject")
	assert.Equal(t, "folded line", v)

	assert.Equal(t, 0, Parse("\nno header").Len())
}

func TestDecodeWords(t *testing.T) {
	h := NewFields([]string{
		"Subject: =?utf-8?Q?The=20=E2=80=98?=",
		"X-Latin: =?ISO-8859-1?Q?caf=E9?=",
		"X-Japanese: =?ISO-2022-JP?B?GyRCRnxLXDhsGyhC?=",
		"X-Broken: =?unknown-charset?Q?x?=",
	})
	assert.Equal(t, "The ‘", h.Decoded("subject"))
	assert.Equal(t, "café", h.Decoded("x-latin"))
	assert.Equal(t, "日本語", h.Decoded("x-japanese"))
	assert.Equal(t, "x", h.Decoded("x-broken"), "unknown charsets pass through")
	assert.Equal(t, "", h.Decoded("missing"))
}

func TestValidateMessage(t *testing.T) {
	h := NewFields([]string{
		"From: not an address <",
		"Date: yesterday",
		"Status: D",
	})
	results := ValidateMessage(h, 3)
	assert.ElementsMatch(t, []ValidationResult{
		{Resource: 3, Field: "Message-ID", Status: StatusMissing},
		{Resource: 3, Field: "From", Status: StatusInvalid, Detail: "Invalid From address format"},
		{Resource: 3, Field: "Date", Status: StatusInvalid, Detail: "Invalid Date format"},
		{Resource: 3, Field: "Status", Status: StatusDeleted},
	}, results)

	h = NewFields([]string{
		"From: Alice <alice@example.com>",
		"Date: Sat, 2 Dec 2023 18:16:40 -0800",
		"Message-ID: <1@example.com>",
	})
	assert.Empty(t, ValidateMessage(h, 0))
}

func TestValidateHeaders(t *testing.T) {
	h := NewFields([]string{
		"Content-Type: multipart/related",
		"Content-Transfer-Encoding: x-uuencode",
		"Content-Location: http://[::1",
		"Message-ID: no-angle",
	})
	results := ValidateHeaders(h, mimeparse.DocumentRole, 0)
	assert.ElementsMatch(t, []ValidationResult{
		{Resource: 0, Field: "MIME-Version", Status: StatusMissing},
		{Resource: 0, Field: "Content-Type", Status: StatusMissing, Detail: "Missing boundary parameter"},
		{Resource: 0, Field: "Content-Transfer-Encoding", Status: StatusInvalid, Detail: "Unsupported encoding x-uuencode"},
		{Resource: 0, Field: "Content-Location", Status: StatusInvalid, Detail: "Invalid location URL"},
		{Resource: 0, Field: "Message-ID", Status: StatusInvalid, Detail: "Invalid Message-ID format"},
	}, results)

	results = ValidateHeaders(NewFields([]string{"Content-Type: multipart/alternative; boundary=x"}), mimeparse.SectionRole, 2)
	assert.Equal(t, []ValidationResult{{Resource: 2, Field: "Content-Type", Status: StatusInvalid, Detail: "Nested multipart is not supported"}}, results)

	results = ValidateHeaders(NewFields([]string{"Content-Location: style.css"}), mimeparse.SectionRole, 1)
	assert.Equal(t, []ValidationResult{{Resource: 1, Field: "Content-Type", Status: StatusMissing}}, results)

	h = NewFields([]string{"MIME-Version: 1.0", "Content-Type: text/html; charset=utf-8", "Content-Transfer-Encoding: Quoted-Printable"})
	assert.Empty(t, ValidateHeaders(h, mimeparse.DocumentRole, 0))
}

const mhtml = `From: <Saved by Blink>
Snapshot-Content-Location: https://example.com/
Subject: Example
Date: Sat, 2 Dec 2023 18:16:40 -0800
MIME-Version: 1.0
Content-Type: multipart/related;
	type="text/html";
	boundary="----MultipartBoundary--x----"

------MultipartBoundary--x----
Content-Type: text/html
Content-ID: <frame-1@mhtml.blink>
Content-Transfer-Encoding: quoted-printable
Content-Location: https://example.com/

<html>=E2=80=98</html>
------MultipartBoundary--x----
Content-Type: text/css
Content-Transfer-Encoding: x-unknown
Content-Location: https://example.com/a.css

body {}
------MultipartBoundary--x----
Content-Type: image/png
Content-Transfer-Encoding: base64
Content-Location: https://example.com/a.png

iVBORw0KGgo=
------MultipartBoundary--x----
Content-Type: text/plain
Content-Transfer-Encoding: quoted-printable

bad =ZZ
------MultipartBoundary--x------
`

func TestLintArchive(t *testing.T) {
	for _, eol := range []string{"\n", "\r\n"} {
		results := LintArchive(strings.ReplaceAll(mhtml, "\n", eol))
		require.Len(t, results, 4, "%v", results)

		assert.Equal(t, 0, results[0].Resource)
		assert.Equal(t, "From", results[0].Field)

		assert.Equal(t, 2, results[1].Resource)
		assert.Equal(t, "Content-Transfer-Encoding", results[1].Field)
		assert.Equal(t, 2, results[2].Resource)
		assert.Equal(t, "body", results[2].Field)
		assert.Contains(t, results[2].Detail, mimeparse.ErrUnsupportedEncodingScheme.Error())

		assert.Equal(t, 4, results[3].Resource)
		assert.Equal(t, "body", results[3].Field)
		assert.Contains(t, results[3].Detail, mimeparse.ErrDecodingFailure.Error())
	}
}

func TestLintArchiveStructure(t *testing.T) {
	results := LintArchive("")
	require.Len(t, results, 1)
	assert.Equal(t, ValidationResult{Resource: 0, Field: "header", Status: StatusMissing, Detail: results[0].Detail}, results[0])

	results = LintArchive("MIME-Version: 1.0\nContent-Type: multipart/mixed; boundary=b\n\n--b\nContent-Type: text/plain\n\nunterminated\n")
	require.NotEmpty(t, results)
	last := results[len(results)-1]
	assert.Equal(t, 1, last.Resource)
	assert.Equal(t, StatusMissing, last.Status)
	assert.Contains(t, last.Detail, mimeparse.ErrMissingPartBoundary.Error())

	results = LintArchive("MIME-Version: 1.0\nContent-Type: text/plain\n\nclean")
	assert.Empty(t, results)
}

func TestResourceID(t *testing.T) {
	assert.Equal(t, "cid:frame-1@mhtml.blink", ResourceID(NewFields([]string{"Content-ID: <frame-1@mhtml.blink>", "Content-Location: x"})))
	assert.Equal(t, "https://example.com/", ResourceID(NewFields([]string{"Snapshot-Content-Location: https://example.com/"})))

	raw := []string{"Content-Type: text/plain"}
	id := ResourceID(NewFields(raw))
	assert.Equal(t, id, ResourceID(NewFields(raw)), "same header, same id")
	assert.NotEqual(t, id, ResourceID(NewFields([]string{"Content-Type: text/html"})))
	u, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), u.Version())
}

func TestEnvelope(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	from, date := Envelope(NewFields([]string{"From: Alice <alice@example.com>, bob@example.com", "Date: Sat, 2 Dec 2023 18:16:40 -0800"}), now)
	assert.Equal(t, "alice@example.com", from)
	assert.Equal(t, int64(1701569800), date.Unix())

	from, date = Envelope(NewFields([]string{"From: not an address", "Date: yesterday"}), now)
	assert.Equal(t, "MAILER-DAEMON", from)
	assert.Equal(t, now, date)
}

func TestMakeUUIDByDateField(t *testing.T) {
	date := "Sat, 2 Dec 2023 18:16:40 -0800"
	u, err := uuid.Parse(makeUUIDByDateField(NewFields([]string{"Date: " + date})))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), u.Version())
	sec, nsec := u.Time().UnixTime()
	want, _ := time.Parse(time.RFC1123Z, "Sat, 02 Dec 2023 18:16:40 -0800")
	assert.Equal(t, want.Unix(), sec)
	assert.Equal(t, int64(0), nsec)

	u, err = uuid.Parse(makeUUIDByDateField(NewFields(nil)))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), u.Version())
}

func TestRefold(t *testing.T) {
	long := "Content-Type: multipart/related; type=\"text/html\"; boundary=\"----MultipartBoundary--91CIefJbpm72OBDEE6zCI8OLw8h18kJbYxeqmjA2Zd----\""
	fields := []string{"Subject: short", long, "X-Token: " + strings.Repeat("a", 100)}
	out := Refold(fields)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Equal(t, "Subject: short", lines[0])
	assert.LessOrEqual(t, len(lines[1]), maxHeaderLineLength)
	assert.True(t, strings.HasPrefix(lines[2], " "))

	read, err := mimeparse.ReadHeader(mimeparse.NewCursor(out))
	require.NoError(t, err)
	assert.Equal(t, fields, read)
}

func TestNormalizeHeaders(t *testing.T) {
	raw := []string{"From: a@example.com", "Subject: hi"}
	out, results := NormalizeHeaders(raw, "mimeappend", 0)
	assert.Equal(t, []ValidationResult{
		{Resource: 0, Field: "Date", Status: StatusMissing},
		{Resource: 0, Field: "Message-ID", Status: StatusMissing},
	}, results)
	assert.Len(t, raw, 2)

	h := Parse(out)
	id, ok := h.Get("message-id")
	require.True(t, ok)
	assert.Regexp(t, `^<[0-9a-f-]{36}@mimeappend>$`, id)
	assert.Empty(t, ValidateMessage(NewFields(append(raw, "Date: Sat, 2 Dec 2023 18:16:40 -0800", "Message-ID: "+id)), 0))
}
