package mimeparse

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var loremPlain = []string{
	"Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore",
	"et dolore magna aliqua. Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut",
	"aliquip ex ea commodo consequat. Duis aute irure dolor in reprehenderit in voluptate velit esse cillum",
	"dolore eu fugiat nulla pariatur. Excepteur sint occaecat cupidatat non proident, sunt in culpa qui",
	"officia deserunt mollit anim id est laborum.",
}

var loremEncoded = []string{
	"Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tem=",
	"por incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam, q=",
	"uis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo cons=",
	"equat. Duis aute irure dolor in reprehenderit in voluptate velit esse cillu=",
	"m dolore eu fugiat nulla pariatur. Excepteur sint occaecat cupidatat non pr=",
	"oident, sunt in culpa qui officia deserunt mollit anim id est laborum.",
}

func TestQuotedPrintableSoftBreaks(t *testing.T) {
	want := strings.Join(loremPlain, " ")
	for _, eol := range eols {
		got, err := Decode(strings.Join(loremEncoded, eol), QuotedPrintable)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func readTestdata(t *testing.T, name string) string {
	buf, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(buf)
}

func TestQuotedPrintableUnicode(t *testing.T) {
	for _, name := range []string{"odysseus", "rune"} {
		plain := readTestdata(t, name+".txt")
		encoded := readTestdata(t, name+".qp")
		for _, eol := range eols {
			got, err := Decode(strings.ReplaceAll(encoded, "\n", eol), QuotedPrintable)
			require.NoError(t, err, name)
			assert.Equal(t, plain, got, name)
		}
	}
}

func TestQuotedPrintableRoundTrip(t *testing.T) {
	texts := []string{
		"",
		"plain ascii",
		"trailing space \nand tab\t\nend",
		"equals = sign and =3D literal",
		readTestdata(t, "odysseus.txt"),
		readTestdata(t, "rune.txt"),
		strings.Repeat("ᚠᛇᚻ", 80),
	}
	for _, text := range texts {
		got, err := Decode(encodeQP(text), QuotedPrintable)
		require.NoError(t, err)
		assert.Equal(t, text, got)
	}
}

func TestQuotedPrintableErrors(t *testing.T) {
	for _, s := range []string{"bad =G1 escape", "truncated =A", "ends with =4\n", "=E1=9A"} {
		_, err := Decode(s, QuotedPrintable)
		assert.ErrorIs(t, err, ErrDecodingFailure, "%q", s)
	}

	// Lower case hex is accepted.
	got, err := Decode("caf=c3=a9", QuotedPrintable)
	require.NoError(t, err)
	assert.Equal(t, "café", got)

	// Invalid text is accepted by DecodeBytes.
	buf, err := DecodeBytes("=FF=FE", QuotedPrintable)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xfe}, buf)
}

func TestBase64(t *testing.T) {
	text := "At vero eos et accusamus et iusto odio dignissimos ducimus.\nΤη γλώσσα μου έδωσαν ελληνική"
	enc := base64.StdEncoding.EncodeToString([]byte(text))
	var folded []string
	for s := enc; s != ""; {
		n := min(len(s), 20)
		folded = append(folded, s[:n])
		s = s[n:]
	}
	for _, eol := range eols {
		got, err := Decode(strings.Join(folded, eol)+eol, Base64)
		require.NoError(t, err)
		assert.Equal(t, text, got)
	}

	_, err := Decode("abc", Base64)
	assert.ErrorIs(t, err, ErrBodyConversionFailure)

	_, err = Decode(base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8, 0xff}), Base64)
	assert.ErrorIs(t, err, ErrDecodingFailure)

	buf, err := DecodeBytes(base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8, 0xff}), Base64)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, buf)
}

func TestDecodePassThroughAndOther(t *testing.T) {
	got, err := Decode("as is\r\n=41", PassThrough)
	require.NoError(t, err)
	assert.Equal(t, "as is\r\n=41", got)

	_, err = Decode("x", Other)
	assert.ErrorIs(t, err, ErrUnsupportedEncodingScheme)
	_, err = DecodeBytes("x", Other)
	assert.ErrorIs(t, err, ErrUnsupportedEncodingScheme)
}
