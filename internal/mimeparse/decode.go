package mimeparse

import (
	"bytes"
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Decode decodes a body in encoding enc and returns it as text. Bodies that
// were transfer encoded must decode to valid UTF-8.
func Decode(text string, enc TransferEncoding) (string, error) {
	if enc == PassThrough {
		return text, nil
	}
	buf, err := DecodeBytes(text, enc)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", errors.Wrapf(ErrDecodingFailure, "%s body is not valid utf-8", enc)
	}
	return string(buf), nil
}

// DecodeBytes decodes a body in encoding enc without checking that the result
// is text.
func DecodeBytes(text string, enc TransferEncoding) ([]byte, error) {
	switch enc {
	case PassThrough:
		return []byte(text), nil
	case Base64:
		return decodeBase64(text)
	case QuotedPrintable:
		return decodeQuotedPrintable(text)
	}
	return nil, errors.Wrapf(ErrUnsupportedEncodingScheme, "%s", enc)
}

func isBase64Char(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '+' || c == '/' || c == '='
}

func decodeBase64(text string) ([]byte, error) {
	clean := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		if isBase64Char(text[i]) {
			clean = append(clean, text[i])
		}
	}
	buf := make([]byte, base64.StdEncoding.DecodedLen(len(clean)))
	n, err := base64.StdEncoding.Decode(buf, clean)
	if err != nil {
		return nil, errors.Wrap(ErrBodyConversionFailure, err.Error())
	}
	return buf[:n], nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

// decodeQuotedPrintable decodes per RFC 2045 section 6.7. Escapes are resolved
// to bytes before any text interpretation, so a character whose escapes are
// split by a soft line break comes out whole. Hard line breaks become "\n".
func decodeQuotedPrintable(text string) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(text))
	for lineno := 0; text != ""; lineno++ {
		line, rest, hard := strings.Cut(text, "\n")
		text = rest
		line = strings.TrimRight(strings.TrimSuffix(line, "\r"), " \t")

		soft := strings.HasSuffix(line, "=")
		if soft {
			line = line[:len(line)-1]
		}
		for i := 0; i < len(line); i++ {
			if line[i] != '=' {
				out.WriteByte(line[i])
				continue
			}
			if i+2 >= len(line) {
				return nil, errors.Wrapf(ErrDecodingFailure, "truncated escape on line %d", lineno+1)
			}
			hi, ok1 := unhex(line[i+1])
			lo, ok2 := unhex(line[i+2])
			if !ok1 || !ok2 {
				return nil, errors.Wrapf(ErrDecodingFailure, "malformed escape %q on line %d", line[i:i+3], lineno+1)
			}
			out.WriteByte(hi<<4 | lo)
			i += 2
		}
		if hard && !soft {
			out.WriteByte('\n')
		}
	}
	return out.Bytes(), nil
}
