package mimeheader

import (
	"io"
	"mime"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// CharsetReader converts input in charset to UTF-8. Unknown charsets are
// passed through unchanged.
func CharsetReader(charset string, input io.Reader) (io.Reader, error) {
	if charset == "" {
		return input, nil
	}
	enc, err := ianaindex.IANA.Encoding(strings.ToLower(charset))
	if err != nil || enc == nil {
		return input, nil
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}

// WordDecoder decodes RFC 2047 encoded-words in any charset CharsetReader
// knows, e.g. ISO-2022-JP.
var WordDecoder = &mime.WordDecoder{CharsetReader: CharsetReader}

// DecodeWords decodes the encoded-words in a header value. Values that fail
// to decode are returned as is.
func DecodeWords(value string) string {
	s, err := WordDecoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return s
}

// Decoded returns the first field named key with encoded-words decoded.
func (h Fields) Decoded(key string) string {
	v, _ := h.Get(key)
	return DecodeWords(v)
}
