// Package loader turns document bytes into the UTF-8 text mimeparse works on.
package loader

import (
	"os"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/htmlindex"
)

var (
	ErrUnknownCharset    = errors.New("unknown charset")
	ErrUndetectedCharset = errors.New("cannot detect charset")
)

// Load reads the file at path and returns its content as UTF-8 text.
func Load(path string) (string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "reading document")
	}
	text, err := DecodeText(buf, "")
	if err != nil {
		return "", errors.Wrapf(err, "decoding %s", path)
	}
	return text, nil
}

// DecodeText converts data in charset to UTF-8. Without a charset, valid UTF-8
// is returned as is and anything else is decoded with a detected charset.
func DecodeText(data []byte, charset string) (string, error) {
	if charset == "" {
		if utf8.Valid(data) {
			return string(data), nil
		}
		res, err := chardet.NewTextDetector().DetectBest(data)
		if err != nil {
			return "", errors.Wrap(ErrUndetectedCharset, err.Error())
		}
		charset = res.Charset
	}

	enc, err := htmlindex.Get(charset)
	if err != nil || enc == nil {
		return "", errors.Wrapf(ErrUnknownCharset, "%q", charset)
	}
	buf, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", errors.Wrapf(err, "decoding %s", charset)
	}
	return string(buf), nil
}
