// Package mimeparse parses MIME documents such as MHTML page snapshots and
// email messages into an Archive.
//
// Only one level of multipart is supported. Both "\n" and "\r\n" line endings
// are accepted, bare "\r" is not.
package mimeparse

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"
)

// Options configure a Parser.
type Options struct {
	// Logger receives debug records about parse failures. Nil discards them.
	Logger *slog.Logger

	// BinaryBodies skips the UTF-8 check for transfer encoded bodies that are
	// not UTF-8 text: media types other than text/*, such as images in MHTML
	// snapshots, and text in another declared charset. Callers convert such
	// text themselves.
	BinaryBodies bool
}

// Parser parses documents. A Parser holds no state between calls and can be
// used concurrently.
type Parser struct {
	log          *slog.Logger
	binaryBodies bool
}

// NewParser returns a parser configured by opts.
func NewParser(opts Options) *Parser {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Parser{log: log, binaryBodies: opts.BinaryBodies}
}

// Parse parses text with default options.
func Parse(text string) (*Archive, error) {
	return NewParser(Options{}).Parse(text)
}

// Parse parses a complete document. On error no archive is returned.
func (p *Parser) Parse(text string) (*Archive, error) {
	c := NewCursor(text)

	fields, err := ReadHeader(c)
	if err != nil {
		p.log.Debug("no document header", slog.Int("offset", c.Offset()))
		return nil, errors.Wrap(ErrMissingDocumentHeader, err.Error())
	}
	h, err := NewHeader(DocumentRole, InterpretFields(fields, DocumentRole))
	if err != nil {
		p.log.Debug("invalid document header", slog.Any("err", err))
		return nil, err
	}

	if !h.IsMultipart() {
		bodyText, err := ReadBody(c)
		if err != nil && err != io.EOF {
			p.log.Debug("no blank line before body, using empty body", slog.Int("offset", c.Offset()))
		}
		body, err := p.decode(bodyText, h)
		if err != nil {
			p.log.Debug("decoding body", slog.String("mediatype", h.MediaType()), slog.Any("err", err))
			return nil, err
		}
		return &Archive{MainResource: Resource{Header: h, Body: body}}, nil
	}

	parts, err := p.parseParts(c, h)
	if err != nil {
		return nil, err
	}
	return &Archive{MainResource: Resource{Header: h, Body: []byte{}}, SubResources: parts}, nil
}

func (p *Parser) parseParts(c *Cursor, h *Header) ([]Resource, error) {
	if h.Boundary == nil || *h.Boundary == "" {
		return nil, ErrMissingBoundaryInMultipartDocument
	}
	boundary := *h.Boundary
	log := p.log.With(slog.String("boundary", boundary))

	s := NewBoundaryScanner(c, boundary)
	if err := s.SkipToBodyStart(); err != nil {
		log.Debug("no multipart body start", slog.Int("offset", c.Offset()))
		return nil, err
	}

	var parts []Resource
	for i := 0; ; i++ {
		fields, err := ReadHeader(c)
		if err != nil {
			log.Debug("no part header", slog.Int("part", i), slog.Int("offset", c.Offset()))
			return nil, errors.Wrapf(ErrMissingPartHeader, "part %d", i)
		}
		ph, err := NewHeader(SectionRole, InterpretFields(fields, SectionRole))
		if err != nil {
			log.Debug("invalid part header", slog.Int("part", i), slog.Any("err", err))
			return nil, errors.WithMessagef(err, "part %d", i)
		}
		raw, closing, err := s.ReadPartBody()
		if err != nil {
			log.Debug("reading part body", slog.Int("part", i), slog.Int("offset", c.Offset()), slog.Any("err", err))
			return nil, errors.WithMessagef(err, "part %d", i)
		}
		body, err := p.decode(raw, ph)
		if err != nil {
			log.Debug("decoding part body", slog.Int("part", i), slog.String("mediatype", ph.MediaType()), slog.Any("err", err))
			return nil, errors.WithMessagef(err, "part %d", i)
		}
		parts = append(parts, Resource{Header: ph, Body: body})
		if closing {
			return parts, nil
		}
	}
}

func (p *Parser) decode(raw string, h *Header) ([]byte, error) {
	enc := h.ContentTransferEncoding
	if p.binaryBodies && !h.IsUTF8Text() {
		return DecodeBytes(raw, enc)
	}
	s, err := Decode(raw, enc)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}
