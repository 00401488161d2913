package mimeparse

import (
	"github.com/pkg/errors"
)

// Structural absence: an expected syntactic element is missing from the text.
var (
	ErrNoMatchFound                       = errors.New("no match found")
	ErrHeaderNotFound                     = errors.New("header not found")
	ErrMissingDocumentHeader              = errors.New("missing document header")
	ErrMissingPartHeader                  = errors.New("missing part header")
	ErrMissingBoundaryInMultipartDocument = errors.New("missing boundary in multipart document")
	ErrMissingMultipartBodyStartMarker    = errors.New("missing multipart body start marker")
	ErrMissingPartBoundary                = errors.New("missing part boundary")
)

// Decoding failures: a body is malformed for its declared content-transfer-encoding.
var (
	ErrBodyConversionFailure     = errors.New("body conversion failure")
	ErrDecodingFailure           = errors.New("decoding failure")
	ErrUnsupportedEncodingScheme = errors.New("unsupported encoding scheme")
)

// ErrMatchIntegrity means a pattern matched but a sub-capture the extraction
// relies on is missing. It indicates a bug, not bad input.
var ErrMatchIntegrity = errors.New("match integrity error")

// ErrInvalidHeader is wrapped by every header construction failure.
var ErrInvalidHeader = errors.New("invalid header")
