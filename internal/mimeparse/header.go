package mimeparse

import (
	"mime"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// TransferEncoding is the decoding a body needs, derived from its
// Content-Transfer-Encoding field.
type TransferEncoding int

const (
	PassThrough TransferEncoding = iota // 7bit, 8bit, binary, or no field.
	QuotedPrintable
	Base64
	Other // Unrecognized; decoding fails.
)

func (e TransferEncoding) String() string {
	switch e {
	case PassThrough:
		return "passthrough"
	case QuotedPrintable:
		return "quoted-printable"
	case Base64:
		return "base64"
	}
	return "other"
}

// ParseTransferEncoding maps a Content-Transfer-Encoding value to the decoding
// it needs. An empty value is the "7bit" default.
func ParseTransferEncoding(s string) TransferEncoding {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "7bit", "8bit", "binary":
		return PassThrough
	case "quoted-printable":
		return QuotedPrintable
	case "base64":
		return Base64
	}
	return Other
}

// Role selects the rules a header is checked against.
type Role int

const (
	// DocumentRole is the top-level header of an archive. It needs a
	// MIME-Version, and a multipart document needs a boundary and must not be
	// transfer encoded.
	DocumentRole Role = iota
	// SectionRole is the header of a part. It must not be multipart.
	SectionRole
)

func (r Role) String() string {
	if r == DocumentRole {
		return "document"
	}
	return "section"
}

// HeaderValues are the values read from header fields, before validation. Nil
// means the field was absent.
type HeaderValues struct {
	MIMEVersion             *string
	ContentType             *string
	ContentSubtype          *string
	Boundary                *string
	ContentLocation         *string
	ContentTransferEncoding *string
	Params                  map[string]string // Content-Type parameters, lower case names.
	Fields                  []string          // Raw unfolded fields, in order.
}

// Header is a validated document or section header.
type Header struct {
	Role                    Role
	MIMEVersion             *string
	ContentType             string // Lower case, e.g. "text".
	ContentSubtype          string // Lower case, e.g. "html".
	Boundary                *string
	ContentLocation         *string
	ContentTransferEncoding TransferEncoding
	Params                  map[string]string
	Fields                  []string
}

// NewHeader validates v for role and returns the header. Errors wrap
// ErrInvalidHeader.
func NewHeader(role Role, v HeaderValues) (*Header, error) {
	if v.ContentType == nil || *v.ContentType == "" {
		return nil, errors.Wrapf(ErrInvalidHeader, "%s header: missing content type", role)
	}
	if v.ContentSubtype == nil || *v.ContentSubtype == "" {
		return nil, errors.Wrapf(ErrInvalidHeader, "%s header: missing content subtype", role)
	}
	cte := PassThrough
	if v.ContentTransferEncoding != nil {
		cte = ParseTransferEncoding(*v.ContentTransferEncoding)
	}
	h := &Header{
		Role:                    role,
		MIMEVersion:             v.MIMEVersion,
		ContentType:             strings.ToLower(*v.ContentType),
		ContentSubtype:          strings.ToLower(*v.ContentSubtype),
		Boundary:                v.Boundary,
		ContentLocation:         v.ContentLocation,
		ContentTransferEncoding: cte,
		Params:                  v.Params,
		Fields:                  v.Fields,
	}

	switch role {
	case DocumentRole:
		if h.MIMEVersion == nil {
			return nil, errors.Wrap(ErrInvalidHeader, "document header: missing MIME-Version")
		}
		if h.IsMultipart() {
			if h.Boundary == nil || *h.Boundary == "" {
				return nil, errors.Wrap(ErrInvalidHeader, "multipart document header: missing boundary")
			}
			if h.ContentTransferEncoding != PassThrough {
				return nil, errors.Wrapf(ErrInvalidHeader, "multipart document header: content-transfer-encoding %s not allowed", h.ContentTransferEncoding)
			}
		}
	case SectionRole:
		if h.IsMultipart() {
			return nil, errors.Wrap(ErrInvalidHeader, "section header: nested multipart not supported")
		}
	}
	return h, nil
}

// IsMultipart returns whether the content type is "multipart".
func (h *Header) IsMultipart() bool {
	return strings.EqualFold(h.ContentType, "multipart")
}

// MediaType returns "type/subtype".
func (h *Header) MediaType() string {
	return h.ContentType + "/" + h.ContentSubtype
}

// Charset returns the charset parameter of the content type, or "".
func (h *Header) Charset() string {
	return h.Params["charset"]
}

// IsUTF8Text returns whether the body is text in UTF-8 or a subset of it.
func (h *Header) IsUTF8Text() bool {
	if !strings.EqualFold(h.ContentType, "text") {
		return false
	}
	switch strings.ToLower(h.Charset()) {
	case "", "utf-8", "utf8", "us-ascii":
		return true
	}
	return false
}

// A boundary parameter, found by hand when the parameter list does not parse.
var boundaryParamRegex = regexp.MustCompile(`(?i)(?:^|;)\s*boundary\s*=\s*(?:"([^"]*)"|([^\s;]+))`)

// InterpretFields extracts the recognized fields. Field names are matched case
// insensitively. MIME-Version keeps the first occurrence, the others the last.
// Content-Location and Snapshot-Content-Location fill the same value. The
// boundary parameter is only taken for the document role.
func InterpretFields(fields []string, role Role) HeaderValues {
	v := HeaderValues{Fields: fields}
	for _, f := range fields {
		name, value, ok := strings.Cut(f, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "mime-version":
			if v.MIMEVersion == nil && value != "" {
				v.MIMEVersion = &value
			}
		case "content-type":
			t, st, params, ok := parseContentType(value)
			if !ok {
				continue
			}
			v.ContentType, v.ContentSubtype, v.Params = &t, &st, params
			v.Boundary = nil
			if b, ok := params["boundary"]; ok && role == DocumentRole {
				v.Boundary = &b
			}
		case "content-transfer-encoding":
			v.ContentTransferEncoding = &value
		case "content-location", "snapshot-content-location":
			if value != "" {
				v.ContentLocation = &value
			}
		}
	}
	return v
}

// parseContentType parses a Content-Type value. Values mime.ParseMediaType
// rejects are split by hand, so real-world headers such as a quoted media type
// still yield a type and subtype.
func parseContentType(value string) (typ, subtype string, params map[string]string, ok bool) {
	mt, params, err := mime.ParseMediaType(value)
	if err != nil && !errors.Is(err, mime.ErrInvalidMediaParameter) {
		params = nil
		s, _, _ := strings.Cut(value, ";")
		mt = strings.ToLower(strings.Trim(strings.TrimSpace(s), `"`))
	}
	if params == nil {
		params = map[string]string{}
		if m := boundaryParamRegex.FindStringSubmatch(value); m != nil {
			params["boundary"] = m[1] + m[2]
		}
	}
	typ, subtype, ok = strings.Cut(mt, "/")
	typ, subtype = strings.TrimSpace(typ), strings.TrimSpace(subtype)
	if !ok || typ == "" || subtype == "" || strings.ContainsAny(typ+subtype, " \t/\"") {
		return "", "", nil, false
	}
	return typ, subtype, params, true
}
