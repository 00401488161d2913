package mimeheader

import (
	"mime"
	"net/mail"
	"net/url"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/emurenMRz/mimeview/internal/mimeparse"
)

const (
	StatusValid   = "valid"
	StatusMissing = "missing"
	StatusInvalid = "invalid"
	StatusDeleted = "deleted"
)

var (
	// Required headers for RFC 5322 compliance
	requiredMessageFields = []string{"From", "Date", "Message-ID"}

	// Regular expression for valid message ID format
	messageIDRegex = regexp.MustCompile(`^<[^<>@]+@[^<>@]+>$`)
)

// ValidateHeaders checks the MIME fields of a document or section header. Date,
// Message-ID and From are checked when present.
func ValidateHeaders(h Fields, role mimeparse.Role, index int) []ValidationResult {
	var results []ValidationResult
	add := func(field, status, detail string) {
		results = append(results, ValidationResult{Resource: index, Field: field, Status: status, Detail: detail})
	}

	if role == mimeparse.DocumentRole && !h.Has("mime-version") {
		add("MIME-Version", StatusMissing, "")
	}

	// The parser keeps the last Content-Type.
	if cts := h.Values("content-type"); len(cts) == 0 {
		add("Content-Type", StatusMissing, "")
	} else if mt, params, err := mime.ParseMediaType(cts[len(cts)-1]); err != nil && !errors.Is(err, mime.ErrInvalidMediaParameter) {
		add("Content-Type", StatusInvalid, "Invalid Content-Type format")
	} else if strings.HasPrefix(mt, "multipart/") {
		if role == mimeparse.SectionRole {
			add("Content-Type", StatusInvalid, "Nested multipart is not supported")
		} else if params["boundary"] == "" {
			add("Content-Type", StatusMissing, "Missing boundary parameter")
		}
	}

	if ctes := h.Values("content-transfer-encoding"); len(ctes) > 0 {
		cte := ctes[len(ctes)-1]
		if mimeparse.ParseTransferEncoding(cte) == mimeparse.Other {
			add("Content-Transfer-Encoding", StatusInvalid, "Unsupported encoding "+cte)
		}
	}

	for _, key := range []string{"content-location", "snapshot-content-location"} {
		if loc, exists := h.Get(key); exists {
			if _, err := url.Parse(loc); err != nil {
				add(h.Name(key), StatusInvalid, "Invalid location URL")
			}
		}
	}

	return append(results, validateFieldFormats(h, index)...)
}

// ValidateMessage validates a message's headers against RFC 5322
func ValidateMessage(h Fields, index int) []ValidationResult {
	var results []ValidationResult

	// Check for required headers
	for _, name := range requiredMessageFields {
		if !h.Has(name) {
			results = append(results, ValidationResult{
				Resource: index,
				Field:    name,
				Status:   StatusMissing,
			})
		}
	}

	results = append(results, validateFieldFormats(h, index)...)

	// Check for Status: D
	if status, exists := h.Get("status"); exists && status == "D" {
		results = append(results, ValidationResult{
			Resource: index,
			Field:    "Status",
			Status:   StatusDeleted,
		})
	}

	return results
}

func validateFieldFormats(h Fields, index int) []ValidationResult {
	var results []ValidationResult

	if from, exists := h.Get("from"); exists && !isValidFrom(from) {
		results = append(results, ValidationResult{
			Resource: index,
			Field:    "From",
			Status:   StatusInvalid,
			Detail:   "Invalid From address format",
		})
	}

	if date, exists := h.Get("date"); exists && !isValidDate(date) {
		results = append(results, ValidationResult{
			Resource: index,
			Field:    "Date",
			Status:   StatusInvalid,
			Detail:   "Invalid Date format",
		})
	}

	if msgID, exists := h.Get("message-id"); exists && !isValidMessageID(msgID) {
		results = append(results, ValidationResult{
			Resource: index,
			Field:    "Message-ID",
			Status:   StatusInvalid,
			Detail:   "Invalid Message-ID format",
		})
	}

	return results
}

// isValidFrom checks if a From header is valid
func isValidFrom(from string) bool {
	_, err := mail.ParseAddressList(from)
	return err == nil
}

// isValidDate checks if a Date header is valid
func isValidDate(date string) bool {
	_, err := mail.ParseDate(date)
	return err == nil
}

// isValidMessageID checks if a Message-ID header is valid
func isValidMessageID(msgID string) bool {
	msgID = strings.Trim(msgID, "<>")
	return messageIDRegex.MatchString("<" + msgID + ">")
}
