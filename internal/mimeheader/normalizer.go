package mimeheader

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxHeaderLineLength = 78

// NormalizeHeaders adds a Message-ID to a header that lacks one and refolds the
// fields. Missing From and Date fields are reported but not invented.
func NormalizeHeaders(raw []string, host string, index int) (string, []ValidationResult) {
	var results []ValidationResult

	h := NewFields(raw)
	for _, name := range []string{"From", "Date"} {
		if !h.Has(name) {
			results = append(results, ValidationResult{
				Resource: index,
				Field:    name,
				Status:   StatusMissing,
			})
		}
	}

	if !h.Has("message-id") {
		results = append(results, ValidationResult{
			Resource: index,
			Field:    "Message-ID",
			Status:   StatusMissing,
		})
		// Add a default Message-ID
		raw = append(raw[:len(raw):len(raw)], fmt.Sprintf("Message-ID: <%s@%s>", makeUUIDByDateField(h), host))
	}

	return Refold(raw), results
}

func makeUUIDByDateField(h Fields) string {
	timestamp := time.Time{}

	if date, exists := h.Get("date"); exists {
		if t, err := mail.ParseDate(date); err == nil {
			timestamp = t
		}
	}

	if timestamp.IsZero() {
		// Fallback to UUIDv4 if date is missing or parsing failed
		return makeUUID()
	}

	return makeUUIDv7(timestamp)
}

// Envelope returns the sender address and time for the mbox "From " line of a
// message. A message without a usable From or Date gets MAILER-DAEMON or now.
func Envelope(h Fields, now time.Time) (string, time.Time) {
	from, date := "MAILER-DAEMON", now
	if v, exists := h.Get("from"); exists {
		if addrs, err := mail.ParseAddressList(v); err == nil && len(addrs) > 0 {
			from = addrs[0].Address
		}
	}
	if v, exists := h.Get("date"); exists {
		if t, err := mail.ParseDate(v); err == nil {
			date = t
		}
	}
	return from, date
}

// ResourceID returns an identifier for a resource: its Content-ID, else its
// location, else a name based UUID of its header, which is the same each time
// the document is parsed.
func ResourceID(h Fields) string {
	if cid, exists := h.Get("content-id"); exists && strings.Trim(cid, "<> ") != "" {
		return "cid:" + strings.Trim(cid, "<> ")
	}
	for _, key := range []string{"content-location", "snapshot-content-location"} {
		if loc, exists := h.Get(key); exists && loc != "" {
			return loc
		}
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.Join(h.Raw(), "\n"))).String()
}

// Refold writes unfolded fields one per line, folding lines longer than 78
// characters before a space or tab. Reading the result with
// mimeparse.ReadHeader gives back the same fields.
func Refold(fields []string) string {
	var folded strings.Builder

	for _, line := range fields {
		for len(line) > maxHeaderLineLength {
			i := strings.LastIndexAny(line[1:maxHeaderLineLength+1], " \t") + 1
			if i == 0 {
				j := strings.IndexAny(line[maxHeaderLineLength:], " \t")
				if j < 0 {
					break
				}
				i = maxHeaderLineLength + j
			}
			folded.WriteString(line[:i] + "\n")
			line = line[i:]
		}
		folded.WriteString(line + "\n")
	}

	return folded.String()
}
