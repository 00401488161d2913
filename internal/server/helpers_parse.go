package server

import (
	"log/slog"
	"mime"
	"net/mail"
	"strings"
	"time"

	"github.com/emurenMRz/mimeview/internal/loader"
	"github.com/emurenMRz/mimeview/internal/metrics"
	"github.com/emurenMRz/mimeview/internal/mimeheader"
	"github.com/emurenMRz/mimeview/internal/mimeparse"
)

// resourceText returns the body of a text resource as UTF-8. Bodies without a
// transfer encoding are part of the document text, which is already UTF-8.
func resourceText(r mimeparse.Resource) (string, error) {
	h := r.Header
	if h.IsUTF8Text() || h.ContentTransferEncoding == mimeparse.PassThrough {
		return string(r.Body), nil
	}
	return loader.DecodeText(r.Body, h.Charset())
}

// parseMessageContent parses a message of a mailbox. Messages that are not
// MIME documents, or that the parser rejects, are shown as plain text.
func parseMessageContent(text string, log *slog.Logger) EmailContent {
	content := EmailContent{Attachments: []string{}}

	start := time.Now()
	a, err := parser.Parse(text)
	metrics.ParseObserve("mailbox", a, err, start)
	if err != nil {
		log.Debug("message is not a mime document", slog.Any("err", err))
		content.Body, _ = mimeparse.ReadBody(mimeparse.NewCursor(text))
		content.BodyType = "text/plain"
		return content
	}

	for _, r := range a.Resources() {
		h := r.Header
		if h.IsMultipart() {
			continue
		}

		// handle attachments
		fields := mimeheader.NewFields(h.Fields)
		if disp, dispParams, err := mime.ParseMediaType(fields.Decoded("content-disposition")); err == nil && disp == "attachment" {
			content.Attachments = append(content.Attachments, mimeheader.DecodeWords(dispParams["filename"]))
			continue
		}

		mt := h.MediaType()
		if content.Body == "" && (mt == "text/plain" || mt == "text/html") {
			body, err := resourceText(r)
			if err != nil {
				log.Info("converting body charset", slog.String("charset", h.Charset()), slog.Any("err", err))
				body = string(r.Body)
			}
			content.Body = body
			content.BodyType = mt
		}
	}
	return content
}

// parseDate tries to parse common email Date header formats and returns a time.Time.
// If parsing fails, it returns zero time.
func parseDate(dateStr string) time.Time {
	if dateStr == "" {
		return time.Time{}
	}
	if t, err := mail.ParseDate(dateStr); err == nil {
		return t
	}
	// common fallbacks
	layouts := []string{
		time.RFC1123Z,
		time.RFC1123,
		time.RFC822Z,
		time.RFC822,
		time.RFC850,
		time.RFC3339,
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, dateStr); err == nil {
			return t
		}
	}
	return time.Time{}
}

func decodeAddressList(header string, decoder *mime.WordDecoder) string {
	if header == "" {
		return ""
	}
	addrs, err := (&mail.AddressParser{WordDecoder: decoder}).ParseList(header)
	if err != nil {
		// Fallback: try to decode the whole header as an encoded-word
		if dec, e := decoder.DecodeHeader(header); e == nil {
			return dec
		}
		return header
	}
	var parts []string
	for _, a := range addrs {
		if a.Name != "" {
			parts = append(parts, a.Name+" <"+a.Address+">")
		} else {
			parts = append(parts, a.Address)
		}
	}
	return strings.Join(parts, ", ")
}
