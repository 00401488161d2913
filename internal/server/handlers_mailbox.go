package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"

	"github.com/emersion/go-imap/utf7"

	"github.com/emurenMRz/mimeview/internal/mimeheader"
)

func writeJSON(w http.ResponseWriter, log *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Info("writing response", slog.Any("err", err))
	}
}

// readMailbox resolves a mailbox name and reads its messages. It writes the
// error response itself and returns false on failure.
func readMailbox(w http.ResponseWriter, r *http.Request, log *slog.Logger, mailboxName string) ([]string, bool) {
	mboxPath, err := mailboxPath(mailboxName)
	if err != nil {
		http.Error(w, "Invalid mailbox name", http.StatusBadRequest)
		return nil, false
	}
	if _, err := os.Stat(mboxPath); err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	messages, err := ReadMessages(mboxPath)
	if err != nil {
		// Show what could be read before the error.
		log.Info("reading mailbox", slog.String("mailbox", mailboxName), slog.Any("err", err))
	}
	return messages, true
}

func mailboxesHandler(w http.ResponseWriter, _ *http.Request, log *slog.Logger) {
	files, err := os.ReadDir(basePath)
	if err != nil {
		http.Error(w, "Failed to read directory", http.StatusInternalServerError)
		return
	}

	mailboxes := []string{}
	for _, file := range files {
		if file.IsDir() || IsArchiveName(file.Name()) {
			continue
		}
		// Files on disk are IMAP-UTF7 encoded; decode to UTF-8 for API response
		decodedName, err := utf7.Encoding.NewDecoder().String(file.Name())
		if err != nil {
			log.Debug("decoding mailbox filename", slog.String("name", file.Name()), slog.Any("err", err))
			continue
		}
		mailboxes = append(mailboxes, decodedName)
	}

	writeJSON(w, log, mailboxes)
}

func listEmailsHandler(w http.ResponseWriter, r *http.Request, log *slog.Logger, mailboxName string) {
	messages, ok := readMailbox(w, r, log, mailboxName)
	if !ok {
		return
	}

	emails := []Email{}
	for i, text := range messages {
		header := mimeheader.Parse(text)
		status, _ := header.Get("status")
		if status == "D" {
			continue
		}
		if status == "" {
			// No Status field means the message is new.
			status = "N"
		}

		from, _ := header.Get("from")
		dateStr, _ := header.Get("date")
		emails = append(emails, Email{
			ID:        i,
			From:      decodeAddressList(from, mimeheader.WordDecoder),
			Date:      dateStr,
			Subject:   header.Decoded("subject"),
			Status:    status,
			Timestamp: parseDate(dateStr),
		})
	}

	// sort by Timestamp descending (newest first). Zero timestamps go last.
	sort.SliceStable(emails, func(a, b int) bool {
		ta := emails[a].Timestamp
		tb := emails[b].Timestamp
		if ta.Equal(tb) {
			return emails[a].ID < emails[b].ID
		}
		if ta.IsZero() {
			return false
		}
		if tb.IsZero() {
			return true
		}
		return ta.After(tb)
	})

	writeJSON(w, log, emails)
}

func emailContentHandler(w http.ResponseWriter, r *http.Request, log *slog.Logger, mailboxName string, emailIDStr string) {
	emailID, err := strconv.Atoi(emailIDStr)
	if err != nil {
		http.Error(w, "Invalid email ID", http.StatusBadRequest)
		return
	}

	messages, ok := readMailbox(w, r, log, mailboxName)
	if !ok {
		return
	}
	if emailID < 0 || emailID >= len(messages) {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, log, parseMessageContent(messages[emailID], log))
}

// mailboxLintHandler reports the RFC 5322 problems of all messages in a
// mailbox. Resource is the message index.
func mailboxLintHandler(w http.ResponseWriter, r *http.Request, log *slog.Logger, mailboxName string) {
	messages, ok := readMailbox(w, r, log, mailboxName)
	if !ok {
		return
	}

	results := []mimeheader.ValidationResult{}
	for i, text := range messages {
		results = append(results, mimeheader.ValidateMessage(mimeheader.Parse(text), i)...)
	}
	writeJSON(w, log, results)
}
