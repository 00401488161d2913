package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

func requestLogger(r *http.Request) *slog.Logger {
	log := logger.With(slog.String("cid", uuid.NewString()))
	log.Info("request", slog.String("method", r.Method), slog.String("path", r.URL.Path))
	return log
}

// handleArchiveRoutes dispatches
//
//	/api/archives/
//	/api/archives/{name}
//	/api/archives/{name}/lint
//	/api/archives/{name}/resources/{index}
func handleArchiveRoutes(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/archives/"), "/")
	segmentCount := len(parts)

	if segmentCount == 1 && parts[0] == "" {
		archivesHandler(w, r, log)
		return
	}

	name := parts[0]
	switch {
	case segmentCount == 1:
		archiveSummaryHandler(w, r, log, name)
	case segmentCount == 2 && parts[1] == "lint":
		archiveLintHandler(w, r, log, name)
	case segmentCount == 3 && parts[1] == "resources":
		resourceHandler(w, r, log, name, parts[2])
	default:
		http.NotFound(w, r)
	}
}

// handleMailboxRoutes dispatches
//
//	/api/mailboxes/
//	/api/mailboxes/{mbox}/emails
//	/api/mailboxes/{mbox}/emails/{id}
//	/api/mailboxes/{mbox}/lint
func handleMailboxRoutes(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/mailboxes/"), "/")
	segmentCount := len(parts)

	if segmentCount == 1 {
		mailboxesHandler(w, r, log)
		return
	}

	mboxName := parts[0]
	switch {
	case parts[1] == "emails" && segmentCount == 2:
		listEmailsHandler(w, r, log, mboxName)
	case parts[1] == "emails" && segmentCount == 3:
		emailContentHandler(w, r, log, mboxName, parts[2])
	case parts[1] == "lint" && segmentCount == 2:
		mailboxLintHandler(w, r, log, mboxName)
	default:
		http.NotFound(w, r)
	}
}
