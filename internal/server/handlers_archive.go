package server

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/emurenMRz/mimeview/internal/loader"
	"github.com/emurenMRz/mimeview/internal/metrics"
	"github.com/emurenMRz/mimeview/internal/mimeheader"
	"github.com/emurenMRz/mimeview/internal/mimeparse"
)

func archivesHandler(w http.ResponseWriter, _ *http.Request, log *slog.Logger) {
	files, err := os.ReadDir(basePath)
	if err != nil {
		http.Error(w, "Failed to read directory", http.StatusInternalServerError)
		return
	}

	archives := []string{}
	for _, file := range files {
		if !file.IsDir() && IsArchiveName(file.Name()) {
			archives = append(archives, file.Name())
		}
	}
	writeJSON(w, log, archives)
}

// loadArchiveText reads an archive file. It writes the error response itself
// and returns false on failure.
func loadArchiveText(w http.ResponseWriter, r *http.Request, log *slog.Logger, name string) (string, bool) {
	p, err := archivePath(name)
	if err != nil {
		http.Error(w, "Invalid archive name", http.StatusBadRequest)
		return "", false
	}
	text, err := loader.Load(p)
	if errors.Is(err, fs.ErrNotExist) {
		http.NotFound(w, r)
		return "", false
	} else if err != nil {
		log.Info("loading archive", slog.String("archive", name), slog.Any("err", err))
		http.Error(w, "Cannot read archive: "+err.Error(), http.StatusUnprocessableEntity)
		return "", false
	}
	return text, true
}

func loadArchive(w http.ResponseWriter, r *http.Request, log *slog.Logger, name string) (*mimeparse.Archive, bool) {
	text, ok := loadArchiveText(w, r, log, name)
	if !ok {
		return nil, false
	}

	start := time.Now()
	a, err := parser.Parse(text)
	metrics.ParseObserve("archive", a, err, start)
	if err != nil {
		log.Info("parsing archive", slog.String("archive", name), slog.Any("err", err))
		http.Error(w, "Cannot parse archive: "+err.Error(), http.StatusUnprocessableEntity)
		return nil, false
	}
	return a, true
}

func archiveSummaryHandler(w http.ResponseWriter, r *http.Request, log *slog.Logger, name string) {
	a, ok := loadArchive(w, r, log, name)
	if !ok {
		return
	}

	doc := a.MainResource.Header
	fields := mimeheader.NewFields(doc.Fields)
	date, _ := fields.Get("date")
	summary := ArchiveSummary{
		Name:      name,
		MediaType: doc.MediaType(),
		Subject:   fields.Decoded("subject"),
		Date:      date,
		Resources: []ResourceSummary{},
	}
	if doc.ContentLocation != nil {
		summary.Location = *doc.ContentLocation
	}

	for i, res := range a.Resources() {
		h := res.Header
		rs := ResourceSummary{
			Index:     i,
			ID:        mimeheader.ResourceID(mimeheader.NewFields(h.Fields)),
			MediaType: h.MediaType(),
			Encoding:  h.ContentTransferEncoding.String(),
			Size:      len(res.Body),
			SizeText:  humanize.Bytes(uint64(len(res.Body))),
		}
		if h.ContentLocation != nil {
			rs.Location = *h.ContentLocation
		}
		summary.Resources = append(summary.Resources, rs)
	}
	writeJSON(w, log, summary)
}

// resourceHandler serves the decoded body of a resource with its media type.
// Text is served as UTF-8.
func resourceHandler(w http.ResponseWriter, r *http.Request, log *slog.Logger, name string, indexStr string) {
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		http.Error(w, "Invalid resource index", http.StatusBadRequest)
		return
	}

	a, ok := loadArchive(w, r, log, name)
	if !ok {
		return
	}
	resources := a.Resources()
	if index < 0 || index >= len(resources) {
		http.NotFound(w, r)
		return
	}

	res := resources[index]
	mt := res.Header.MediaType()
	body := res.Body
	if strings.HasPrefix(mt, "text/") {
		text, err := resourceText(res)
		if err != nil {
			log.Info("converting resource charset", slog.String("charset", res.Header.Charset()), slog.Any("err", err))
			http.Error(w, "Cannot convert resource: "+err.Error(), http.StatusUnprocessableEntity)
			return
		}
		body = []byte(text)
		mt += "; charset=utf-8"
	}

	w.Header().Set("Content-Type", mt)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	if _, err := w.Write(body); err != nil {
		log.Info("writing resource", slog.Any("err", err))
	}
}

// archiveLintHandler reports all problems in an archive. It also works for
// archives the parser rejects.
func archiveLintHandler(w http.ResponseWriter, r *http.Request, log *slog.Logger, name string) {
	text, ok := loadArchiveText(w, r, log, name)
	if !ok {
		return
	}
	results := mimeheader.LintArchive(text)
	if results == nil {
		results = []mimeheader.ValidationResult{}
	}
	writeJSON(w, log, results)
}
