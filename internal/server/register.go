package server

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emurenMRz/mimeview/internal/mimeparse"
)

// Handler state set by RegisterHandlers. It is package wide, so a process
// serves one viewer: registering again changes the settings of every mux
// registered before.
var (
	basePath string
	logger   = slog.New(slog.NewTextHandler(io.Discard, nil))
	parser   = mimeparse.NewParser(mimeparse.Options{})
)

// RegisterHandlers registers HTTP handlers for the server on mux. Call this before ListenAndServe,
// and only once per process.
func RegisterHandlers(mux *http.ServeMux, cfg Config, log *slog.Logger) {
	basePath = cfg.Path
	logger = log
	parser = mimeparse.NewParser(mimeparse.Options{
		Logger:       log.With(slog.String("pkg", "mimeparse")),
		BinaryBodies: cfg.BinaryBodies,
	})

	mux.HandleFunc("/api/archives/", handleArchiveRoutes)
	mux.HandleFunc("/api/mailboxes/", handleMailboxRoutes)

	if cfg.Metrics {
		mux.Handle("/metrics", promhttp.Handler())
	}

	if cfg.Static == "" {
		return
	}

	// Serve static files under /static/ (API lives under /api/)
	fs := http.FileServer(http.Dir(cfg.Static))
	mux.Handle("/static/", http.StripPrefix("/static/", fs))

	// Ensure common MIME types are set (some platforms lack .css/.js by default)
	mime.AddExtensionType(".css", "text/css")
	mime.AddExtensionType(".js", "application/javascript")

	// Serve index at root
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(cfg.Static, "index.html"))
	})
}

// ListenAndServe is a thin wrapper to allow main to call server.ListenAndServe
func ListenAndServe(addr string, handler http.Handler) error {
	return http.ListenAndServe(addr, handler)
}
