// Package metrics has prometheus metric variables/functions.
package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/emurenMRz/mimeview/internal/mimeparse"
)

var (
	metricParse = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mimeview_parse_duration_seconds",
			Help:    "Document parses and their results.",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{
			"source", // archive, mailbox, check, append
			"result", // ok, structure, header, decoding, other
		},
	)
	metricResources = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mimeview_parse_resources_total",
			Help: "Resources in successfully parsed documents, by content-transfer-encoding.",
		},
		[]string{
			"encoding", // passthrough, quoted-printable, base64, other
		},
	)
)

// ParseResult classifies a parse error for the result label.
func ParseResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, mimeparse.ErrInvalidHeader):
		return "header"
	case errors.Is(err, mimeparse.ErrBodyConversionFailure),
		errors.Is(err, mimeparse.ErrDecodingFailure),
		errors.Is(err, mimeparse.ErrUnsupportedEncodingScheme):
		return "decoding"
	case errors.Is(err, mimeparse.ErrMissingDocumentHeader),
		errors.Is(err, mimeparse.ErrMissingPartHeader),
		errors.Is(err, mimeparse.ErrMissingBoundaryInMultipartDocument),
		errors.Is(err, mimeparse.ErrMissingMultipartBodyStartMarker),
		errors.Is(err, mimeparse.ErrMissingPartBoundary):
		return "structure"
	}
	return "other"
}

// ParseObserve records a parse that started at start.
func ParseObserve(source string, a *mimeparse.Archive, err error, start time.Time) {
	metricParse.WithLabelValues(source, ParseResult(err)).Observe(float64(time.Since(start)) / float64(time.Second))
	if a == nil {
		return
	}
	for _, r := range a.Resources() {
		if r.Header != nil {
			metricResources.WithLabelValues(r.Header.ContentTransferEncoding.String()).Inc()
		}
	}
}
