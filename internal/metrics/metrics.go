// Package metrics exposes the process-wide Prometheus instruments.
// Served by the HTTP surface at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts observation records appended to the
	// record store.
	SubmissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldbook_submissions_total",
		Help: "Number of observation records persisted.",
	})

	// MediaUploadsTotal counts media files stored successfully.
	MediaUploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldbook_media_uploads_total",
		Help: "Number of media files uploaded to the media store.",
	})

	// MediaUploadFailures counts media uploads that failed. Failures do
	// not abort the rest of a batch, so this can grow while uploads
	// still succeed overall.
	MediaUploadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldbook_media_upload_failures_total",
		Help: "Number of media uploads that failed.",
	})
)
