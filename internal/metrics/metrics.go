package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// SnapshotSaves counts whole-collection snapshot writes by collection (users, items).
	SnapshotSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_saves_total",
			Help: "Total number of snapshot writes by collection",
		},
		[]string{"collection"},
	)

	// BackupsTotal counts snapshot backup runs by status (completed, error).
	BackupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_backups_total",
			Help: "Total number of snapshot backup runs by status",
		},
		[]string{"status"},
	)
)

var (
	idPathSegment = regexp.MustCompile(`^(/api/items/)[^/]+$`)
	initOnce      sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, SnapshotSaves, BackupsTotal)
	})
}

// NormalizePath reduces cardinality by replacing the item id segment with {id}.
// E.g. /api/items/42 -> /api/items/{id}.
func NormalizePath(path string) string {
	return idPathSegment.ReplaceAllString(path, "${1}{id}")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncSnapshotSave increments the snapshot write counter for a collection.
func IncSnapshotSave(collection string) {
	SnapshotSaves.WithLabelValues(collection).Inc()
}

// IncBackup increments the backup counter for the given status (completed, error).
func IncBackup(status string) {
	BackupsTotal.WithLabelValues(status).Inc()
}
