package handler

import (
	"fmt"
	"net/http"

	"github.com/userdock/userdock/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "userdock_list_cache_hits_total %d\n", snap.ListCacheHits)
	writeMetric(w, "userdock_list_cache_misses_total %d\n", snap.ListCacheMisses)
	writeMetric(w, "userdock_list_duration_seconds_count %d\n", snap.ListDurationCount)
	writeMetric(w, "userdock_list_duration_seconds_sum %.6f\n", float64(snap.ListDurationTotalNs)/1e9)

	writeMetric(w, "userdock_users_created_total %d\n", snap.UsersCreated)
	writeMetric(w, "userdock_users_updated_total %d\n", snap.UsersUpdated)
	writeMetric(w, "userdock_users_deleted_total %d\n", snap.UsersDeleted)

	writeMetric(w, "userdock_audit_events_published_total{status=\"success\"} %d\n", snap.AuditEventsPublished)
	writeMetric(w, "userdock_audit_events_published_total{status=\"dropped\"} %d\n", snap.AuditEventsDropped)

	writeMetric(w, "userdock_audit_events_processed_total{status=\"success\"} %d\n", snap.AuditEventsProcessed)
	writeMetric(w, "userdock_audit_events_processed_total{status=\"failed\"} %d\n", snap.AuditEventsFailed)
	writeMetric(w, "userdock_audit_events_processed_total{status=\"dead_lettered\"} %d\n", snap.AuditEventsDeadLettered)

	writeMetric(w, "userdock_audit_batches_total %d\n", snap.AuditBatchCount)
	writeMetric(w, "userdock_audit_queue_depth %d\n", snap.AuditQueueDepth)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
