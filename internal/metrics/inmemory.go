package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	ListCacheHits           uint64
	ListCacheMisses         uint64
	ListDurationCount       uint64
	ListDurationTotalNs     int64
	UsersCreated            uint64
	UsersUpdated            uint64
	UsersDeleted            uint64
	AuditEventsPublished    uint64
	AuditEventsDropped      uint64
	AuditEventsProcessed    uint64
	AuditEventsFailed       uint64
	AuditEventsDeadLettered uint64
	AuditBatchCount         uint64
	AuditQueueDepth         int64
}

// InMemoryRecorder stores metrics in memory using atomic counters.
type InMemoryRecorder struct {
	listCacheHits           uint64
	listCacheMisses         uint64
	listDurationCount       uint64
	listDurationTotalNs     int64
	usersCreated            uint64
	usersUpdated            uint64
	usersDeleted            uint64
	auditEventsPublished    uint64
	auditEventsDropped      uint64
	auditEventsProcessed    uint64
	auditEventsFailed       uint64
	auditEventsDeadLettered uint64
	auditBatchCount         uint64
	auditQueueDepth         int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		ListCacheHits:           atomic.LoadUint64(&m.listCacheHits),
		ListCacheMisses:         atomic.LoadUint64(&m.listCacheMisses),
		ListDurationCount:       atomic.LoadUint64(&m.listDurationCount),
		ListDurationTotalNs:     atomic.LoadInt64(&m.listDurationTotalNs),
		UsersCreated:            atomic.LoadUint64(&m.usersCreated),
		UsersUpdated:            atomic.LoadUint64(&m.usersUpdated),
		UsersDeleted:            atomic.LoadUint64(&m.usersDeleted),
		AuditEventsPublished:    atomic.LoadUint64(&m.auditEventsPublished),
		AuditEventsDropped:      atomic.LoadUint64(&m.auditEventsDropped),
		AuditEventsProcessed:    atomic.LoadUint64(&m.auditEventsProcessed),
		AuditEventsFailed:       atomic.LoadUint64(&m.auditEventsFailed),
		AuditEventsDeadLettered: atomic.LoadUint64(&m.auditEventsDeadLettered),
		AuditBatchCount:         atomic.LoadUint64(&m.auditBatchCount),
		AuditQueueDepth:         atomic.LoadInt64(&m.auditQueueDepth),
	}
}

// IncListCacheHit increments the listing cache hit counter.
func (m *InMemoryRecorder) IncListCacheHit() {
	atomic.AddUint64(&m.listCacheHits, 1)
}

// IncListCacheMiss increments the listing cache miss counter.
func (m *InMemoryRecorder) IncListCacheMiss() {
	atomic.AddUint64(&m.listCacheMisses, 1)
}

// ObserveListDuration records a list operation duration.
func (m *InMemoryRecorder) ObserveListDuration(duration time.Duration) {
	atomic.AddUint64(&m.listDurationCount, 1)
	atomic.AddInt64(&m.listDurationTotalNs, duration.Nanoseconds())
}

// IncUserCreated increments the user created counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncUserUpdated increments the user updated counter.
func (m *InMemoryRecorder) IncUserUpdated() {
	atomic.AddUint64(&m.usersUpdated, 1)
}

// IncUserDeleted increments the user deleted counter.
func (m *InMemoryRecorder) IncUserDeleted() {
	atomic.AddUint64(&m.usersDeleted, 1)
}

// IncAuditEventPublished increments the publish counter for a status.
func (m *InMemoryRecorder) IncAuditEventPublished(status string) {
	switch status {
	case "success":
		atomic.AddUint64(&m.auditEventsPublished, 1)
	case "dropped":
		atomic.AddUint64(&m.auditEventsDropped, 1)
	}
}

// IncAuditEventProcessed increments the processed counter for a status.
func (m *InMemoryRecorder) IncAuditEventProcessed(status string) {
	switch status {
	case "success":
		atomic.AddUint64(&m.auditEventsProcessed, 1)
	case "failed":
		atomic.AddUint64(&m.auditEventsFailed, 1)
	case "dead_lettered":
		atomic.AddUint64(&m.auditEventsDeadLettered, 1)
	}
}

// ObserveAuditBatchSize records a processed batch.
func (m *InMemoryRecorder) ObserveAuditBatchSize(size int) {
	atomic.AddUint64(&m.auditBatchCount, 1)
}

// SetAuditQueueDepth records the current audit stream backlog.
func (m *InMemoryRecorder) SetAuditQueueDepth(depth int64) {
	atomic.StoreInt64(&m.auditQueueDepth, depth)
}
