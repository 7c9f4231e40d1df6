package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/KooroshTorabi/meal-planner-sub002/internal/events"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/repository"
)

const (
	channelCapacity = 100
	batchSize       = 10
	flushInterval   = 1 * time.Second
)

// Recorder appends audit log entries asynchronously. Record never
// blocks: entries go through a bounded channel and a background worker
// batches the inserts. When the channel is full the entry is dropped —
// audit logging is best-effort and must not slow down requests.
type Recorder struct {
	repo      repository.AuditLogRepository
	publisher *events.Publisher
	entries   chan model.AuditLog
	done      chan struct{}
}

// NewRecorder builds a Recorder and starts its worker goroutine.
// publisher may be nil, in which case entries only go to the database.
func NewRecorder(repo repository.AuditLogRepository, publisher *events.Publisher) *Recorder {
	r := &Recorder{
		repo:      repo,
		publisher: publisher,
		entries:   make(chan model.AuditLog, channelCapacity),
		done:      make(chan struct{}),
	}
	go r.worker(context.Background())
	return r
}

// Record enqueues one audit entry. Drops silently when the buffer is full.
func (r *Recorder) Record(action string, status model.AuditStatus, userID uint, email, resource, details string) {
	entry := model.AuditLog{
		Action:    action,
		Status:    status,
		UserID:    userID,
		UserEmail: email,
		Resource:  resource,
		Details:   details,
		CreatedAt: time.Now(),
	}
	select {
	case r.entries <- entry:
	default:
		// buffer full; drop rather than block the request
	}
}

// RecordDenied is a shorthand for logging an authorization denial.
func (r *Recorder) RecordDenied(action string, userID uint, email, resource string) {
	r.Record(action, model.AuditStatusDenied, userID, email, resource, "insufficient role")
}

// Close stops the worker after flushing buffered entries.
func (r *Recorder) Close() {
	close(r.entries)
	<-r.done
}

// worker batches entries and flushes them on size or interval.
func (r *Recorder) worker(ctx context.Context) {
	defer close(r.done)

	batch := make([]model.AuditLog, 0, batchSize)
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		_ = r.repo.CreateBatch(ctx, batch)
		batch = batch[:0]
	}

	for {
		select {
		case entry, ok := <-r.entries:
			if !ok {
				flush()
				return
			}
			r.mirror(entry)
			batch = append(batch, entry)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			flush()
			return
		}
	}
}

// mirror publishes the entry to Kafka when a publisher is configured.
func (r *Recorder) mirror(entry model.AuditLog) {
	if r.publisher == nil {
		return
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return
	}
	key := fmt.Sprintf("%s:%d", entry.Action, entry.UserID)
	r.publisher.Publish([]byte(key), payload)
}
