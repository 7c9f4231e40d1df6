package audit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/repository"
)

type captureRepo struct {
	mu      sync.Mutex
	entries []model.AuditLog
}

func (r *captureRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.CreateBatch(ctx, []model.AuditLog{*entry})
}

func (r *captureRepo) CreateBatch(_ context.Context, entries []model.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *captureRepo) Query(context.Context, repository.AuditFilter) ([]model.AuditLog, int64, error) {
	return nil, 0, nil
}

func (r *captureRepo) stored() []model.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.AuditLog, len(r.entries))
	copy(out, r.entries)
	return out
}

func TestRecorder_CloseFlushesBufferedEntries(t *testing.T) {
	repo := &captureRepo{}
	recorder := NewRecorder(repo, nil)

	recorder.Record("orders.create", model.AuditStatusSuccess, 2, "nurse@home.example", "meal_orders", "order 11")
	recorder.Record("orders.create", model.AuditStatusFailure, 2, "nurse@home.example", "meal_orders", "inactive resident")
	recorder.Close()

	stored := repo.stored()
	if assert.Len(t, stored, 2) {
		assert.Equal(t, "orders.create", stored[0].Action)
		assert.Equal(t, model.AuditStatusSuccess, stored[0].Status)
		assert.Equal(t, model.AuditStatusFailure, stored[1].Status)
		assert.Equal(t, "nurse@home.example", stored[0].UserEmail)
	}
}

func TestRecorder_FlushesFullBatchWithoutClose(t *testing.T) {
	repo := &captureRepo{}
	recorder := NewRecorder(repo, nil)
	defer recorder.Close()

	for i := 0; i < batchSize; i++ {
		recorder.Record("residents.list", model.AuditStatusSuccess, 1, "admin@home.example", "residents", "")
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(repo.stored()) == batchSize {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.Len(t, repo.stored(), batchSize)
}

func TestRecorder_RecordDenied(t *testing.T) {
	repo := &captureRepo{}
	recorder := NewRecorder(repo, nil)

	recorder.RecordDenied("users.delete", 3, "cook@home.example", "users")
	recorder.Close()

	stored := repo.stored()
	if assert.Len(t, stored, 1) {
		assert.Equal(t, model.AuditStatusDenied, stored[0].Status)
		assert.Equal(t, "insufficient role", stored[0].Details)
	}
}
