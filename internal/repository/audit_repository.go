package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
)

// AuditFilter carries the query parameters for audit log lookup.
type AuditFilter struct {
	UserID   uint
	Email    string
	Action   string
	Status   model.AuditStatus
	Resource string
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int
}

// AuditLogRepository defines audit log persistence operations.
// The table is append-only; there is no update or delete.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	CreateBatch(ctx context.Context, entries []model.AuditLog) error
	Query(ctx context.Context, filter AuditFilter) ([]model.AuditLog, int64, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository.
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

// Create appends a single audit log entry.
func (r *auditLogRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CreateBatch appends multiple audit log entries in one round trip.
func (r *auditLogRepository) CreateBatch(ctx context.Context, entries []model.AuditLog) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(entries, 100).Error
}

// Query returns a page of audit log entries matching the filter, newest first.
func (r *auditLogRepository) Query(ctx context.Context, filter AuditFilter) ([]model.AuditLog, int64, error) {
	filter.Page, filter.Limit = NormalizePage(filter.Page, filter.Limit)

	q := r.db.WithContext(ctx).Model(&model.AuditLog{})
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Email != "" {
		q = q.Where("user_email = ?", filter.Email)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Resource != "" {
		q = q.Where("resource = ?", filter.Resource)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.AuditLog
	offset := (filter.Page - 1) * filter.Limit
	if err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
