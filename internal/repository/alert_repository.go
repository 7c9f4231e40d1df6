package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
)

// AlertRepository defines alert persistence operations.
type AlertRepository interface {
	Create(ctx context.Context, alert *model.Alert) error
	Update(ctx context.Context, alert *model.Alert) error
	FindByID(ctx context.Context, id uint) (*model.Alert, error)
	List(ctx context.Context, acknowledged *bool, page, limit int) ([]model.Alert, int64, error)
	// EscalateOlderThan marks unacknowledged, not-yet-escalated alerts
	// created before cutoff as escalated and returns how many changed.
	// The escalated=false predicate makes re-runs no-ops.
	EscalateOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type alertRepository struct {
	db *gorm.DB
}

// NewAlertRepository creates a new alert repository.
func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

// Create creates a new alert.
func (r *alertRepository) Create(ctx context.Context, alert *model.Alert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

// Update updates an existing alert.
func (r *alertRepository) Update(ctx context.Context, alert *model.Alert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

// FindByID finds an alert by ID.
func (r *alertRepository) FindByID(ctx context.Context, id uint) (*model.Alert, error) {
	var alert model.Alert
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&alert).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

// List returns a page of alerts, newest first.
func (r *alertRepository) List(ctx context.Context, acknowledged *bool, page, limit int) ([]model.Alert, int64, error) {
	page, limit = NormalizePage(page, limit)

	q := r.db.WithContext(ctx).Model(&model.Alert{})
	if acknowledged != nil {
		q = q.Where("acknowledged = ?", *acknowledged)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var alerts []model.Alert
	if err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&alerts).Error; err != nil {
		return nil, 0, err
	}
	return alerts, total, nil
}

// EscalateOlderThan performs the escalation sweep as a single UPDATE.
func (r *alertRepository) EscalateOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&model.Alert{}).
		Where("acknowledged = ? AND escalated = ? AND created_at < ?", false, false, cutoff).
		Updates(map[string]interface{}{"escalated": true, "escalated_at": now})
	return res.RowsAffected, res.Error
}
