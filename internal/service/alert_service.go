package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/KooroshTorabi/meal-planner-sub002/internal/errors"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/repository"
)

// AlertService exposes alert operations including the escalation sweep.
type AlertService interface {
	CreateAlert(ctx context.Context, message string) (*model.Alert, error)
	ListAlerts(ctx context.Context, acknowledged *bool, page, limit int) ([]model.Alert, int64, error)
	Acknowledge(ctx context.Context, id, userID uint) (*model.Alert, error)
	// EscalateOverdue marks unacknowledged alerts older than maxAge as
	// escalated and returns the count. Safe to re-run.
	EscalateOverdue(ctx context.Context, maxAge time.Duration) (int64, error)
}

type alertService struct {
	repo repository.AlertRepository
}

// NewAlertService builds an AlertService.
func NewAlertService(repo repository.AlertRepository) AlertService {
	return &alertService{repo: repo}
}

// CreateAlert creates an unacknowledged alert.
func (s *alertService) CreateAlert(ctx context.Context, message string) (*model.Alert, error) {
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", apperrors.ErrValidation)
	}
	alert := &model.Alert{Message: message}
	if err := s.repo.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}
	return alert, nil
}

// ListAlerts returns a page of alerts, newest first.
func (s *alertService) ListAlerts(ctx context.Context, acknowledged *bool, page, limit int) ([]model.Alert, int64, error) {
	return s.repo.List(ctx, acknowledged, page, limit)
}

// Acknowledge marks an alert as handled by the given user. A second
// acknowledge attempt is a conflict.
func (s *alertService) Acknowledge(ctx context.Context, id, userID uint) (*model.Alert, error) {
	alert, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAlertNotFound
		}
		return nil, err
	}
	if alert.Acknowledged {
		return nil, apperrors.ErrAlertAcknowledged
	}

	now := time.Now()
	alert.Acknowledged = true
	alert.AcknowledgedBy = &userID
	alert.AcknowledgedAt = &now
	if err := s.repo.Update(ctx, alert); err != nil {
		return nil, fmt.Errorf("acknowledge alert: %w", err)
	}
	return alert, nil
}

// EscalateOverdue runs the escalation sweep.
func (s *alertService) EscalateOverdue(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)
	return s.repo.EscalateOlderThan(ctx, cutoff)
}
