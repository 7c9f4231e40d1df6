package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "github.com/KooroshTorabi/meal-planner-sub002/internal/errors"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
)

func TestAlertService_Acknowledge(t *testing.T) {
	t.Run("first acknowledge records user and time", func(t *testing.T) {
		repo := new(MockAlertRepository)
		repo.On("FindByID", mock.Anything, uint(5)).Return(&model.Alert{ID: 5, Message: "missed breakfast order"}, nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*model.Alert")).Return(nil)

		service := NewAlertService(repo)
		alert, err := service.Acknowledge(context.Background(), 5, 2)
		assert.NoError(t, err)
		assert.True(t, alert.Acknowledged)
		if assert.NotNil(t, alert.AcknowledgedBy) {
			assert.Equal(t, uint(2), *alert.AcknowledgedBy)
		}
		assert.NotNil(t, alert.AcknowledgedAt)
		repo.AssertExpectations(t)
	})

	t.Run("second acknowledge conflicts", func(t *testing.T) {
		ackedBy := uint(2)
		repo := new(MockAlertRepository)
		repo.On("FindByID", mock.Anything, uint(5)).Return(&model.Alert{ID: 5, Acknowledged: true, AcknowledgedBy: &ackedBy}, nil)

		service := NewAlertService(repo)
		_, err := service.Acknowledge(context.Background(), 5, 3)
		assert.ErrorIs(t, err, apperrors.ErrAlertAcknowledged)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing alert maps to not found", func(t *testing.T) {
		repo := new(MockAlertRepository)
		repo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		service := NewAlertService(repo)
		_, err := service.Acknowledge(context.Background(), 99, 2)
		assert.ErrorIs(t, err, apperrors.ErrAlertNotFound)
	})
}

func TestAlertService_CreateAlert(t *testing.T) {
	t.Run("empty message rejected", func(t *testing.T) {
		service := NewAlertService(new(MockAlertRepository))
		_, err := service.CreateAlert(context.Background(), "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("new alert starts unacknowledged", func(t *testing.T) {
		repo := new(MockAlertRepository)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Alert")).Return(nil)

		service := NewAlertService(repo)
		alert, err := service.CreateAlert(context.Background(), "resident 7 has no lunch order")
		assert.NoError(t, err)
		assert.False(t, alert.Acknowledged)
		assert.False(t, alert.Escalated)
	})
}

func TestAlertService_EscalateOverdue(t *testing.T) {
	repo := new(MockAlertRepository)
	var gotCutoff time.Time
	repo.On("EscalateOlderThan", mock.Anything, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			gotCutoff = args.Get(1).(time.Time)
		}).
		Return(int64(3), nil)

	service := NewAlertService(repo)
	before := time.Now().Add(-30 * time.Minute)
	count, err := service.EscalateOverdue(context.Background(), 30*time.Minute)
	after := time.Now().Add(-30 * time.Minute)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.False(t, gotCutoff.Before(before))
	assert.False(t, gotCutoff.After(after))
}
