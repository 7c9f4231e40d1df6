package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "github.com/KooroshTorabi/meal-planner-sub002/internal/errors"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
)

func TestUserService_CreateUser(t *testing.T) {
	tests := []struct {
		name      string
		input     CreateUserInput
		setupMock func(repo *MockUserRepository)
		wantErr   error
	}{
		{
			name:  "valid caregiver",
			input: CreateUserInput{Name: "Jonas Weber", Email: "jonas@home.example", Password: "s3cret!pw", Role: model.RoleCaregiver},
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByEmail", mock.Anything, "jonas@home.example").Return(nil, gorm.ErrRecordNotFound)
				repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:  "duplicate email",
			input: CreateUserInput{Name: "Jonas Weber", Email: "jonas@home.example", Password: "s3cret!pw", Role: model.RoleCaregiver},
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByEmail", mock.Anything, "jonas@home.example").Return(&model.User{ID: 1}, nil)
			},
			wantErr: apperrors.ErrEmailTaken,
		},
		{
			name:      "unknown role",
			input:     CreateUserInput{Name: "Jonas Weber", Email: "jonas@home.example", Password: "s3cret!pw", Role: "janitor"},
			setupMock: func(repo *MockUserRepository) {},
			wantErr:   apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)
			service := NewUserService(repo)

			user, err := service.CreateUser(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			assert.NoError(t, err)
			assert.True(t, user.Active)
			assert.NotEqual(t, tt.input.Password, user.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.input.Password)))
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_UpdateUser(t *testing.T) {
	existing := func() *model.User {
		return &model.User{ID: 4, Name: "Jonas Weber", Email: "jonas@home.example", Role: model.RoleCaregiver, Active: true}
	}

	t.Run("role change and deactivation", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, uint(4)).Return(existing(), nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		service := NewUserService(repo)
		kitchen := model.RoleKitchen
		inactive := false
		user, err := service.UpdateUser(context.Background(), 4, UpdateUserInput{Role: &kitchen, Active: &inactive})
		assert.NoError(t, err)
		assert.Equal(t, model.RoleKitchen, user.Role)
		assert.False(t, user.Active)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, uint(4)).Return(existing(), nil)

		service := NewUserService(repo)
		bogus := model.Role("janitor")
		_, err := service.UpdateUser(context.Background(), 4, UpdateUserInput{Role: &bogus})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing user maps to not found", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		service := NewUserService(repo)
		_, err := service.UpdateUser(context.Background(), 99, UpdateUserInput{})
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}
