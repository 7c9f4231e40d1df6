package service

import (
	"context"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/KooroshTorabi/meal-planner-sub002/internal/auth"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
)

func hashedPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	assert.NoError(t, err)
	return string(hash)
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
		expectPending bool
	}{
		{
			name:     "successful login",
			email:    "clara@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "clara@example.com").Return(&model.User{
					ID:           7,
					Email:        "clara@example.com",
					PasswordHash: hashedPassword(t, "password123"),
					Role:         model.RoleCaregiver,
					Active:       true,
				}, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(7), "clara@example.com", "caregiver", mock.Anything).Return(nil)
			},
		},
		{
			name:     "invalid credentials - user not found",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "invalid credentials - wrong password",
			email:    "clara@example.com",
			password: "wrong",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "clara@example.com").Return(&model.User{
					ID:           7,
					Email:        "clara@example.com",
					PasswordHash: hashedPassword(t, "password123"),
					Active:       true,
				}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "inactive user is rejected",
			email:    "former@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "former@example.com").Return(&model.User{
					ID:           8,
					Email:        "former@example.com",
					PasswordHash: hashedPassword(t, "password123"),
					Active:       false,
				}, nil)
			},
			expectedError: ErrUserInactive,
		},
		{
			name:     "2fa enabled returns pending token",
			email:    "admin@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(&model.User{
					ID:           1,
					Email:        "admin@example.com",
					PasswordHash: hashedPassword(t, "password123"),
					Role:         model.RoleAdmin,
					Active:       true,
					TOTPSecret:   "JBSWY3DPEHPK3PXP",
				}, nil)
			},
			expectPending: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			jwtService := auth.NewJWTService("test-secret")
			service := NewAuthService(mockRepo, jwtService, mockTokenStore)

			result, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, result)
			} else if tt.expectPending {
				assert.NoError(t, err)
				assert.True(t, result.TwoFactorPending)
				assert.NotEmpty(t, result.PendingToken)
				assert.Empty(t, result.AccessToken)
				assert.Empty(t, result.RefreshToken)
			} else {
				assert.NoError(t, err)
				assert.False(t, result.TwoFactorPending)
				assert.NotEmpty(t, result.AccessToken)
				assert.NotEmpty(t, result.RefreshToken)
				assert.Equal(t, tt.email, result.User.Email)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login_PendingTokenCarriesFlag(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokenStore := new(MockTokenStore)
	mockRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(&model.User{
		ID:           1,
		Email:        "admin@example.com",
		PasswordHash: hashedPassword(t, "password123"),
		Role:         model.RoleAdmin,
		Active:       true,
		TOTPSecret:   "JBSWY3DPEHPK3PXP",
	}, nil)

	jwtService := auth.NewJWTService("test-secret")
	service := NewAuthService(mockRepo, jwtService, mockTokenStore)

	result, err := service.Login(context.Background(), "admin@example.com", "password123")
	assert.NoError(t, err)

	claims, err := jwtService.ValidateToken(result.PendingToken)
	assert.NoError(t, err)
	assert.True(t, claims.TwoFactorPending)
	assert.Equal(t, uint(1), claims.UserID)
}

func TestAuthService_VerifyTOTP(t *testing.T) {
	const secret = "JBSWY3DPEHPK3PXP"
	user := &model.User{
		ID:         1,
		Email:      "admin@example.com",
		Role:       model.RoleAdmin,
		Active:     true,
		TOTPSecret: secret,
	}

	jwtService := auth.NewJWTService("test-secret")
	pendingToken, err := jwtService.GeneratePendingToken(user.ID, user.Email, string(user.Role))
	assert.NoError(t, err)

	t.Run("valid code issues token pair", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokenStore := new(MockTokenStore)
		mockRepo.On("FindByID", mock.Anything, uint(1)).Return(user, nil)
		mockTokenStore.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(1), "admin@example.com", "admin", mock.Anything).Return(nil)

		code, err := totp.GenerateCode(secret, time.Now())
		assert.NoError(t, err)

		service := NewAuthService(mockRepo, jwtService, mockTokenStore)
		result, err := service.VerifyTOTP(context.Background(), pendingToken, code)
		assert.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		mockTokenStore.AssertExpectations(t)
	})

	t.Run("wrong code is rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(1)).Return(user, nil)

		service := NewAuthService(mockRepo, jwtService, new(MockTokenStore))
		result, err := service.VerifyTOTP(context.Background(), pendingToken, "000000")
		assert.ErrorIs(t, err, ErrInvalidTOTPCode)
		assert.Nil(t, result)
	})

	t.Run("access token is not accepted as pending token", func(t *testing.T) {
		accessToken, err := jwtService.GenerateAccessToken(user.ID, user.Email, string(user.Role))
		assert.NoError(t, err)

		service := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))
		result, err := service.VerifyTOTP(context.Background(), accessToken, "123456")
		assert.ErrorIs(t, err, ErrTwoFactorNotPending)
		assert.Nil(t, result)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")

	t.Run("valid refresh token", func(t *testing.T) {
		tokenID, refreshToken, err := jwtService.GenerateRefreshToken(7, "clara@example.com", "caregiver")
		assert.NoError(t, err)

		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(7), "clara@example.com", "caregiver", nil)

		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)
		accessToken, err := service.RefreshToken(context.Background(), refreshToken)
		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)

		claims, err := jwtService.ValidateToken(accessToken)
		assert.NoError(t, err)
		assert.Equal(t, "caregiver", claims.Role)
	})

	t.Run("unknown token id is rejected", func(t *testing.T) {
		_, refreshToken, err := jwtService.GenerateRefreshToken(7, "clara@example.com", "caregiver")
		assert.NoError(t, err)

		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, mock.Anything).Return(uint(0), "", "", assert.AnError)

		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)
		_, err = service.RefreshToken(context.Background(), refreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		service := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))
		_, err := service.RefreshToken(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(7, "clara@example.com", "caregiver")
	assert.NoError(t, err)

	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

	service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)
	assert.NoError(t, service.Logout(context.Background(), refreshToken))
	mockTokenStore.AssertExpectations(t)
}
