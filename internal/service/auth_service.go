package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/KooroshTorabi/meal-planner-sub002/internal/auth"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/repository"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserInactive is returned when a deactivated user tries to log in.
	ErrUserInactive = errors.New("user account is inactive")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrInvalidTOTPCode is returned when the 2FA code does not verify.
	ErrInvalidTOTPCode = errors.New("invalid two-factor code")
	// ErrTwoFactorNotPending is returned when the 2FA verify endpoint gets
	// a token that is not a pending token.
	ErrTwoFactorNotPending = errors.New("token is not pending two-factor verification")
)

// LoginResult is the outcome of the password step. When the user has
// 2FA enabled only PendingToken is set and the caller must follow up
// with VerifyTOTP.
type LoginResult struct {
	AccessToken      string
	RefreshToken     string
	TwoFactorPending bool
	PendingToken     string
	User             *model.User
}

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	VerifyTOTP(ctx context.Context, pendingToken, code string) (*LoginResult, error)
	SetupTOTP(ctx context.Context, userID uint) (secret, url string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Login authenticates a user. Users with 2FA enabled get a pending token
// instead of the real pair.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrUserInactive
	}

	if user.TwoFactorEnabled() {
		pendingToken, err := s.jwtService.GeneratePendingToken(user.ID, user.Email, string(user.Role))
		if err != nil {
			return nil, fmt.Errorf("generate pending token: %w", err)
		}
		return &LoginResult{TwoFactorPending: true, PendingToken: pendingToken, User: user}, nil
	}

	return s.issueTokens(ctx, user)
}

// VerifyTOTP exchanges a pending token plus a valid TOTP code for the
// real token pair.
func (s *authService) VerifyTOTP(ctx context.Context, pendingToken, code string) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateToken(pendingToken)
	if err != nil {
		return nil, ErrTwoFactorNotPending
	}
	if !claims.TwoFactorPending {
		return nil, ErrTwoFactorNotPending
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrUserInactive
	}
	if !user.TwoFactorEnabled() || !auth.ValidateTOTPCode(code, user.TOTPSecret) {
		return nil, ErrInvalidTOTPCode
	}

	return s.issueTokens(ctx, user)
}

// SetupTOTP provisions a TOTP secret for the user and persists it.
func (s *authService) SetupTOTP(ctx context.Context, userID uint) (secret, url string, err error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", fmt.Errorf("find user: %w", err)
	}

	secret, url, err = auth.GenerateTOTPSecret(user.Email)
	if err != nil {
		return "", "", fmt.Errorf("generate totp secret: %w", err)
	}

	user.TOTPSecret = secret
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", "", fmt.Errorf("store totp secret: %w", err)
	}
	return secret, url, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, storedRole, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err = s.jwtService.GenerateAccessToken(claims.UserID, claims.Email, storedRole)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}

	return accessToken, nil
}

// Logout invalidates a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}

	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}

// issueTokens mints an access/refresh pair and registers the refresh
// token ID in the store.
func (s *authService) issueTokens(ctx context.Context, user *model.User) (*LoginResult, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, user.Email, string(user.Role), auth.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}
