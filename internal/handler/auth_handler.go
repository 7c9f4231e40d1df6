package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/KooroshTorabi/meal-planner-sub002/internal/audit"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/errors"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	auditor     *audit.Recorder
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, auditor *audit.Recorder) *AuthHandler {
	return &AuthHandler{authService: authService, auditor: auditor}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyTOTPRequest represents a 2FA verification request.
type VerifyTOTPRequest struct {
	PendingToken string `json:"pending_token" validate:"required"`
	Code         string `json:"code" validate:"required,len=6,numeric"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest represents a logout request.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse represents an authentication response. When the user has
// 2FA enabled only PendingToken is populated.
type AuthResponse struct {
	AccessToken      string      `json:"access_token,omitempty"`
	RefreshToken     string      `json:"refresh_token,omitempty"`
	TwoFactorPending bool        `json:"two_factor_pending,omitempty"`
	PendingToken     string      `json:"pending_token,omitempty"`
	User             interface{} `json:"user,omitempty"`
}

// TOTPSetupResponse carries a freshly provisioned TOTP secret.
type TOTPSetupResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

func loginResponse(result *service.LoginResult) AuthResponse {
	return AuthResponse{
		AccessToken:      result.AccessToken,
		RefreshToken:     result.RefreshToken,
		TwoFactorPending: result.TwoFactorPending,
		PendingToken:     result.PendingToken,
		User:             result.User,
	}
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		h.auditor.Record("login", model.AuditStatusFailure, 0, req.Email, "auth", err.Error())
		if err == service.ErrInvalidCredentials || err == service.ErrUserInactive {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "INVALID_CREDENTIALS",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to login",
			Code:  "LOGIN_FAILED",
		})
	}

	if !result.TwoFactorPending {
		h.auditor.Record("login", model.AuditStatusSuccess, result.User.ID, result.User.Email, "auth", "")
	}
	return c.JSON(http.StatusOK, loginResponse(result))
}

// VerifyTOTP godoc
// @Summary Complete login with a TOTP code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyTOTPRequest true "Pending token and 6-digit code"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/2fa/verify [post]
func (h *AuthHandler) VerifyTOTP(c echo.Context) error {
	var req VerifyTOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.VerifyTOTP(c.Request().Context(), req.PendingToken, req.Code)
	if err != nil {
		h.auditor.Record("2fa_verify", model.AuditStatusFailure, 0, "", "auth", err.Error())
		switch err {
		case service.ErrInvalidTOTPCode, service.ErrTwoFactorNotPending, service.ErrInvalidCredentials, service.ErrUserInactive:
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "TOTP_VERIFICATION_FAILED",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to verify code",
			Code:  "TOTP_VERIFICATION_FAILED",
		})
	}

	h.auditor.Record("2fa_verify", model.AuditStatusSuccess, result.User.ID, result.User.Email, "auth", "")
	return c.JSON(http.StatusOK, loginResponse(result))
}

// SetupTOTP godoc
// @Summary Provision a TOTP secret for the current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} TOTPSetupResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/2fa/setup [post]
func (h *AuthHandler) SetupTOTP(c echo.Context) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	secret, url, err := h.authService.SetupTOTP(c.Request().Context(), claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to set up two-factor authentication",
			Code:  "TOTP_SETUP_FAILED",
		})
	}

	h.auditor.Record("2fa_setup", model.AuditStatusSuccess, claims.UserID, claims.Email, "auth", "")
	return c.JSON(http.StatusOK, TOTPSetupResponse{Secret: secret, URL: url})
}

// Refresh godoc
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	accessToken, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		if err == service.ErrInvalidRefreshToken {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "INVALID_REFRESH_TOKEN",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to refresh token",
			Code:  "REFRESH_FAILED",
		})
	}

	return c.JSON(http.StatusOK, AuthResponse{AccessToken: accessToken})
}

// Logout godoc
// @Summary Logout and revoke the refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LogoutRequest true "Refresh token"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req LogoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		if err == service.ErrInvalidRefreshToken {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "INVALID_REFRESH_TOKEN",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to logout",
			Code:  "LOGOUT_FAILED",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}
