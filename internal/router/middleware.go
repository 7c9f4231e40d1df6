package router

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/KooroshTorabi/meal-planner-sub002/internal/audit"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/auth"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/errors"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/policy"
)

// JWT builds the authentication middleware. Tokens are parsed through
// our own JWTService so the context carries typed auth.Claims.
func JWT(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				return nil, err
			}
			return &jwt.Token{Claims: claims, Valid: true}, nil
		},
	})
}

// RequirePermission gates a route on the role permission table. Pending
// 2FA tokens are rejected outright; denials are written to the audit
// trail best-effort.
func RequirePermission(resource policy.Resource, op policy.Operation, auditor *audit.Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "missing or invalid token",
					Code:  "UNAUTHORIZED",
				})
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "missing or invalid token",
					Code:  "UNAUTHORIZED",
				})
			}
			if claims.TwoFactorPending {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "two-factor verification required",
					Code:  "TWO_FACTOR_REQUIRED",
				})
			}

			if !policy.Can(model.Role(claims.Role), resource, op) {
				auditor.RecordDenied(fmt.Sprintf("%s_%s", resource, op), claims.UserID, claims.Email, string(resource))
				return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
					Error: "insufficient role",
					Code:  "FORBIDDEN",
				})
			}

			return next(c)
		}
	}
}
