package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/KooroshTorabi/meal-planner-sub002/internal/audit"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/auth"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/config"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/handler"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/policy"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	auditor *audit.Recorder,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	residentHandler *handler.ResidentHandler,
	orderHandler *handler.OrderHandler,
	aggregationHandler *handler.AggregationHandler,
	alertHandler *handler.AlertHandler,
	auditHandler *handler.AuditHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
	api.POST("/auth/2fa/verify", authHandler.VerifyTOTP)

	// Secured routes (require JWT authentication)
	secured := api.Group("", JWT(jwtService))

	secured.POST("/auth/2fa/setup", authHandler.SetupTOTP)

	// Resident routes: reads for everyone with a role, writes admin only.
	secured.GET("/residents", residentHandler.Search,
		RequirePermission(policy.ResourceResidents, policy.OpRead, auditor))
	secured.GET("/residents/:id", residentHandler.Get,
		RequirePermission(policy.ResourceResidents, policy.OpRead, auditor))
	secured.POST("/residents", residentHandler.Create,
		RequirePermission(policy.ResourceResidents, policy.OpCreate, auditor))
	secured.PUT("/residents/:id", residentHandler.Update,
		RequirePermission(policy.ResourceResidents, policy.OpUpdate, auditor))
	secured.DELETE("/residents/:id", residentHandler.Delete,
		RequirePermission(policy.ResourceResidents, policy.OpDelete, auditor))

	// Meal order routes
	secured.POST("/orders", orderHandler.Create,
		RequirePermission(policy.ResourceMealOrders, policy.OpCreate, auditor))
	secured.GET("/orders", orderHandler.List,
		RequirePermission(policy.ResourceMealOrders, policy.OpRead, auditor))
	secured.GET("/orders/:id", orderHandler.Get,
		RequirePermission(policy.ResourceMealOrders, policy.OpRead, auditor))
	secured.PUT("/orders/:id", orderHandler.Update,
		RequirePermission(policy.ResourceMealOrders, policy.OpUpdate, auditor))
	secured.DELETE("/orders/:id", orderHandler.Delete,
		RequirePermission(policy.ResourceMealOrders, policy.OpDelete, auditor))

	// Aggregation for the kitchen
	secured.GET("/aggregation", aggregationHandler.Aggregate,
		RequirePermission(policy.ResourceAggregation, policy.OpRead, auditor))

	// Alert routes
	secured.GET("/alerts", alertHandler.List,
		RequirePermission(policy.ResourceAlerts, policy.OpRead, auditor))
	secured.POST("/alerts", alertHandler.Create,
		RequirePermission(policy.ResourceAlerts, policy.OpCreate, auditor))
	secured.POST("/alerts/:id/acknowledge", alertHandler.Acknowledge,
		RequirePermission(policy.ResourceAlerts, policy.OpUpdate, auditor))
	secured.POST("/alerts/escalate", alertHandler.Escalate,
		RequirePermission(policy.ResourceAlerts, policy.OpEscalate, auditor))

	// Audit trail, admin only
	secured.GET("/audit-logs", auditHandler.Query,
		RequirePermission(policy.ResourceAuditLogs, policy.OpRead, auditor))

	// User administration, admin only
	secured.POST("/users", userHandler.Create,
		RequirePermission(policy.ResourceUsers, policy.OpCreate, auditor))
	secured.GET("/users", userHandler.List,
		RequirePermission(policy.ResourceUsers, policy.OpRead, auditor))
	secured.GET("/users/:id", userHandler.Get,
		RequirePermission(policy.ResourceUsers, policy.OpRead, auditor))
	secured.PUT("/users/:id", userHandler.Update,
		RequirePermission(policy.ResourceUsers, policy.OpUpdate, auditor))
	secured.DELETE("/users/:id", userHandler.Delete,
		RequirePermission(policy.ResourceUsers, policy.OpDelete, auditor))
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
