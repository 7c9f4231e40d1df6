package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/KooroshTorabi/meal-planner-sub002/internal/audit"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/config"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/errors"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/service"
)

// AlertHandler handles alert endpoints.
type AlertHandler struct {
	alertService service.AlertService
	cfg          *config.Config
	auditor      *audit.Recorder
}

// NewAlertHandler creates a new alert handler.
func NewAlertHandler(alertService service.AlertService, cfg *config.Config, auditor *audit.Recorder) *AlertHandler {
	return &AlertHandler{alertService: alertService, cfg: cfg, auditor: auditor}
}

// CreateAlertRequest represents an alert creation request.
type CreateAlertRequest struct {
	Message string `json:"message" validate:"required"`
}

// EscalateResponse carries the result of an escalation sweep.
type EscalateResponse struct {
	Escalated int64 `json:"escalated"`
}

// List godoc
// @Summary List alerts
// @Tags alerts
// @Produce json
// @Security BearerAuth
// @Param acknowledged query bool false "Filter by acknowledged flag"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /alerts [get]
func (h *AlertHandler) List(c echo.Context) error {
	var acknowledged *bool
	switch c.QueryParam("acknowledged") {
	case "true":
		v := true
		acknowledged = &v
	case "false":
		v := false
		acknowledged = &v
	case "":
	default:
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "acknowledged must be true or false",
			Code:  "INVALID_QUERY",
		})
	}

	page, limit := queryPage(c)
	alerts, total, err := h.alertService.ListAlerts(c.Request().Context(), acknowledged, page, limit)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, ListResponse{Items: alerts, Total: total, Page: page, Limit: limit})
}

// Create godoc
// @Summary Create an alert
// @Tags alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAlertRequest true "Alert data"
// @Success 201 {object} model.Alert
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /alerts [post]
func (h *AlertHandler) Create(c echo.Context) error {
	var req CreateAlertRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	alert, err := h.alertService.CreateAlert(c.Request().Context(), req.Message)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, alert)
}

// Acknowledge godoc
// @Summary Acknowledge an alert
// @Tags alerts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Alert ID"
// @Success 200 {object} model.Alert
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /alerts/{id}/acknowledge [post]
func (h *AlertHandler) Acknowledge(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid alert ID",
			Code:  "INVALID_ID",
		})
	}

	claims, ok := claimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	alert, err := h.alertService.Acknowledge(c.Request().Context(), id, claims.UserID)
	if err != nil {
		h.auditor.Record("alert_acknowledge", model.AuditStatusFailure, claims.UserID, claims.Email,
			"alerts", err.Error())
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	h.auditor.Record("alert_acknowledge", model.AuditStatusSuccess, claims.UserID, claims.Email,
		"alerts", fmt.Sprintf("alert %d", id))
	return c.JSON(http.StatusOK, alert)
}

// Escalate godoc
// @Summary Run the escalation sweep now
// @Description Marks unacknowledged alerts older than the configured age as escalated. Safe to re-run.
// @Tags alerts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} EscalateResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /alerts/escalate [post]
func (h *AlertHandler) Escalate(c echo.Context) error {
	count, err := h.alertService.EscalateOverdue(c.Request().Context(), h.cfg.AlertEscalationAge)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if claims, ok := claimsFrom(c); ok {
		h.auditor.Record("alert_escalate", model.AuditStatusSuccess, claims.UserID, claims.Email,
			"alerts", fmt.Sprintf("%d alerts escalated", count))
	}
	return c.JSON(http.StatusOK, EscalateResponse{Escalated: count})
}
