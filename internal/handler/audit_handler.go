package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/KooroshTorabi/meal-planner-sub002/internal/errors"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/repository"
)

// AuditHandler handles audit log query endpoints. Admin only.
type AuditHandler struct {
	auditRepo repository.AuditLogRepository
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(auditRepo repository.AuditLogRepository) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo}
}

// Query godoc
// @Summary Query the audit trail
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Param userId query int false "Actor user ID"
// @Param email query string false "Actor email"
// @Param action query string false "Action kind"
// @Param status query string false "Outcome" Enums(success, failure, denied)
// @Param resource query string false "Resource"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD), inclusive"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /audit-logs [get]
func (h *AuditHandler) Query(c echo.Context) error {
	page, limit := queryPage(c)
	filter := repository.AuditFilter{
		UserID:   uint(queryInt(c, "userId", 0)),
		Email:    c.QueryParam("email"),
		Action:   c.QueryParam("action"),
		Status:   model.AuditStatus(c.QueryParam("status")),
		Resource: c.QueryParam("resource"),
		Page:     page,
		Limit:    limit,
	}

	if fromStr := c.QueryParam("from"); fromStr != "" {
		from, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "from must be YYYY-MM-DD",
				Code:  "INVALID_DATE",
			})
		}
		filter.From = &from
	}
	if toStr := c.QueryParam("to"); toStr != "" {
		to, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "to must be YYYY-MM-DD",
				Code:  "INVALID_DATE",
			})
		}
		// inclusive end of day
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}

	entries, total, err := h.auditRepo.Query(c.Request().Context(), filter)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, ListResponse{
		Items: entries,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}
