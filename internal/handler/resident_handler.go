package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/KooroshTorabi/meal-planner-sub002/internal/audit"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/errors"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/repository"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/service"
)

// ResidentHandler handles resident endpoints.
type ResidentHandler struct {
	residentService service.ResidentService
	auditor         *audit.Recorder
}

// NewResidentHandler creates a new resident handler.
func NewResidentHandler(residentService service.ResidentService, auditor *audit.Recorder) *ResidentHandler {
	return &ResidentHandler{residentService: residentService, auditor: auditor}
}

// ResidentRequest represents a resident create/update request.
type ResidentRequest struct {
	Name                string `json:"name" validate:"required"`
	RoomNumber          string `json:"room_number" validate:"required"`
	TableNumber         string `json:"table_number"`
	Station             string `json:"station"`
	DietaryRestrictions string `json:"dietary_restrictions"`
	Aversions           string `json:"aversions"`
	SpecialNotes        string `json:"special_notes"`
	HighCalorie         bool   `json:"high_calorie"`
	Active              *bool  `json:"active"`
}

func (r ResidentRequest) toInput() service.ResidentInput {
	return service.ResidentInput{
		Name:                r.Name,
		RoomNumber:          r.RoomNumber,
		TableNumber:         r.TableNumber,
		Station:             r.Station,
		DietaryRestrictions: r.DietaryRestrictions,
		Aversions:           r.Aversions,
		SpecialNotes:        r.SpecialNotes,
		HighCalorie:         r.HighCalorie,
		Active:              r.Active,
	}
}

// Search godoc
// @Summary Search residents
// @Tags residents
// @Produce json
// @Security BearerAuth
// @Param name query string false "Name substring"
// @Param roomNumber query string false "Room number"
// @Param dietaryRestrictions query string false "Dietary restrictions substring"
// @Param station query string false "Station"
// @Param tableNumber query string false "Table number"
// @Param active query bool false "Active flag"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /residents [get]
func (h *ResidentHandler) Search(c echo.Context) error {
	page, limit := queryPage(c)
	filter := repository.ResidentFilter{
		Name:                c.QueryParam("name"),
		RoomNumber:          c.QueryParam("roomNumber"),
		DietaryRestrictions: c.QueryParam("dietaryRestrictions"),
		Station:             c.QueryParam("station"),
		TableNumber:         c.QueryParam("tableNumber"),
		Page:                page,
		Limit:               limit,
	}
	switch c.QueryParam("active") {
	case "true":
		active := true
		filter.Active = &active
	case "false":
		active := false
		filter.Active = &active
	case "":
	default:
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "active must be true or false",
			Code:  "INVALID_QUERY",
		})
	}

	residents, total, err := h.residentService.SearchResidents(c.Request().Context(), filter)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, ListResponse{
		Items: residents,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}

// Get godoc
// @Summary Get one resident
// @Tags residents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resident ID"
// @Success 200 {object} model.Resident
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /residents/{id} [get]
func (h *ResidentHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid resident ID",
			Code:  "INVALID_ID",
		})
	}

	resident, err := h.residentService.GetResident(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, resident)
}

// Create godoc
// @Summary Create a resident
// @Tags residents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ResidentRequest true "Resident data"
// @Success 201 {object} model.Resident
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /residents [post]
func (h *ResidentHandler) Create(c echo.Context) error {
	var req ResidentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claims, _ := claimsFrom(c)
	resident, err := h.residentService.CreateResident(c.Request().Context(), req.toInput())
	if err != nil {
		h.recordOutcome(c, "resident_create", model.AuditStatusFailure, err.Error())
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if claims != nil {
		h.auditor.Record("resident_create", model.AuditStatusSuccess, claims.UserID, claims.Email,
			"residents", fmt.Sprintf("resident %d (%s)", resident.ID, resident.Name))
	}
	return c.JSON(http.StatusCreated, resident)
}

// Update godoc
// @Summary Update a resident
// @Tags residents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resident ID"
// @Param request body ResidentRequest true "Resident data"
// @Success 200 {object} model.Resident
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /residents/{id} [put]
func (h *ResidentHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid resident ID",
			Code:  "INVALID_ID",
		})
	}

	var req ResidentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resident, err := h.residentService.UpdateResident(c.Request().Context(), id, req.toInput())
	if err != nil {
		h.recordOutcome(c, "resident_update", model.AuditStatusFailure, err.Error())
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	h.recordOutcome(c, "resident_update", model.AuditStatusSuccess, fmt.Sprintf("resident %d", id))
	return c.JSON(http.StatusOK, resident)
}

// Delete godoc
// @Summary Delete a resident
// @Tags residents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resident ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /residents/{id} [delete]
func (h *ResidentHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid resident ID",
			Code:  "INVALID_ID",
		})
	}

	if err := h.residentService.DeleteResident(c.Request().Context(), id); err != nil {
		h.recordOutcome(c, "resident_delete", model.AuditStatusFailure, err.Error())
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	h.recordOutcome(c, "resident_delete", model.AuditStatusSuccess, fmt.Sprintf("resident %d", id))
	return c.NoContent(http.StatusNoContent)
}

func (h *ResidentHandler) recordOutcome(c echo.Context, action string, status model.AuditStatus, details string) {
	claims, ok := claimsFrom(c)
	if !ok {
		return
	}
	h.auditor.Record(action, status, claims.UserID, claims.Email, "residents", details)
}
