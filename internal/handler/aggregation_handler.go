package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/KooroshTorabi/meal-planner-sub002/internal/errors"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/service"
)

// AggregationHandler handles ingredient aggregation endpoints.
type AggregationHandler struct {
	aggregationService service.AggregationService
}

// NewAggregationHandler creates a new aggregation handler.
func NewAggregationHandler(aggregationService service.AggregationService) *AggregationHandler {
	return &AggregationHandler{aggregationService: aggregationService}
}

// Aggregate godoc
// @Summary Ingredient totals for one date and meal type
// @Description Sums option selections of pending and prepared orders.
// @Tags aggregation
// @Produce json
// @Security BearerAuth
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param mealType query string true "Meal type" Enums(breakfast, lunch, dinner)
// @Param naive query bool false "Use the in-memory aggregation path"
// @Success 200 {object} service.Summary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /aggregation [get]
func (h *AggregationHandler) Aggregate(c echo.Context) error {
	dateStr := c.QueryParam("date")
	if dateStr == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "date is required",
			Code:  "INVALID_QUERY",
		})
	}
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "date must be YYYY-MM-DD",
			Code:  "INVALID_DATE",
		})
	}

	mealType := model.MealType(c.QueryParam("mealType"))
	if !mealType.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "mealType must be breakfast, lunch or dinner",
			Code:  "INVALID_QUERY",
		})
	}

	var summary *service.Summary
	if c.QueryParam("naive") == "true" {
		summary, err = h.aggregationService.Aggregate(c.Request().Context(), date, mealType)
	} else {
		summary, err = h.aggregationService.AggregateOptimized(c.Request().Context(), date, mealType)
	}
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, summary)
}
