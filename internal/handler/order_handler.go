package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/KooroshTorabi/meal-planner-sub002/internal/audit"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/errors"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/repository"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/service"
)

const dateLayout = "2006-01-02"

// OrderHandler handles meal order endpoints.
type OrderHandler struct {
	orderService service.OrderService
	auditor      *audit.Recorder
}

// NewOrderHandler creates a new meal order handler.
func NewOrderHandler(orderService service.OrderService, auditor *audit.Recorder) *OrderHandler {
	return &OrderHandler{orderService: orderService, auditor: auditor}
}

// OrderItemRequest is one option selection on an order request.
type OrderItemRequest struct {
	Name     string          `json:"name" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
}

// CreateOrderRequest represents a meal order creation request.
type CreateOrderRequest struct {
	ResidentID uint               `json:"resident_id" validate:"required"`
	Date       string             `json:"date" validate:"required"`
	MealType   model.MealType     `json:"meal_type" validate:"required,oneof=breakfast lunch dinner"`
	Notes      string             `json:"notes"`
	Items      []OrderItemRequest `json:"items" validate:"dive"`
}

// UpdateOrderRequest represents a meal order update request.
type UpdateOrderRequest struct {
	Status *model.OrderStatus `json:"status" validate:"omitempty,oneof=pending prepared completed"`
	Notes  *string            `json:"notes"`
	Items  []OrderItemRequest `json:"items" validate:"omitempty,dive"`
}

func toItemInputs(items []OrderItemRequest) []service.OrderItemInput {
	if items == nil {
		return nil
	}
	inputs := make([]service.OrderItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, service.OrderItemInput{Name: item.Name, Quantity: item.Quantity})
	}
	return inputs
}

// Create godoc
// @Summary Create a meal order for an active resident
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateOrderRequest true "Order data"
// @Success 201 {object} model.MealOrder
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "date must be YYYY-MM-DD",
			Code:  "INVALID_DATE",
		})
	}

	order, err := h.orderService.CreateOrder(c.Request().Context(), service.CreateOrderInput{
		ResidentID: req.ResidentID,
		Date:       date,
		MealType:   req.MealType,
		Notes:      req.Notes,
		Items:      toItemInputs(req.Items),
	})
	if err != nil {
		h.recordOutcome(c, "order_create", model.AuditStatusFailure, err.Error())
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	h.recordOutcome(c, "order_create", model.AuditStatusSuccess,
		fmt.Sprintf("order %d for resident %d", order.ID, order.ResidentID))
	return c.JSON(http.StatusCreated, order)
}

// Get godoc
// @Summary Get one meal order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} model.MealOrder
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid order ID",
			Code:  "INVALID_ID",
		})
	}

	order, err := h.orderService.GetOrder(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, order)
}

// List godoc
// @Summary List meal orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param residentId query int false "Resident ID"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param mealType query string false "Meal type"
// @Param status query string false "Order status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	page, limit := queryPage(c)
	filter := repository.OrderFilter{
		ResidentID: uint(queryInt(c, "residentId", 0)),
		MealType:   model.MealType(c.QueryParam("mealType")),
		Status:     model.OrderStatus(c.QueryParam("status")),
		Page:       page,
		Limit:      limit,
	}
	if dateStr := c.QueryParam("date"); dateStr != "" {
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "date must be YYYY-MM-DD",
				Code:  "INVALID_DATE",
			})
		}
		filter.Date = &date
	}

	orders, total, err := h.orderService.ListOrders(c.Request().Context(), filter)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, ListResponse{
		Items: orders,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}

// Update godoc
// @Summary Update a meal order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param request body UpdateOrderRequest true "Fields to change"
// @Success 200 {object} model.MealOrder
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id} [put]
func (h *OrderHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid order ID",
			Code:  "INVALID_ID",
		})
	}

	var req UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orderService.UpdateOrder(c.Request().Context(), id, service.UpdateOrderInput{
		Status: req.Status,
		Notes:  req.Notes,
		Items:  toItemInputs(req.Items),
	})
	if err != nil {
		h.recordOutcome(c, "order_update", model.AuditStatusFailure, err.Error())
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	h.recordOutcome(c, "order_update", model.AuditStatusSuccess, fmt.Sprintf("order %d", id))
	return c.JSON(http.StatusOK, order)
}

// Delete godoc
// @Summary Delete a meal order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid order ID",
			Code:  "INVALID_ID",
		})
	}

	if err := h.orderService.DeleteOrder(c.Request().Context(), id); err != nil {
		h.recordOutcome(c, "order_delete", model.AuditStatusFailure, err.Error())
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	h.recordOutcome(c, "order_delete", model.AuditStatusSuccess, fmt.Sprintf("order %d", id))
	return c.NoContent(http.StatusNoContent)
}

func (h *OrderHandler) recordOutcome(c echo.Context, action string, status model.AuditStatus, details string) {
	claims, ok := claimsFrom(c)
	if !ok {
		return
	}
	h.auditor.Record(action, status, claims.UserID, claims.Email, "meal_orders", details)
}
