package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/KooroshTorabi/meal-planner-sub002/internal/errors"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/repository"
)

// OrderItemInput is one option selection on an order request.
type OrderItemInput struct {
	Name     string
	Quantity decimal.Decimal
}

// CreateOrderInput carries the fields for meal order creation.
type CreateOrderInput struct {
	ResidentID uint
	Date       time.Time
	MealType   model.MealType
	Notes      string
	Items      []OrderItemInput
}

// UpdateOrderInput carries the optional fields for meal order updates.
// Nil pointers leave the current value untouched. Updates deliberately
// do not re-check resident active status: deactivating a resident
// blocks new orders but existing ones stay editable.
type UpdateOrderInput struct {
	Status *model.OrderStatus
	Notes  *string
	Items  []OrderItemInput // nil keeps current items; empty slice clears them
}

// OrderService exposes meal order operations.
type OrderService interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*model.MealOrder, error)
	GetOrder(ctx context.Context, id uint) (*model.MealOrder, error)
	ListOrders(ctx context.Context, filter repository.OrderFilter) ([]model.MealOrder, int64, error)
	UpdateOrder(ctx context.Context, id uint, input UpdateOrderInput) (*model.MealOrder, error)
	DeleteOrder(ctx context.Context, id uint) error
}

type orderService struct {
	orderRepo    repository.OrderRepository
	residentRepo repository.ResidentRepository
}

// NewOrderService builds an OrderService.
func NewOrderService(orderRepo repository.OrderRepository, residentRepo repository.ResidentRepository) OrderService {
	return &orderService{orderRepo: orderRepo, residentRepo: residentRepo}
}

// validateResidentActive checks that the referenced resident exists and
// is active. Only order creation runs this check.
func (s *orderService) validateResidentActive(ctx context.Context, residentID uint) error {
	resident, err := s.residentRepo.FindByID(ctx, residentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrResidentNotFound
		}
		return fmt.Errorf("resident lookup: %w", err)
	}
	if !resident.Active {
		return apperrors.ErrResidentInactive
	}
	return nil
}

func toOrderItems(inputs []OrderItemInput) ([]model.OrderItem, error) {
	items := make([]model.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		if in.Name == "" {
			return nil, fmt.Errorf("%w: item name is required", apperrors.ErrValidation)
		}
		if in.Quantity.Sign() <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be positive", apperrors.ErrValidation)
		}
		items = append(items, model.OrderItem{Name: in.Name, Quantity: in.Quantity})
	}
	return items, nil
}

// CreateOrder creates a meal order in pending status.
func (s *orderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*model.MealOrder, error) {
	if !input.MealType.Valid() {
		return nil, fmt.Errorf("%w: unknown meal type %q", apperrors.ErrValidation, input.MealType)
	}
	if input.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", apperrors.ErrValidation)
	}

	if err := s.validateResidentActive(ctx, input.ResidentID); err != nil {
		return nil, err
	}

	items, err := toOrderItems(input.Items)
	if err != nil {
		return nil, err
	}

	order := &model.MealOrder{
		ResidentID: input.ResidentID,
		Date:       input.Date,
		MealType:   input.MealType,
		Status:     model.OrderStatusPending,
		Notes:      input.Notes,
		Items:      items,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// GetOrder fetches a meal order by ID.
func (s *orderService) GetOrder(ctx context.Context, id uint) (*model.MealOrder, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// ListOrders returns a page of meal orders matching the filter.
func (s *orderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]model.MealOrder, int64, error) {
	return s.orderRepo.List(ctx, filter)
}

// UpdateOrder applies the provided fields. Status may only move forward
// (pending -> prepared -> completed).
func (s *orderService) UpdateOrder(ctx context.Context, id uint, input UpdateOrderInput) (*model.MealOrder, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil && *input.Status != order.Status {
		if !input.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, *input.Status)
		}
		if !order.Status.CanTransitionTo(*input.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, order.Status, *input.Status)
		}
		order.Status = *input.Status
	}
	if input.Notes != nil {
		order.Notes = *input.Notes
	}
	if input.Items != nil {
		items, err := toOrderItems(input.Items)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return order, nil
}

// DeleteOrder soft-deletes a meal order.
func (s *orderService) DeleteOrder(ctx context.Context, id uint) error {
	if _, err := s.GetOrder(ctx, id); err != nil {
		return err
	}
	return s.orderRepo.Delete(ctx, id)
}
