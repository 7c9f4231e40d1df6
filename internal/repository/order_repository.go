package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
)

// OrderFilter carries the list parameters for meal order lookup.
type OrderFilter struct {
	ResidentID uint
	Date       *time.Time
	MealType   model.MealType
	Status     model.OrderStatus
	Page       int
	Limit      int
}

func (f *OrderFilter) normalize() {
	f.Page, f.Limit = NormalizePage(f.Page, f.Limit)
}

// OrderRepository defines meal order persistence operations.
type OrderRepository interface {
	Create(ctx context.Context, order *model.MealOrder) error
	Update(ctx context.Context, order *model.MealOrder) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.MealOrder, error)
	List(ctx context.Context, filter OrderFilter) ([]model.MealOrder, int64, error)
	// FindByDate returns up to limit orders for a date regardless of meal
	// type or status, items preloaded. Used by the naive aggregation path.
	FindByDate(ctx context.Context, date time.Time, limit int) ([]model.MealOrder, error)
	// FindForAggregation pushes the date/mealType/status filter into the
	// query and returns one batch, items preloaded.
	FindForAggregation(ctx context.Context, date time.Time, mealType model.MealType, statuses []model.OrderStatus, offset, limit int) ([]model.MealOrder, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new meal order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create creates a new meal order with its items.
func (r *orderRepository) Create(ctx context.Context, order *model.MealOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Update rewrites an existing meal order. Items are replaced wholesale in
// a transaction: old rows are deleted before the new ones are inserted, so
// the items table mirrors the request and an empty slice clears it.
func (r *orderRepository) Update(ctx context.Context, order *model.MealOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "Resident").Save(order).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		if len(order.Items) == 0 {
			return nil
		}
		for i := range order.Items {
			order.Items[i].ID = 0
			order.Items[i].OrderID = order.ID
		}
		return tx.Create(&order.Items).Error
	})
}

// Delete soft-deletes a meal order.
func (r *orderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.MealOrder{}, id).Error
}

// FindByID finds a meal order by ID with items preloaded.
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*model.MealOrder, error) {
	var order model.MealOrder
	if err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns a page of meal orders matching the filter plus the total count.
func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]model.MealOrder, int64, error) {
	filter.normalize()

	q := r.db.WithContext(ctx).Model(&model.MealOrder{})
	if filter.ResidentID != 0 {
		q = q.Where("resident_id = ?", filter.ResidentID)
	}
	if filter.Date != nil {
		q = q.Where("date = ?", filter.Date.Format("2006-01-02"))
	}
	if filter.MealType != "" {
		q = q.Where("meal_type = ?", filter.MealType)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.MealOrder
	offset := (filter.Page - 1) * filter.Limit
	if err := q.Preload("Items").Order("date DESC, id").Offset(offset).Limit(filter.Limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// FindByDate returns up to limit orders for the given date.
func (r *orderRepository) FindByDate(ctx context.Context, date time.Time, limit int) ([]model.MealOrder, error) {
	var orders []model.MealOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("date = ?", date.Format("2006-01-02")).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// FindForAggregation returns one batch of orders matching date, meal type
// and any of the statuses.
func (r *orderRepository) FindForAggregation(ctx context.Context, date time.Time, mealType model.MealType, statuses []model.OrderStatus, offset, limit int) ([]model.MealOrder, error) {
	var orders []model.MealOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("date = ? AND meal_type = ? AND status IN ?", date.Format("2006-01-02"), mealType, statuses).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
