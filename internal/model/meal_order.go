package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MealType identifies which meal of the day an order is for.
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
)

// Valid reports whether the meal type is one of the known types.
func (m MealType) Valid() bool {
	switch m {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner:
		return true
	}
	return false
}

// OrderStatus represents the kitchen lifecycle of a meal order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPrepared  OrderStatus = "prepared"
	OrderStatusCompleted OrderStatus = "completed"
)

// Valid reports whether the status is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPrepared, OrderStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may move to next.
// Orders only move forward: pending -> prepared -> completed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusPrepared
	case OrderStatusPrepared:
		return next == OrderStatusCompleted
	}
	return false
}

// MealOrder represents a per-resident, per-date, per-meal-type order.
type MealOrder struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	ResidentID uint           `json:"resident_id" gorm:"not null;index"`
	Date       time.Time      `json:"date" gorm:"type:date;not null;index"`
	MealType   MealType       `json:"meal_type" gorm:"size:20;not null;index"`
	Status     OrderStatus    `json:"status" gorm:"size:20;not null;default:'pending';index"`
	Notes      string         `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Resident Resident    `json:"resident,omitempty" gorm:"foreignKey:ResidentID"`
	Items    []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is one selected option on a meal order, e.g. "oatmeal" x 1.5.
type OrderItem struct {
	ID       uint            `json:"id" gorm:"primaryKey"`
	OrderID  uint            `json:"order_id" gorm:"not null;index"`
	Name     string          `json:"name" gorm:"size:255;not null"`
	Quantity decimal.Decimal `json:"quantity" gorm:"type:decimal(10,2);not null"`
}
