package model

import (
	"time"

	"gorm.io/gorm"
)

// Resident represents a care-home occupant who receives meals.
// Deactivating a resident blocks new meal orders but keeps the order
// history readable.
type Resident struct {
	ID                  uint           `json:"id" gorm:"primaryKey"`
	Name                string         `json:"name" gorm:"size:255;not null;index"`
	RoomNumber          string         `json:"room_number" gorm:"size:20;not null;index"`
	TableNumber         string         `json:"table_number" gorm:"size:20;index"`
	Station             string         `json:"station" gorm:"size:50;index"`
	DietaryRestrictions string         `json:"dietary_restrictions" gorm:"type:text"`
	Aversions           string         `json:"aversions" gorm:"type:text"`
	SpecialNotes        string         `json:"special_notes" gorm:"type:text"`
	HighCalorie         bool           `json:"high_calorie" gorm:"default:false"`
	Active              bool           `json:"active" gorm:"default:true;index"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	MealOrders []MealOrder `json:"meal_orders,omitempty" gorm:"foreignKey:ResidentID"`
}
