package model

import "time"

// Alert is a notification that must be acknowledged by staff.
// Unacknowledged alerts older than a threshold get escalated by the
// periodic sweep.
type Alert struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Message        string     `json:"message" gorm:"type:text;not null"`
	Acknowledged   bool       `json:"acknowledged" gorm:"default:false;index"`
	AcknowledgedBy *uint      `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	Escalated      bool       `json:"escalated" gorm:"default:false;index"`
	EscalatedAt    *time.Time `json:"escalated_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
