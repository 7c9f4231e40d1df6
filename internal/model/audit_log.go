package model

import "time"

// AuditStatus records the outcome of the audited action.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
	AuditStatusDenied  AuditStatus = "denied"
)

// AuditLog is an append-only record of a sensitive operation.
// Writing one never blocks the operation it describes.
type AuditLog struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	Action    string      `json:"action" gorm:"size:100;not null;index"`
	Status    AuditStatus `json:"status" gorm:"size:20;not null;index"`
	UserID    uint        `json:"user_id" gorm:"index"`
	UserEmail string      `json:"user_email" gorm:"size:255;index"`
	Resource  string      `json:"resource" gorm:"size:100;index"`
	Details   string      `json:"details,omitempty" gorm:"type:text"`
	CreatedAt time.Time   `json:"created_at" gorm:"index"`
}
