package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	AdminID uint   `json:"adminId"`
	Actor   string `gorm:"size:50" json:"actor"`

	Entity   string `gorm:"size:50;not null" json:"entity"` // "pricing", "lead"
	EntityID string `gorm:"size:64" json:"entityId"`
	Action   string `gorm:"size:50;not null" json:"action"` // "upsert", "delete", "quote"
	Details  string `gorm:"type:text" json:"details"`
}
