package database

import (
	"fixmate/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateAuditLog records an admin action. Failures are logged only.
func CreateAuditLog(db *gorm.DB, log *zap.Logger, entry models.AuditLog) {
	if db == nil {
		return
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Warn("failed to write audit log",
			zap.String("entity", entry.Entity),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}

func ListAuditLogs(db *gorm.DB, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := db.Order("created_at desc").Order("id desc").Limit(limit).Find(&logs).Error
	return logs, err
}
