// Package audit writes the append-only trail of successful mutations.
// Recording is fire-and-forget: a failed write is logged locally and never
// rolls back the business mutation it describes.
package audit

import (
	"encoding/json"
	"log/slog"

	"gorm.io/gorm"

	"github.com/mabarril/api-desbravador/models"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

// Record appends one audit row. details is marshalled to JSON; nil details
// leaves the column empty.
func (l *Logger) Record(userID uint, action, entityType string, entityID uint, details any, ipAddress string) {
	var detailsJSON string
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			slog.Error("audit: marshal details", "action", action, "error", err)
		} else {
			detailsJSON = string(b)
		}
	}

	entry := models.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    detailsJSON,
		IPAddress:  ipAddress,
	}
	if err := l.db.Create(&entry).Error; err != nil {
		slog.Error("audit: write log entry", "action", action, "entity_type", entityType, "error", err)
	}
}
