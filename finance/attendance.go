package finance

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mabarril/api-desbravador/models"
)

// AttendanceInput is one candidate row of a bulk attendance intake.
type AttendanceInput struct {
	MemberID uint   `json:"member_id"`
	Status   string `json:"status"`
	Notes    string `json:"notes"`
}

// BulkInsertAttendance records attendance for a whole roster at once.
// Records whose (member, event type, event id) key already exists are
// skipped; without an event id there is no natural key and every record is
// inserted. A record naming an unknown member is a hard error and aborts the
// entire batch.
func (s *Service) BulkInsertAttendance(eventDate, eventType string, eventID *uint, records []AttendanceInput, recordedBy uint) (*BatchResult, error) {
	if len(records) == 0 {
		return nil, validationErr("records array is required")
	}
	if eventDate == "" || eventType == "" {
		return nil, validationErr("event date and event type are required")
	}

	return runBatch(s.db, records,
		func(tx *gorm.DB, r AttendanceInput) (bool, error) {
			var member models.Member
			if err := tx.First(&member, r.MemberID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return false, notFoundErr("no member found with ID %d", r.MemberID)
				}
				return false, persistenceErr("look up member", err)
			}
			if eventID == nil {
				return false, nil
			}
			var count int64
			err := tx.Model(&models.AttendanceRecord{}).
				Where("member_id = ? AND event_type = ? AND event_id = ?", r.MemberID, eventType, *eventID).
				Count(&count).Error
			if err != nil {
				return false, persistenceErr("check existing attendance", err)
			}
			return count > 0, nil
		},
		func(tx *gorm.DB, r AttendanceInput) (uint, error) {
			rec := models.AttendanceRecord{
				MemberID:   r.MemberID,
				EventDate:  eventDate,
				EventType:  eventType,
				EventID:    eventID,
				Status:     r.Status,
				Notes:      r.Notes,
				RecordedBy: recordedBy,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return 0, persistenceErr("create attendance record", err)
			}
			return rec.ID, nil
		},
	)
}
