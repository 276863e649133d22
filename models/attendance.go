package models

import "time"

// AttendanceRecord statuses.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceExcused = "excused"
	AttendanceLate    = "late"
)

// AttendanceRecord marks one member at one meeting or event. When EventID is
// set, (member, event_type, event_id) is unique.
type AttendanceRecord struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	MemberID   uint   `gorm:"uniqueIndex:idx_att_member_event;not null" json:"member_id"`
	EventDate  string `gorm:"size:10;not null" json:"event_date"` // YYYY-MM-DD
	EventType  string `gorm:"size:30;uniqueIndex:idx_att_member_event;not null" json:"event_type"`
	EventID    *uint  `gorm:"uniqueIndex:idx_att_member_event" json:"event_id,omitempty"`
	Status     string `gorm:"size:20;not null" json:"status"`
	Notes      string `gorm:"type:text" json:"notes"`
	RecordedBy uint   `gorm:"index" json:"recorded_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
