package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mabarril/api-desbravador/audit"
	"github.com/mabarril/api-desbravador/finance"
	"github.com/mabarril/api-desbravador/models"
)

type AttendanceHandler struct {
	db    *gorm.DB
	svc   *finance.Service
	audit *audit.Logger
}

func NewAttendanceHandler(db *gorm.DB, svc *finance.Service, auditLog *audit.Logger) *AttendanceHandler {
	return &AttendanceHandler{db: db, svc: svc, audit: auditLog}
}

// GET /attendance?memberId=&eventType=&eventId=&startDate=&endDate=&statuses=present,late
func (h *AttendanceHandler) List(c echo.Context) error {
	tx := h.db.Model(&models.AttendanceRecord{})

	if v := strings.TrimSpace(c.QueryParam("memberId")); v != "" {
		tx = tx.Where("member_id = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("eventType")); v != "" {
		tx = tx.Where("event_type = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("eventId")); v != "" {
		tx = tx.Where("event_id = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("startDate")); v != "" {
		tx = tx.Where("event_date >= ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("endDate")); v != "" {
		tx = tx.Where("event_date <= ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("statuses")); v != "" {
		if parts := splitCSV(v); len(parts) > 0 {
			tx = tx.Where("status IN ?", parts)
		}
	}

	var rows []models.AttendanceRecord
	if err := tx.Order("event_date DESC, id DESC").Find(&rows).Error; err != nil {
		return financeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

type createAttendanceReq struct {
	MemberID  uint   `json:"member_id"`
	EventDate string `json:"event_date"`
	EventType string `json:"event_type"`
	EventID   *uint  `json:"event_id"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
}

// POST /attendance
//
// Single-record creation; a duplicate key here is a conflict, unlike the
// bulk endpoint where duplicates are skipped.
func (h *AttendanceHandler) Create(c echo.Context) error {
	var req createAttendanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if req.MemberID == 0 || req.EventDate == "" || req.EventType == "" || req.Status == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}

	var member models.Member
	if err := h.db.First(&member, req.MemberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "not_found", "message": "no member found with that ID"})
		}
		return financeError(c, err)
	}

	if req.EventID != nil {
		var count int64
		err := h.db.Model(&models.AttendanceRecord{}).
			Where("member_id = ? AND event_type = ? AND event_id = ?", req.MemberID, req.EventType, *req.EventID).
			Count(&count).Error
		if err != nil {
			return financeError(c, err)
		}
		if count > 0 {
			return c.JSON(http.StatusConflict, map[string]any{
				"error":   "conflict",
				"message": "attendance record already exists for this member and event",
			})
		}
	}

	uid, _ := getUserID(c)
	rec := models.AttendanceRecord{
		MemberID:   req.MemberID,
		EventDate:  req.EventDate,
		EventType:  req.EventType,
		EventID:    req.EventID,
		Status:     req.Status,
		Notes:      req.Notes,
		RecordedBy: uid,
	}
	if err := h.db.Create(&rec).Error; err != nil {
		return financeError(c, err)
	}

	h.audit.Record(uid, "create_attendance_record", "attendance_record", rec.ID,
		map[string]any{"member_id": rec.MemberID, "status": rec.Status}, c.RealIP())
	return c.JSON(http.StatusCreated, rec)
}

type bulkAttendanceReq struct {
	EventDate string                    `json:"event_date"`
	EventType string                    `json:"event_type"`
	EventID   *uint                     `json:"event_id"`
	Records   []finance.AttendanceInput `json:"records"`
}

// POST /attendance/bulk
func (h *AttendanceHandler) Bulk(c echo.Context) error {
	var req bulkAttendanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	uid, _ := getUserID(c)
	result, err := h.svc.BulkInsertAttendance(req.EventDate, req.EventType, req.EventID, req.Records, uid)
	if err != nil {
		return financeError(c, err)
	}

	h.audit.Record(uid, "bulk_create_attendance_records", "attendance_record", 0,
		map[string]any{"event_type": req.EventType, "created": result.Created, "skipped": result.Skipped}, c.RealIP())
	return c.JSON(http.StatusCreated, result)
}

// GET /attendance/members/:id?startDate=&endDate=&eventType=
func (h *AttendanceHandler) MemberStatistics(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	stats, err := h.svc.MemberAttendanceStatistics(id, finance.DateRange{
		Start: strings.TrimSpace(c.QueryParam("startDate")),
		End:   strings.TrimSpace(c.QueryParam("endDate")),
	}, strings.TrimSpace(c.QueryParam("eventType")))
	if err != nil {
		return financeError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
