package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mabarril/api-desbravador/audit"
	"github.com/mabarril/api-desbravador/models"
)

type EventHandler struct {
	db    *gorm.DB
	audit *audit.Logger
}

func NewEventHandler(db *gorm.DB, auditLog *audit.Logger) *EventHandler {
	return &EventHandler{db: db, audit: auditLog}
}

// GET /events?startDate=&endDate=
func (h *EventHandler) List(c echo.Context) error {
	tx := h.db.Model(&models.Event{})

	if v := strings.TrimSpace(c.QueryParam("startDate")); v != "" {
		tx = tx.Where("start_date >= ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("endDate")); v != "" {
		tx = tx.Where("start_date <= ?", v)
	}

	var rows []models.Event
	if err := tx.Order("start_date ASC, id ASC").Find(&rows).Error; err != nil {
		return financeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /events
func (h *EventHandler) Create(c echo.Context) error {
	var event models.Event
	if err := c.Bind(&event); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if strings.TrimSpace(event.Name) == "" || event.StartDate == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}
	event.ID = 0
	if err := h.db.Create(&event).Error; err != nil {
		return financeError(c, err)
	}

	uid, _ := getUserID(c)
	h.audit.Record(uid, "create_event", "event", event.ID, map[string]any{"name": event.Name}, c.RealIP())
	return c.JSON(http.StatusCreated, event)
}

type addParticipantReq struct {
	MemberID         uint   `json:"member_id"`
	RegistrationDate string `json:"registration_date"`
	Notes            string `json:"notes"`
}

// POST /events/:id/participants
func (h *EventHandler) AddParticipant(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req addParticipantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if req.MemberID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}

	var event models.Event
	if err := h.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "not_found", "message": "no event found with that ID"})
		}
		return financeError(c, err)
	}
	var member models.Member
	if err := h.db.First(&member, req.MemberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "not_found", "message": "no member found with that ID"})
		}
		return financeError(c, err)
	}

	var count int64
	err = h.db.Model(&models.EventParticipant{}).
		Where("event_id = ? AND member_id = ?", eventID, req.MemberID).
		Count(&count).Error
	if err != nil {
		return financeError(c, err)
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, map[string]any{
			"error":   "conflict",
			"message": "member is already registered for this event",
		})
	}

	participant := models.EventParticipant{
		EventID:          eventID,
		MemberID:         req.MemberID,
		RegistrationDate: req.RegistrationDate,
		PaymentStatus:    models.FeePending,
		AttendanceStatus: "registered",
		Notes:            req.Notes,
	}
	if err := h.db.Create(&participant).Error; err != nil {
		return financeError(c, err)
	}

	uid, _ := getUserID(c)
	h.audit.Record(uid, "add_event_participant", "event_participant", participant.ID,
		map[string]any{"event_id": eventID, "member_id": req.MemberID}, c.RealIP())
	return c.JSON(http.StatusCreated, participant)
}

type updateParticipantReq struct {
	PaymentStatus    *string `json:"payment_status"`
	AttendanceStatus *string `json:"attendance_status"`
	Notes            *string `json:"notes"`
}

// PATCH /events/:id/participants/:memberId
func (h *EventHandler) UpdateParticipant(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	memberID, err := pathID(c, "memberId")
	if err != nil {
		return err
	}

	var participant models.EventParticipant
	err = h.db.Where("event_id = ? AND member_id = ?", eventID, memberID).First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "not_found", "message": "member is not registered for this event"})
		}
		return financeError(c, err)
	}

	var req updateParticipantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	updates := map[string]any{}
	if req.PaymentStatus != nil {
		updates["payment_status"] = *req.PaymentStatus
	}
	if req.AttendanceStatus != nil {
		updates["attendance_status"] = *req.AttendanceStatus
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) == 0 {
		return c.JSON(http.StatusOK, participant)
	}

	if err := h.db.Model(&participant).Updates(updates).Error; err != nil {
		return financeError(c, err)
	}

	uid, _ := getUserID(c)
	h.audit.Record(uid, "update_event_participant", "event_participant", participant.ID, nil, c.RealIP())
	return c.JSON(http.StatusOK, participant)
}
