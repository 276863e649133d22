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

type RegistrationHandler struct {
	db    *gorm.DB
	audit *audit.Logger
}

func NewRegistrationHandler(db *gorm.DB, auditLog *audit.Logger) *RegistrationHandler {
	return &RegistrationHandler{db: db, audit: auditLog}
}

// GET /registrations?memberId=&status=&paymentStatus=
func (h *RegistrationHandler) List(c echo.Context) error {
	tx := h.db.Model(&models.Registration{})

	if v := strings.TrimSpace(c.QueryParam("memberId")); v != "" {
		tx = tx.Where("member_id = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("status")); v != "" {
		tx = tx.Where("status = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("paymentStatus")); v != "" {
		tx = tx.Where("payment_status = ?", v)
	}

	var rows []models.Registration
	if err := tx.Order("registration_date DESC, id DESC").Find(&rows).Error; err != nil {
		return financeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

type createRegistrationReq struct {
	MemberID         uint   `json:"member_id"`
	RegistrationDate string `json:"registration_date"`
	Notes            string `json:"notes"`
}

// POST /registrations
func (h *RegistrationHandler) Create(c echo.Context) error {
	var req createRegistrationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if req.MemberID == 0 || req.RegistrationDate == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}

	var member models.Member
	if err := h.db.First(&member, req.MemberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "not_found", "message": "no member found with that ID"})
		}
		return financeError(c, err)
	}

	reg := models.Registration{
		MemberID:         req.MemberID,
		RegistrationDate: req.RegistrationDate,
		Status:           models.RegistrationPending,
		PaymentStatus:    models.FeePending,
		Notes:            req.Notes,
	}
	if err := h.db.Create(&reg).Error; err != nil {
		return financeError(c, err)
	}

	uid, _ := getUserID(c)
	h.audit.Record(uid, "create_registration", "registration", reg.ID,
		map[string]any{"member_id": reg.MemberID}, c.RealIP())
	return c.JSON(http.StatusCreated, reg)
}

type updateRegistrationReq struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// PATCH /registrations/:id: approve/reject and note changes. Payment status
// is owned by the payment reconciler, not this endpoint.
func (h *RegistrationHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var reg models.Registration
	if err := h.db.First(&reg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "not_found", "message": "no registration found with that ID"})
		}
		return financeError(c, err)
	}

	var req updateRegistrationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	updates := map[string]any{}
	if req.Status != nil {
		switch *req.Status {
		case models.RegistrationPending, models.RegistrationApproved, models.RegistrationRejected:
			updates["status"] = *req.Status
		default:
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "validation", "message": "invalid registration status"})
		}
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) == 0 {
		return c.JSON(http.StatusOK, reg)
	}

	if err := h.db.Model(&reg).Updates(updates).Error; err != nil {
		return financeError(c, err)
	}

	uid, _ := getUserID(c)
	h.audit.Record(uid, "update_registration", "registration", reg.ID, nil, c.RealIP())
	return c.JSON(http.StatusOK, reg)
}
