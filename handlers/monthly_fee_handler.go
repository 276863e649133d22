package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mabarril/api-desbravador/audit"
	"github.com/mabarril/api-desbravador/finance"
	"github.com/mabarril/api-desbravador/models"
)

type MonthlyFeeHandler struct {
	db    *gorm.DB
	svc   *finance.Service
	audit *audit.Logger
}

func NewMonthlyFeeHandler(db *gorm.DB, svc *finance.Service, auditLog *audit.Logger) *MonthlyFeeHandler {
	return &MonthlyFeeHandler{db: db, svc: svc, audit: auditLog}
}

// GET /monthly-fees?memberId=&month=&year=&status=
func (h *MonthlyFeeHandler) List(c echo.Context) error {
	tx := h.db.Model(&models.MonthlyFee{})

	if v := strings.TrimSpace(c.QueryParam("memberId")); v != "" {
		tx = tx.Where("member_id = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("month")); v != "" {
		tx = tx.Where("month = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("year")); v != "" {
		tx = tx.Where("year = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("status")); v != "" {
		tx = tx.Where("status = ?", v)
	}

	var rows []models.MonthlyFee
	if err := tx.Order("year DESC, month DESC, id DESC").Find(&rows).Error; err != nil {
		return financeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /monthly-fees/:id
func (h *MonthlyFeeHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var fee models.MonthlyFee
	if err := h.db.First(&fee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "not_found", "message": "no monthly fee found with that ID"})
		}
		return financeError(c, err)
	}
	return c.JSON(http.StatusOK, fee)
}

type createFeeReq struct {
	MemberID    uint            `json:"member_id"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	PaymentDate *string         `json:"payment_date"`
	Notes       string          `json:"notes"`
}

// POST /monthly-fees
//
// A duplicate (member, month, year) here is a conflict, unlike the generate
// endpoint where duplicates are silently skipped.
func (h *MonthlyFeeHandler) Create(c echo.Context) error {
	var req createFeeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if req.MemberID == 0 || req.Month == 0 || req.Year == 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}

	var member models.Member
	if err := h.db.First(&member, req.MemberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "not_found", "message": "no member found with that ID"})
		}
		return financeError(c, err)
	}

	var count int64
	err := h.db.Model(&models.MonthlyFee{}).
		Where("member_id = ? AND month = ? AND year = ?", req.MemberID, req.Month, req.Year).
		Count(&count).Error
	if err != nil {
		return financeError(c, err)
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, map[string]any{
			"error":   "conflict",
			"message": "a monthly fee for this member, month and year already exists",
		})
	}

	status := req.Status
	if status == "" {
		status = models.FeePending
	}
	fee := models.MonthlyFee{
		MemberID:    req.MemberID,
		Month:       req.Month,
		Year:        req.Year,
		Amount:      req.Amount,
		Status:      status,
		PaymentDate: req.PaymentDate,
		Notes:       req.Notes,
	}
	if err := h.db.Create(&fee).Error; err != nil {
		return financeError(c, err)
	}

	uid, _ := getUserID(c)
	h.audit.Record(uid, "create_monthly_fee", "monthly_fee", fee.ID,
		map[string]any{"member_id": fee.MemberID, "month": fee.Month, "year": fee.Year}, c.RealIP())
	return c.JSON(http.StatusCreated, fee)
}

type updateFeeReq struct {
	Amount      *decimal.Decimal `json:"amount"`
	Status      *string          `json:"status"`
	PaymentDate *string          `json:"payment_date"`
	Notes       *string          `json:"notes"`
}

// PATCH /monthly-fees/:id
func (h *MonthlyFeeHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var fee models.MonthlyFee
	if err := h.db.First(&fee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "not_found", "message": "no monthly fee found with that ID"})
		}
		return financeError(c, err)
	}

	var req updateFeeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	updates := map[string]any{}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.PaymentDate != nil {
		updates["payment_date"] = *req.PaymentDate
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) == 0 {
		return c.JSON(http.StatusOK, fee)
	}

	if err := h.db.Model(&fee).Updates(updates).Error; err != nil {
		return financeError(c, err)
	}

	uid, _ := getUserID(c)
	h.audit.Record(uid, "update_monthly_fee", "monthly_fee", fee.ID, nil, c.RealIP())
	return c.JSON(http.StatusOK, fee)
}

// DELETE /monthly-fees/:id
func (h *MonthlyFeeHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	res := h.db.Delete(&models.MonthlyFee{}, id)
	if res.Error != nil {
		return financeError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "not_found", "message": "no monthly fee found with that ID"})
	}

	uid, _ := getUserID(c)
	h.audit.Record(uid, "delete_monthly_fee", "monthly_fee", id, nil, c.RealIP())
	return c.NoContent(http.StatusNoContent)
}

type generateFeesReq struct {
	Month   int             `json:"month"`
	Year    int             `json:"year"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate string          `json:"due_date"`
}

// POST /monthly-fees/generate
func (h *MonthlyFeeHandler) Generate(c echo.Context) error {
	var req generateFeesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	result, err := h.svc.GenerateMonthlyFees(req.Month, req.Year, req.Amount, req.DueDate)
	if err != nil {
		return financeError(c, err)
	}

	uid, _ := getUserID(c)
	h.audit.Record(uid, "generate_monthly_fees", "monthly_fee", 0,
		map[string]any{"month": req.Month, "year": req.Year, "created": result.Created, "skipped": result.Skipped}, c.RealIP())
	return c.JSON(http.StatusCreated, result)
}

// GET /monthly-fees/statistics?year=
func (h *MonthlyFeeHandler) Statistics(c echo.Context) error {
	stats, err := h.svc.MonthlyFeeStatistics(atoiOr(strings.TrimSpace(c.QueryParam("year")), 0))
	if err != nil {
		return financeError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
