package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mabarril/api-desbravador/audit"
	"github.com/mabarril/api-desbravador/finance"
	"github.com/mabarril/api-desbravador/models"
)

type PaymentHandler struct {
	db    *gorm.DB
	svc   *finance.Service
	audit *audit.Logger
}

func NewPaymentHandler(db *gorm.DB, svc *finance.Service, auditLog *audit.Logger) *PaymentHandler {
	return &PaymentHandler{db: db, svc: svc, audit: auditLog}
}

// GET /payments?memberId=&referenceType=&startDate=&endDate=&paymentMethod=
func (h *PaymentHandler) List(c echo.Context) error {
	tx := h.db.Model(&models.Payment{})

	if v := strings.TrimSpace(c.QueryParam("memberId")); v != "" {
		tx = tx.Where("member_id = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("referenceType")); v != "" {
		tx = tx.Where("reference_type = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("startDate")); v != "" {
		tx = tx.Where("payment_date >= ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("endDate")); v != "" {
		tx = tx.Where("payment_date <= ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("paymentMethod")); v != "" {
		tx = tx.Where("payment_method = ?", v)
	}

	var rows []models.Payment
	if err := tx.Order("payment_date DESC, id DESC").Find(&rows).Error; err != nil {
		return financeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /payments/:id
func (h *PaymentHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	payment, err := h.svc.GetPayment(id)
	if err != nil {
		return financeError(c, err)
	}
	return c.JSON(http.StatusOK, payment)
}

type createPaymentReq struct {
	MemberID      *uint           `json:"member_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   string          `json:"payment_date"`
	PaymentMethod string          `json:"payment_method"`
	Description   string          `json:"description"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   *uint           `json:"reference_id"`
}

// POST /payments
func (h *PaymentHandler) Create(c echo.Context) error {
	var req createPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	uid, _ := getUserID(c)

	payment, err := h.svc.CreatePayment(finance.PaymentInput{
		MemberID:      req.MemberID,
		Amount:        req.Amount,
		PaymentDate:   req.PaymentDate,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		CreatedBy:     uid,
	})
	if err != nil {
		return financeError(c, err)
	}

	h.audit.Record(uid, "create_payment", "payment", payment.ID,
		map[string]any{"amount": payment.Amount, "reference_type": payment.ReferenceType}, c.RealIP())
	return c.JSON(http.StatusCreated, payment)
}

type updatePaymentReq struct {
	MemberID      *uint            `json:"member_id"`
	Amount        *decimal.Decimal `json:"amount"`
	PaymentDate   *string          `json:"payment_date"`
	PaymentMethod *string          `json:"payment_method"`
	Description   *string          `json:"description"`
	ReferenceType *string          `json:"reference_type"`
	ReferenceID   *uint            `json:"reference_id"`
}

// PATCH /payments/:id
func (h *PaymentHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updatePaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	payment, err := h.svc.UpdatePayment(id, finance.PaymentPatch{
		MemberID:      req.MemberID,
		Amount:        req.Amount,
		PaymentDate:   req.PaymentDate,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
	})
	if err != nil {
		return financeError(c, err)
	}

	uid, _ := getUserID(c)
	h.audit.Record(uid, "update_payment", "payment", payment.ID, nil, c.RealIP())
	return c.JSON(http.StatusOK, payment)
}

// DELETE /payments/:id
func (h *PaymentHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeletePayment(id); err != nil {
		return financeError(c, err)
	}

	uid, _ := getUserID(c)
	h.audit.Record(uid, "delete_payment", "payment", id, nil, c.RealIP())
	return c.NoContent(http.StatusNoContent)
}

// GET /payments/statistics?startDate=&endDate=
func (h *PaymentHandler) Statistics(c echo.Context) error {
	stats, err := h.svc.PaymentStatistics(finance.DateRange{
		Start: strings.TrimSpace(c.QueryParam("startDate")),
		End:   strings.TrimSpace(c.QueryParam("endDate")),
	})
	if err != nil {
		return financeError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
