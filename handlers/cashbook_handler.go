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

type CashBookHandler struct {
	db    *gorm.DB
	svc   *finance.Service
	audit *audit.Logger
}

func NewCashBookHandler(db *gorm.DB, svc *finance.Service, auditLog *audit.Logger) *CashBookHandler {
	return &CashBookHandler{db: db, svc: svc, audit: auditLog}
}

// GET /cashbook?type=&startDate=&endDate=&category=
func (h *CashBookHandler) List(c echo.Context) error {
	tx := h.db.Model(&models.CashBookEntry{})

	if v := strings.TrimSpace(c.QueryParam("type")); v != "" {
		tx = tx.Where("type = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("startDate")); v != "" {
		tx = tx.Where("transaction_date >= ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("endDate")); v != "" {
		tx = tx.Where("transaction_date <= ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("category")); v != "" {
		tx = tx.Where("category = ?", v)
	}

	var rows []models.CashBookEntry
	if err := tx.Order("transaction_date DESC, id DESC").Find(&rows).Error; err != nil {
		return financeError(c, err)
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	for _, entry := range rows {
		if entry.Type == models.EntryIncome {
			totalIncome = totalIncome.Add(entry.Amount)
		} else {
			totalExpense = totalExpense.Add(entry.Amount)
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"entries": rows,
		"summary": map[string]any{
			"total_income":  totalIncome,
			"total_expense": totalExpense,
			"balance":       totalIncome.Sub(totalExpense),
		},
	})
}

// GET /cashbook/:id
func (h *CashBookHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var entry models.CashBookEntry
	if err := h.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "not_found", "message": "no cash book entry found with that ID"})
		}
		return financeError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

type createCashBookReq struct {
	TransactionDate string          `json:"transaction_date"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Type            string          `json:"type"`
	Category        string          `json:"category"`
	Reference       string          `json:"reference"`
}

// POST /cashbook
func (h *CashBookHandler) Create(c echo.Context) error {
	var req createCashBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if req.TransactionDate == "" || req.Type == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}
	if req.Type != models.EntryIncome && req.Type != models.EntryExpense {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "validation", "message": "type must be income or expense"})
	}
	if !req.Amount.IsPositive() {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "validation", "message": "amount must be greater than zero"})
	}

	uid, _ := getUserID(c)
	entry := models.CashBookEntry{
		TransactionDate: req.TransactionDate,
		Description:     req.Description,
		Amount:          req.Amount,
		Type:            req.Type,
		Category:        req.Category,
		Reference:       req.Reference,
		CreatedBy:       uid,
	}
	if err := h.db.Create(&entry).Error; err != nil {
		return financeError(c, err)
	}

	h.audit.Record(uid, "create_cash_book_entry", "cash_book_entry", entry.ID,
		map[string]any{"type": entry.Type, "amount": entry.Amount}, c.RealIP())
	return c.JSON(http.StatusCreated, entry)
}

type updateCashBookReq struct {
	TransactionDate *string          `json:"transaction_date"`
	Description     *string          `json:"description"`
	Amount          *decimal.Decimal `json:"amount"`
	Type            *string          `json:"type"`
	Category        *string          `json:"category"`
	Reference       *string          `json:"reference"`
}

// PATCH /cashbook/:id
func (h *CashBookHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var entry models.CashBookEntry
	if err := h.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "not_found", "message": "no cash book entry found with that ID"})
		}
		return financeError(c, err)
	}

	var req updateCashBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	updates := map[string]any{}
	if req.TransactionDate != nil {
		updates["transaction_date"] = *req.TransactionDate
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Reference != nil {
		updates["reference"] = *req.Reference
	}
	if len(updates) == 0 {
		return c.JSON(http.StatusOK, entry)
	}

	if err := h.db.Model(&entry).Updates(updates).Error; err != nil {
		return financeError(c, err)
	}

	uid, _ := getUserID(c)
	h.audit.Record(uid, "update_cash_book_entry", "cash_book_entry", entry.ID, nil, c.RealIP())
	return c.JSON(http.StatusOK, entry)
}

// DELETE /cashbook/:id
func (h *CashBookHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	res := h.db.Delete(&models.CashBookEntry{}, id)
	if res.Error != nil {
		return financeError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "not_found", "message": "no cash book entry found with that ID"})
	}

	uid, _ := getUserID(c)
	h.audit.Record(uid, "delete_cash_book_entry", "cash_book_entry", id, nil, c.RealIP())
	return c.NoContent(http.StatusNoContent)
}

// GET /cashbook/summary?startDate=&endDate=&groupBy=category|month
func (h *CashBookHandler) Summary(c echo.Context) error {
	summary, err := h.svc.CashBookSummary(finance.DateRange{
		Start: strings.TrimSpace(c.QueryParam("startDate")),
		End:   strings.TrimSpace(c.QueryParam("endDate")),
	}, strings.TrimSpace(c.QueryParam("groupBy")))
	if err != nil {
		return financeError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
