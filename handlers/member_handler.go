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

type MemberHandler struct {
	db    *gorm.DB
	audit *audit.Logger
}

func NewMemberHandler(db *gorm.DB, auditLog *audit.Logger) *MemberHandler {
	return &MemberHandler{db: db, audit: auditLog}
}

// GET /members?status=&q=
func (h *MemberHandler) List(c echo.Context) error {
	tx := h.db.Model(&models.Member{})

	if v := strings.TrimSpace(c.QueryParam("status")); v != "" {
		tx = tx.Where("status = ?", v)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var rows []models.Member
	if err := tx.Order("name ASC").Find(&rows).Error; err != nil {
		return financeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /members/:id
func (h *MemberHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var member models.Member
	if err := h.db.First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "not_found", "message": "no member found with that ID"})
		}
		return financeError(c, err)
	}
	return c.JSON(http.StatusOK, member)
}

// POST /members
func (h *MemberHandler) Create(c echo.Context) error {
	var member models.Member
	if err := c.Bind(&member); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if strings.TrimSpace(member.Name) == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}
	member.ID = 0
	if member.Status == "" {
		member.Status = "active"
	}
	if err := h.db.Create(&member).Error; err != nil {
		return financeError(c, err)
	}

	uid, _ := getUserID(c)
	h.audit.Record(uid, "create_member", "member", member.ID, map[string]any{"name": member.Name}, c.RealIP())
	return c.JSON(http.StatusCreated, member)
}

// DELETE /members/:id
func (h *MemberHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	res := h.db.Delete(&models.Member{}, id)
	if res.Error != nil {
		return financeError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "not_found", "message": "no member found with that ID"})
	}

	uid, _ := getUserID(c)
	h.audit.Record(uid, "delete_member", "member", id, nil, c.RealIP())
	return c.NoContent(http.StatusNoContent)
}
