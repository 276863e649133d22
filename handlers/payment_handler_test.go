package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mabarril/api-desbravador/audit"
	"github.com/mabarril/api-desbravador/database"
	"github.com/mabarril/api-desbravador/finance"
	"github.com/mabarril/api-desbravador/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func newPaymentHandler(t *testing.T) (*PaymentHandler, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	return NewPaymentHandler(db, finance.NewService(db), audit.New(db)), db
}

// jsonContext builds an authenticated request context the way the JWT
// middleware would leave it.
func jsonContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint(1))
	c.Set("role", models.RoleTreasurer)
	return c, rec
}

func TestPaymentHandlerCreate(t *testing.T) {
	h, db := newPaymentHandler(t)

	member := models.Member{Name: "Ana", Status: "active"}
	require.NoError(t, db.Create(&member).Error)
	fee := models.MonthlyFee{MemberID: member.ID, Month: 3, Year: 2024, Amount: mustDec("25.00"), Status: models.FeePending}
	require.NoError(t, db.Create(&fee).Error)

	body := fmt.Sprintf(`{
		"member_id": %d,
		"amount": "25.00",
		"payment_date": "2024-03-15",
		"payment_method": "cash",
		"reference_type": "monthly_fee",
		"reference_id": %d
	}`, member.ID, fee.ID)
	c, rec := jsonContext(t, http.MethodPost, "/payments", body)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Payment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.EqualValues(t, 1, created.CreatedBy)

	var gotFee models.MonthlyFee
	require.NoError(t, db.First(&gotFee, fee.ID).Error)
	assert.Equal(t, models.FeePaid, gotFee.Status)

	var auditCount int64
	require.NoError(t, db.Model(&models.AuditLog{}).Where("action = ?", "create_payment").Count(&auditCount).Error)
	assert.EqualValues(t, 1, auditCount)
}

func TestPaymentHandlerCreateOwnershipMismatch(t *testing.T) {
	h, db := newPaymentHandler(t)

	owner := models.Member{Name: "Ana", Status: "active"}
	require.NoError(t, db.Create(&owner).Error)
	other := models.Member{Name: "Bia", Status: "active"}
	require.NoError(t, db.Create(&other).Error)
	fee := models.MonthlyFee{MemberID: owner.ID, Month: 3, Year: 2024, Amount: mustDec("25.00"), Status: models.FeePending}
	require.NoError(t, db.Create(&fee).Error)

	body := fmt.Sprintf(`{
		"member_id": %d,
		"amount": "25.00",
		"payment_date": "2024-03-15",
		"payment_method": "cash",
		"reference_type": "monthly_fee",
		"reference_id": %d
	}`, other.ID, fee.ID)
	c, rec := jsonContext(t, http.MethodPost, "/payments", body)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(finance.KindOwnershipMismatch), resp["error"])
}

func TestPaymentHandlerGetNotFound(t *testing.T) {
	h, _ := newPaymentHandler(t)

	c, rec := jsonContext(t, http.MethodGet, "/payments/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPaymentHandlerDelete(t *testing.T) {
	h, db := newPaymentHandler(t)

	member := models.Member{Name: "Ana", Status: "active"}
	require.NoError(t, db.Create(&member).Error)
	payment := models.Payment{
		MemberID: &member.ID, Amount: mustDec("10.00"),
		PaymentDate: "2024-01-01", PaymentMethod: models.MethodCash, CreatedBy: 1,
	}
	require.NoError(t, db.Create(&payment).Error)

	c, rec := jsonContext(t, http.MethodDelete, "/payments/1", "")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(payment.ID))

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	var n int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestPaymentHandlerList(t *testing.T) {
	h, db := newPaymentHandler(t)

	member := models.Member{Name: "Ana", Status: "active"}
	require.NoError(t, db.Create(&member).Error)
	for _, date := range []string{"2024-01-10", "2024-02-10"} {
		p := models.Payment{
			MemberID: &member.ID, Amount: mustDec("10.00"),
			PaymentDate: date, PaymentMethod: models.MethodCash, CreatedBy: 1,
		}
		require.NoError(t, db.Create(&p).Error)
	}

	c, rec := jsonContext(t, http.MethodGet, "/payments?startDate=2024-02-01", "")
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []models.Payment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-02-10", rows[0].PaymentDate)
}
