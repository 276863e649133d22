package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabarril/api-desbravador/audit"
	"github.com/mabarril/api-desbravador/finance"
	"github.com/mabarril/api-desbravador/models"
)

func mustDec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMonthlyFeeHandlerGenerate(t *testing.T) {
	db := openTestDB(t)
	h := NewMonthlyFeeHandler(db, finance.NewService(db), audit.New(db))

	for _, name := range []string{"Ana", "Bia"} {
		require.NoError(t, db.Create(&models.Member{Name: name, Status: "active"}).Error)
	}

	body := `{"month": 6, "year": 2024, "amount": "25.00", "due_date": "2024-06-10"}`
	c, rec := jsonContext(t, http.MethodPost, "/monthly-fees/generate", body)
	require.NoError(t, h.Generate(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var result finance.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Skipped)

	// Second run skips everything.
	c, rec = jsonContext(t, http.MethodPost, "/monthly-fees/generate", body)
	require.NoError(t, h.Generate(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 2, result.Skipped)
}

func TestMonthlyFeeHandlerGenerateBadMonth(t *testing.T) {
	db := openTestDB(t)
	h := NewMonthlyFeeHandler(db, finance.NewService(db), audit.New(db))
	require.NoError(t, db.Create(&models.Member{Name: "Ana", Status: "active"}).Error)

	c, rec := jsonContext(t, http.MethodPost, "/monthly-fees/generate", `{"month": 13, "year": 2024, "amount": "25.00"}`)
	require.NoError(t, h.Generate(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var n int64
	require.NoError(t, db.Model(&models.MonthlyFee{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestMonthlyFeeHandlerCreateConflict(t *testing.T) {
	db := openTestDB(t)
	h := NewMonthlyFeeHandler(db, finance.NewService(db), audit.New(db))

	member := models.Member{Name: "Ana", Status: "active"}
	require.NoError(t, db.Create(&member).Error)
	require.NoError(t, db.Create(&models.MonthlyFee{
		MemberID: member.ID, Month: 6, Year: 2024, Amount: mustDec("25.00"), Status: models.FeePending,
	}).Error)

	body := fmt.Sprintf(`{"member_id": %d, "month": 6, "year": 2024, "amount": "25.00"}`, member.ID)
	c, rec := jsonContext(t, http.MethodPost, "/monthly-fees", body)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMonthlyFeeHandlerStatistics(t *testing.T) {
	db := openTestDB(t)
	h := NewMonthlyFeeHandler(db, finance.NewService(db), audit.New(db))

	member := models.Member{Name: "Ana", Status: "active"}
	require.NoError(t, db.Create(&member).Error)
	require.NoError(t, db.Create(&models.MonthlyFee{
		MemberID: member.ID, Month: 1, Year: 2024, Amount: mustDec("25.00"), Status: models.FeePaid,
	}).Error)

	c, rec := jsonContext(t, http.MethodGet, "/monthly-fees/statistics?year=2024", "")
	require.NoError(t, h.Statistics(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats finance.MonthlyFeeStatistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, "100.00", stats.Totals.CollectionRate)
}
