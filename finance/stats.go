package finance

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mabarril/api-desbravador/models"
)

// DateRange bounds a statistics query. Empty fields are open-ended.
type DateRange struct {
	Start string
	End   string
}

func dateFilter(tx *gorm.DB, column string, r DateRange) *gorm.DB {
	if r.Start != "" {
		tx = tx.Where(column+" >= ?", r.Start)
	}
	if r.End != "" {
		tx = tx.Where(column+" <= ?", r.End)
	}
	return tx
}

// percentage formats paid/total as a percentage with two decimals, "0" when
// the denominator is zero.
func percentage(paid, total decimal.Decimal) string {
	if total.IsZero() {
		return "0"
	}
	return paid.Div(total).Mul(decimal.NewFromInt(100)).StringFixed(2)
}

type PaymentTotals struct {
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type MethodBreakdown struct {
	PaymentMethod string          `json:"payment_method"`
	Count         int64           `json:"count"`
	Total         decimal.Decimal `json:"total"`
}

type ReferenceBreakdown struct {
	ReferenceType string          `json:"reference_type"`
	Count         int64           `json:"count"`
	Total         decimal.Decimal `json:"total"`
}

type MonthBreakdown struct {
	Month string          `json:"month"` // YYYY-MM
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type PaymentStatistics struct {
	Totals          PaymentTotals        `json:"total_payments"`
	ByMethod        []MethodBreakdown    `json:"payments_by_method"`
	ByReferenceType []ReferenceBreakdown `json:"payments_by_reference_type"`
	ByMonth         []MonthBreakdown     `json:"payments_by_month"`
}

// PaymentStatistics aggregates payment count and volume over an optional
// date window, grouped by method, reference kind and calendar month. Pure
// read.
func (s *Service) PaymentStatistics(r DateRange) (*PaymentStatistics, error) {
	stats := &PaymentStatistics{}

	err := dateFilter(s.db.Model(&models.Payment{}), "payment_date", r).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Scan(&stats.Totals).Error
	if err != nil {
		return nil, persistenceErr("total payments", err)
	}

	err = dateFilter(s.db.Model(&models.Payment{}), "payment_date", r).
		Select("payment_method, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Group("payment_method").
		Scan(&stats.ByMethod).Error
	if err != nil {
		return nil, persistenceErr("payments by method", err)
	}

	err = dateFilter(s.db.Model(&models.Payment{}), "payment_date", r).
		Select("reference_type, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Group("reference_type").
		Scan(&stats.ByReferenceType).Error
	if err != nil {
		return nil, persistenceErr("payments by reference type", err)
	}

	err = dateFilter(s.db.Model(&models.Payment{}), "payment_date", r).
		Select("substr(payment_date, 1, 7) AS month, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Group("substr(payment_date, 1, 7)").
		Order("month").
		Scan(&stats.ByMonth).Error
	if err != nil {
		return nil, persistenceErr("payments by month", err)
	}

	return stats, nil
}

type CategoryBreakdown struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type CashFlowMonth struct {
	Month   string          `json:"month"` // YYYY-MM
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

type CashBookSummary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`

	IncomeByCategory  []CategoryBreakdown `json:"income_by_category,omitempty"`
	ExpenseByCategory []CategoryBreakdown `json:"expense_by_category,omitempty"`
	ByMonth           []CashFlowMonth     `json:"by_month,omitempty"`
}

// CashBookSummary totals income and expense over an optional date window.
// groupBy may be "category" or "month" for a breakdown, anything else for
// totals only.
func (s *Service) CashBookSummary(r DateRange, groupBy string) (*CashBookSummary, error) {
	summary := &CashBookSummary{}

	sumByType := func(entryType string) (decimal.Decimal, error) {
		var row struct{ Total decimal.Decimal }
		err := dateFilter(s.db.Model(&models.CashBookEntry{}), "transaction_date", r).
			Where("type = ?", entryType).
			Select("COALESCE(SUM(amount), 0) AS total").
			Scan(&row).Error
		return row.Total, err
	}

	var err error
	if summary.TotalIncome, err = sumByType(models.EntryIncome); err != nil {
		return nil, persistenceErr("total income", err)
	}
	if summary.TotalExpense, err = sumByType(models.EntryExpense); err != nil {
		return nil, persistenceErr("total expense", err)
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)

	switch groupBy {
	case "category":
		byCategory := func(entryType string) ([]CategoryBreakdown, error) {
			var rows []CategoryBreakdown
			err := dateFilter(s.db.Model(&models.CashBookEntry{}), "transaction_date", r).
				Where("type = ?", entryType).
				Select("category, COALESCE(SUM(amount), 0) AS total").
				Group("category").
				Scan(&rows).Error
			return rows, err
		}
		if summary.IncomeByCategory, err = byCategory(models.EntryIncome); err != nil {
			return nil, persistenceErr("income by category", err)
		}
		if summary.ExpenseByCategory, err = byCategory(models.EntryExpense); err != nil {
			return nil, persistenceErr("expense by category", err)
		}
	case "month":
		err = dateFilter(s.db.Model(&models.CashBookEntry{}), "transaction_date", r).
			Select(`substr(transaction_date, 1, 7) AS month,
				COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0) AS income,
				COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS expense,
				COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END), 0) AS balance`).
			Group("substr(transaction_date, 1, 7)").
			Order("month").
			Scan(&summary.ByMonth).Error
		if err != nil {
			return nil, persistenceErr("cash flow by month", err)
		}
	}

	return summary, nil
}

type FeeTotals struct {
	Count          int64           `json:"count"`
	Total          decimal.Decimal `json:"total"`
	Paid           decimal.Decimal `json:"paid"`
	Pending        decimal.Decimal `json:"pending"`
	Waived         decimal.Decimal `json:"waived"`
	CollectionRate string          `json:"collection_rate"`
}

type FeeMonthStat struct {
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	Count          int64           `json:"count"`
	Total          decimal.Decimal `json:"total"`
	Paid           decimal.Decimal `json:"paid"`
	Pending        decimal.Decimal `json:"pending"`
	Waived         decimal.Decimal `json:"waived"`
	CollectionRate string          `json:"collection_rate"`
}

type MonthlyFeeStatistics struct {
	Totals  FeeTotals      `json:"total_fees"`
	ByMonth []FeeMonthStat `json:"fees_by_month"`
}

// MonthlyFeeStatistics reports dues totals and the collection rate
// (paid/total) overall and per (year, month). Year 0 means all years.
func (s *Service) MonthlyFeeStatistics(year int) (*MonthlyFeeStatistics, error) {
	stats := &MonthlyFeeStatistics{}

	base := func() *gorm.DB {
		tx := s.db.Model(&models.MonthlyFee{})
		if year != 0 {
			tx = tx.Where("year = ?", year)
		}
		return tx
	}

	const sums = `COUNT(*) AS count,
		COALESCE(SUM(amount), 0) AS total,
		COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0) AS paid,
		COALESCE(SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END), 0) AS pending,
		COALESCE(SUM(CASE WHEN status = 'waived' THEN amount ELSE 0 END), 0) AS waived`

	if err := base().Select(sums).Scan(&stats.Totals).Error; err != nil {
		return nil, persistenceErr("total fees", err)
	}
	stats.Totals.CollectionRate = percentage(stats.Totals.Paid, stats.Totals.Total)

	err := base().Select("year, month, " + sums).
		Group("year, month").
		Order("year DESC, month ASC").
		Scan(&stats.ByMonth).Error
	if err != nil {
		return nil, persistenceErr("fees by month", err)
	}
	for i := range stats.ByMonth {
		stats.ByMonth[i].CollectionRate = percentage(stats.ByMonth[i].Paid, stats.ByMonth[i].Total)
	}

	return stats, nil
}

type AttendanceStatistics struct {
	TotalRecords   int64  `json:"total_records"`
	PresentCount   int64  `json:"present_count"`
	AbsentCount    int64  `json:"absent_count"`
	ExcusedCount   int64  `json:"excused_count"`
	LateCount      int64  `json:"late_count"`
	AttendanceRate string `json:"attendance_rate"`
}

// MemberAttendanceStatistics counts one member's attendance by status over
// an optional window. Present and late both count toward the rate.
func (s *Service) MemberAttendanceStatistics(memberID uint, r DateRange, eventType string) (*AttendanceStatistics, error) {
	if err := s.checkMemberExists(s.db, memberID); err != nil {
		return nil, err
	}

	base := func() *gorm.DB {
		tx := dateFilter(s.db.Model(&models.AttendanceRecord{}), "event_date", r).
			Where("member_id = ?", memberID)
		if eventType != "" {
			tx = tx.Where("event_type = ?", eventType)
		}
		return tx
	}

	stats := &AttendanceStatistics{}
	if err := base().Count(&stats.TotalRecords).Error; err != nil {
		return nil, persistenceErr("count attendance", err)
	}
	for status, dst := range map[string]*int64{
		models.AttendancePresent: &stats.PresentCount,
		models.AttendanceAbsent:  &stats.AbsentCount,
		models.AttendanceExcused: &stats.ExcusedCount,
		models.AttendanceLate:    &stats.LateCount,
	} {
		if err := base().Where("status = ?", status).Count(dst).Error; err != nil {
			return nil, persistenceErr("count attendance by status", err)
		}
	}

	stats.AttendanceRate = percentage(
		decimal.NewFromInt(stats.PresentCount+stats.LateCount),
		decimal.NewFromInt(stats.TotalRecords),
	)
	return stats, nil
}
