package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabarril/api-desbravador/models"
)

func TestGenerateMonthlyFeesIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	for _, name := range []string{"Ana", "Bia", "Caio"} {
		seedMember(t, db, name)
	}

	first, err := svc.GenerateMonthlyFees(6, 2024, dec("25.00"), "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, 3, first.Created)
	assert.Equal(t, 0, first.Skipped)
	assert.Equal(t, 3, first.Total)
	assert.Len(t, first.CreatedIDs, 3)

	second, err := svc.GenerateMonthlyFees(6, 2024, dec("25.00"), "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 3, second.Skipped)
	assert.Empty(t, second.CreatedIDs)

	assert.EqualValues(t, 3, countRows(t, db, &models.MonthlyFee{}))

	var fee models.MonthlyFee
	require.NoError(t, db.First(&fee).Error)
	assert.Equal(t, models.FeePending, fee.Status)
	assert.Equal(t, "Auto-generated fee for 6/2024. Due date: 2024-06-10", fee.Notes)
}

func TestGenerateMonthlyFeesSkipsOnlyExistingPeriods(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	a := seedMember(t, db, "Ana")
	seedMember(t, db, "Bia")
	seedFee(t, db, a.ID, 6, 2024, "25.00")

	res, err := svc.GenerateMonthlyFees(6, 2024, dec("25.00"), "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Skipped)

	// Another period is untouched by the first run.
	res, err = svc.GenerateMonthlyFees(7, 2024, dec("25.00"), "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 0, res.Skipped)
}

func TestGenerateMonthlyFeesValidatesPeriod(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	seedMember(t, db, "Ana")

	for _, tc := range []struct {
		name        string
		month, year int
	}{
		{"month too high", 13, 2024},
		{"month too low", 0, 2024},
		{"year too low", 6, 1999},
		{"year too high", 6, 2101},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.GenerateMonthlyFees(tc.month, tc.year, dec("25.00"), "")
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}

	assert.EqualValues(t, 0, countRows(t, db, &models.MonthlyFee{}))
}

func TestGenerateMonthlyFeesWithoutMembers(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	_, err := svc.GenerateMonthlyFees(6, 2024, dec("25.00"), "")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestBulkInsertAttendance(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	a := seedMember(t, db, "Ana")
	b := seedMember(t, db, "Bia")
	event, _ := seedEventWithParticipant(t, db, a.ID)

	res, err := svc.BulkInsertAttendance("2024-07-01", "event", &event.ID, []AttendanceInput{
		{MemberID: a.ID, Status: models.AttendancePresent},
		{MemberID: b.ID, Status: models.AttendanceLate, Notes: "arrived 10min late"},
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 0, res.Skipped)

	// Re-submitting the same roster only skips.
	res, err = svc.BulkInsertAttendance("2024-07-01", "event", &event.ID, []AttendanceInput{
		{MemberID: a.ID, Status: models.AttendancePresent},
		{MemberID: b.ID, Status: models.AttendancePresent},
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 2, res.Skipped)

	assert.EqualValues(t, 2, countRows(t, db, &models.AttendanceRecord{}))
}

func TestBulkInsertAttendanceUnknownMemberAbortsBatch(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	a := seedMember(t, db, "Ana")
	b := seedMember(t, db, "Bia")

	_, err := svc.BulkInsertAttendance("2024-07-01", "meeting", nil, []AttendanceInput{
		{MemberID: a.ID, Status: models.AttendancePresent},
		{MemberID: 9999, Status: models.AttendancePresent},
		{MemberID: b.ID, Status: models.AttendancePresent},
	}, 1)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))

	// The first record was rolled back with the rest.
	assert.EqualValues(t, 0, countRows(t, db, &models.AttendanceRecord{}))
}

func TestBulkInsertAttendanceWithoutEventIDNeverSkips(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	a := seedMember(t, db, "Ana")

	for i := 0; i < 2; i++ {
		res, err := svc.BulkInsertAttendance("2024-07-01", "meeting", nil, []AttendanceInput{
			{MemberID: a.ID, Status: models.AttendancePresent},
		}, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Created)
	}
	assert.EqualValues(t, 2, countRows(t, db, &models.AttendanceRecord{}))
}

func TestBulkInsertAttendanceValidation(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	a := seedMember(t, db, "Ana")

	_, err := svc.BulkInsertAttendance("2024-07-01", "meeting", nil, nil, 1)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.BulkInsertAttendance("", "meeting", nil, []AttendanceInput{{MemberID: a.ID, Status: models.AttendancePresent}}, 1)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.BulkInsertAttendance("2024-07-01", "", nil, []AttendanceInput{{MemberID: a.ID, Status: models.AttendancePresent}}, 1)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}
