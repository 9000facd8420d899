package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontoflow/pontoflow-backend/internal/timeclock/repository"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/timecalc"
	"github.com/pontoflow/pontoflow-backend/pkg/database"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
	"github.com/pontoflow/pontoflow-backend/pkg/logger"
	"github.com/pontoflow/pontoflow-backend/pkg/tenant"
	"github.com/pontoflow/pontoflow-backend/pkg/testutil"
)

const (
	testCompanyID  = "11111111-1111-1111-1111-111111111111"
	testEmployeeID = "22222222-2222-2222-2222-222222222222"
	testRecordID   = "33333333-3333-3333-3333-333333333333"
)

func newTestDB(t *testing.T) (*testutil.MockDB, *database.DB) {
	t.Helper()
	mockDB := testutil.NewMockDB(t)
	log := logger.New("test", "debug")
	return mockDB, database.Wrap(mockDB.DB, log)
}

func tenantCtx() context.Context {
	return tenant.WithCompanyID(context.Background(), testCompanyID)
}

var timeRecordColumns = []string{
	"id", "company_id", "employee_id", "record_date",
	"entry_time", "lunch_start", "lunch_end", "exit_time",
	"extra_hours", "missing_hours", "created_at", "updated_at",
}

func timeRecordRow(date string, entry, exitTime *string, extra, missing string) *sqlmock.Rows {
	now := time.Now()
	return testutil.MockRows(timeRecordColumns...).
		AddRow(testRecordID, testCompanyID, testEmployeeID, date,
			entry, nil, nil, exitTime, extra, missing, now, now)
}

// ============================================================================
// GET BY EMPLOYEE AND DATE
// ============================================================================

func TestTimeRecord_GetByEmployeeAndDate(t *testing.T) {
	mockDB, db := newTestDB(t)
	defer mockDB.Close()

	repo := repository.NewTimeRecordRepository(db)

	entry := "08:10:00"
	exit := "17:00:00"
	mockDB.ExpectTenantQuery(testCompanyID,
		"FROM time_records",
		timeRecordRow("2026-03-02", &entry, &exit, "00:10:00", "00:00:00"),
	)

	record, err := repo.GetByEmployeeAndDate(tenantCtx(), testEmployeeID, "2026-03-02")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "2026-03-02", record.RecordDate)
	assert.Equal(t, "08:10:00", *record.EntryTime)
	assert.Nil(t, record.LunchStart)

	// stored intervals come back as minutes
	assert.Equal(t, 10, record.ExtraMinutes())
	assert.Equal(t, 0, record.MissingMinutes())

	mockDB.ExpectationsWereMet(t)
}

func TestTimeRecord_GetByEmployeeAndDate_Absent(t *testing.T) {
	mockDB, db := newTestDB(t)
	defer mockDB.Close()

	repo := repository.NewTimeRecordRepository(db)

	// a day with no punches is not an error; the empty result rolls the
	// tenant transaction back
	mockDB.ExpectTenantBegin(testCompanyID)
	mockDB.ExpectQuery("FROM time_records").
		WillReturnRows(testutil.MockRows(timeRecordColumns...))
	mockDB.ExpectRollback()

	record, err := repo.GetByEmployeeAndDate(tenantCtx(), testEmployeeID, "2026-03-03")
	require.NoError(t, err)
	assert.Nil(t, record)

	mockDB.ExpectationsWereMet(t)
}

func TestTimeRecord_GetByEmployeeAndDate_NoTenant(t *testing.T) {
	mockDB, db := newTestDB(t)
	defer mockDB.Close()

	repo := repository.NewTimeRecordRepository(db)

	record, err := repo.GetByEmployeeAndDate(context.Background(), testEmployeeID, "2026-03-02")
	assert.ErrorIs(t, err, tenant.ErrNoCompanyInContext)
	assert.Nil(t, record)
}

// ============================================================================
// RANGE LISTING
// ============================================================================

func TestTimeRecord_ListByEmployeeAndRange(t *testing.T) {
	mockDB, db := newTestDB(t)
	defer mockDB.Close()

	repo := repository.NewTimeRecordRepository(db)

	entry := "08:00:00"
	exit := "17:00:00"
	now := time.Now()
	rows := testutil.MockRows(timeRecordColumns...).
		AddRow(testRecordID, testCompanyID, testEmployeeID, "2026-03-02",
			&entry, nil, nil, &exit, "00:00:00", "01:05:00", now, now).
		AddRow("44444444-4444-4444-4444-444444444444", testCompanyID, testEmployeeID, "2026-03-03",
			&entry, nil, nil, nil, "", "", now, now)

	mockDB.ExpectTenantQuery(testCompanyID, "FROM time_records", rows)

	records, err := repo.ListByEmployeeAndRange(tenantCtx(), testEmployeeID, "2026-03-01", "2026-03-07")
	require.NoError(t, err)
	require.Len(t, records, 2)

	// cached deviation survives the round trip in minutes
	assert.Equal(t, 65, records[0].MissingMinutes())
	assert.Equal(t, 0, records[1].MissingMinutes())

	day := records[0].ToDayRecord()
	assert.Equal(t, "2026-03-02", day.Date)
	assert.Equal(t, 65, day.MissingMinutes)
	assert.True(t, day.HasEntryAndExit())
	assert.False(t, records[1].ToDayRecord().HasEntryAndExit())

	mockDB.ExpectationsWereMet(t)
}

// ============================================================================
// SET PUNCH
// ============================================================================

func TestTimeRecord_SetPunch_Insert(t *testing.T) {
	mockDB, db := newTestDB(t)
	defer mockDB.Close()

	repo := repository.NewTimeRecordRepository(db)

	entry := "08:05:00"
	mockDB.ExpectTenantBegin(testCompanyID)
	mockDB.ExpectQuery("INSERT INTO time_records").
		WithArgs(testutil.AnyUUID{}, testCompanyID, testEmployeeID, "2026-03-02", &entry).
		WillReturnRows(timeRecordRow("2026-03-02", &entry, nil, "", ""))
	mockDB.ExpectCommit()

	record, err := repo.SetPunch(tenantCtx(), testEmployeeID, "2026-03-02", timecalc.PunchEntry, &entry)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "08:05:00", *record.EntryTime)
	assert.Nil(t, record.ExitTime)

	mockDB.ExpectationsWereMet(t)
}

func TestTimeRecord_SetPunch_Clear(t *testing.T) {
	mockDB, db := newTestDB(t)
	defer mockDB.Close()

	repo := repository.NewTimeRecordRepository(db)

	// clearing a punch passes NULL and leaves the record in place
	entry := "08:05:00"
	mockDB.ExpectTenantBegin(testCompanyID)
	mockDB.ExpectQuery("INSERT INTO time_records").
		WithArgs(testutil.AnyUUID{}, testCompanyID, testEmployeeID, "2026-03-02", nil).
		WillReturnRows(timeRecordRow("2026-03-02", &entry, nil, "", ""))
	mockDB.ExpectCommit()

	record, err := repo.SetPunch(tenantCtx(), testEmployeeID, "2026-03-02", timecalc.PunchExit, nil)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Nil(t, record.ExitTime)

	mockDB.ExpectationsWereMet(t)
}

func TestTimeRecord_SetPunch_InvalidKind(t *testing.T) {
	mockDB, db := newTestDB(t)
	defer mockDB.Close()

	repo := repository.NewTimeRecordRepository(db)

	assert.Panics(t, func() {
		repo.SetPunch(tenantCtx(), testEmployeeID, "2026-03-02", timecalc.PunchKind("nap"), nil)
	})
}

// ============================================================================
// DEVIATION CACHE
// ============================================================================

func TestTimeRecord_UpdateDeviation(t *testing.T) {
	mockDB, db := newTestDB(t)
	defer mockDB.Close()

	repo := repository.NewTimeRecordRepository(db)

	mockDB.ExpectTenantBegin(testCompanyID)
	mockDB.ExpectExec("UPDATE time_records").
		WithArgs(testEmployeeID, "2026-03-02", 10, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectCommit()

	err := repo.UpdateDeviation(tenantCtx(), testEmployeeID, "2026-03-02", 10, 0)
	require.NoError(t, err)

	mockDB.ExpectationsWereMet(t)
}

func TestTimeRecord_UpdateDeviation_NotFound(t *testing.T) {
	mockDB, db := newTestDB(t)
	defer mockDB.Close()

	repo := repository.NewTimeRecordRepository(db)

	mockDB.ExpectTenantBegin(testCompanyID)
	mockDB.ExpectExec("UPDATE time_records").
		WithArgs(testEmployeeID, "2026-03-09", 0, 480).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mockDB.ExpectRollback()

	err := repo.UpdateDeviation(tenantCtx(), testEmployeeID, "2026-03-09", 0, 480)
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.StatusCode)
}
