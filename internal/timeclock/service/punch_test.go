package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontoflow/pontoflow-backend/internal/timeclock/repository"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/service"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
	"github.com/pontoflow/pontoflow-backend/pkg/messaging"
	"github.com/pontoflow/pontoflow-backend/pkg/testutil"
)

// 2026-03-02 is a Monday
const testDate = "2026-03-02"

func newPunchService(t *testing.T) (*service.PunchService, *fakeTimeRecordStore, *fakeScheduleStore, *fakeEmployeeStore, *testutil.MockPublisher) {
	t.Helper()

	records := newFakeTimeRecordStore()
	schedules := newFakeScheduleStore()
	employees := newFakeEmployeeStore()
	publisher, bus := testPublisher()

	svc := service.NewPunchService(records, schedules, employees, publisher, testLogger())
	return svc, records, schedules, employees, bus
}

func mondaySchedule(t *testing.T, schedules *fakeScheduleStore) {
	t.Helper()
	err := schedules.Upsert(context.Background(), &repository.WorkSchedule{
		DayOfWeek:  1,
		EntryTime:  testutil.PtrString("08:00:00"),
		LunchStart: testutil.PtrString("12:00:00"),
		LunchEnd:   testutil.PtrString("13:00:00"),
		ExitTime:   testutil.PtrString("17:00:00"),
	})
	require.NoError(t, err)
}

// ============================================================================
// PUNCH REGISTRATION TESTS
// ============================================================================

func TestPunch_Register_EarlyEntry(t *testing.T) {
	svc, _, schedules, employees, bus := newPunchService(t)
	mondaySchedule(t, schedules)
	employees.addActive(1)

	record, err := svc.SetPunch(context.Background(), "employee-1", &service.SetPunchRequest{
		Date: testDate,
		Kind: "entry",
		Time: "07:50",
	})
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "07:50:00", *record.EntryTime)

	// ten minutes before the scheduled entry is extra time, and the
	// deviation is persisted as part of the same operation
	assert.Equal(t, 10, record.ExtraMinutes())

	bus.AssertEventPublished(t, messaging.EventPunchRegistered)
	bus.AssertEventPublished(t, messaging.EventRecordRecalculated)
}

func TestPunch_Register_LateEntry(t *testing.T) {
	svc, _, schedules, employees, _ := newPunchService(t)
	mondaySchedule(t, schedules)
	employees.addActive(1)

	record, err := svc.SetPunch(context.Background(), "employee-1", &service.SetPunchRequest{
		Date: testDate,
		Kind: "entry",
		Time: "08:15",
	})
	require.NoError(t, err)
	assert.Equal(t, 15, record.MissingMinutes())
	assert.Equal(t, 0, record.ExtraMinutes())
}

func TestPunch_Edit_PublishesUpdatedEvent(t *testing.T) {
	svc, _, schedules, employees, bus := newPunchService(t)
	mondaySchedule(t, schedules)
	employees.addActive(1)

	_, err := svc.SetPunch(context.Background(), "employee-1", &service.SetPunchRequest{
		Date: testDate, Kind: "entry", Time: "08:15",
	})
	require.NoError(t, err)
	bus.Reset()

	record, err := svc.SetPunch(context.Background(), "employee-1", &service.SetPunchRequest{
		Date: testDate, Kind: "entry", Time: "08:00",
	})
	require.NoError(t, err)

	// correction replaces the missing minutes from the late punch
	assert.Equal(t, 0, record.MissingMinutes())

	bus.AssertEventPublished(t, messaging.EventPunchUpdated)
	bus.AssertEventPublished(t, messaging.EventRecordRecalculated)
}

func TestPunch_Clear(t *testing.T) {
	svc, _, schedules, employees, bus := newPunchService(t)
	mondaySchedule(t, schedules)
	employees.addActive(1)

	_, err := svc.SetPunch(context.Background(), "employee-1", &service.SetPunchRequest{
		Date: testDate, Kind: "entry", Time: "08:00",
	})
	require.NoError(t, err)
	bus.Reset()

	record, err := svc.SetPunch(context.Background(), "employee-1", &service.SetPunchRequest{
		Date: testDate, Kind: "entry",
	})
	require.NoError(t, err)
	assert.Nil(t, record.EntryTime)

	// a scheduled entry with no punch falls back to the fixed penalty
	assert.Equal(t, 480+480, record.MissingMinutes()) // entry and exit both unregistered

	bus.AssertEventPublished(t, messaging.EventPunchCleared)
}

func TestPunch_Clear_NothingToClear(t *testing.T) {
	svc, _, schedules, employees, _ := newPunchService(t)
	mondaySchedule(t, schedules)
	employees.addActive(1)

	_, err := svc.SetPunch(context.Background(), "employee-1", &service.SetPunchRequest{
		Date: testDate, Kind: "entry",
	})
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestPunch_InvalidKind(t *testing.T) {
	svc, _, _, employees, _ := newPunchService(t)
	employees.addActive(1)

	_, err := svc.SetPunch(context.Background(), "employee-1", &service.SetPunchRequest{
		Date: testDate, Kind: "coffee", Time: "10:00",
	})
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestPunch_InactiveEmployee(t *testing.T) {
	svc, _, _, employees, _ := newPunchService(t)
	employees.addActive(1)
	employees.employees["employee-1"].Active = false

	_, err := svc.SetPunch(context.Background(), "employee-1", &service.SetPunchRequest{
		Date: testDate, Kind: "entry", Time: "08:00",
	})
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)
}

// ============================================================================
// RECALCULATION TESTS
// ============================================================================

func TestRecalculate_Idempotent(t *testing.T) {
	svc, records, schedules, employees, _ := newPunchService(t)
	mondaySchedule(t, schedules)
	employees.addActive(1)

	_, err := svc.SetPunch(context.Background(), "employee-1", &service.SetPunchRequest{
		Date: testDate, Kind: "entry", Time: "07:50",
	})
	require.NoError(t, err)

	first, err := records.GetByEmployeeAndDate(context.Background(), "employee-1", testDate)
	require.NoError(t, err)

	// rerunning changes nothing when inputs are unchanged
	require.NoError(t, svc.Recalculate(context.Background(), "employee-1", testDate))
	require.NoError(t, svc.Recalculate(context.Background(), "employee-1", testDate))

	second, err := records.GetByEmployeeAndDate(context.Background(), "employee-1", testDate)
	require.NoError(t, err)
	assert.Equal(t, first.ExtraMinutes(), second.ExtraMinutes())
	assert.Equal(t, first.MissingMinutes(), second.MissingMinutes())
}

func TestRecalculate_NoRecordIsNoOp(t *testing.T) {
	svc, _, schedules, employees, bus := newPunchService(t)
	mondaySchedule(t, schedules)
	employees.addActive(1)

	require.NoError(t, svc.Recalculate(context.Background(), "employee-1", testDate))
	bus.AssertNoEventsPublished(t)
}

func TestRecalculate_NoScheduleZeroesDeviation(t *testing.T) {
	svc, records, _, employees, _ := newPunchService(t)
	employees.addActive(1)

	// punches on a day with no configured schedule carry no deviation
	record, err := svc.SetPunch(context.Background(), "employee-1", &service.SetPunchRequest{
		Date: testDate, Kind: "entry", Time: "08:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, record.ExtraMinutes())
	assert.Equal(t, 0, record.MissingMinutes())

	stored, err := records.GetByEmployeeAndDate(context.Background(), "employee-1", testDate)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestRecalculateRange_AfterScheduleChange(t *testing.T) {
	svc, _, schedules, employees, _ := newPunchService(t)
	mondaySchedule(t, schedules)
	employees.addActive(1)

	record, err := svc.SetPunch(context.Background(), "employee-1", &service.SetPunchRequest{
		Date: testDate, Kind: "entry", Time: "08:15",
	})
	require.NoError(t, err)
	assert.Equal(t, 15, record.MissingMinutes())

	// moving the scheduled entry to 08:30 turns the late punch into an
	// early one
	err = schedules.Upsert(context.Background(), &repository.WorkSchedule{
		DayOfWeek:  1,
		EntryTime:  testutil.PtrString("08:30:00"),
		LunchStart: testutil.PtrString("12:00:00"),
		LunchEnd:   testutil.PtrString("13:00:00"),
		ExitTime:   testutil.PtrString("17:00:00"),
	})
	require.NoError(t, err)

	count, err := svc.RecalculateRange(context.Background(), "employee-1", "2026-03-01", "2026-03-07")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	updated, err := svc.Day(context.Background(), "employee-1", testDate)
	require.NoError(t, err)
	assert.Equal(t, 15, updated.ExtraMinutes())
	assert.Equal(t, 0, updated.MissingMinutes())
}
