package service

import (
	"context"
	"time"

	"github.com/pontoflow/pontoflow-backend/internal/timeclock/events"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/repository"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/timecalc"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
	"github.com/pontoflow/pontoflow-backend/pkg/logger"
)

// TimeRecordStore is the time record persistence surface
type TimeRecordStore interface {
	GetByEmployeeAndDate(ctx context.Context, employeeID, recordDate string) (*repository.TimeRecord, error)
	ListByEmployeeAndRange(ctx context.Context, employeeID, startDate, endDate string) ([]*repository.TimeRecord, error)
	SetPunch(ctx context.Context, employeeID, recordDate string, kind timecalc.PunchKind, punchTime *string) (*repository.TimeRecord, error)
	UpdateDeviation(ctx context.Context, employeeID, recordDate string, extraMinutes, missingMinutes int) error
}

// PunchService handles punch registration and the deviation
// recalculation that follows every mutation
type PunchService struct {
	records   TimeRecordStore
	schedules ScheduleStore
	employees EmployeeStore
	publisher *events.TimeclockEventPublisher
	logger    *logger.Logger
}

// NewPunchService creates a new punch service
func NewPunchService(
	records TimeRecordStore,
	schedules ScheduleStore,
	employees EmployeeStore,
	publisher *events.TimeclockEventPublisher,
	log *logger.Logger,
) *PunchService {
	return &PunchService{
		records:   records,
		schedules: schedules,
		employees: employees,
		publisher: publisher,
		logger:    log,
	}
}

// SetPunchRequest sets or clears one punch on one date. An empty Time
// clears the punch.
type SetPunchRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Kind string `json:"kind" validate:"required"`
	Time string `json:"time,omitempty" validate:"omitempty,datetime=15:04"`
}

// SetPunch registers, edits or clears a punch and synchronously
// recalculates the day's deviation
func (s *PunchService) SetPunch(ctx context.Context, employeeID string, req *SetPunchRequest) (*repository.TimeRecord, error) {
	kind, err := timecalc.ParsePunchKind(req.Kind)
	if err != nil {
		return nil, errors.BadRequest(err.Error())
	}

	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !emp.Active {
		return nil, errors.BadRequest("employee is inactive")
	}

	// previous value decides which event the mutation publishes
	prev, err := s.records.GetByEmployeeAndDate(ctx, employeeID, req.Date)
	if err != nil {
		return nil, err
	}
	var prevTime *string
	if prev != nil {
		prevTime = prev.ToDayRecord().Punch(kind)
	}

	punchTime := normalizeTime(req.Time)
	if punchTime == nil && prevTime == nil {
		return nil, errors.BadRequest("no punch to clear")
	}

	record, err := s.records.SetPunch(ctx, employeeID, req.Date, kind, punchTime)
	if err != nil {
		return nil, err
	}

	switch {
	case punchTime == nil:
		s.publisher.PublishPunchCleared(ctx, record, kind)
	case prevTime == nil:
		s.publisher.PublishPunchRegistered(ctx, record, kind, *punchTime)
	default:
		s.publisher.PublishPunchUpdated(ctx, record, kind, *punchTime)
	}

	if err := s.Recalculate(ctx, employeeID, req.Date); err != nil {
		return nil, err
	}

	return s.records.GetByEmployeeAndDate(ctx, employeeID, req.Date)
}

// Recalculate recomputes and persists the deviation for one employee
// and date. Safe to run repeatedly; the result depends only on the
// stored punches and the current schedule.
func (s *PunchService) Recalculate(ctx context.Context, employeeID, recordDate string) error {
	record, err := s.records.GetByEmployeeAndDate(ctx, employeeID, recordDate)
	if err != nil {
		return err
	}
	if record == nil {
		return nil
	}

	day, err := time.Parse(timecalc.DateLayout, recordDate)
	if err != nil {
		return errors.BadRequest("invalid record date")
	}

	schedule := timecalc.DaySchedule{DayOfWeek: int(day.Weekday())}
	if row, err := s.schedules.GetByWeekday(ctx, int(day.Weekday())); err != nil {
		return err
	} else if row != nil {
		schedule = row.ToDaySchedule()
	}

	deviation := timecalc.ComputeDeviation(record.ToDayRecord(), schedule)

	if err := s.records.UpdateDeviation(ctx, employeeID, recordDate, deviation.ExtraMinutes, deviation.MissingMinutes); err != nil {
		return err
	}

	s.publisher.PublishRecordRecalculated(ctx, employeeID, recordDate, deviation)

	return nil
}

// RecalculateRange recomputes every stored record for an employee in
// a date range. Used after schedule changes.
func (s *PunchService) RecalculateRange(ctx context.Context, employeeID, startDate, endDate string) (int, error) {
	records, err := s.records.ListByEmployeeAndRange(ctx, employeeID, startDate, endDate)
	if err != nil {
		return 0, err
	}

	for _, record := range records {
		if err := s.Recalculate(ctx, employeeID, record.RecordDate); err != nil {
			return 0, err
		}
	}

	return len(records), nil
}

// Day returns one employee's record for one date, or nil when no
// punches exist
func (s *PunchService) Day(ctx context.Context, employeeID, recordDate string) (*repository.TimeRecord, error) {
	if _, err := time.Parse(timecalc.DateLayout, recordDate); err != nil {
		return nil, errors.BadRequest("invalid date, expected YYYY-MM-DD")
	}
	return s.records.GetByEmployeeAndDate(ctx, employeeID, recordDate)
}
