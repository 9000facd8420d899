package service

import (
	"context"
	"time"

	"github.com/pontoflow/pontoflow-backend/internal/timeclock/repository"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/timecalc"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
	"github.com/pontoflow/pontoflow-backend/pkg/logger"
)

// EmployeeReport couples a computed report with the employee it covers
type EmployeeReport struct {
	Employee *repository.Employee `json:"employee"`
	Report   timecalc.Report      `json:"report"`
}

// ReportService aggregates time records into period reports
type ReportService struct {
	records   TimeRecordStore
	schedules ScheduleStore
	employees EmployeeStore
	logger    *logger.Logger
}

// NewReportService creates a new report service
func NewReportService(
	records TimeRecordStore,
	schedules ScheduleStore,
	employees EmployeeStore,
	log *logger.Logger,
) *ReportService {
	return &ReportService{
		records:   records,
		schedules: schedules,
		employees: employees,
		logger:    log,
	}
}

// Daily builds a single-day report
func (s *ReportService) Daily(ctx context.Context, employeeID, date string) (*EmployeeReport, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	start, end := timecalc.DailyRange(day)
	return s.build(ctx, employeeID, start, end)
}

// Weekly builds a report for the Sunday-to-Saturday week containing
// the date
func (s *ReportService) Weekly(ctx context.Context, employeeID, date string) (*EmployeeReport, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	start, end := timecalc.WeeklyRange(day)
	return s.build(ctx, employeeID, start, end)
}

// Monthly builds a report for the calendar month containing the date
func (s *ReportService) Monthly(ctx context.Context, employeeID, date string) (*EmployeeReport, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	start, end := timecalc.MonthlyRange(day)
	return s.build(ctx, employeeID, start, end)
}

// Range builds a report for an arbitrary inclusive date range
func (s *ReportService) Range(ctx context.Context, employeeID, startDate, endDate string) (*EmployeeReport, error) {
	start, err := parseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(endDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, errors.BadRequest("end date must not be before start date")
	}
	if end.Sub(start) > 366*24*time.Hour {
		return nil, errors.BadRequest("date range must not exceed one year")
	}
	return s.build(ctx, employeeID, start, end)
}

func (s *ReportService) build(ctx context.Context, employeeID string, start, end time.Time) (*EmployeeReport, error) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	rows, err := s.schedules.ListByCompany(ctx)
	if err != nil {
		return nil, err
	}
	schedules := make([]timecalc.DaySchedule, 0, len(rows))
	for _, row := range rows {
		schedules = append(schedules, row.ToDaySchedule())
	}

	stored, err := s.records.ListByEmployeeAndRange(ctx, employeeID,
		start.Format(timecalc.DateLayout), end.Format(timecalc.DateLayout))
	if err != nil {
		return nil, err
	}
	records := make([]timecalc.DayRecord, 0, len(stored))
	for _, row := range stored {
		records = append(records, row.ToDayRecord())
	}

	report := timecalc.BuildReport(start, end, schedules, records)

	return &EmployeeReport{
		Employee: emp,
		Report:   report,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	day, err := time.Parse(timecalc.DateLayout, s)
	if err != nil {
		return time.Time{}, errors.BadRequest("invalid date, expected YYYY-MM-DD")
	}
	return day, nil
}
