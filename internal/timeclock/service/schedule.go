package service

import (
	"context"

	"github.com/pontoflow/pontoflow-backend/internal/timeclock/events"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/repository"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/timecalc"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
	"github.com/pontoflow/pontoflow-backend/pkg/logger"
)

// ScheduleStore is the schedule persistence surface
type ScheduleStore interface {
	Upsert(ctx context.Context, sched *repository.WorkSchedule) error
	ListByCompany(ctx context.Context) ([]*repository.WorkSchedule, error)
	GetByWeekday(ctx context.Context, dayOfWeek int) (*repository.WorkSchedule, error)
}

// ScheduleService handles work schedule configuration
type ScheduleService struct {
	schedules ScheduleStore
	publisher *events.TimeclockEventPublisher
	logger    *logger.Logger
}

// NewScheduleService creates a new schedule service
func NewScheduleService(schedules ScheduleStore, publisher *events.TimeclockEventPublisher, log *logger.Logger) *ScheduleService {
	return &ScheduleService{
		schedules: schedules,
		publisher: publisher,
		logger:    log,
	}
}

// UpsertScheduleRequest configures one weekday. Empty or omitted
// times clear that punch expectation; all four empty marks the
// weekday as non-working.
type UpsertScheduleRequest struct {
	DayOfWeek  int    `json:"day_of_week" validate:"min=0,max=6"`
	EntryTime  string `json:"entry_time,omitempty" validate:"omitempty,datetime=15:04"`
	LunchStart string `json:"lunch_start,omitempty" validate:"omitempty,datetime=15:04"`
	LunchEnd   string `json:"lunch_end,omitempty" validate:"omitempty,datetime=15:04"`
	ExitTime   string `json:"exit_time,omitempty" validate:"omitempty,datetime=15:04"`
}

// Upsert saves the schedule for one weekday
func (s *ScheduleService) Upsert(ctx context.Context, req *UpsertScheduleRequest) (*repository.WorkSchedule, error) {
	sched := &repository.WorkSchedule{
		DayOfWeek:  req.DayOfWeek,
		EntryTime:  normalizeTime(req.EntryTime),
		LunchStart: normalizeTime(req.LunchStart),
		LunchEnd:   normalizeTime(req.LunchEnd),
		ExitTime:   normalizeTime(req.ExitTime),
	}

	// lunch must be either fully configured or absent
	if (sched.LunchStart == nil) != (sched.LunchEnd == nil) {
		return nil, errors.BadRequest("lunch_start and lunch_end must be set together")
	}

	if err := s.schedules.Upsert(ctx, sched); err != nil {
		return nil, err
	}

	s.publisher.PublishScheduleUpserted(ctx, sched)

	return sched, nil
}

// Week returns all seven weekdays, filling unconfigured days with
// all-unset schedules so clients always see a full week.
func (s *ScheduleService) Week(ctx context.Context) ([]timecalc.DaySchedule, error) {
	rows, err := s.schedules.ListByCompany(ctx)
	if err != nil {
		return nil, err
	}

	week := make([]timecalc.DaySchedule, 7)
	for day := 0; day < 7; day++ {
		week[day] = timecalc.DaySchedule{DayOfWeek: day}
	}
	for _, row := range rows {
		if row.DayOfWeek >= 0 && row.DayOfWeek <= 6 {
			week[row.DayOfWeek] = row.ToDaySchedule()
		}
	}

	return week, nil
}

// normalizeTime converts an HH:MM form value to a nullable HH:MM:SS
// stored value
func normalizeTime(v string) *string {
	if v == "" {
		return nil
	}
	if len(v) == 5 {
		v += ":00"
	}
	return &v
}
