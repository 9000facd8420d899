package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/timecalc"
	"github.com/pontoflow/pontoflow-backend/pkg/database"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
	"github.com/pontoflow/pontoflow-backend/pkg/tenant"
)

// WorkSchedule is one weekday's configured work window for a company.
// The four TIME columns are nullable; an unset field means the punch
// is not expected on that weekday.
type WorkSchedule struct {
	ID         string  `db:"id" json:"id"`
	CompanyID  string  `db:"company_id" json:"company_id"`
	DayOfWeek  int     `db:"day_of_week" json:"day_of_week"`
	EntryTime  *string `db:"entry_time" json:"entry_time,omitempty"`   // TIME format HH:MM:SS
	LunchStart *string `db:"lunch_start" json:"lunch_start,omitempty"` // TIME format HH:MM:SS
	LunchEnd   *string `db:"lunch_end" json:"lunch_end,omitempty"`     // TIME format HH:MM:SS
	ExitTime   *string `db:"exit_time" json:"exit_time,omitempty"`     // TIME format HH:MM:SS
}

// ToDaySchedule converts the row into the calculation model
func (s *WorkSchedule) ToDaySchedule() timecalc.DaySchedule {
	return timecalc.DaySchedule{
		DayOfWeek:  s.DayOfWeek,
		EntryTime:  s.EntryTime,
		LunchStart: s.LunchStart,
		LunchEnd:   s.LunchEnd,
		ExitTime:   s.ExitTime,
	}
}

// ScheduleRepository handles work schedule persistence
type ScheduleRepository struct {
	db *database.DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *database.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Upsert creates or replaces the schedule for one weekday. The
// weekday is unique per company.
// TENANT-ISOLATED: Writes under the company's RLS policy
func (r *ScheduleRepository) Upsert(ctx context.Context, sched *WorkSchedule) error {
	companyID, err := tenant.CompanyID(ctx)
	if err != nil {
		return err
	}

	if sched.ID == "" {
		sched.ID = uuid.New().String()
	}
	sched.CompanyID = companyID

	return r.db.WithTenantRLS(ctx, companyID, func(ctx context.Context) error {
		query := `
			INSERT INTO work_schedules (
				id, company_id, day_of_week, entry_time, lunch_start, lunch_end, exit_time
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (company_id, day_of_week) DO UPDATE SET
				entry_time = EXCLUDED.entry_time,
				lunch_start = EXCLUDED.lunch_start,
				lunch_end = EXCLUDED.lunch_end,
				exit_time = EXCLUDED.exit_time
		`
		_, err := r.db.ExecContext(ctx, query,
			sched.ID, companyID, sched.DayOfWeek,
			sched.EntryTime, sched.LunchStart, sched.LunchEnd, sched.ExitTime,
		)
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	})
}

// ListByCompany returns the company's configured weekdays ordered by
// day of week. Weekdays without a row are all-unset days.
// TENANT-ISOLATED: Queries only the company's rows
func (r *ScheduleRepository) ListByCompany(ctx context.Context) ([]*WorkSchedule, error) {
	companyID, err := tenant.CompanyID(ctx)
	if err != nil {
		return nil, err
	}

	var schedules []*WorkSchedule

	err = r.db.WithTenantRLS(ctx, companyID, func(ctx context.Context) error {
		query := `
			SELECT id, company_id, day_of_week,
			       entry_time::text as entry_time,
			       lunch_start::text as lunch_start,
			       lunch_end::text as lunch_end,
			       exit_time::text as exit_time
			FROM work_schedules
			ORDER BY day_of_week ASC
		`
		return r.db.SelectContext(ctx, &schedules, query)
	})
	if err != nil {
		return nil, err
	}

	return schedules, nil
}

// GetByWeekday returns the schedule for one weekday, or (nil, nil)
// when the weekday has no row: absence is an all-unset day, not an
// error.
// TENANT-ISOLATED: Queries only the company's rows
func (r *ScheduleRepository) GetByWeekday(ctx context.Context, dayOfWeek int) (*WorkSchedule, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, errors.BadRequest("day_of_week must be between 0 and 6")
	}

	companyID, err := tenant.CompanyID(ctx)
	if err != nil {
		return nil, err
	}

	var sched WorkSchedule

	err = r.db.WithTenantRLS(ctx, companyID, func(ctx context.Context) error {
		query := `
			SELECT id, company_id, day_of_week,
			       entry_time::text as entry_time,
			       lunch_start::text as lunch_start,
			       lunch_end::text as lunch_end,
			       exit_time::text as exit_time
			FROM work_schedules
			WHERE day_of_week = $1
		`
		return r.db.GetContext(ctx, &sched, query, dayOfWeek)
	})

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &sched, nil
}
