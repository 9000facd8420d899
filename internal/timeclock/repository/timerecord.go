package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/timecalc"
	"github.com/pontoflow/pontoflow-backend/pkg/database"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
	"github.com/pontoflow/pontoflow-backend/pkg/tenant"
)

// TimeRecord is one employee's punches for one calendar date. The
// extra/missing columns are INTERVAL in the database and are scanned
// as text; they cache the deviation calculation for the current
// punches and schedule.
type TimeRecord struct {
	ID           string    `db:"id" json:"id"`
	CompanyID    string    `db:"company_id" json:"company_id"`
	EmployeeID   string    `db:"employee_id" json:"employee_id"`
	RecordDate   string    `db:"record_date" json:"record_date"` // DATE format YYYY-MM-DD
	EntryTime    *string   `db:"entry_time" json:"entry_time,omitempty"`   // TIME format HH:MM:SS
	LunchStart   *string   `db:"lunch_start" json:"lunch_start,omitempty"` // TIME format HH:MM:SS
	LunchEnd     *string   `db:"lunch_end" json:"lunch_end,omitempty"`     // TIME format HH:MM:SS
	ExitTime     *string   `db:"exit_time" json:"exit_time,omitempty"`     // TIME format HH:MM:SS
	ExtraHours   string    `db:"extra_hours" json:"extra_hours"`
	MissingHours string    `db:"missing_hours" json:"missing_hours"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ExtraMinutes converts the stored extra interval into minutes
func (r *TimeRecord) ExtraMinutes() int {
	return timecalc.ParseStoredInterval(r.ExtraHours)
}

// MissingMinutes converts the stored missing interval into minutes
func (r *TimeRecord) MissingMinutes() int {
	return timecalc.ParseStoredInterval(r.MissingHours)
}

// ToDayRecord converts the row into the calculation model
func (r *TimeRecord) ToDayRecord() timecalc.DayRecord {
	return timecalc.DayRecord{
		Date:           r.RecordDate,
		EntryTime:      r.EntryTime,
		LunchStart:     r.LunchStart,
		LunchEnd:       r.LunchEnd,
		ExitTime:       r.ExitTime,
		ExtraMinutes:   r.ExtraMinutes(),
		MissingMinutes: r.MissingMinutes(),
	}
}

// punchColumn maps a punch kind to its column. The switch is
// exhaustive over timecalc.AllPunchKinds; the returned name is only
// ever interpolated from this fixed set.
func punchColumn(kind timecalc.PunchKind) string {
	switch kind {
	case timecalc.PunchEntry:
		return "entry_time"
	case timecalc.PunchLunchStart:
		return "lunch_start"
	case timecalc.PunchLunchEnd:
		return "lunch_end"
	case timecalc.PunchExit:
		return "exit_time"
	}
	panic("repository: invalid punch kind " + string(kind))
}

const timeRecordColumns = `
	id, company_id, employee_id,
	record_date::text as record_date,
	entry_time::text as entry_time,
	lunch_start::text as lunch_start,
	lunch_end::text as lunch_end,
	exit_time::text as exit_time,
	COALESCE(extra_hours::text, '') as extra_hours,
	COALESCE(missing_hours::text, '') as missing_hours,
	created_at, updated_at
`

// TimeRecordRepository handles time record persistence
type TimeRecordRepository struct {
	db *database.DB
}

// NewTimeRecordRepository creates a new time record repository
func NewTimeRecordRepository(db *database.DB) *TimeRecordRepository {
	return &TimeRecordRepository{db: db}
}

// GetByEmployeeAndDate returns the record for one employee and date,
// or (nil, nil) when none exists. An absent record is a normal state
// for report building, not an error.
// TENANT-ISOLATED: Queries only the company's rows
func (r *TimeRecordRepository) GetByEmployeeAndDate(ctx context.Context, employeeID, recordDate string) (*TimeRecord, error) {
	companyID, err := tenant.CompanyID(ctx)
	if err != nil {
		return nil, err
	}

	var record TimeRecord

	err = r.db.WithTenantRLS(ctx, companyID, func(ctx context.Context) error {
		query := `
			SELECT ` + timeRecordColumns + `
			FROM time_records
			WHERE employee_id = $1 AND record_date = $2
		`
		return r.db.GetContext(ctx, &record, query, employeeID, recordDate)
	})

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// ListByEmployeeAndRange returns the employee's records between two
// dates, bounds inclusive, in ascending date order.
// TENANT-ISOLATED: Queries only the company's rows
func (r *TimeRecordRepository) ListByEmployeeAndRange(ctx context.Context, employeeID, startDate, endDate string) ([]*TimeRecord, error) {
	companyID, err := tenant.CompanyID(ctx)
	if err != nil {
		return nil, err
	}

	var records []*TimeRecord

	err = r.db.WithTenantRLS(ctx, companyID, func(ctx context.Context) error {
		query := `
			SELECT ` + timeRecordColumns + `
			FROM time_records
			WHERE employee_id = $1 AND record_date BETWEEN $2 AND $3
			ORDER BY record_date ASC
		`
		return r.db.SelectContext(ctx, &records, query, employeeID, startDate, endDate)
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// SetPunch creates the record for (employee, date) on first punch and
// sets or clears one punch field. A nil punchTime clears the field;
// clearing every field leaves an empty record in place.
// TENANT-ISOLATED: Writes under the company's RLS policy
func (r *TimeRecordRepository) SetPunch(ctx context.Context, employeeID, recordDate string, kind timecalc.PunchKind, punchTime *string) (*TimeRecord, error) {
	companyID, err := tenant.CompanyID(ctx)
	if err != nil {
		return nil, err
	}

	column := punchColumn(kind)

	var record TimeRecord

	err = r.db.WithTenantRLS(ctx, companyID, func(ctx context.Context) error {
		query := fmt.Sprintf(`
			INSERT INTO time_records (id, company_id, employee_id, record_date, %s)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (employee_id, record_date) DO UPDATE SET
				%s = EXCLUDED.%s,
				updated_at = NOW()
			RETURNING `+timeRecordColumns, column, column, column)

		err := r.db.GetContext(ctx, &record, query,
			uuid.New().String(), companyID, employeeID, recordDate, punchTime,
		)
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// UpdateDeviation replaces the cached extra/missing intervals for one
// employee and date. The caller passes minute totals; storage stays in
// INTERVAL columns.
// TENANT-ISOLATED: Writes under the company's RLS policy
func (r *TimeRecordRepository) UpdateDeviation(ctx context.Context, employeeID, recordDate string, extraMinutes, missingMinutes int) error {
	companyID, err := tenant.CompanyID(ctx)
	if err != nil {
		return err
	}

	return r.db.WithTenantRLS(ctx, companyID, func(ctx context.Context) error {
		query := `
			UPDATE time_records
			SET extra_hours = make_interval(mins => $3),
			    missing_hours = make_interval(mins => $4),
			    updated_at = NOW()
			WHERE employee_id = $1 AND record_date = $2
		`
		result, err := r.db.ExecContext(ctx, query, employeeID, recordDate, extraMinutes, missingMinutes)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return errors.NotFound("time_record")
		}

		return nil
	})
}
