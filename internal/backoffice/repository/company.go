package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pontoflow/pontoflow-backend/pkg/database"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
)

// CompanyOverview is a company row joined with its tenant usage
// counters. The backoffice connection runs with a BYPASSRLS role, so
// the joins see every tenant's rows.
type CompanyOverview struct {
	ID             string     `db:"id" json:"id"`
	Name           string     `db:"name" json:"name"`
	CNPJ           string     `db:"cnpj" json:"cnpj"`
	Email          string     `db:"email" json:"email"`
	Status         string     `db:"status" json:"status"`
	BlockedAt      *time.Time `db:"blocked_at" json:"blocked_at,omitempty"`
	BlockedReason  *string    `db:"blocked_reason" json:"blocked_reason,omitempty"`
	EmployeeCount  int        `db:"employee_count" json:"employee_count"`
	ActiveSessions int        `db:"active_sessions" json:"active_sessions"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

const companyOverviewColumns = `
	c.id, c.name, c.cnpj, c.email, c.status, c.blocked_at, c.blocked_reason, c.created_at,
	COUNT(DISTINCT e.id) FILTER (WHERE e.active AND e.deleted_at IS NULL) AS employee_count,
	COUNT(DISTINCT s.id) FILTER (WHERE s.active) AS active_sessions`

// CompanyAdminRepository gives the backoffice cross-tenant access to
// company accounts
type CompanyAdminRepository struct {
	db *database.DB
}

// NewCompanyAdminRepository creates a new company admin repository
func NewCompanyAdminRepository(db *database.DB) *CompanyAdminRepository {
	return &CompanyAdminRepository{db: db}
}

// List returns every company with employee and session counters
func (r *CompanyAdminRepository) List(ctx context.Context) ([]*CompanyOverview, error) {
	query := `
		SELECT ` + companyOverviewColumns + `
		FROM companies c
		LEFT JOIN employees e ON e.company_id = c.id
		LEFT JOIN sessions s ON s.company_id = c.id
		GROUP BY c.id
		ORDER BY c.created_at DESC
	`

	companies := []*CompanyOverview{}
	if err := r.db.SelectContext(ctx, &companies, query); err != nil {
		return nil, err
	}
	return companies, nil
}

// GetByID returns one company with its counters
func (r *CompanyAdminRepository) GetByID(ctx context.Context, id string) (*CompanyOverview, error) {
	query := `
		SELECT ` + companyOverviewColumns + `
		FROM companies c
		LEFT JOIN employees e ON e.company_id = c.id
		LEFT JOIN sessions s ON s.company_id = c.id
		WHERE c.id = $1
		GROUP BY c.id
	`

	var company CompanyOverview
	err := r.db.GetContext(ctx, &company, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("company")
	}
	if err != nil {
		return nil, err
	}

	return &company, nil
}

// Block marks a company as blocked, keeping the reason for the login
// error message
func (r *CompanyAdminRepository) Block(ctx context.Context, id, reason string) error {
	query := `
		UPDATE companies
		SET status = 'blocked', blocked_at = NOW(), blocked_reason = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, reason)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("company")
	}
	return nil
}

// Unblock reactivates a blocked company
func (r *CompanyAdminRepository) Unblock(ctx context.Context, id string) error {
	query := `
		UPDATE companies
		SET status = 'active', blocked_at = NULL, blocked_reason = NULL, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("company")
	}
	return nil
}

// Delete removes a company and all of its tenant data in one
// transaction. Child tables go first; time_records and work_schedules
// reference employees and companies.
func (r *CompanyAdminRepository) Delete(ctx context.Context, id string) error {
	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		for _, query := range []string{
			`DELETE FROM time_records WHERE company_id = $1`,
			`DELETE FROM work_schedules WHERE company_id = $1`,
			`DELETE FROM employees WHERE company_id = $1`,
			`DELETE FROM sessions WHERE company_id = $1`,
		} {
			if _, err := tx.ExecContext(ctx, query, id); err != nil {
				return err
			}
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return errors.NotFound("company")
		}
		return nil
	})
}
