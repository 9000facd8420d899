package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pontoflow/pontoflow-backend/pkg/database"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
	"github.com/pontoflow/pontoflow-backend/pkg/tenant"
)

// Employee represents a company employee
type Employee struct {
	ID        string     `db:"id" json:"id"`
	CompanyID string     `db:"company_id" json:"company_id"`
	Name      string     `db:"name" json:"name"`
	CPF       *string    `db:"cpf" json:"cpf,omitempty"`
	Position  *string    `db:"position" json:"position,omitempty"`
	Active    bool       `db:"active" json:"active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}

// EmployeeUpdate holds the mutable employee fields
type EmployeeUpdate struct {
	Name     *string
	CPF      *string
	Position *string
	Active   *bool
}

// EmployeeRepository handles employee persistence
type EmployeeRepository struct {
	db *database.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *database.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create inserts a new employee
// TENANT-ISOLATED: Inserts under the company's RLS policy
func (r *EmployeeRepository) Create(ctx context.Context, emp *Employee) error {
	companyID, err := tenant.CompanyID(ctx)
	if err != nil {
		return err
	}

	if emp.ID == "" {
		emp.ID = uuid.New().String()
	}
	emp.CompanyID = companyID
	emp.Active = true

	return r.db.WithTenantRLS(ctx, companyID, func(ctx context.Context) error {
		query := `
			INSERT INTO employees (id, company_id, name, cpf, position, active)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			RETURNING created_at, updated_at
		`
		err := r.db.QueryRowxContext(ctx, query,
			emp.ID, companyID, emp.Name, emp.CPF, emp.Position,
		).Scan(&emp.CreatedAt, &emp.UpdatedAt)

		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	})
}

// GetByID fetches an employee by ID
// TENANT-ISOLATED: Queries only the company's rows
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*Employee, error) {
	companyID, err := tenant.CompanyID(ctx)
	if err != nil {
		return nil, err
	}

	var emp Employee

	err = r.db.WithTenantRLS(ctx, companyID, func(ctx context.Context) error {
		query := `
			SELECT id, company_id, name, cpf, position, active, created_at, updated_at
			FROM employees
			WHERE id = $1 AND deleted_at IS NULL
		`
		return r.db.GetContext(ctx, &emp, query, id)
	})

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("employee")
	}
	if err != nil {
		return nil, err
	}

	return &emp, nil
}

// List lists the company's employees, active first then by name
// TENANT-ISOLATED: Queries only the company's rows
func (r *EmployeeRepository) List(ctx context.Context, activeOnly bool) ([]*Employee, error) {
	companyID, err := tenant.CompanyID(ctx)
	if err != nil {
		return nil, err
	}

	var employees []*Employee

	err = r.db.WithTenantRLS(ctx, companyID, func(ctx context.Context) error {
		query := `
			SELECT id, company_id, name, cpf, position, active, created_at, updated_at
			FROM employees
			WHERE deleted_at IS NULL
		`
		if activeOnly {
			query += ` AND active = TRUE`
		}
		query += ` ORDER BY active DESC, name ASC`

		return r.db.SelectContext(ctx, &employees, query)
	})
	if err != nil {
		return nil, err
	}

	return employees, nil
}

// CountActive counts the company's active employees. The result backs
// the 20-employee cap enforced at creation.
// TENANT-ISOLATED: Counts only the company's rows
func (r *EmployeeRepository) CountActive(ctx context.Context) (int, error) {
	companyID, err := tenant.CompanyID(ctx)
	if err != nil {
		return 0, err
	}

	var count int

	err = r.db.WithTenantRLS(ctx, companyID, func(ctx context.Context) error {
		query := `
			SELECT COUNT(*)
			FROM employees
			WHERE active = TRUE AND deleted_at IS NULL
		`
		return r.db.GetContext(ctx, &count, query)
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Update applies the provided fields to an employee
// TENANT-ISOLATED: Updates only the company's rows
func (r *EmployeeRepository) Update(ctx context.Context, id string, upd *EmployeeUpdate) error {
	companyID, err := tenant.CompanyID(ctx)
	if err != nil {
		return err
	}

	return r.db.WithTenantRLS(ctx, companyID, func(ctx context.Context) error {
		query := `
			UPDATE employees
			SET name = COALESCE($2, name),
			    cpf = COALESCE($3, cpf),
			    position = COALESCE($4, position),
			    active = COALESCE($5, active),
			    updated_at = NOW()
			WHERE id = $1 AND deleted_at IS NULL
		`
		result, err := r.db.ExecContext(ctx, query, id, upd.Name, upd.CPF, upd.Position, upd.Active)
		if err != nil {
			if appErr := database.MapPQError(err); appErr != nil {
				return appErr
			}
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return errors.NotFound("employee")
		}

		return nil
	})
}

// Delete soft-deletes an employee
// TENANT-ISOLATED: Deletes only the company's rows
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	companyID, err := tenant.CompanyID(ctx)
	if err != nil {
		return err
	}

	return r.db.WithTenantRLS(ctx, companyID, func(ctx context.Context) error {
		query := `
			UPDATE employees
			SET deleted_at = NOW(), active = FALSE, updated_at = NOW()
			WHERE id = $1 AND deleted_at IS NULL
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
			return errors.NotFound("employee")
		}

		return nil
	})
}
