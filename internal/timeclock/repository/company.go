package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pontoflow/pontoflow-backend/pkg/database"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
)

// Company statuses
const (
	CompanyStatusActive  = "active"
	CompanyStatusBlocked = "blocked"
)

// Company represents a tenant company account
type Company struct {
	ID            string     `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	CNPJ          string     `db:"cnpj" json:"cnpj"`
	Email         string     `db:"email" json:"email"`
	PasswordHash  string     `db:"password_hash" json:"-"`
	Status        string     `db:"status" json:"status"`
	BlockedAt     *time.Time `db:"blocked_at" json:"blocked_at,omitempty"`
	BlockedReason *string    `db:"blocked_reason" json:"blocked_reason,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// IsBlocked reports whether the company is blocked from logging in
func (c *Company) IsBlocked() bool {
	return c.Status == CompanyStatusBlocked
}

// CompanyRepository handles company persistence.
// Companies are the tenant root and live in a global table, so these
// queries run outside the RLS transaction.
type CompanyRepository struct {
	db *database.DB
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *database.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Create inserts a new company
func (r *CompanyRepository) Create(ctx context.Context, company *Company) error {
	if company.ID == "" {
		company.ID = uuid.New().String()
	}
	if company.Status == "" {
		company.Status = CompanyStatusActive
	}

	query := `
		INSERT INTO companies (id, name, cnpj, email, password_hash, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		company.ID, company.Name, company.CNPJ, company.Email,
		company.PasswordHash, company.Status,
	).Scan(&company.CreatedAt, &company.UpdatedAt)

	if appErr := database.MapPQError(err); appErr != nil {
		return appErr
	}
	return err
}

// GetByID fetches a company by ID
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*Company, error) {
	var company Company

	query := `
		SELECT id, name, cnpj, email, password_hash, status,
		       blocked_at, blocked_reason, created_at, updated_at
		FROM companies
		WHERE id = $1
	`
	err := r.db.GetContext(ctx, &company, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("company")
	}
	if err != nil {
		return nil, err
	}

	return &company, nil
}

// GetByCNPJ fetches a company by its CNPJ. Returns (nil, nil) when no
// company exists so login flows can treat absence as a soft state.
func (r *CompanyRepository) GetByCNPJ(ctx context.Context, cnpj string) (*Company, error) {
	var company Company

	query := `
		SELECT id, name, cnpj, email, password_hash, status,
		       blocked_at, blocked_reason, created_at, updated_at
		FROM companies
		WHERE cnpj = $1
	`
	err := r.db.GetContext(ctx, &company, query, cnpj)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &company, nil
}
