package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pontoflow/pontoflow-backend/pkg/database"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
)

// Admin is a platform operator account. Admins live in a global table
// and are never tenant-scoped.
type Admin struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// AdminRepository handles admin account persistence
type AdminRepository struct {
	db *database.DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *database.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Create inserts a new admin account
func (r *AdminRepository) Create(ctx context.Context, admin *Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.New().String()
	}

	query := `
		INSERT INTO admins (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		admin.ID, admin.Name, admin.Email, admin.PasswordHash,
	).Scan(&admin.CreatedAt, &admin.UpdatedAt)

	if appErr := database.MapPQError(err); appErr != nil {
		return appErr
	}
	return err
}

// GetByID fetches an admin by ID
func (r *AdminRepository) GetByID(ctx context.Context, id string) (*Admin, error) {
	var admin Admin

	query := `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM admins
		WHERE id = $1
	`
	err := r.db.GetContext(ctx, &admin, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("admin")
	}
	if err != nil {
		return nil, err
	}

	return &admin, nil
}

// GetByEmail fetches an admin by email. Returns (nil, nil) when no
// admin exists so login flows can treat absence as a soft state.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	var admin Admin

	query := `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM admins
		WHERE email = $1
	`
	err := r.db.GetContext(ctx, &admin, query, email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &admin, nil
}
