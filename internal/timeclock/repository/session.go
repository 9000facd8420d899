package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pontoflow/pontoflow-backend/pkg/database"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
)

// Session represents one logged-in device for a company
type Session struct {
	ID         string    `db:"id" json:"id"`
	CompanyID  string    `db:"company_id" json:"company_id"`
	DeviceInfo *string   `db:"device_info" json:"device_info,omitempty"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	LastSeenAt time.Time `db:"last_seen_at" json:"last_seen_at"`
}

// SessionRepository handles session persistence. Sessions live in a
// global table keyed by company, outside the RLS transaction.
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new active session
func (r *SessionRepository) Create(ctx context.Context, session *Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	session.Active = true

	query := `
		INSERT INTO sessions (id, company_id, device_info, active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING created_at, last_seen_at
	`
	return r.db.QueryRowxContext(ctx, query,
		session.ID, session.CompanyID, session.DeviceInfo,
	).Scan(&session.CreatedAt, &session.LastSeenAt)
}

// GetByID fetches a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*Session, error) {
	var session Session

	query := `
		SELECT id, company_id, device_info, active, created_at, last_seen_at
		FROM sessions
		WHERE id = $1
	`
	err := r.db.GetContext(ctx, &session, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("session")
	}
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// CountActive counts the active sessions for a company
func (r *SessionRepository) CountActive(ctx context.Context, companyID string) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM sessions WHERE company_id = $1 AND active = TRUE`
	if err := r.db.GetContext(ctx, &count, query, companyID); err != nil {
		return 0, err
	}

	return count, nil
}

// Touch updates the session's last seen timestamp
func (r *SessionRepository) Touch(ctx context.Context, id string) error {
	query := `UPDATE sessions SET last_seen_at = NOW() WHERE id = $1 AND active = TRUE`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// Deactivate marks one session inactive
func (r *SessionRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE sessions SET active = FALSE WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("session")
	}

	return nil
}

// DeactivateAllForCompany marks every session of a company inactive.
// Used on logout-everywhere and when the backoffice blocks a company.
func (r *SessionRepository) DeactivateAllForCompany(ctx context.Context, companyID string) error {
	query := `UPDATE sessions SET active = FALSE WHERE company_id = $1 AND active = TRUE`
	_, err := r.db.ExecContext(ctx, query, companyID)
	return err
}
