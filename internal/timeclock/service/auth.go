package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pontoflow/pontoflow-backend/internal/auth/jwt"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/events"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/repository"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
	"github.com/pontoflow/pontoflow-backend/pkg/logger"
)

// maxActiveSessions caps concurrent logged-in devices per company
const maxActiveSessions = 2

// CompanyStore is the company persistence surface used by auth
type CompanyStore interface {
	Create(ctx context.Context, company *repository.Company) error
	GetByID(ctx context.Context, id string) (*repository.Company, error)
	GetByCNPJ(ctx context.Context, cnpj string) (*repository.Company, error)
}

// SessionStore is the session persistence surface used by auth
type SessionStore interface {
	Create(ctx context.Context, session *repository.Session) error
	GetByID(ctx context.Context, id string) (*repository.Session, error)
	CountActive(ctx context.Context, companyID string) (int, error)
	Touch(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) error
}

// AuthService handles company signup, login and session lifecycle
type AuthService struct {
	companies  CompanyStore
	sessions   SessionStore
	jwtManager *jwt.Manager
	publisher  *events.TimeclockEventPublisher
	logger     *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	companies CompanyStore,
	sessions SessionStore,
	jwtManager *jwt.Manager,
	publisher *events.TimeclockEventPublisher,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		companies:  companies,
		sessions:   sessions,
		jwtManager: jwtManager,
		publisher:  publisher,
		logger:     log,
	}
}

// RegisterRequest represents a company signup request
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	CNPJ     string `json:"cnpj" validate:"required,len=14,numeric"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents a company login request
type LoginRequest struct {
	CNPJ       string `json:"cnpj" validate:"required,len=14,numeric"`
	Password   string `json:"password" validate:"required"`
	DeviceInfo string `json:"device_info,omitempty"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	TokenType   string       `json:"token_type"`
	Company     *CompanyInfo `json:"company"`
}

// CompanyInfo is the company identity returned on login
type CompanyInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	CNPJ  string `json:"cnpj"`
	Email string `json:"email"`
}

// Register creates a new company account
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*CompanyInfo, error) {
	existing, err := s.companies.GetByCNPJ(ctx, req.CNPJ)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Conflict("a company with this CNPJ already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("failed to hash password")
	}

	company := &repository.Company{
		Name:         req.Name,
		CNPJ:         req.CNPJ,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, err
	}

	s.publisher.PublishCompanyRegistered(ctx, company)

	s.logger.Info().Str("company_id", company.ID).Msg("company registered")

	return &CompanyInfo{
		ID:    company.ID,
		Name:  company.Name,
		CNPJ:  company.CNPJ,
		Email: company.Email,
	}, nil
}

// Login authenticates a company and opens a session. A company may
// hold at most two active sessions; further logins are rejected until
// one logs out.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	company, err := s.companies.GetByCNPJ(ctx, req.CNPJ)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, errors.InvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(company.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.InvalidCredentials()
	}

	if company.IsBlocked() {
		reason := "account blocked"
		if company.BlockedReason != nil && *company.BlockedReason != "" {
			reason = "account blocked: " + *company.BlockedReason
		}
		return nil, errors.Forbidden(reason)
	}

	active, err := s.sessions.CountActive(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	if active >= maxActiveSessions {
		return nil, errors.Conflict("active session limit reached, log out on another device first")
	}

	session := &repository.Session{CompanyID: company.ID}
	if req.DeviceInfo != "" {
		session.DeviceInfo = &req.DeviceInfo
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.Error().Err(err).Str("company_id", company.ID).Msg("failed to create session")
		return nil, errors.Internal("failed to create session")
	}

	token, err := s.jwtManager.GenerateCompanyToken(company.ID, company.CNPJ, session.ID)
	if err != nil {
		return nil, errors.Internal("failed to generate token")
	}

	return &LoginResponse{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		Company: &CompanyInfo{
			ID:    company.ID,
			Name:  company.Name,
			CNPJ:  company.CNPJ,
			Email: company.Email,
		},
	}, nil
}

// Logout deactivates the session
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Deactivate(ctx, sessionID); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to deactivate session")
	}
	return nil
}

// VerifySession checks the session is still active and bumps its
// last-seen time. Satisfies the auth middleware's SessionVerifier.
func (s *AuthService) VerifySession(ctx context.Context, sessionID string) error {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return errors.Unauthorized("session not found")
	}
	if !session.Active {
		return errors.Unauthorized("session is no longer active")
	}

	if err := s.sessions.Touch(ctx, sessionID); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to touch session")
	}

	return nil
}
