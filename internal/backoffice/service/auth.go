package service

import (
	"context"
	"time"

	"github.com/pontoflow/pontoflow-backend/internal/auth/jwt"
	"github.com/pontoflow/pontoflow-backend/internal/backoffice/repository"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
	"github.com/pontoflow/pontoflow-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// AdminStore is the admin account persistence surface
type AdminStore interface {
	Create(ctx context.Context, admin *repository.Admin) error
	GetByID(ctx context.Context, id string) (*repository.Admin, error)
	GetByEmail(ctx context.Context, email string) (*repository.Admin, error)
}

// AdminAuthService handles platform admin login
type AdminAuthService struct {
	admins     AdminStore
	jwtManager *jwt.Manager
	logger     *logger.Logger
}

// NewAdminAuthService creates a new admin auth service
func NewAdminAuthService(admins AdminStore, jwtManager *jwt.Manager, log *logger.Logger) *AdminAuthService {
	return &AdminAuthService{
		admins:     admins,
		jwtManager: jwtManager,
		logger:     log,
	}
}

// LoginRequest is an admin login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the admin token and identity
type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	ExpiresAt   time.Time  `json:"expires_at"`
	TokenType   string     `json:"token_type"`
	Admin       *AdminInfo `json:"admin"`
}

// AdminInfo is the public view of an admin account
type AdminInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login authenticates an admin by email and password
func (s *AdminAuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	admin, err := s.admins.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, errors.InvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.InvalidCredentials()
	}

	token, err := s.jwtManager.GenerateAdminToken(admin.ID, admin.Email)
	if err != nil {
		return nil, errors.Internal("failed to generate token")
	}

	s.logger.Info().Str("admin_id", admin.ID).Msg("admin logged in")

	return &LoginResponse{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		Admin: &AdminInfo{
			ID:    admin.ID,
			Name:  admin.Name,
			Email: admin.Email,
		},
	}, nil
}
