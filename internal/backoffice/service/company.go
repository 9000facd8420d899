package service

import (
	"context"

	"github.com/pontoflow/pontoflow-backend/internal/backoffice/events"
	"github.com/pontoflow/pontoflow-backend/internal/backoffice/repository"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
	"github.com/pontoflow/pontoflow-backend/pkg/logger"
)

// CompanyAdminStore is the cross-tenant company persistence surface
type CompanyAdminStore interface {
	List(ctx context.Context) ([]*repository.CompanyOverview, error)
	GetByID(ctx context.Context, id string) (*repository.CompanyOverview, error)
	Block(ctx context.Context, id, reason string) error
	Unblock(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// CompanyAdminService handles backoffice company management
type CompanyAdminService struct {
	companies CompanyAdminStore
	publisher *events.BackofficeEventPublisher
	logger    *logger.Logger
}

// NewCompanyAdminService creates a new company admin service
func NewCompanyAdminService(
	companies CompanyAdminStore,
	publisher *events.BackofficeEventPublisher,
	log *logger.Logger,
) *CompanyAdminService {
	return &CompanyAdminService{
		companies: companies,
		publisher: publisher,
		logger:    log,
	}
}

// List returns every company with usage counters
func (s *CompanyAdminService) List(ctx context.Context) ([]*repository.CompanyOverview, error) {
	return s.companies.List(ctx)
}

// GetByID returns one company with usage counters
func (s *CompanyAdminService) GetByID(ctx context.Context, id string) (*repository.CompanyOverview, error) {
	return s.companies.GetByID(ctx, id)
}

// BlockRequest carries the reason shown to the company on login
type BlockRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=200"`
}

// Block blocks a company. Active sessions die via the published event,
// which the timeclock service consumes.
func (s *CompanyAdminService) Block(ctx context.Context, companyID, adminID string, req *BlockRequest) (*repository.CompanyOverview, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.Status == "blocked" {
		return nil, errors.Conflict("company is already blocked")
	}

	if err := s.companies.Block(ctx, companyID, req.Reason); err != nil {
		return nil, err
	}

	s.publisher.PublishCompanyBlocked(ctx, companyID, req.Reason, adminID)
	s.logger.Info().Str("company_id", companyID).Str("admin_id", adminID).Msg("company blocked")

	return s.companies.GetByID(ctx, companyID)
}

// Unblock reactivates a blocked company
func (s *CompanyAdminService) Unblock(ctx context.Context, companyID, adminID string) (*repository.CompanyOverview, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.Status != "blocked" {
		return nil, errors.Conflict("company is not blocked")
	}

	if err := s.companies.Unblock(ctx, companyID); err != nil {
		return nil, err
	}

	s.publisher.PublishCompanyUnblocked(ctx, companyID, adminID)
	s.logger.Info().Str("company_id", companyID).Str("admin_id", adminID).Msg("company unblocked")

	return s.companies.GetByID(ctx, companyID)
}

// Delete removes a company and all of its tenant data
func (s *CompanyAdminService) Delete(ctx context.Context, companyID, adminID string) error {
	if err := s.companies.Delete(ctx, companyID); err != nil {
		return err
	}

	s.publisher.PublishCompanyDeleted(ctx, companyID, adminID)
	s.logger.Info().Str("company_id", companyID).Str("admin_id", adminID).Msg("company deleted")

	return nil
}
