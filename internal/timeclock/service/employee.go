package service

import (
	"context"

	"github.com/pontoflow/pontoflow-backend/internal/timeclock/events"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/repository"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
	"github.com/pontoflow/pontoflow-backend/pkg/logger"
)

// maxActiveEmployees caps the roster size per company
const maxActiveEmployees = 20

// EmployeeStore is the employee persistence surface
type EmployeeStore interface {
	Create(ctx context.Context, emp *repository.Employee) error
	GetByID(ctx context.Context, id string) (*repository.Employee, error)
	List(ctx context.Context, activeOnly bool) ([]*repository.Employee, error)
	CountActive(ctx context.Context) (int, error)
	Update(ctx context.Context, id string, upd *repository.EmployeeUpdate) error
	Delete(ctx context.Context, id string) error
}

// EmployeeService handles employee roster logic
type EmployeeService struct {
	employees EmployeeStore
	publisher *events.TimeclockEventPublisher
	logger    *logger.Logger
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(employees EmployeeStore, publisher *events.TimeclockEventPublisher, log *logger.Logger) *EmployeeService {
	return &EmployeeService{
		employees: employees,
		publisher: publisher,
		logger:    log,
	}
}

// CreateEmployeeRequest represents an employee creation request
type CreateEmployeeRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=120"`
	CPF      *string `json:"cpf,omitempty" validate:"omitempty,len=11,numeric"`
	Position *string `json:"position,omitempty" validate:"omitempty,max=80"`
}

// UpdateEmployeeRequest represents an employee update request
type UpdateEmployeeRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	CPF      *string `json:"cpf,omitempty" validate:"omitempty,len=11,numeric"`
	Position *string `json:"position,omitempty" validate:"omitempty,max=80"`
	Active   *bool   `json:"active,omitempty"`
}

// Create creates a new employee, enforcing the roster cap
func (s *EmployeeService) Create(ctx context.Context, req *CreateEmployeeRequest) (*repository.Employee, error) {
	count, err := s.employees.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	if count >= maxActiveEmployees {
		return nil, errors.Conflict("employee limit reached for this plan")
	}

	emp := &repository.Employee{
		Name:     req.Name,
		CPF:      req.CPF,
		Position: req.Position,
	}
	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, err
	}

	s.publisher.PublishEmployeeCreated(ctx, emp)

	return emp, nil
}

// GetByID gets an employee by ID
func (s *EmployeeService) GetByID(ctx context.Context, id string) (*repository.Employee, error) {
	return s.employees.GetByID(ctx, id)
}

// List lists the company's employees
func (s *EmployeeService) List(ctx context.Context, activeOnly bool) ([]*repository.Employee, error) {
	return s.employees.List(ctx, activeOnly)
}

// Update applies the provided fields to an employee
func (s *EmployeeService) Update(ctx context.Context, id string, req *UpdateEmployeeRequest) (*repository.Employee, error) {
	// reactivation counts against the cap
	if req.Active != nil && *req.Active {
		current, err := s.employees.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !current.Active {
			count, err := s.employees.CountActive(ctx)
			if err != nil {
				return nil, err
			}
			if count >= maxActiveEmployees {
				return nil, errors.Conflict("employee limit reached for this plan")
			}
		}
	}

	upd := &repository.EmployeeUpdate{
		Name:     req.Name,
		CPF:      req.CPF,
		Position: req.Position,
		Active:   req.Active,
	}
	if err := s.employees.Update(ctx, id, upd); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Position != nil {
		fields["position"] = *req.Position
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}
	s.publisher.PublishEmployeeUpdated(ctx, id, fields)

	return s.employees.GetByID(ctx, id)
}

// Deactivate soft-deletes an employee. Past time records are kept for
// reporting.
func (s *EmployeeService) Deactivate(ctx context.Context, id string) error {
	if err := s.employees.Delete(ctx, id); err != nil {
		return err
	}

	s.publisher.PublishEmployeeDeactivated(ctx, id)

	return nil
}
