package events

import (
	"context"

	"github.com/pontoflow/pontoflow-backend/internal/timeclock/repository"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/timecalc"
	"github.com/pontoflow/pontoflow-backend/pkg/logger"
	"github.com/pontoflow/pontoflow-backend/pkg/messaging"
)

// EventBus is the publishing backend. Satisfied by
// messaging.Publisher; tests swap in a recording fake.
type EventBus interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// TimeclockEventPublisher publishes timeclock-related events
type TimeclockEventPublisher struct {
	publisher EventBus
	logger    *logger.Logger
}

// NewTimeclockEventPublisher creates a new timeclock event publisher
func NewTimeclockEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*TimeclockEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeTimeclockEvents, "timeclock-service", log)
	if err != nil {
		return nil, err
	}

	return &TimeclockEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// NewTimeclockEventPublisherWithBus creates a publisher on an existing bus
func NewTimeclockEventPublisherWithBus(bus EventBus, log *logger.Logger) *TimeclockEventPublisher {
	return &TimeclockEventPublisher{
		publisher: bus,
		logger:    log,
	}
}

// PublishCompanyRegistered publishes a company registered event
func (p *TimeclockEventPublisher) PublishCompanyRegistered(ctx context.Context, company *repository.Company) {
	data := messaging.CompanyRegisteredEvent{
		CompanyID: company.ID,
		Name:      company.Name,
		CNPJ:      company.CNPJ,
		Email:     company.Email,
	}

	if err := p.publisher.Publish(ctx, messaging.EventCompanyRegistered, data); err != nil {
		p.logger.Error().Err(err).Str("company_id", company.ID).Msg("failed to publish company registered event")
	}
}

// PublishEmployeeCreated publishes an employee created event
func (p *TimeclockEventPublisher) PublishEmployeeCreated(ctx context.Context, emp *repository.Employee) {
	data := messaging.EmployeeCreatedEvent{
		EmployeeID: emp.ID,
		CompanyID:  emp.CompanyID,
		Name:       emp.Name,
	}

	if err := p.publisher.Publish(ctx, messaging.EventEmployeeCreated, data); err != nil {
		p.logger.Error().Err(err).Str("employee_id", emp.ID).Msg("failed to publish employee created event")
	}
}

// PublishEmployeeUpdated publishes an employee updated event
func (p *TimeclockEventPublisher) PublishEmployeeUpdated(ctx context.Context, employeeID string, fields map[string]any) {
	data := messaging.EmployeeUpdatedEvent{
		EmployeeID: employeeID,
		Fields:     fields,
	}

	if err := p.publisher.Publish(ctx, messaging.EventEmployeeUpdated, data); err != nil {
		p.logger.Error().Err(err).Str("employee_id", employeeID).Msg("failed to publish employee updated event")
	}
}

// PublishEmployeeDeactivated publishes an employee deactivated event
func (p *TimeclockEventPublisher) PublishEmployeeDeactivated(ctx context.Context, employeeID string) {
	data := messaging.EmployeeDeactivatedEvent{
		EmployeeID: employeeID,
	}

	if err := p.publisher.Publish(ctx, messaging.EventEmployeeDeactivated, data); err != nil {
		p.logger.Error().Err(err).Str("employee_id", employeeID).Msg("failed to publish employee deactivated event")
	}
}

// PublishScheduleUpserted publishes a schedule upserted event
func (p *TimeclockEventPublisher) PublishScheduleUpserted(ctx context.Context, sched *repository.WorkSchedule) {
	data := messaging.ScheduleUpsertedEvent{
		CompanyID:  sched.CompanyID,
		DayOfWeek:  sched.DayOfWeek,
		EntryTime:  sched.EntryTime,
		LunchStart: sched.LunchStart,
		LunchEnd:   sched.LunchEnd,
		ExitTime:   sched.ExitTime,
	}

	if err := p.publisher.Publish(ctx, messaging.EventScheduleUpserted, data); err != nil {
		p.logger.Error().Err(err).Str("company_id", sched.CompanyID).Int("day_of_week", sched.DayOfWeek).
			Msg("failed to publish schedule upserted event")
	}
}

// PublishPunchRegistered publishes a punch registered event
func (p *TimeclockEventPublisher) PublishPunchRegistered(ctx context.Context, record *repository.TimeRecord, kind timecalc.PunchKind, punchTime string) {
	data := messaging.PunchRegisteredEvent{
		RecordID:   record.ID,
		EmployeeID: record.EmployeeID,
		RecordDate: record.RecordDate,
		PunchKind:  string(kind),
		PunchTime:  punchTime,
	}

	if err := p.publisher.Publish(ctx, messaging.EventPunchRegistered, data); err != nil {
		p.logger.Error().Err(err).Str("record_id", record.ID).Msg("failed to publish punch registered event")
	}
}

// PublishPunchUpdated publishes a punch updated event
func (p *TimeclockEventPublisher) PublishPunchUpdated(ctx context.Context, record *repository.TimeRecord, kind timecalc.PunchKind, punchTime string) {
	data := messaging.PunchUpdatedEvent{
		RecordID:   record.ID,
		EmployeeID: record.EmployeeID,
		RecordDate: record.RecordDate,
		PunchKind:  string(kind),
		PunchTime:  punchTime,
	}

	if err := p.publisher.Publish(ctx, messaging.EventPunchUpdated, data); err != nil {
		p.logger.Error().Err(err).Str("record_id", record.ID).Msg("failed to publish punch updated event")
	}
}

// PublishPunchCleared publishes a punch cleared event
func (p *TimeclockEventPublisher) PublishPunchCleared(ctx context.Context, record *repository.TimeRecord, kind timecalc.PunchKind) {
	data := messaging.PunchClearedEvent{
		RecordID:   record.ID,
		EmployeeID: record.EmployeeID,
		RecordDate: record.RecordDate,
		PunchKind:  string(kind),
	}

	if err := p.publisher.Publish(ctx, messaging.EventPunchCleared, data); err != nil {
		p.logger.Error().Err(err).Str("record_id", record.ID).Msg("failed to publish punch cleared event")
	}
}

// PublishRecordRecalculated publishes a record recalculated event
func (p *TimeclockEventPublisher) PublishRecordRecalculated(ctx context.Context, employeeID, recordDate string, deviation timecalc.Deviation) {
	data := messaging.RecordRecalculatedEvent{
		EmployeeID:     employeeID,
		RecordDate:     recordDate,
		ExtraMinutes:   deviation.ExtraMinutes,
		MissingMinutes: deviation.MissingMinutes,
	}

	if err := p.publisher.Publish(ctx, messaging.EventRecordRecalculated, data); err != nil {
		p.logger.Error().Err(err).Str("employee_id", employeeID).Str("record_date", recordDate).
			Msg("failed to publish record recalculated event")
	}
}
