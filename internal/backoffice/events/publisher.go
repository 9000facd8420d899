package events

import (
	"context"
	"time"

	"github.com/pontoflow/pontoflow-backend/pkg/logger"
	"github.com/pontoflow/pontoflow-backend/pkg/messaging"
)

// EventBus is the publishing backend. Satisfied by
// messaging.Publisher; tests swap in a recording fake.
type EventBus interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// BackofficeEventPublisher publishes company lifecycle events that the
// timeclock service reacts to
type BackofficeEventPublisher struct {
	publisher EventBus
	logger    *logger.Logger
}

// NewBackofficeEventPublisher creates a new backoffice event publisher
func NewBackofficeEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*BackofficeEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeBackofficeEvents, "backoffice-service", log)
	if err != nil {
		return nil, err
	}

	return &BackofficeEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// NewBackofficeEventPublisherWithBus creates a publisher on an existing bus
func NewBackofficeEventPublisherWithBus(bus EventBus, log *logger.Logger) *BackofficeEventPublisher {
	return &BackofficeEventPublisher{
		publisher: bus,
		logger:    log,
	}
}

// PublishCompanyBlocked publishes a company blocked event
func (p *BackofficeEventPublisher) PublishCompanyBlocked(ctx context.Context, companyID, reason, adminID string) {
	data := messaging.CompanyBlockedEvent{
		CompanyID: companyID,
		Reason:    reason,
		BlockedAt: time.Now().UTC(),
		BlockedBy: adminID,
	}

	if err := p.publisher.Publish(ctx, messaging.EventCompanyBlocked, data); err != nil {
		p.logger.Error().Err(err).Str("company_id", companyID).Msg("failed to publish company blocked event")
	}
}

// PublishCompanyUnblocked publishes a company unblocked event
func (p *BackofficeEventPublisher) PublishCompanyUnblocked(ctx context.Context, companyID, adminID string) {
	data := messaging.CompanyUnblockedEvent{
		CompanyID:   companyID,
		UnblockedBy: adminID,
	}

	if err := p.publisher.Publish(ctx, messaging.EventCompanyUnblocked, data); err != nil {
		p.logger.Error().Err(err).Str("company_id", companyID).Msg("failed to publish company unblocked event")
	}
}

// PublishCompanyDeleted publishes a company deleted event
func (p *BackofficeEventPublisher) PublishCompanyDeleted(ctx context.Context, companyID, adminID string) {
	data := messaging.CompanyDeletedEvent{
		CompanyID: companyID,
		DeletedBy: adminID,
	}

	if err := p.publisher.Publish(ctx, messaging.EventCompanyDeleted, data); err != nil {
		p.logger.Error().Err(err).Str("company_id", companyID).Msg("failed to publish company deleted event")
	}
}
