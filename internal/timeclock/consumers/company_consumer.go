package consumers

import (
	"context"

	"github.com/pontoflow/pontoflow-backend/pkg/logger"
	"github.com/pontoflow/pontoflow-backend/pkg/messaging"
)

// SessionDeactivator revokes sessions when a company loses access
type SessionDeactivator interface {
	DeactivateAllForCompany(ctx context.Context, companyID string) error
}

// CompanyEventConsumer consumes backoffice company events so that
// blocked or deleted companies are logged out immediately instead of
// on next token refresh
type CompanyEventConsumer struct {
	consumer *messaging.Consumer
	sessions SessionDeactivator
	logger   *logger.Logger
}

// NewCompanyEventConsumer creates a new company event consumer
func NewCompanyEventConsumer(
	rmq *messaging.RabbitMQ,
	sessions SessionDeactivator,
	log *logger.Logger,
) (*CompanyEventConsumer, error) {
	consumer, err := messaging.NewConsumer(rmq, "timeclock-service.company-events", log)
	if err != nil {
		return nil, err
	}

	if err := consumer.Subscribe(messaging.ExchangeBackofficeEvents, "company.#"); err != nil {
		return nil, err
	}

	c := &CompanyEventConsumer{
		consumer: consumer,
		sessions: sessions,
		logger:   log,
	}

	consumer.RegisterHandler(messaging.EventCompanyBlocked, c.handleCompanyBlocked)
	consumer.RegisterHandler(messaging.EventCompanyDeleted, c.handleCompanyDeleted)

	return c, nil
}

// Start starts consuming messages
func (c *CompanyEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}

func (c *CompanyEventConsumer) handleCompanyBlocked(ctx context.Context, event *messaging.Event) error {
	var data messaging.CompanyBlockedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return err
	}

	c.logger.Info().
		Str("company_id", data.CompanyID).
		Str("reason", data.Reason).
		Msg("received company blocked event")

	if err := c.sessions.DeactivateAllForCompany(ctx, data.CompanyID); err != nil {
		c.logger.Error().Err(err).Str("company_id", data.CompanyID).Msg("failed to deactivate sessions")
		return err
	}

	return nil
}

func (c *CompanyEventConsumer) handleCompanyDeleted(ctx context.Context, event *messaging.Event) error {
	var data messaging.CompanyDeletedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return err
	}

	c.logger.Info().
		Str("company_id", data.CompanyID).
		Msg("received company deleted event")

	if err := c.sessions.DeactivateAllForCompany(ctx, data.CompanyID); err != nil {
		c.logger.Error().Err(err).Str("company_id", data.CompanyID).Msg("failed to deactivate sessions")
		return err
	}

	return nil
}
