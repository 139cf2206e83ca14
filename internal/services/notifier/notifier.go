// Package notifier publishes booking-paid events for the operational
// e-mail worker. Dispatch is best effort: a missing configuration makes it
// a logged no-op and publish failures never reach the caller.
package notifier

import (
	"log/slog"

	"github.com/roadsterhq/rental-marketplace/internal/lib/rabbitmq"
	"github.com/roadsterhq/rental-marketplace/internal/lib/sl"
	"github.com/roadsterhq/rental-marketplace/internal/models"
)

// Publisher publishes a message to an exchange.
type Publisher interface {
	Publish(exchange, routingKey string, message any) error
}

// Service publishes booking-paid events.
type Service struct {
	publisher  Publisher
	recipients []string
	log        *slog.Logger
}

// New creates a notifier. publisher may be nil and recipients may be empty
// when alerting is not configured; BookingPaid then only logs.
func New(publisher Publisher, recipients []string, log *slog.Logger) *Service {
	return &Service{
		publisher:  publisher,
		recipients: recipients,
		log:        log,
	}
}

// BookingPaid publishes the event to the notifications exchange. Never
// returns an error: a confirmed booking must not fail on alerting.
func (s *Service) BookingPaid(event models.BookingPaidEvent) {
	if s.publisher == nil || len(s.recipients) == 0 {
		s.log.Warn("booking alerts not configured, skipping notification",
			slog.String("booking_uid", event.BookingUID))
		return
	}

	if err := s.publisher.Publish(rabbitmq.Exchange, rabbitmq.BookingPaidKey, event); err != nil {
		s.log.Error("failed to publish booking paid event", sl.Err(err),
			slog.String("booking_uid", event.BookingUID))
		return
	}

	s.log.Info("booking paid event published",
		slog.String("booking_uid", event.BookingUID))
}
