// Package sender wires the notification worker: it consumes booking-paid
// events from RabbitMQ and mails the operator alerts over SMTP.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/roadsterhq/rental-marketplace/internal/config"
	"github.com/roadsterhq/rental-marketplace/internal/lib/rabbitmq"
	"github.com/roadsterhq/rental-marketplace/internal/lib/smtp"
	senderservice "github.com/roadsterhq/rental-marketplace/internal/services/sender"
)

// App is the assembled notification worker.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New connects to RabbitMQ, declares the notification queues and builds the
// sender service on top of the SMTP transport.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.New(transport, cfg.AlertRecipients, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run consumes the booking-paid queue until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.BookingPaidQueue, a.senderService.SendBookingPaidAlert)
	if err != nil {
		a.logger.Error("failed to start booking_paid_queue consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notification sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
