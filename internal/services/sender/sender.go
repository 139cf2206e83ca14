// Package sender is the worker side of booking notifications: it consumes
// booking-paid events and delivers the operational e-mail over SMTP.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roadsterhq/rental-marketplace/internal/lib/sl"
	"github.com/roadsterhq/rental-marketplace/internal/lib/smtp"
	"github.com/roadsterhq/rental-marketplace/internal/models"
)

// Service formats and sends booking alert e-mails.
type Service struct {
	transport  smtp.TransportInterface
	recipients []string
	log        *slog.Logger
}

// New creates a sender Service delivering to the configured operator
// recipients.
func New(transport smtp.TransportInterface, recipients []string, log *slog.Logger) *Service {
	return &Service{
		transport:  transport,
		recipients: recipients,
		log:        log,
	}
}

// SendBookingPaidAlert is the queue handler for booking-paid events.
func (s *Service) SendBookingPaidAlert(body []byte) error {
	var event models.BookingPaidEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal booking paid event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	if len(s.recipients) == 0 {
		s.log.Warn("no booking alert recipients configured, skipping",
			slog.String("booking_uid", event.BookingUID))
		return nil
	}

	subject := fmt.Sprintf("New PAID booking: %s (%s)", event.CarTitle, event.CarCity)
	bodyText := FormatBookingAlert(event)

	return s.sendEmail(s.recipients, subject, bodyText)
}

// FormatBookingAlert renders the plain-text operator message for a paid
// booking. Prices arrive in cents and are displayed in dollars.
func FormatBookingAlert(event models.BookingPaidEvent) string {
	lines := []string{
		"A new PAID booking has been confirmed.",
		"",
		"Booking ID: " + event.BookingUID,
		fmt.Sprintf("Car: %s (%s)", event.CarTitle, event.CarCity),
		fmt.Sprintf("Dates: %s - %s",
			event.StartDate.Format("Mon Jan 2 2006"),
			event.EndDate.Format("Mon Jan 2 2006")),
		"Pickup location: " + event.PickupLocation,
		fmt.Sprintf("Total price: $%.2f", float64(event.TotalPrice)/100),
	}
	if event.CustomerEmail != "" {
		lines = append(lines, "Customer email: "+event.CustomerEmail)
	}
	lines = append(lines, "", "Please prepare the car for these dates and location.")
	return strings.Join(lines, "\n")
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("booking alert sent", slog.Any("to", to))
	return nil
}
