// Package payment bridges a pending booking to the hosted payment gateway.
package payment

import (
	"context"
	"fmt"

	"github.com/roadsterhq/rental-marketplace/internal/models"
	"github.com/roadsterhq/rental-marketplace/internal/paymentprovider"
	"github.com/roadsterhq/rental-marketplace/internal/services/booking"
)

// Provider creates hosted checkout sessions.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, params paymentprovider.CreateSessionParams) (*paymentprovider.CheckoutSession, error)
}

// Service builds checkout sessions for bookings.
type Service struct {
	provider Provider
	appURL   string
}

// New creates a payment Service. appURL is the externally reachable base
// URL the gateway routes the customer back to.
func New(provider Provider, appURL string) *Service {
	return &Service{
		provider: provider,
		appURL:   appURL,
	}
}

// StartCheckout opens a hosted session for a pending booking: one line item
// at the booking's total, labeled with the car title and a human-readable
// duration/city description, correlated by booking id. Returns the redirect
// URL.
func (s *Service) StartCheckout(ctx context.Context, b *models.Booking, car *models.Car) (string, error) {
	const op = "payment.StartCheckout"

	days := booking.RentalDays(b.StartDate, b.EndDate)

	session, err := s.provider.CreateCheckoutSession(ctx, paymentprovider.CreateSessionParams{
		ProductName: car.Title,
		Description: fmt.Sprintf("%d day rental in %s", days, car.City),
		AmountCents: b.TotalPrice,
		Currency:    "usd",
		Quantity:    1,
		Metadata: map[string]string{
			"bookingId": b.UUID,
		},
		SuccessURL: fmt.Sprintf("%s/bookings/success?bookingId=%s", s.appURL, b.UUID),
		CancelURL:  fmt.Sprintf("%s/cars/%s", s.appURL, car.UUID),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return session.URL, nil
}
