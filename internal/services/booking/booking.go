// Package booking implements the booking engine: it turns a raw booking
// request into a priced, persisted reservation and drives the checkout
// completion.
package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/roadsterhq/rental-marketplace/internal/models"
	"github.com/roadsterhq/rental-marketplace/internal/storage/repository"
)

// Sentinel errors, one per rejection, so handlers can choose the redirect
// target. None of them leaves a persisted record behind.
var (
	ErrMissingFields         = errors.New("missing fields")
	ErrCarNotFound           = errors.New("car not found")
	ErrCarNotAvailable       = errors.New("car is not available for booking")
	ErrInvalidPickupLocation = errors.New("invalid pickup location")
	ErrInvalidDates          = errors.New("invalid dates")
	ErrDatesUnavailable      = errors.New("car is already booked for these dates")
	ErrBookingNotFound       = errors.New("booking not found")
)

// DateLayout is the wire format of the booking form dates.
const DateLayout = "2006-01-02"

// CreateRequest carries the raw form fields of a booking submission.
// Everything is validated here, not at the handler.
type CreateRequest struct {
	CarUID         string
	StartDate      string
	EndDate        string
	PickupLocation string
}

// Repository defines the booking storage contract.
type Repository interface {
	CreateBooking(ctx context.Context, b models.Booking) (string, error)
	GetBookingView(ctx context.Context, bookingUID string) (*models.BookingView, error)
	MarkBookingPaid(ctx context.Context, bookingUID string) (bool, error)
	ListBookingsForUser(ctx context.Context, userUID string) ([]*models.BookingView, error)
	ListAllBookings(ctx context.Context) ([]*models.BookingView, error)
}

// CarGetter resolves a car by id.
type CarGetter interface {
	GetCar(ctx context.Context, carUID string) (*models.Car, error)
}

// Notifier dispatches the operational alert for a paid booking. It must
// never fail the caller; failures are its own concern.
type Notifier interface {
	BookingPaid(event models.BookingPaidEvent)
}

// Service is the booking engine.
type Service struct {
	repo     Repository
	cars     CarGetter
	notifier Notifier
	log      *slog.Logger
}

// New creates a booking Service.
func New(repo Repository, cars CarGetter, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cars:     cars,
		notifier: notifier,
		log:      log,
	}
}

// RentalDays returns the billable duration: the ceiling of the span in
// calendar days, floored at one day.
func RentalDays(start, end time.Time) int {
	span := end.Sub(start)
	days := int(span / (24 * time.Hour))
	if span%(24*time.Hour) != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// Create validates a booking request, prices it and persists it PENDING.
// Validation order: missing fields, car existence, pickup membership, date
// validity. Returns the created booking and its car.
func (s *Service) Create(ctx context.Context, userUID string, req CreateRequest) (*models.Booking, *models.Car, error) {
	if req.CarUID == "" || req.StartDate == "" || req.EndDate == "" || req.PickupLocation == "" {
		return nil, nil, ErrMissingFields
	}

	car, err := s.cars.GetCar(ctx, req.CarUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrCarNotFound
		}
		return nil, nil, err
	}
	if !car.IsActive {
		return nil, nil, ErrCarNotAvailable
	}

	if !models.ValidPickupLocation(req.PickupLocation) {
		return nil, nil, ErrInvalidPickupLocation
	}

	startDate, err := time.Parse(DateLayout, req.StartDate)
	if err != nil {
		return nil, nil, ErrInvalidDates
	}
	endDate, err := time.Parse(DateLayout, req.EndDate)
	if err != nil {
		return nil, nil, ErrInvalidDates
	}
	if !endDate.After(startDate) {
		return nil, nil, ErrInvalidDates
	}

	days := RentalDays(startDate, endDate)
	totalPrice := int64(days) * car.PricePerDay

	b := models.Booking{
		CarUID:         car.UUID,
		UserUID:        userUID,
		StartDate:      startDate,
		EndDate:        endDate,
		PickupLocation: req.PickupLocation,
		TotalPrice:     totalPrice,
		Status:         models.BookingStatusPending,
	}

	uid, err := s.repo.CreateBooking(ctx, b)
	if err != nil {
		if errors.Is(err, repository.ErrDatesConflict) {
			return nil, nil, ErrDatesUnavailable
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrCarNotFound
		}
		return nil, nil, err
	}
	b.UUID = uid

	s.log.Info("created pending booking",
		slog.String("booking_uid", uid),
		slog.String("car_uid", car.UUID),
		slog.Int64("total_price", totalPrice),
		slog.Int("days", days))

	return &b, car, nil
}

// CompleteCheckout handles the return from the payment gateway. The first
// call transitions the booking PENDING -> PAID and fires exactly one
// notification; repeated calls are read-only. The confirmation view is
// returned either way.
func (s *Service) CompleteCheckout(ctx context.Context, bookingUID string) (*models.BookingView, error) {
	view, err := s.repo.GetBookingView(ctx, bookingUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	transitioned, err := s.repo.MarkBookingPaid(ctx, bookingUID)
	if err != nil {
		return nil, err
	}
	if transitioned {
		view.Status = models.BookingStatusPaid
		s.log.Info("booking marked paid", slog.String("booking_uid", bookingUID))

		s.notifier.BookingPaid(models.BookingPaidEvent{
			BookingUID:     view.UUID,
			CarTitle:       view.CarTitle,
			CarCity:        view.CarCity,
			StartDate:      view.StartDate,
			EndDate:        view.EndDate,
			PickupLocation: view.PickupLocation,
			TotalPrice:     view.TotalPrice,
			CustomerEmail:  view.CustomerEmail,
		})
	}

	return view, nil
}

// ListForUser returns the requesting user's bookings, newest first.
func (s *Service) ListForUser(ctx context.Context, userUID string) ([]*models.BookingView, error) {
	return s.repo.ListBookingsForUser(ctx, userUID)
}

// ListAll returns every booking. Callers gate this on the ADMIN role.
func (s *Service) ListAll(ctx context.Context) ([]*models.BookingView, error) {
	return s.repo.ListAllBookings(ctx)
}
