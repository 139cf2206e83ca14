// Package create implements the booking form submission. The endpoint is part
// of the page flow: input arrives form-encoded and every outcome is a redirect,
// either to the payment gateway or back to the catalog with an error code.
package create

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/middleware"

	"github.com/roadsterhq/rental-marketplace/internal/http/middlewarectx"
	"github.com/roadsterhq/rental-marketplace/internal/lib/sl"
	"github.com/roadsterhq/rental-marketplace/internal/models"
	"github.com/roadsterhq/rental-marketplace/internal/services/booking"
)

// BookingService creates pending bookings.
type BookingService interface {
	Create(ctx context.Context, userUID string, req booking.CreateRequest) (*models.Booking, *models.Car, error)
}

// PaymentService opens a hosted checkout session for a pending booking.
type PaymentService interface {
	StartCheckout(ctx context.Context, b *models.Booking, car *models.Car) (string, error)
}

// Handler turns the booking form into a pending booking plus a checkout redirect.
type Handler struct {
	log      *slog.Logger
	bookings BookingService
	payments PaymentService
}

// New creates a booking-form Handler.
func New(log *slog.Logger, bookings BookingService, payments PaymentService) *Handler {
	return &Handler{
		log:      log,
		bookings: bookings,
		payments: payments,
	}
}

// ServeHTTP godoc
// @Summary Submit the booking form
// @Description Validates the form, creates a PENDING booking and redirects the browser to the payment gateway. Failures redirect back to the catalog with an error query parameter.
// @Tags Bookings
// @Accept  x-www-form-urlencoded
// @Param carId formData string true "Car UID"
// @Param startDate formData string true "Rental start date, YYYY-MM-DD"
// @Param endDate formData string true "Rental end date, YYYY-MM-DD"
// @Param pickupLocation formData string true "Pickup location code"
// @Success 303 "Redirect to the checkout URL"
// @Router /bookings [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := middlewarectx.IdentityFromContext(r.Context())
	if !ok {
		log.Warn("booking form submitted without identity")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Warn("failed to parse booking form", sl.Err(err))
		redirectWithError(w, r, "/cars", "missing_fields")
		return
	}

	req := booking.CreateRequest{
		CarUID:         r.PostFormValue("carId"),
		StartDate:      r.PostFormValue("startDate"),
		EndDate:        r.PostFormValue("endDate"),
		PickupLocation: r.PostFormValue("pickupLocation"),
	}

	b, car, err := h.bookings.Create(r.Context(), identity.UserUID, req)
	if err != nil {
		target, code := failureRedirect(req.CarUID, err)
		if code == "booking_failed" {
			log.Error("failed to create booking", sl.Err(err))
		} else {
			log.Info("booking rejected", slog.String("reason", code))
		}
		redirectWithError(w, r, target, code)
		return
	}

	checkoutURL, err := h.payments.StartCheckout(r.Context(), b, car)
	if err != nil {
		log.Error("failed to start checkout", sl.Err(err),
			slog.String("booking_uid", b.UUID))
		redirectWithError(w, r, "/cars/"+url.PathEscape(req.CarUID), "checkout_failed")
		return
	}

	log.Info("booking created, redirecting to checkout",
		slog.String("booking_uid", b.UUID))
	http.Redirect(w, r, checkoutURL, http.StatusSeeOther)
}

// failureRedirect maps a booking rejection to the page the browser should land
// on and the error code it carries. Car-level problems go back to the catalog,
// form-level problems back to the car page when one is known.
func failureRedirect(carUID string, err error) (target, code string) {
	carPage := "/cars"
	if carUID != "" {
		carPage = "/cars/" + url.PathEscape(carUID)
	}

	switch {
	case errors.Is(err, booking.ErrMissingFields):
		return carPage, "missing_fields"
	case errors.Is(err, booking.ErrCarNotFound):
		return "/cars", "car_not_found"
	case errors.Is(err, booking.ErrCarNotAvailable):
		return "/cars", "car_not_available"
	case errors.Is(err, booking.ErrInvalidPickupLocation):
		return carPage, "invalid_pickup_location"
	case errors.Is(err, booking.ErrInvalidDates):
		return carPage, "invalid_dates"
	case errors.Is(err, booking.ErrDatesUnavailable):
		return carPage, "dates_unavailable"
	default:
		return carPage, "booking_failed"
	}
}

func redirectWithError(w http.ResponseWriter, r *http.Request, target, code string) {
	http.Redirect(w, r, fmt.Sprintf("%s?error=%s", target, url.QueryEscape(code)), http.StatusSeeOther)
}
