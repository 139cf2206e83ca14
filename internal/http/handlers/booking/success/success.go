// Package success implements the checkout return endpoint. The payment gateway
// sends the customer back here after payment; the booking is promoted to PAID
// and the confirmation view is returned.
package success

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/roadsterhq/rental-marketplace/internal/http/response"
	"github.com/roadsterhq/rental-marketplace/internal/lib/sl"
	"github.com/roadsterhq/rental-marketplace/internal/models"
	"github.com/roadsterhq/rental-marketplace/internal/services/booking"
)

// Service promotes a pending booking after checkout.
type Service interface {
	CompleteCheckout(ctx context.Context, bookingUID string) (*models.BookingView, error)
}

// Handler serves the post-checkout confirmation.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a checkout-return Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ConfirmationView is the booking shape shown on the confirmation page.
type ConfirmationView struct {
	BookingUID     string `json:"booking_uid"`
	CarTitle       string `json:"car_title"`
	CarCity        string `json:"car_city"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	PickupLocation string `json:"pickup_location"`
	TotalPrice     int64  `json:"total_price"`
	TotalDisplay   string `json:"total_display"`
	Status         string `json:"status"`
}

// ServeHTTP godoc
// @Summary Complete a checkout
// @Description Marks the booking referenced by bookingId as PAID and returns the confirmation view. Repeat visits return the same view without a second notification.
// @Tags Bookings
// @Produce  json
// @Param bookingId query string true "Booking UID"
// @Success 200 {object} response.Response "Confirmation"
// @Failure 400 {object} response.ErrorResponse "Missing bookingId"
// @Failure 404 {object} response.ErrorResponse "Booking not found"
// @Failure 500 {object} response.ErrorResponse "Unexpected failure"
// @Router /bookings/success [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.success"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	bookingUID := r.URL.Query().Get("bookingId")
	if bookingUID == "" {
		log.Info("checkout return without bookingId")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("bookingId is required"))
		return
	}

	view, err := h.service.CompleteCheckout(r.Context(), bookingUID)
	if errors.Is(err, booking.ErrBookingNotFound) {
		log.Info("booking not found", slog.String("booking_uid", bookingUID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("booking not found"))
		return
	}
	if err != nil {
		log.Error("failed to complete checkout", sl.Err(err),
			slog.String("booking_uid", bookingUID))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not complete checkout"))
		return
	}

	log.Info("checkout completed", slog.String("booking_uid", view.UUID))

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"booking": ConfirmationView{
			BookingUID:     view.UUID,
			CarTitle:       view.CarTitle,
			CarCity:        view.CarCity,
			StartDate:      view.StartDate.Format(booking.DateLayout),
			EndDate:        view.EndDate.Format(booking.DateLayout),
			PickupLocation: view.PickupLocation,
			TotalPrice:     view.TotalPrice,
			TotalDisplay:   fmt.Sprintf("$%.2f", float64(view.TotalPrice)/100),
			Status:         view.Status,
		},
	}))
}
