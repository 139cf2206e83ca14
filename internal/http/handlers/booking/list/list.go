// Package list implements the account booking history endpoint.
package list

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/roadsterhq/rental-marketplace/internal/http/middlewarectx"
	"github.com/roadsterhq/rental-marketplace/internal/http/response"
	"github.com/roadsterhq/rental-marketplace/internal/lib/sl"
	"github.com/roadsterhq/rental-marketplace/internal/models"
	"github.com/roadsterhq/rental-marketplace/internal/services/booking"
)

// Service describes the booking history read the handler needs.
type Service interface {
	ListForUser(ctx context.Context, userUID string) ([]*models.BookingView, error)
}

// Handler serves the authenticated customer's bookings, newest first.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a booking history Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// BookingRow is the booking shape returned by booking listings.
type BookingRow struct {
	BookingUID     string `json:"booking_uid"`
	CarTitle       string `json:"car_title"`
	CarCity        string `json:"car_city"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	PickupLocation string `json:"pickup_location"`
	TotalPrice     int64  `json:"total_price"`
	TotalDisplay   string `json:"total_display"`
	Status         string `json:"status"`
	CustomerEmail  string `json:"customer_email,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// ToBookingRow maps a booking view to its API shape. includeCustomer controls
// whether the customer email is exposed; only the admin listing sets it.
func ToBookingRow(v *models.BookingView, includeCustomer bool) BookingRow {
	row := BookingRow{
		BookingUID:     v.UUID,
		CarTitle:       v.CarTitle,
		CarCity:        v.CarCity,
		StartDate:      v.StartDate.Format(booking.DateLayout),
		EndDate:        v.EndDate.Format(booking.DateLayout),
		PickupLocation: v.PickupLocation,
		TotalPrice:     v.TotalPrice,
		TotalDisplay:   fmt.Sprintf("$%.2f", float64(v.TotalPrice)/100),
		Status:         v.Status,
		CreatedAt:      v.CreatedAt.Format("2006-01-02 15:04"),
	}
	if includeCustomer {
		row.CustomerEmail = v.CustomerEmail
	}
	return row
}

// ServeHTTP godoc
// @Summary List my bookings
// @Description Returns the authenticated customer's bookings, newest first.
// @Tags Bookings
// @Produce  json
// @Success 200 {object} response.Response "Bookings"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 500 {object} response.ErrorResponse "Unexpected failure"
// @Security BearerAuth
// @Router /account/bookings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := middlewarectx.IdentityFromContext(r.Context())
	if !ok {
		log.Warn("booking listing requested without identity")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	views, err := h.service.ListForUser(r.Context(), identity.UserUID)
	if err != nil {
		log.Error("failed to list bookings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list bookings"))
		return
	}

	rows := make([]BookingRow, 0, len(views))
	for _, v := range views {
		rows = append(rows, ToBookingRow(v, false))
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"bookings": rows,
	}))
}
