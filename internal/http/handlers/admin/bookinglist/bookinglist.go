// Package bookinglist implements the admin view over every booking in the
// marketplace. The route is guarded by the ADMIN role middleware.
package bookinglist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	bookinglistview "github.com/roadsterhq/rental-marketplace/internal/http/handlers/booking/list"
	"github.com/roadsterhq/rental-marketplace/internal/http/response"
	"github.com/roadsterhq/rental-marketplace/internal/lib/sl"
	"github.com/roadsterhq/rental-marketplace/internal/models"
)

// Service describes the booking read the admin handler needs.
type Service interface {
	ListAll(ctx context.Context) ([]*models.BookingView, error)
}

// Handler serves the full booking ledger for operators.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates an admin booking Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary List all bookings
// @Description Returns every booking in the marketplace with customer emails, newest first. Requires the ADMIN role.
// @Tags Admin
// @Produce  json
// @Success 200 {object} response.Response "Bookings"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Not an admin"
// @Failure 500 {object} response.ErrorResponse "Unexpected failure"
// @Security BearerAuth
// @Router /admin/bookings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.bookinglist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	views, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error("failed to list bookings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list bookings"))
		return
	}

	rows := make([]bookinglistview.BookingRow, 0, len(views))
	for _, v := range views {
		rows = append(rows, bookinglistview.ToBookingRow(v, true))
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"bookings": rows,
	}))
}
