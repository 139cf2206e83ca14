// Package read implements the single-car detail endpoint.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/roadsterhq/rental-marketplace/internal/http/handlers/car/list"
	"github.com/roadsterhq/rental-marketplace/internal/http/response"
	"github.com/roadsterhq/rental-marketplace/internal/lib/sl"
	"github.com/roadsterhq/rental-marketplace/internal/models"
	"github.com/roadsterhq/rental-marketplace/internal/services/catalog"
)

// Service describes the catalog read the handler needs.
type Service interface {
	Get(ctx context.Context, carUID string) (*models.Car, error)
}

// Handler serves the car detail page data.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a detail Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Get a car
// @Description Returns a single car by its identifier.
// @Tags Cars
// @Produce  json
// @Param carUID path string true "Car UID"
// @Success 200 {object} response.Response "Car"
// @Failure 404 {object} response.ErrorResponse "Car not found"
// @Failure 500 {object} response.ErrorResponse "Unexpected failure"
// @Router /cars/{carUID} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.car.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	carUID := chi.URLParam(r, "carUID")

	car, err := h.service.Get(r.Context(), carUID)
	if errors.Is(err, catalog.ErrCarNotFound) {
		log.Info("car not found", slog.String("car_uid", carUID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("car not found"))
		return
	}
	if err != nil {
		log.Error("failed to get car", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get car"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"car": list.ToCarView(car),
	}))
}
