// Package list implements the catalog listing endpoint: active cars in the
// configured city, cheapest first.
package list

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/roadsterhq/rental-marketplace/internal/http/response"
	"github.com/roadsterhq/rental-marketplace/internal/lib/sl"
	"github.com/roadsterhq/rental-marketplace/internal/models"
)

// Service describes the catalog read the handler needs.
type Service interface {
	List(ctx context.Context) ([]*models.Car, error)
}

// Handler serves the fleet listing.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a listing Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// CarView is the car shape the catalog returns. Prices stay in cents;
// the display string divides by 100.
type CarView struct {
	UID             string   `json:"uid"`
	Title           string   `json:"title"`
	Brand           string   `json:"brand"`
	Model           string   `json:"model"`
	Year            int      `json:"year"`
	Type            string   `json:"type"`
	Seats           int      `json:"seats"`
	Transmission    string   `json:"transmission"`
	PricePerDay     int64    `json:"price_per_day"`
	PriceDisplay    string   `json:"price_display"`
	City            string   `json:"city"`
	MainImageURL    string   `json:"main_image_url"`
	ImageURLs       []string `json:"image_urls,omitempty"`
	Description     string   `json:"description"`
	IsCompanyOwned  bool     `json:"is_company_owned"`
}

// ToCarView maps a domain car to its API shape.
func ToCarView(c *models.Car) CarView {
	return CarView{
		UID:            c.UUID,
		Title:          c.Title,
		Brand:          c.Brand,
		Model:          c.Model,
		Year:           c.Year,
		Type:           c.Type,
		Seats:          c.Seats,
		Transmission:   c.Transmission,
		PricePerDay:    c.PricePerDay,
		PriceDisplay:   fmt.Sprintf("$%.2f", float64(c.PricePerDay)/100),
		City:           c.City,
		MainImageURL:   c.MainImageURL,
		ImageURLs:      c.ImageURLs,
		Description:    c.Description,
		IsCompanyOwned: c.IsCompanyOwned,
	}
}

// ServeHTTP godoc
// @Summary List the fleet
// @Description Returns the active cars in the marketplace city, cheapest first.
// @Tags Cars
// @Produce  json
// @Success 200 {object} response.Response "Cars"
// @Failure 500 {object} response.ErrorResponse "Unexpected failure"
// @Router /cars [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.car.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	cars, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list cars", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list cars"))
		return
	}

	views := make([]CarView, 0, len(cars))
	for _, c := range cars {
		views = append(views, ToCarView(c))
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"cars": views,
	}))
}
