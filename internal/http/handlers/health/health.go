// Package health implements the readiness probe.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/roadsterhq/rental-marketplace/internal/http/response"
	"github.com/roadsterhq/rental-marketplace/internal/lib/sl"
)

// Service reports whether the storage layer is ready to serve.
type Service interface {
	CheckDatabaseReady(ctx context.Context) error
}

// Handler serves the readiness probe.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a health Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Readiness probe
// @Description Reports whether the service and its database are ready.
// @Tags Service
// @Produce  json
// @Success 200 {object} response.Response "Ready"
// @Failure 503 {object} response.ErrorResponse "Database is not ready"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if err := h.service.CheckDatabaseReady(r.Context()); err != nil {
		h.log.Error("database is not ready", slog.String("op", op), sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database is not ready"))
		return
	}

	render.JSON(w, r, response.OK())
}
