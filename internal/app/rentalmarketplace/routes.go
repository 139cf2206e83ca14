package rentalmarketplace

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/roadsterhq/rental-marketplace/internal/http/handlers/admin/bookinglist"
	bookingcreate "github.com/roadsterhq/rental-marketplace/internal/http/handlers/booking/create"
	bookinglistown "github.com/roadsterhq/rental-marketplace/internal/http/handlers/booking/list"
	bookingsuccess "github.com/roadsterhq/rental-marketplace/internal/http/handlers/booking/success"
	carlist "github.com/roadsterhq/rental-marketplace/internal/http/handlers/car/list"
	carread "github.com/roadsterhq/rental-marketplace/internal/http/handlers/car/read"
	"github.com/roadsterhq/rental-marketplace/internal/http/handlers/auth/login"
	"github.com/roadsterhq/rental-marketplace/internal/http/handlers/auth/register"
	"github.com/roadsterhq/rental-marketplace/internal/http/handlers/health"
	"github.com/roadsterhq/rental-marketplace/internal/http/middlewarectx"
	"github.com/roadsterhq/rental-marketplace/internal/models"
	authservice "github.com/roadsterhq/rental-marketplace/internal/services/auth"
	bookingservice "github.com/roadsterhq/rental-marketplace/internal/services/booking"
	catalogservice "github.com/roadsterhq/rental-marketplace/internal/services/catalog"
	paymentservice "github.com/roadsterhq/rental-marketplace/internal/services/payment"
	"github.com/roadsterhq/rental-marketplace/internal/storage/repository"
)

// RegisterRoutes registers every route of the marketplace.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	db *repository.Storage,
	authService *authservice.Service,
	catalogService *catalogservice.Service,
	bookingService *bookingservice.Service,
	paymentService *paymentservice.Service,
) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	limiter := rate.NewLimiter(rate.Limit(20), 40)

	r.Route("/api/v1", func(r chi.Router) {
		// Open endpoints
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/cars", carlist.New(logger, catalogService).ServeHTTP)
		r.Get("/cars/{carUID}", carread.New(logger, catalogService).ServeHTTP)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
			r.Get("/account/bookings", bookinglistown.New(logger, bookingService).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(models.RoleAdmin, logger))
				r.Get("/admin/bookings", bookinglist.New(logger, bookingService).ServeHTTP)
			})
		})
	})

	// Page flow: form posts and the checkout return. Unauthenticated browsers
	// are redirected to the login page with a callbackUrl.
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.SessionRedirectMiddleware(authService, logger))
		r.Post("/bookings", bookingcreate.New(logger, bookingService, paymentService).ServeHTTP)
		r.Get("/bookings/success", bookingsuccess.New(logger, bookingService).ServeHTTP)
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
