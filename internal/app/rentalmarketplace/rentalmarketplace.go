// Package rentalmarketplace wires the marketplace HTTP application: storage,
// migrations, cache, the event bus and every service behind the router.
package rentalmarketplace

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/roadsterhq/rental-marketplace/internal/cache"
	"github.com/roadsterhq/rental-marketplace/internal/config"
	"github.com/roadsterhq/rental-marketplace/internal/lib/jwt"
	"github.com/roadsterhq/rental-marketplace/internal/lib/rabbitmq"
	"github.com/roadsterhq/rental-marketplace/internal/lib/sl"
	"github.com/roadsterhq/rental-marketplace/internal/migrations"
	"github.com/roadsterhq/rental-marketplace/internal/paymentprovider"
	authservice "github.com/roadsterhq/rental-marketplace/internal/services/auth"
	bookingservice "github.com/roadsterhq/rental-marketplace/internal/services/booking"
	catalogservice "github.com/roadsterhq/rental-marketplace/internal/services/catalog"
	notifierservice "github.com/roadsterhq/rental-marketplace/internal/services/notifier"
	paymentservice "github.com/roadsterhq/rental-marketplace/internal/services/payment"
	"github.com/roadsterhq/rental-marketplace/internal/storage/repository"
)

// App is the assembled HTTP application.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	amqpConn *amqp.Connection
	amqpCh   *amqp.Channel
}

// New builds the application from the config. The event bus is best effort:
// when RabbitMQ is unreachable the app starts anyway and booking alerts
// become a logged no-op.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	app := &App{
		logger: logger,
		db:     db,
	}

	var publisher notifierservice.Publisher
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		logger.Warn("RabbitMQ unavailable, booking alerts disabled", sl.Err(err))
	} else {
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			conn.Close()
			return nil, err
		}
		app.amqpConn = conn
		app.amqpCh = ch
		publisher = rabbitmq.NewChannelPublisher(ch)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	notifier := notifierservice.New(publisher, cfg.AlertRecipients, logger)

	authService := authservice.New(db, jwtMaker)
	catalogService := catalogservice.New(db, cacheRedis, cfg.CatalogCity, logger)
	bookingService := bookingservice.New(db, db, notifier, logger)
	providerClient := paymentprovider.NewClient(cfg.StripeSecretKey)
	paymentService := paymentservice.New(providerClient, cfg.AppURL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, authService, catalogService, bookingService, paymentService)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return app, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.amqpCh != nil {
			_ = a.amqpCh.Close()
		}
		if a.amqpConn != nil {
			_ = a.amqpConn.Close()
		}
		_ = a.db.DB.Close()
		return err
	}
}
