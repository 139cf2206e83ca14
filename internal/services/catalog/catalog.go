// Package catalog contains the read-only fleet listing logic with a Redis
// cache in front of the repository.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roadsterhq/rental-marketplace/internal/models"
	"github.com/roadsterhq/rental-marketplace/internal/storage/repository"
)

// ErrCarNotFound is returned for an unknown car id.
var ErrCarNotFound = errors.New("car not found")

const cacheTTL = 5 * time.Minute

// CarRepository defines the storage methods the catalog reads through.
type CarRepository interface {
	ListActiveCars(ctx context.Context, city string) ([]*models.Car, error)
	GetCar(ctx context.Context, carUID string) (*models.Car, error)
}

// Cache describes the caching methods the catalog uses.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// Service serves the fleet listing and car detail reads. Cache failures
// degrade to the repository and are only logged.
type Service struct {
	repo  CarRepository
	cache Cache
	city  string
	log   *slog.Logger
}

// New creates a catalog Service scoped to one city.
func New(repo CarRepository, cache Cache, city string, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		city:  city,
		log:   log,
	}
}

// List returns the active cars in the configured city, cheapest first.
func (s *Service) List(ctx context.Context) ([]*models.Car, error) {
	cacheKey := fmt.Sprintf("cars:%s", s.city)

	var cached []*models.Car
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read catalog cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	cars, err := s.repo.ListActiveCars(ctx, s.city)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, cars, cacheTTL); err != nil {
		s.log.Warn("failed to cache catalog", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return cars, nil
}

// Get returns one car by id, active or not; unknown ids map to
// ErrCarNotFound.
func (s *Service) Get(ctx context.Context, carUID string) (*models.Car, error) {
	cacheKey := fmt.Sprintf("car:%s", carUID)

	var cached *models.Car
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read car cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	car, err := s.repo.GetCar(ctx, carUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}

	if err := s.cache.Set(cacheKey, car, cacheTTL); err != nil {
		s.log.Warn("failed to cache car", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return car, nil
}
