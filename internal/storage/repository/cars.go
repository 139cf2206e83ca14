package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roadsterhq/rental-marketplace/internal/models"
)

const carColumns = `uid, owner_uid, title, brand, model, year, type, seats,
			      transmission, price_per_day, city, is_active, is_company_owned,
			      main_image_url, image_urls, description, created_at`

func scanCar(row interface{ Scan(...any) error }) (*models.Car, error) {
	c := &models.Car{}
	var imageURLs []byte
	if err := row.Scan(&c.UUID, &c.OwnerUID, &c.Title, &c.Brand, &c.Model,
		&c.Year, &c.Type, &c.Seats, &c.Transmission, &c.PricePerDay, &c.City,
		&c.IsActive, &c.IsCompanyOwned, &c.MainImageURL, &imageURLs,
		&c.Description, &c.CreatedAt); err != nil {
		return nil, err
	}
	if len(imageURLs) > 0 {
		if err := json.Unmarshal(imageURLs, &c.ImageURLs); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ListActiveCars returns active cars in a city, cheapest first.
func (s *Storage) ListActiveCars(ctx context.Context, city string) ([]*models.Car, error) {
	const op = "storage.ListActiveCars"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + carColumns + `
			  FROM cars
			  WHERE is_active = true AND city = $1
			  ORDER BY price_per_day ASC`
	rows, err := s.DB.QueryContext(ctx, query, city)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetCar returns a car by uid or ErrNotFound.
func (s *Storage) GetCar(ctx context.Context, carUID string) (*models.Car, error) {
	const op = "storage.GetCar"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + carColumns + `
			  FROM cars
			  WHERE uid = $1`
	c, err := scanCar(s.DB.QueryRowContext(ctx, query, carUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}
