package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roadsterhq/rental-marketplace/internal/models"
)

// CreateBooking persists a new booking inside a transaction. The car row is
// locked for the duration of the check so two concurrent requests for the
// same car serialize; a non-cancelled booking overlapping the requested
// range maps to ErrDatesConflict.
func (s *Storage) CreateBooking(ctx context.Context, b models.Booking) (string, error) {
	const op = "storage.CreateBooking"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var carUID string
	if err := tx.QueryRowContext(ctx,
		`SELECT uid FROM cars WHERE uid = $1 FOR UPDATE`, b.CarUID,
	).Scan(&carUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var conflict bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM bookings
		     WHERE car_uid = $1
		       AND status <> 'CANCELLED'
		       AND start_date < $3
		       AND end_date > $2
		 )`, b.CarUID, b.StartDate, b.EndDate,
	).Scan(&conflict); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if conflict {
		return "", fmt.Errorf("%s: %w", op, ErrDatesConflict)
	}

	var newID string
	query := `INSERT INTO bookings (car_uid, user_uid, start_date, end_date,
			      pickup_location, total_price, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING uid;`
	if err := tx.QueryRowContext(ctx, query,
		b.CarUID, b.UserUID, b.StartDate, b.EndDate, b.PickupLocation,
		b.TotalPrice, b.Status).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetBooking returns a booking by uid or ErrNotFound.
func (s *Storage) GetBooking(ctx context.Context, bookingUID string) (*models.Booking, error) {
	const op = "storage.GetBooking"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, car_uid, user_uid, start_date, end_date,
			      pickup_location, total_price, status, created_at
			  FROM bookings
			  WHERE uid = $1`
	b := &models.Booking{}
	if err := s.DB.QueryRowContext(ctx, query, bookingUID).Scan(
		&b.UUID, &b.CarUID, &b.UserUID, &b.StartDate, &b.EndDate,
		&b.PickupLocation, &b.TotalPrice, &b.Status, &b.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// MarkBookingPaid atomically transitions a booking from PENDING to PAID.
// The returned flag reports whether this call performed the transition;
// false means the booking was already in a terminal state.
func (s *Storage) MarkBookingPaid(ctx context.Context, bookingUID string) (bool, error) {
	const op = "storage.MarkBookingPaid"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE bookings SET status = 'PAID' WHERE uid = $1 AND status = 'PENDING'`,
		bookingUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected == 1, nil
}

const bookingViewColumns = `b.uid, b.car_uid, b.user_uid, b.start_date, b.end_date,
			      b.pickup_location, b.total_price, b.status, b.created_at,
			      c.title, c.city, u.email`

func scanBookingView(row interface{ Scan(...any) error }) (*models.BookingView, error) {
	v := &models.BookingView{}
	if err := row.Scan(&v.UUID, &v.CarUID, &v.UserUID, &v.StartDate,
		&v.EndDate, &v.PickupLocation, &v.TotalPrice, &v.Status, &v.CreatedAt,
		&v.CarTitle, &v.CarCity, &v.CustomerEmail); err != nil {
		return nil, err
	}
	return v, nil
}

// GetBookingView returns a booking joined with its car and customer,
// as rendered by the confirmation view.
func (s *Storage) GetBookingView(ctx context.Context, bookingUID string) (*models.BookingView, error) {
	const op = "storage.GetBookingView"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + bookingViewColumns + `
			  FROM bookings b
			  JOIN cars c ON c.uid = b.car_uid
			  JOIN users u ON u.uid = b.user_uid
			  WHERE b.uid = $1`
	v, err := scanBookingView(s.DB.QueryRowContext(ctx, query, bookingUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// ListBookingsForUser returns the user's bookings, newest first.
func (s *Storage) ListBookingsForUser(ctx context.Context, userUID string) ([]*models.BookingView, error) {
	const op = "storage.ListBookingsForUser"
	return s.listBookings(ctx, op,
		`SELECT `+bookingViewColumns+`
		 FROM bookings b
		 JOIN cars c ON c.uid = b.car_uid
		 JOIN users u ON u.uid = b.user_uid
		 WHERE b.user_uid = $1
		 ORDER BY b.created_at DESC`, userUID)
}

// ListAllBookings returns every booking, newest first. Admin view only.
func (s *Storage) ListAllBookings(ctx context.Context) ([]*models.BookingView, error) {
	const op = "storage.ListAllBookings"
	return s.listBookings(ctx, op,
		`SELECT `+bookingViewColumns+`
		 FROM bookings b
		 JOIN cars c ON c.uid = b.car_uid
		 JOIN users u ON u.uid = b.user_uid
		 ORDER BY b.created_at DESC`)
}

func (s *Storage) listBookings(ctx context.Context, op, query string, args ...any) ([]*models.BookingView, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.BookingView
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
