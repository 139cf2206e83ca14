package repository

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/roadsterhq/rental-marketplace/internal/models"
)

// setupTestDatabase starts a disposable PostgreSQL container and applies the
// marketplace schema.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForAll(
			wait.ForListeningPort(nat.Port("5432/tcp")),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(3*time.Minute)),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil && storage.DB.Ping() == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	_, err = storage.DB.Exec(`
        CREATE EXTENSION IF NOT EXISTS pgcrypto;

        CREATE TABLE users (
            uid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            name TEXT,
            email TEXT NOT NULL UNIQUE,
            password_hash TEXT,
            role TEXT NOT NULL DEFAULT 'CUSTOMER',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE owner_profiles (
            uid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            user_uid UUID NOT NULL UNIQUE REFERENCES users(uid),
            display_name TEXT NOT NULL,
            bio TEXT NOT NULL DEFAULT '',
            city TEXT NOT NULL,
            is_company BOOLEAN NOT NULL DEFAULT false
        );

        CREATE TABLE cars (
            uid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            owner_uid UUID NOT NULL REFERENCES owner_profiles(uid),
            title TEXT NOT NULL,
            brand TEXT NOT NULL,
            model TEXT NOT NULL,
            year INT NOT NULL,
            type TEXT NOT NULL,
            seats INT NOT NULL,
            transmission TEXT NOT NULL,
            price_per_day BIGINT NOT NULL CHECK (price_per_day >= 0),
            city TEXT NOT NULL,
            is_active BOOLEAN NOT NULL DEFAULT true,
            is_company_owned BOOLEAN NOT NULL DEFAULT false,
            main_image_url TEXT NOT NULL DEFAULT '',
            image_urls JSONB NOT NULL DEFAULT '[]',
            description TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE bookings (
            uid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            car_uid UUID NOT NULL REFERENCES cars(uid),
            user_uid UUID NOT NULL REFERENCES users(uid),
            start_date DATE NOT NULL,
            end_date DATE NOT NULL,
            pickup_location TEXT NOT NULL,
            total_price BIGINT NOT NULL,
            status TEXT NOT NULL DEFAULT 'PENDING',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            CONSTRAINT bookings_dates_check CHECK (end_date > start_date)
        );
    `)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		_ = pgContainer.Terminate(ctx)
	}

	return storage, cleanup
}

// TestDataFactory inserts rows the tests build on.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory creates a factory bound to storage.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser inserts a user and returns its uid.
func (f *TestDataFactory) CreateUser(t *testing.T, name, email, passwordHash, role string) string {
	uid := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)`,
		uid, name, email, passwordHash, role)
	require.NoError(t, err)
	return uid
}

// CreateOwnerProfile inserts an owner profile for user and returns its uid.
func (f *TestDataFactory) CreateOwnerProfile(t *testing.T, userUID, displayName, city string) string {
	uid := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO owner_profiles (uid, user_uid, display_name, city, is_company)
		VALUES ($1, $2, $3, $4, true)`,
		uid, userUID, displayName, city)
	require.NoError(t, err)
	return uid
}

// CreateCar inserts a car and returns its uid.
func (f *TestDataFactory) CreateCar(t *testing.T, ownerUID, title string, pricePerDay int64, city string, isActive bool) string {
	uid := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO cars
		(uid, owner_uid, title, brand, model, year, type, seats, transmission,
		 price_per_day, city, is_active, is_company_owned, main_image_url, image_urls, description)
		VALUES ($1, $2, $3, 'Toyota', 'Camry', 2021, 'SEDAN', 5, 'AUTOMATIC',
		        $4, $5, $6, true, '/cars/test.jpg', '["/cars/test.jpg"]', 'test car')`,
		uid, ownerUID, title, pricePerDay, city, isActive)
	require.NoError(t, err)
	return uid
}

// CreateBooking inserts a booking directly and returns its uid.
func (f *TestDataFactory) CreateBooking(t *testing.T, carUID, userUID string, start, end time.Time, status string) string {
	uid := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO bookings
		(uid, car_uid, user_uid, start_date, end_date, pickup_location, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uid, carUID, userUID, start, end, models.PickupDowntown, 19500, status)
	require.NoError(t, err)
	return uid
}

// CreateFleet inserts an owner with one active car and returns both uids
// along with a customer uid.
func (f *TestDataFactory) CreateFleet(t *testing.T) (carUID, customerUID string) {
	adminUID := f.CreateUser(t, "Admin", "admin@example.com", "", models.RoleAdmin)
	ownerUID := f.CreateOwnerProfile(t, adminUID, "Test Rentals", "Columbus")
	carUID = f.CreateCar(t, ownerUID, "2021 Toyota Camry LE", 6500, "Columbus", true)
	customerUID = f.CreateUser(t, "Alice", "alice@example.com", "hash", models.RoleCustomer)
	return carUID, customerUID
}
