package booking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/roadsterhq/rental-marketplace/internal/models"
	"github.com/roadsterhq/rental-marketplace/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateBooking(ctx context.Context, b models.Booking) (string, error) {
	args := m.Called(ctx, b)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) GetBookingView(ctx context.Context, bookingUID string) (*models.BookingView, error) {
	args := m.Called(ctx, bookingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingView), args.Error(1)
}
func (m *RepoMock) MarkBookingPaid(ctx context.Context, bookingUID string) (bool, error) {
	args := m.Called(ctx, bookingUID)
	return args.Bool(0), args.Error(1)
}
func (m *RepoMock) ListBookingsForUser(ctx context.Context, userUID string) ([]*models.BookingView, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BookingView), args.Error(1)
}
func (m *RepoMock) ListAllBookings(ctx context.Context) ([]*models.BookingView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BookingView), args.Error(1)
}

type CarGetterMock struct{ mock.Mock }

func (m *CarGetterMock) GetCar(ctx context.Context, carUID string) (*models.Car, error) {
	args := m.Called(ctx, carUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Car), args.Error(1)
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) BookingPaid(event models.BookingPaidEvent) {
	m.Called(event)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func testCar() *models.Car {
	return &models.Car{
		UUID:        "car-1",
		Title:       "2022 Toyota Camry",
		PricePerDay: 6500,
		City:        "Columbus",
		IsActive:    true,
	}
}

func TestRentalDays(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"three full days", day(1), day(4), 3},
		{"single day", day(1), day(2), 1},
		{"partial day rounds up", day(1), day(2).Add(6 * time.Hour), 2},
		{"same instant floors at one", day(1), day(1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RentalDays(tt.start, tt.end))
		})
	}
}

func TestService_Create(t *testing.T) {
	validReq := CreateRequest{
		CarUID:         "car-1",
		StartDate:      "2026-09-01",
		EndDate:        "2026-09-04",
		PickupLocation: models.PickupDowntown,
	}

	tests := []struct {
		name       string
		req        CreateRequest
		setupMocks func(r *RepoMock, c *CarGetterMock)
		wantErr    error
		wantTotal  int64
	}{
		{
			name: "success prices three days",
			req:  validReq,
			setupMocks: func(r *RepoMock, c *CarGetterMock) {
				c.On("GetCar", mock.Anything, "car-1").Return(testCar(), nil).Once()
				r.On("CreateBooking", mock.Anything, mock.MatchedBy(func(b models.Booking) bool {
					return b.CarUID == "car-1" &&
						b.UserUID == "user-1" &&
						b.TotalPrice == 19500 &&
						b.Status == models.BookingStatusPending
				})).Return("booking-1", nil).Once()
			},
			wantTotal: 19500,
		},
		{
			name: "missing fields rejected before any lookup",
			req: CreateRequest{
				CarUID:         "car-1",
				StartDate:      "",
				EndDate:        "2026-09-04",
				PickupLocation: models.PickupDowntown,
			},
			setupMocks: func(_ *RepoMock, _ *CarGetterMock) {},
			wantErr:    ErrMissingFields,
		},
		{
			name: "unknown car",
			req:  validReq,
			setupMocks: func(_ *RepoMock, c *CarGetterMock) {
				c.On("GetCar", mock.Anything, "car-1").Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: ErrCarNotFound,
		},
		{
			name: "inactive car",
			req:  validReq,
			setupMocks: func(_ *RepoMock, c *CarGetterMock) {
				car := testCar()
				car.IsActive = false
				c.On("GetCar", mock.Anything, "car-1").Return(car, nil).Once()
			},
			wantErr: ErrCarNotAvailable,
		},
		{
			name: "car checked before pickup location",
			req: CreateRequest{
				CarUID:         "car-1",
				StartDate:      "2026-09-01",
				EndDate:        "2026-09-04",
				PickupLocation: "MARS",
			},
			setupMocks: func(_ *RepoMock, c *CarGetterMock) {
				c.On("GetCar", mock.Anything, "car-1").Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: ErrCarNotFound,
		},
		{
			name: "unknown pickup location",
			req: CreateRequest{
				CarUID:         "car-1",
				StartDate:      "2026-09-01",
				EndDate:        "2026-09-04",
				PickupLocation: "MARS",
			},
			setupMocks: func(_ *RepoMock, c *CarGetterMock) {
				c.On("GetCar", mock.Anything, "car-1").Return(testCar(), nil).Once()
			},
			wantErr: ErrInvalidPickupLocation,
		},
		{
			name: "unparseable date",
			req: CreateRequest{
				CarUID:         "car-1",
				StartDate:      "not-a-date",
				EndDate:        "2026-09-04",
				PickupLocation: models.PickupDowntown,
			},
			setupMocks: func(_ *RepoMock, c *CarGetterMock) {
				c.On("GetCar", mock.Anything, "car-1").Return(testCar(), nil).Once()
			},
			wantErr: ErrInvalidDates,
		},
		{
			name: "end not after start",
			req: CreateRequest{
				CarUID:         "car-1",
				StartDate:      "2026-09-04",
				EndDate:        "2026-09-04",
				PickupLocation: models.PickupDowntown,
			},
			setupMocks: func(_ *RepoMock, c *CarGetterMock) {
				c.On("GetCar", mock.Anything, "car-1").Return(testCar(), nil).Once()
			},
			wantErr: ErrInvalidDates,
		},
		{
			name: "overlapping dates",
			req:  validReq,
			setupMocks: func(r *RepoMock, c *CarGetterMock) {
				c.On("GetCar", mock.Anything, "car-1").Return(testCar(), nil).Once()
				r.On("CreateBooking", mock.Anything, mock.Anything).
					Return("", repository.ErrDatesConflict).Once()
			},
			wantErr: ErrDatesUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cars := new(CarGetterMock)
			notifier := new(NotifierMock)
			svc := New(repo, cars, notifier, newNoopLogger())

			tt.setupMocks(repo, cars)

			b, car, err := svc.Create(context.Background(), "user-1", tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, b)
				assert.Nil(t, car)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "booking-1", b.UUID)
				assert.Equal(t, tt.wantTotal, b.TotalPrice)
				assert.Equal(t, models.BookingStatusPending, b.Status)
				assert.Equal(t, "car-1", car.UUID)
			}

			// Rejections must persist nothing and notify nobody.
			repo.AssertExpectations(t)
			cars.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func testView() *models.BookingView {
	return &models.BookingView{
		Booking: models.Booking{
			UUID:           "booking-1",
			CarUID:         "car-1",
			UserUID:        "user-1",
			StartDate:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			EndDate:        time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC),
			PickupLocation: models.PickupDowntown,
			TotalPrice:     19500,
			Status:         models.BookingStatusPending,
		},
		CarTitle:      "2022 Toyota Camry",
		CarCity:       "Columbus",
		CustomerEmail: "user@example.com",
	}
}

func TestService_CompleteCheckout(t *testing.T) {
	t.Run("first call transitions and notifies once", func(t *testing.T) {
		repo := new(RepoMock)
		notifier := new(NotifierMock)
		svc := New(repo, new(CarGetterMock), notifier, newNoopLogger())

		repo.On("GetBookingView", mock.Anything, "booking-1").Return(testView(), nil).Once()
		repo.On("MarkBookingPaid", mock.Anything, "booking-1").Return(true, nil).Once()
		notifier.On("BookingPaid", mock.MatchedBy(func(e models.BookingPaidEvent) bool {
			return e.BookingUID == "booking-1" &&
				e.TotalPrice == 19500 &&
				e.CustomerEmail == "user@example.com"
		})).Once()

		view, err := svc.CompleteCheckout(context.Background(), "booking-1")
		assert.NoError(t, err)
		assert.Equal(t, models.BookingStatusPaid, view.Status)

		repo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("repeat call is read-only with no second notification", func(t *testing.T) {
		repo := new(RepoMock)
		notifier := new(NotifierMock)
		svc := New(repo, new(CarGetterMock), notifier, newNoopLogger())

		paid := testView()
		paid.Status = models.BookingStatusPaid
		repo.On("GetBookingView", mock.Anything, "booking-1").Return(paid, nil).Once()
		repo.On("MarkBookingPaid", mock.Anything, "booking-1").Return(false, nil).Once()

		view, err := svc.CompleteCheckout(context.Background(), "booking-1")
		assert.NoError(t, err)
		assert.Equal(t, models.BookingStatusPaid, view.Status)

		repo.AssertExpectations(t)
		notifier.AssertNotCalled(t, "BookingPaid", mock.Anything)
	})

	t.Run("unknown booking", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(CarGetterMock), new(NotifierMock), newNoopLogger())

		repo.On("GetBookingView", mock.Anything, "missing").Return(nil, repository.ErrNotFound).Once()

		view, err := svc.CompleteCheckout(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrBookingNotFound)
		assert.Nil(t, view)
	})

	t.Run("storage failure surfaces", func(t *testing.T) {
		repo := new(RepoMock)
		notifier := new(NotifierMock)
		svc := New(repo, new(CarGetterMock), notifier, newNoopLogger())

		repo.On("GetBookingView", mock.Anything, "booking-1").Return(testView(), nil).Once()
		repo.On("MarkBookingPaid", mock.Anything, "booking-1").
			Return(false, errors.New("connection reset")).Once()

		view, err := svc.CompleteCheckout(context.Background(), "booking-1")
		assert.Error(t, err)
		assert.Nil(t, view)
		notifier.AssertNotCalled(t, "BookingPaid", mock.Anything)
	})
}

func TestService_Listing(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, new(CarGetterMock), new(NotifierMock), newNoopLogger())

	mine := []*models.BookingView{testView()}
	all := []*models.BookingView{testView(), testView()}

	repo.On("ListBookingsForUser", mock.Anything, "user-1").Return(mine, nil).Once()
	repo.On("ListAllBookings", mock.Anything).Return(all, nil).Once()

	got, err := svc.ListForUser(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.ListAll(context.Background())
	assert.NoError(t, err)
	assert.Len(t, got, 2)

	repo.AssertExpectations(t)
}
