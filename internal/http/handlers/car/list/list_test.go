package list

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roadsterhq/rental-marketplace/internal/http/response"
	"github.com/roadsterhq/rental-marketplace/internal/models"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) List(ctx context.Context) ([]*models.Car, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Car), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestHandler_ServeHTTP(t *testing.T) {
	t.Run("returns the fleet with display prices", func(t *testing.T) {
		service := new(ServiceMock)
		service.On("List", mock.Anything).Return([]*models.Car{
			{UUID: "car-1", Title: "2022 Toyota Camry", PricePerDay: 6500, City: "Columbus", IsActive: true},
			{UUID: "car-2", Title: "2023 Honda CR-V", PricePerDay: 8500, City: "Columbus", IsActive: true},
		}, nil).Once()
		handler := New(newNoopLogger(), service)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cars", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp response.Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, response.StatusOK, resp.Status)

		cars := resp.Data.(map[string]any)["cars"].([]any)
		require.Len(t, cars, 2)
		first := cars[0].(map[string]any)
		assert.Equal(t, "car-1", first["uid"])
		assert.Equal(t, float64(6500), first["price_per_day"])
		assert.Equal(t, "$65.00", first["price_display"])
	})

	t.Run("empty fleet is an empty list, not null", func(t *testing.T) {
		service := new(ServiceMock)
		service.On("List", mock.Anything).Return([]*models.Car{}, nil).Once()
		handler := New(newNoopLogger(), service)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cars", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"cars":[]`)
	})

	t.Run("storage failure", func(t *testing.T) {
		service := new(ServiceMock)
		service.On("List", mock.Anything).Return(nil, errors.New("connection reset")).Once()
		handler := New(newNoopLogger(), service)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cars", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
