package city

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/city-explorer-api/internal/types"
)

// MockCitySource is a mock implementation of CitySource
type MockCitySource struct {
	mock.Mock
}

func (m *MockCitySource) Search(ctx context.Context, query, lang string) ([]types.City, error) {
	args := m.Called(ctx, query, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.City), args.Error(1)
}

func (m *MockCitySource) Reverse(ctx context.Context, lat, lon float64, lang string) (*types.City, error) {
	args := m.Called(ctx, lat, lon, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.City), args.Error(1)
}

func setupCityServiceTest() (*ServiceImpl, *MockCitySource) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockSource := new(MockCitySource)
	return NewServiceImpl(mockSource, logger), mockSource
}

func TestServiceImpl_SearchCities(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		service, mockSource := setupCityServiceTest()
		expected := []types.City{{ID: "nominatim_1", Name: "Paris"}}
		mockSource.On("Search", ctx, "paris", "en").Return(expected, nil).Once()

		cities, err := service.SearchCities(ctx, "paris", "en")
		require.NoError(t, err)
		assert.Equal(t, expected, cities)
		mockSource.AssertExpectations(t)
	})

	t.Run("trims whitespace before lookup", func(t *testing.T) {
		service, mockSource := setupCityServiceTest()
		mockSource.On("Search", ctx, "lisbon", "").Return([]types.City{}, nil).Once()

		_, err := service.SearchCities(ctx, "  lisbon  ", "")
		require.NoError(t, err)
		mockSource.AssertExpectations(t)
	})

	t.Run("empty query fails without a lookup", func(t *testing.T) {
		service, mockSource := setupCityServiceTest()

		_, err := service.SearchCities(ctx, "   ", "en")
		require.Error(t, err)
		mockSource.AssertNotCalled(t, "Search")
	})

	t.Run("lookup error propagates", func(t *testing.T) {
		service, mockSource := setupCityServiceTest()
		lookupErr := errors.New("nominatim unavailable")
		mockSource.On("Search", ctx, "berlin", "en").Return(nil, lookupErr).Once()

		_, err := service.SearchCities(ctx, "berlin", "en")
		assert.ErrorIs(t, err, lookupErr)
	})
}

func TestServiceImpl_ReverseCity(t *testing.T) {
	ctx := context.Background()

	service, mockSource := setupCityServiceTest()
	expected := &types.City{ID: "nominatim_77", Name: "Porto"}
	mockSource.On("Reverse", ctx, 41.15, -8.62, "en").Return(expected, nil).Once()

	city, err := service.ReverseCity(ctx, 41.15, -8.62, "en")
	require.NoError(t, err)
	assert.Equal(t, expected, city)
	mockSource.AssertExpectations(t)
}
