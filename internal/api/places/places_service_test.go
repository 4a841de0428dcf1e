package places

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/city-explorer-api/internal/overpass"
	"github.com/FACorreiaa/city-explorer-api/internal/types"
)

// MockPlaceSource is a mock implementation of PlaceSource
type MockPlaceSource struct {
	mock.Mock
}

func (m *MockPlaceSource) SearchArea(ctx context.Context, lat, lon float64, radiusM int, categoryID types.CategoryID) ([]types.Place, error) {
	args := m.Called(ctx, lat, lon, radiusM, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Place), args.Error(1)
}

func (m *MockPlaceSource) GetPlace(ctx context.Context, osmType types.OSMType, osmID int64) (*types.Place, error) {
	args := m.Called(ctx, osmType, osmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Place), args.Error(1)
}

func setupPlacesServiceTest() (*ServiceImpl, *MockPlaceSource) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockSource := new(MockPlaceSource)
	service := NewServiceImpl(mockSource, overpass.Categories(), 10*time.Minute, 30*time.Minute, logger)
	return service, mockSource
}

func TestServiceImpl_SearchArea(t *testing.T) {
	ctx := context.Background()
	sample := []types.Place{{ID: "node_1", Name: "Louvre", Category: types.CategoryMuseums}}

	t.Run("caches successful results by query key", func(t *testing.T) {
		service, mockSource := setupPlacesServiceTest()
		mockSource.On("SearchArea", ctx, 48.8566, 2.3522, 2000, types.CategoryMuseums).
			Return(sample, nil).Once()

		first, err := service.SearchArea(ctx, 48.8566, 2.3522, 2000, types.CategoryMuseums)
		require.NoError(t, err)
		assert.Equal(t, sample, first)

		// Second identical query is served from cache, no upstream call.
		second, err := service.SearchArea(ctx, 48.8566, 2.3522, 2000, types.CategoryMuseums)
		require.NoError(t, err)
		assert.Equal(t, sample, second)
		mockSource.AssertExpectations(t)
	})

	t.Run("different query keys do not collide", func(t *testing.T) {
		service, mockSource := setupPlacesServiceTest()
		mockSource.On("SearchArea", ctx, 48.8566, 2.3522, 2000, types.CategoryMuseums).
			Return(sample, nil).Once()
		mockSource.On("SearchArea", ctx, 48.8566, 2.3522, 3000, types.CategoryMuseums).
			Return([]types.Place{}, nil).Once()

		_, err := service.SearchArea(ctx, 48.8566, 2.3522, 2000, types.CategoryMuseums)
		require.NoError(t, err)
		_, err = service.SearchArea(ctx, 48.8566, 2.3522, 3000, types.CategoryMuseums)
		require.NoError(t, err)
		mockSource.AssertExpectations(t)
	})

	t.Run("failures are not cached", func(t *testing.T) {
		service, mockSource := setupPlacesServiceTest()
		upstreamErr := errors.New("overpass down")
		mockSource.On("SearchArea", ctx, 1.0, 2.0, 1000, types.CategoryParks).
			Return(nil, upstreamErr).Once()
		mockSource.On("SearchArea", ctx, 1.0, 2.0, 1000, types.CategoryParks).
			Return(sample, nil).Once()

		_, err := service.SearchArea(ctx, 1.0, 2.0, 1000, types.CategoryParks)
		require.ErrorIs(t, err, upstreamErr)

		// The retry goes upstream again instead of replaying the failure.
		places, err := service.SearchArea(ctx, 1.0, 2.0, 1000, types.CategoryParks)
		require.NoError(t, err)
		assert.Equal(t, sample, places)
		mockSource.AssertExpectations(t)
	})
}

func TestServiceImpl_GetPlace(t *testing.T) {
	ctx := context.Background()

	t.Run("caches found places", func(t *testing.T) {
		service, mockSource := setupPlacesServiceTest()
		place := &types.Place{ID: "way_42", Name: "Hyde Park"}
		mockSource.On("GetPlace", ctx, types.OSMWay, int64(42)).Return(place, nil).Once()

		first, err := service.GetPlace(ctx, types.OSMWay, 42)
		require.NoError(t, err)
		assert.Equal(t, place, first)

		second, err := service.GetPlace(ctx, types.OSMWay, 42)
		require.NoError(t, err)
		assert.Equal(t, place, second)
		mockSource.AssertExpectations(t)
	})

	t.Run("not-found is passed through and not cached", func(t *testing.T) {
		service, mockSource := setupPlacesServiceTest()
		mockSource.On("GetPlace", ctx, types.OSMNode, int64(999)).Return(nil, nil).Twice()

		place, err := service.GetPlace(ctx, types.OSMNode, 999)
		require.NoError(t, err)
		assert.Nil(t, place)

		// A later lookup asks upstream again; the element may exist by then.
		place, err = service.GetPlace(ctx, types.OSMNode, 999)
		require.NoError(t, err)
		assert.Nil(t, place)
		mockSource.AssertExpectations(t)
	})
}

func TestServiceImpl_Categories(t *testing.T) {
	service, _ := setupPlacesServiceTest()
	cats := service.Categories()
	require.NotEmpty(t, cats)
	assert.Equal(t, types.CategoryPopular, cats[0].ID)
}

func TestSearchKey_FullPrecision(t *testing.T) {
	a := searchKey(48.856614, 2.3522219, 2000, types.CategoryMuseums)
	b := searchKey(48.856615, 2.3522219, 2000, types.CategoryMuseums)
	assert.NotEqual(t, a, b, "near-identical viewports must not share a cache entry")
}
