package places

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/city-explorer-api/internal/overpass"
	"github.com/FACorreiaa/city-explorer-api/internal/types"
)

// MockPlacesService is a mock implementation of Service
type MockPlacesService struct {
	mock.Mock
}

func (m *MockPlacesService) SearchArea(ctx context.Context, lat, lon float64, radiusM int, categoryID types.CategoryID) ([]types.Place, error) {
	args := m.Called(ctx, lat, lon, radiusM, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Place), args.Error(1)
}

func (m *MockPlacesService) GetPlace(ctx context.Context, osmType types.OSMType, osmID int64) (*types.Place, error) {
	args := m.Called(ctx, osmType, osmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Place), args.Error(1)
}

func (m *MockPlacesService) Categories() []types.PlaceCategory {
	args := m.Called()
	return args.Get(0).([]types.PlaceCategory)
}

func setupPlacesHandlerTest() (*chi.Mux, *MockPlacesService) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockService := new(MockPlacesService)
	handler := NewHandler(mockService, logger)

	r := chi.NewRouter()
	r.Get("/places/categories", handler.GetCategories)
	r.Get("/places/search", handler.SearchArea)
	r.Get("/places/{osmType}/{osmID}", handler.GetPlace)
	return r, mockService
}

func TestHandler_SearchArea(t *testing.T) {
	t.Run("success with defaults", func(t *testing.T) {
		r, mockService := setupPlacesHandlerTest()
		mockService.On("SearchArea", mock.Anything, 48.85, 2.35, 5000, types.CategoryPopular).
			Return([]types.Place{{ID: "node_1", Name: "Louvre"}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/places/search?lat=48.85&lon=2.35", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var places []types.Place
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &places))
		require.Len(t, places, 1)
		assert.Equal(t, "Louvre", places[0].Name)
		mockService.AssertExpectations(t)
	})

	t.Run("missing lat is a 400", func(t *testing.T) {
		r, _ := setupPlacesHandlerTest()
		req := httptest.NewRequest(http.MethodGet, "/places/search?lon=2.35", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-positive radius is a 400", func(t *testing.T) {
		r, _ := setupPlacesHandlerTest()
		req := httptest.NewRequest(http.MethodGet, "/places/search?lat=1&lon=2&radius=-5", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown category maps to 400", func(t *testing.T) {
		r, mockService := setupPlacesHandlerTest()
		mockService.On("SearchArea", mock.Anything, 1.0, 2.0, 5000, types.CategoryID("nightlife")).
			Return(nil, overpass.ErrInvalidCategory).Once()

		req := httptest.NewRequest(http.MethodGet, "/places/search?lat=1&lon=2&category=nightlife", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("no location maps to 400", func(t *testing.T) {
		r, mockService := setupPlacesHandlerTest()
		mockService.On("SearchArea", mock.Anything, 0.0, 0.0, 5000, types.CategoryPopular).
			Return(nil, overpass.ErrNoLocation).Once()

		req := httptest.NewRequest(http.MethodGet, "/places/search?lat=0&lon=0", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("upstream failure maps to 502", func(t *testing.T) {
		r, mockService := setupPlacesHandlerTest()
		mockService.On("SearchArea", mock.Anything, 1.0, 2.0, 5000, types.CategoryPopular).
			Return(nil, errors.New("all mirrors down")).Once()

		req := httptest.NewRequest(http.MethodGet, "/places/search?lat=1&lon=2", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		mockService.AssertExpectations(t)
	})
}

func TestHandler_GetPlace(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		r, mockService := setupPlacesHandlerTest()
		mockService.On("GetPlace", mock.Anything, types.OSMWay, int64(42)).
			Return(&types.Place{ID: "way_42", Name: "Hyde Park"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/places/way/42", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var place types.Place
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &place))
		assert.Equal(t, "way_42", place.ID)
		mockService.AssertExpectations(t)
	})

	t.Run("invalid osm type is a 400", func(t *testing.T) {
		r, _ := setupPlacesHandlerTest()
		req := httptest.NewRequest(http.MethodGet, "/places/area/42", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing place is a 404", func(t *testing.T) {
		r, mockService := setupPlacesHandlerTest()
		mockService.On("GetPlace", mock.Anything, types.OSMNode, int64(999)).
			Return(nil, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/places/node/999", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("upstream failure is a 502", func(t *testing.T) {
		r, mockService := setupPlacesHandlerTest()
		mockService.On("GetPlace", mock.Anything, types.OSMNode, int64(1)).
			Return(nil, errors.New("timeout")).Once()

		req := httptest.NewRequest(http.MethodGet, "/places/node/1", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		mockService.AssertExpectations(t)
	})
}

func TestHandler_GetCategories(t *testing.T) {
	r, mockService := setupPlacesHandlerTest()
	mockService.On("Categories").Return(overpass.Categories()).Once()

	req := httptest.NewRequest(http.MethodGet, "/places/categories", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var cats []types.PlaceCategory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	assert.Len(t, cats, 9)
	mockService.AssertExpectations(t)
}
