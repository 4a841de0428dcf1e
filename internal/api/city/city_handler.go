package city

import (
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/city-explorer-api/internal/api"
)

type Handler struct {
	logger  *slog.Logger
	service Service
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// SearchCities handles GET /cities/search - free-text city lookup
// @Summary Search cities by name
// @Description Returns candidate cities for a free-text query
// @Tags cities
// @Produce json
// @Param q query string true "Free-text city name"
// @Param lang query string false "Language hint (default: en)"
// @Success 200 {array} types.City
// @Failure 400 {object} api.Response
// @Failure 502 {object} api.Response
// @Router /api/v1/cities/search [get]
func (h *Handler) SearchCities(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "SearchCities")
	defer span.End()

	l := h.logger.With(slog.String("method", "SearchCities"))

	query := r.URL.Query().Get("q")
	if query == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "q parameter is required")
		return
	}

	cities, err := h.service.SearchCities(ctx, query, r.URL.Query().Get("lang"))
	if err != nil {
		l.ErrorContext(ctx, "City search failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusBadGateway, "city search failed")
		return
	}

	span.SetStatus(codes.Ok, "Cities returned")
	api.WriteJSONResponse(w, r, http.StatusOK, cities)
}

// ReverseCity handles GET /cities/reverse - coordinates to city
// @Summary Resolve coordinates to a city
// @Tags cities
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Param lang query string false "Language hint (default: en)"
// @Success 200 {object} types.City
// @Failure 400 {object} api.Response
// @Failure 502 {object} api.Response
// @Router /api/v1/cities/reverse [get]
func (h *Handler) ReverseCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "ReverseCity")
	defer span.End()

	l := h.logger.With(slog.String("method", "ReverseCity"))

	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid or missing lat parameter")
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid or missing lon parameter")
		return
	}

	city, err := h.service.ReverseCity(ctx, lat, lon, r.URL.Query().Get("lang"))
	if err != nil {
		l.ErrorContext(ctx, "Reverse city lookup failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusBadGateway, "reverse lookup failed")
		return
	}

	span.SetStatus(codes.Ok, "City returned")
	api.WriteJSONResponse(w, r, http.StatusOK, city)
}
