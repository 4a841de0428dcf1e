package places

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/city-explorer-api/internal/api"
	"github.com/FACorreiaa/city-explorer-api/internal/overpass"
	"github.com/FACorreiaa/city-explorer-api/internal/types"
)

const defaultSearchRadiusM = 5000

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

// SearchArea handles GET /places - area search around a center coordinate
// @Summary Search places around a location
// @Description Returns points of interest of one category within a radius of the given center
// @Tags places
// @Produce json
// @Param lat query number true "Center latitude"
// @Param lon query number true "Center longitude"
// @Param radius query int false "Radius in meters (default: 5000)"
// @Param category query string false "Category id (default: popular)"
// @Success 200 {array} types.Place
// @Failure 400 {object} api.Response
// @Failure 502 {object} api.Response
// @Router /api/v1/places/search [get]
func (h *Handler) SearchArea(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "SearchArea")
	defer span.End()

	l := h.logger.With(slog.String("method", "SearchArea"))

	lat, err := parseFloatParam(r, "lat")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid or missing lat parameter")
		return
	}
	lon, err := parseFloatParam(r, "lon")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid or missing lon parameter")
		return
	}

	radius := defaultSearchRadiusM
	if raw := r.URL.Query().Get("radius"); raw != "" {
		radius, err = strconv.Atoi(raw)
		if err != nil || radius <= 0 {
			api.ErrorResponse(w, r, http.StatusBadRequest, "radius must be a positive integer")
			return
		}
	}

	categoryID := types.CategoryID(r.URL.Query().Get("category"))
	if categoryID == "" {
		categoryID = types.CategoryPopular
	}

	places, err := h.service.SearchArea(ctx, lat, lon, radius, categoryID)
	if err != nil {
		switch {
		case errors.Is(err, overpass.ErrInvalidCategory):
			api.ErrorResponse(w, r, http.StatusBadRequest, "unknown category")
		case errors.Is(err, overpass.ErrNoLocation):
			api.ErrorResponse(w, r, http.StatusBadRequest, "no location selected")
		default:
			l.ErrorContext(ctx, "Area search failed", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Service operation failed")
			api.ErrorResponse(w, r, http.StatusBadGateway, "place search failed")
		}
		return
	}

	span.SetStatus(codes.Ok, "Places returned")
	api.WriteJSONResponse(w, r, http.StatusOK, places)
}

// GetPlace handles GET /places/{osmType}/{osmID} - single place lookup
// @Summary Get one place
// @Description Looks up a single place by OSM entity kind and id
// @Tags places
// @Produce json
// @Param osmType path string true "OSM entity kind (node, way, relation)"
// @Param osmID path int true "OSM entity id"
// @Success 200 {object} types.Place
// @Failure 400 {object} api.Response
// @Failure 404 {object} api.Response
// @Failure 502 {object} api.Response
// @Router /api/v1/places/{osmType}/{osmID} [get]
func (h *Handler) GetPlace(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "GetPlace")
	defer span.End()

	l := h.logger.With(slog.String("method", "GetPlace"))

	osmType, err := types.ParseOSMType(chi.URLParam(r, "osmType"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "osmType must be node, way or relation")
		return
	}
	osmID, err := strconv.ParseInt(chi.URLParam(r, "osmID"), 10, 64)
	if err != nil || osmID <= 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "osmID must be a positive integer")
		return
	}

	place, err := h.service.GetPlace(ctx, osmType, osmID)
	if err != nil {
		l.ErrorContext(ctx, "Place lookup failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusBadGateway, "place lookup failed")
		return
	}
	if place == nil {
		// Empty result is a valid outcome, not an upstream failure.
		api.ErrorResponse(w, r, http.StatusNotFound, "place not found")
		return
	}

	span.SetStatus(codes.Ok, "Place returned")
	api.WriteJSONResponse(w, r, http.StatusOK, place)
}

// GetCategories handles GET /categories - the static category table
// @Summary List place categories
// @Tags places
// @Produce json
// @Success 200 {array} types.PlaceCategory
// @Router /api/v1/places/categories [get]
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer("PlacesHandler").Start(r.Context(), "GetCategories")
	defer span.End()

	api.WriteJSONResponse(w, r, http.StatusOK, h.service.Categories())
}

func parseFloatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, errors.New("missing parameter")
	}
	return strconv.ParseFloat(raw, 64)
}
