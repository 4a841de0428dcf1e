package recents

import (
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/city-explorer-api/internal/api"
	"github.com/FACorreiaa/city-explorer-api/internal/types"
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

// RecordCity handles POST /recents/cities
// @Summary Record a viewed city
// @Tags recents
// @Accept json
// @Produce json
// @Param city body types.City true "City that was viewed"
// @Success 201 {object} api.Response
// @Failure 400 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/recents/cities [post]
func (h *Handler) RecordCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecentsHandler").Start(r.Context(), "RecordCity")
	defer span.End()

	l := h.logger.With(slog.String("method", "RecordCity"))

	var city types.City
	if err := api.DecodeJSONBody(w, r, &city); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.RecordCity(ctx, city); err != nil {
		l.ErrorContext(ctx, "Failed to record city", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to record city")
		return
	}

	span.SetStatus(codes.Ok, "City recorded")
	api.WriteJSONResponse(w, r, http.StatusCreated, api.Response{Success: true, Message: "city recorded"})
}

// ListRecentCities handles GET /recents/cities
// @Summary List recently viewed cities
// @Tags recents
// @Produce json
// @Param limit query int false "Maximum number of cities (default 5)"
// @Success 200 {array} types.RecentCity
// @Failure 500 {object} api.Response
// @Router /api/v1/recents/cities [get]
func (h *Handler) ListRecentCities(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecentsHandler").Start(r.Context(), "ListRecentCities")
	defer span.End()

	l := h.logger.With(slog.String("method", "ListRecentCities"))

	limit := DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			api.ErrorResponse(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	cities, err := h.service.ListRecentCities(ctx, limit)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list recent cities", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to list recent cities")
		return
	}

	span.SetStatus(codes.Ok, "Recent cities returned")
	api.WriteJSONResponse(w, r, http.StatusOK, cities)
}
