package favorites

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
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

// AddFavorite handles POST /favorites
// @Summary Favorite a place
// @Tags favorites
// @Accept json
// @Produce json
// @Param place body types.PlaceRef true "Place projection to favorite"
// @Success 201 {object} api.Response
// @Failure 400 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/favorites [post]
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("FavoritesHandler").Start(r.Context(), "AddFavorite")
	defer span.End()

	l := h.logger.With(slog.String("method", "AddFavorite"))

	var place types.PlaceRef
	if err := api.DecodeJSONBody(w, r, &place); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.AddFavorite(ctx, place); err != nil {
		l.ErrorContext(ctx, "Failed to add favorite", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to save favorite")
		return
	}

	span.SetStatus(codes.Ok, "Favorite saved")
	api.WriteJSONResponse(w, r, http.StatusCreated, api.Response{Success: true, Message: "favorite saved"})
}

// RemoveFavorite handles DELETE /favorites/{placeID}
// @Summary Remove a favorite
// @Tags favorites
// @Produce json
// @Param placeID path string true "Composite place id, e.g. node_123456"
// @Success 204
// @Failure 500 {object} api.Response
// @Router /api/v1/favorites/{placeID} [delete]
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("FavoritesHandler").Start(r.Context(), "RemoveFavorite")
	defer span.End()

	l := h.logger.With(slog.String("method", "RemoveFavorite"))

	placeID := chi.URLParam(r, "placeID")
	if err := h.service.RemoveFavorite(ctx, placeID); err != nil {
		l.ErrorContext(ctx, "Failed to remove favorite", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to remove favorite")
		return
	}

	span.SetStatus(codes.Ok, "Favorite removed")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// ListFavorites handles GET /favorites
// @Summary List favorited places
// @Tags favorites
// @Produce json
// @Success 200 {array} types.FavoritePlace
// @Failure 500 {object} api.Response
// @Router /api/v1/favorites [get]
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("FavoritesHandler").Start(r.Context(), "ListFavorites")
	defer span.End()

	l := h.logger.With(slog.String("method", "ListFavorites"))

	favorites, err := h.service.ListFavorites(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list favorites", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to list favorites")
		return
	}

	span.SetStatus(codes.Ok, "Favorites returned")
	api.WriteJSONResponse(w, r, http.StatusOK, favorites)
}
