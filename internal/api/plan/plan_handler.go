package plan

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
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

// GetPlan handles GET /plan - the whole plan grouped by day
// @Summary Get the visit plan
// @Tags plan
// @Produce json
// @Success 200 {array} types.PlanDay
// @Failure 500 {object} api.Response
// @Router /api/v1/plan [get]
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlanHandler").Start(r.Context(), "GetPlan")
	defer span.End()

	l := h.logger.With(slog.String("method", "GetPlan"))

	days, err := h.service.GetPlan(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get plan", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to load plan")
		return
	}

	span.SetStatus(codes.Ok, "Plan returned")
	api.WriteJSONResponse(w, r, http.StatusOK, days)
}

// AddItem handles POST /plan/items
// @Summary Add a place to a plan day
// @Tags plan
// @Accept json
// @Produce json
// @Param item body types.AddPlanItemRequest true "Day and place to add"
// @Success 201 {object} types.PlanItem
// @Failure 400 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/plan/items [post]
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlanHandler").Start(r.Context(), "AddItem")
	defer span.End()

	l := h.logger.With(slog.String("method", "AddItem"))

	var req types.AddPlanItemRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.service.AddItem(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to add plan item", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	span.SetStatus(codes.Ok, "Plan item added")
	api.WriteJSONResponse(w, r, http.StatusCreated, item)
}

// RemoveItem handles DELETE /plan/items/{itemID}
// @Summary Remove a plan item
// @Tags plan
// @Produce json
// @Param itemID path string true "Plan item id"
// @Success 204
// @Failure 400 {object} api.Response
// @Failure 404 {object} api.Response
// @Router /api/v1/plan/items/{itemID} [delete]
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlanHandler").Start(r.Context(), "RemoveItem")
	defer span.End()

	l := h.logger.With(slog.String("method", "RemoveItem"))

	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "itemID must be a valid UUID")
		return
	}

	if err := h.service.RemoveItem(ctx, itemID); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "plan item not found")
			return
		}
		l.ErrorContext(ctx, "Failed to remove plan item", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to remove plan item")
		return
	}

	span.SetStatus(codes.Ok, "Plan item removed")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// MoveItem handles PATCH /plan/items/{itemID}/move
// @Summary Move a plan item to another day or position
// @Tags plan
// @Accept json
// @Produce json
// @Param itemID path string true "Plan item id"
// @Param move body types.MovePlanItemRequest true "Target day and position"
// @Success 200 {object} types.PlanItem
// @Failure 400 {object} api.Response
// @Failure 404 {object} api.Response
// @Router /api/v1/plan/items/{itemID}/move [patch]
func (h *Handler) MoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlanHandler").Start(r.Context(), "MoveItem")
	defer span.End()

	l := h.logger.With(slog.String("method", "MoveItem"))

	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "itemID must be a valid UUID")
		return
	}

	var req types.MovePlanItemRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.service.MoveItem(ctx, itemID, req)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "plan item not found")
			return
		}
		l.ErrorContext(ctx, "Failed to move plan item", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	span.SetStatus(codes.Ok, "Plan item moved")
	api.WriteJSONResponse(w, r, http.StatusOK, item)
}
