package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/city-explorer-api/internal/api"
	"github.com/FACorreiaa/city-explorer-api/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// ErrItemNotFound is returned when a plan item id does not exist.
var ErrItemNotFound = errors.New("plan item not found")

// Repository persists the multi-day visit plan.
type Repository interface {
	AddItem(ctx context.Context, day int, place types.PlaceRef, note string) (*types.PlanItem, error)
	RemoveItem(ctx context.Context, itemID uuid.UUID) error
	MoveItem(ctx context.Context, itemID uuid.UUID, day, position int) (*types.PlanItem, error)
	ListItems(ctx context.Context) ([]types.PlanItem, error)
}

type RepositoryImpl struct {
	db     api.DB
	logger *slog.Logger
}

func NewRepository(db api.DB, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *RepositoryImpl) AddItem(ctx context.Context, day int, place types.PlaceRef, note string) (*types.PlanItem, error) {
	ctx, span := otel.Tracer("PlanRepository").Start(ctx, "AddItem", trace.WithAttributes(
		attribute.Int("day", day),
		attribute.String("place_id", place.ID),
	))
	defer span.End()

	// New items go to the end of the day.
	query := `
        INSERT INTO plan_items (
            day, position, place_id, osm_type, osm_id, name, latitude, longitude, category, note
        ) VALUES (
            $1,
            COALESCE((SELECT MAX(position) + 1 FROM plan_items WHERE day = $1), 0),
            $2, $3, $4, $5, $6, $7, $8, $9
        )
        RETURNING id, day, position, added_at
    `
	item := types.PlanItem{Place: place, Note: note}
	if err := r.db.QueryRow(ctx, query,
		day, place.ID, place.OSMType, place.OSMID, place.Name, place.Latitude, place.Longitude, place.Category, note,
	).Scan(&item.ID, &item.Day, &item.Position, &item.AddedAt); err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert plan item", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database insert failed")
		return nil, fmt.Errorf("failed to insert plan item: %w", err)
	}

	span.SetStatus(codes.Ok, "Plan item saved")
	return &item, nil
}

func (r *RepositoryImpl) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	ctx, span := otel.Tracer("PlanRepository").Start(ctx, "RemoveItem", trace.WithAttributes(
		attribute.String("item_id", itemID.String()),
	))
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM plan_items WHERE id = $1`, itemID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete plan item", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database delete failed")
		return fmt.Errorf("failed to delete plan item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	span.SetStatus(codes.Ok, "Plan item removed")
	return nil
}

func (r *RepositoryImpl) MoveItem(ctx context.Context, itemID uuid.UUID, day, position int) (*types.PlanItem, error) {
	ctx, span := otel.Tracer("PlanRepository").Start(ctx, "MoveItem", trace.WithAttributes(
		attribute.String("item_id", itemID.String()),
		attribute.Int("day", day),
		attribute.Int("position", position),
	))
	defer span.End()

	query := `
        UPDATE plan_items
        SET day = $2, position = $3
        WHERE id = $1
        RETURNING id, day, position, place_id, osm_type, osm_id, name, latitude, longitude, category, note, added_at
    `
	var item types.PlanItem
	if err := r.db.QueryRow(ctx, query, itemID, day, position).Scan(
		&item.ID, &item.Day, &item.Position,
		&item.Place.ID, &item.Place.OSMType, &item.Place.OSMID, &item.Place.Name,
		&item.Place.Latitude, &item.Place.Longitude, &item.Place.Category,
		&item.Note, &item.AddedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to move plan item", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database update failed")
		return nil, fmt.Errorf("failed to move plan item: %w", err)
	}

	span.SetStatus(codes.Ok, "Plan item moved")
	return &item, nil
}

func (r *RepositoryImpl) ListItems(ctx context.Context) ([]types.PlanItem, error) {
	ctx, span := otel.Tracer("PlanRepository").Start(ctx, "ListItems")
	defer span.End()

	query := `
        SELECT id, day, position, place_id, osm_type, osm_id, name, latitude, longitude, category, note, added_at
        FROM plan_items
        ORDER BY day, position, added_at
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query plan items", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to query plan items: %w", err)
	}
	defer rows.Close()

	items := make([]types.PlanItem, 0)
	for rows.Next() {
		var item types.PlanItem
		if err := rows.Scan(
			&item.ID, &item.Day, &item.Position,
			&item.Place.ID, &item.Place.OSMType, &item.Place.OSMID, &item.Place.Name,
			&item.Place.Latitude, &item.Place.Longitude, &item.Place.Category,
			&item.Note, &item.AddedAt,
		); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan plan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed reading plan items: %w", err)
	}

	span.SetAttributes(attribute.Int("items.count", len(items)))
	span.SetStatus(codes.Ok, "Plan items listed")
	return items, nil
}
