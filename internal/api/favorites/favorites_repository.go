package favorites

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/city-explorer-api/internal/api"
	"github.com/FACorreiaa/city-explorer-api/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository persists the minimal place projection for favorited places.
type Repository interface {
	AddFavorite(ctx context.Context, place types.PlaceRef) error
	RemoveFavorite(ctx context.Context, placeID string) error
	ListFavorites(ctx context.Context) ([]types.FavoritePlace, error)
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

func (r *RepositoryImpl) AddFavorite(ctx context.Context, place types.PlaceRef) error {
	ctx, span := otel.Tracer("FavoritesRepository").Start(ctx, "AddFavorite", trace.WithAttributes(
		attribute.String("place_id", place.ID),
	))
	defer span.End()

	query := `
        INSERT INTO favorite_places (
            place_id, osm_type, osm_id, name, latitude, longitude, category
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (place_id) DO NOTHING
    `
	if _, err := r.db.Exec(ctx, query,
		place.ID, place.OSMType, place.OSMID, place.Name, place.Latitude, place.Longitude, place.Category,
	); err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert favorite", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database insert failed")
		return fmt.Errorf("failed to insert favorite: %w", err)
	}

	span.SetStatus(codes.Ok, "Favorite saved")
	return nil
}

func (r *RepositoryImpl) RemoveFavorite(ctx context.Context, placeID string) error {
	ctx, span := otel.Tracer("FavoritesRepository").Start(ctx, "RemoveFavorite", trace.WithAttributes(
		attribute.String("place_id", placeID),
	))
	defer span.End()

	if _, err := r.db.Exec(ctx, `DELETE FROM favorite_places WHERE place_id = $1`, placeID); err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete favorite", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database delete failed")
		return fmt.Errorf("failed to delete favorite: %w", err)
	}

	span.SetStatus(codes.Ok, "Favorite removed")
	return nil
}

func (r *RepositoryImpl) ListFavorites(ctx context.Context) ([]types.FavoritePlace, error) {
	ctx, span := otel.Tracer("FavoritesRepository").Start(ctx, "ListFavorites")
	defer span.End()

	query := `
        SELECT place_id, osm_type, osm_id, name, latitude, longitude, category, added_at
        FROM favorite_places
        ORDER BY added_at DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query favorites", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	favorites := make([]types.FavoritePlace, 0)
	for rows.Next() {
		var f types.FavoritePlace
		if err := rows.Scan(
			&f.ID, &f.OSMType, &f.OSMID, &f.Name, &f.Latitude, &f.Longitude, &f.Category, &f.AddedAt,
		); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed reading favorites: %w", err)
	}

	span.SetAttributes(attribute.Int("favorites.count", len(favorites)))
	span.SetStatus(codes.Ok, "Favorites listed")
	return favorites, nil
}
