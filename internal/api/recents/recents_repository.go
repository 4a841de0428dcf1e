package recents

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

// Repository persists recently viewed cities, most recent first.
type Repository interface {
	RecordCity(ctx context.Context, city types.City) error
	ListRecentCities(ctx context.Context, limit int) ([]types.RecentCity, error)
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

// RecordCity upserts a viewed city; viewing an already-known city bumps
// its viewed_at so it moves back to the top of the list.
func (r *RepositoryImpl) RecordCity(ctx context.Context, city types.City) error {
	ctx, span := otel.Tracer("RecentsRepository").Start(ctx, "RecordCity", trace.WithAttributes(
		attribute.String("city_id", city.ID),
	))
	defer span.End()

	query := `
        INSERT INTO recent_cities (
            city_id, name, display_name, latitude, longitude, country, country_code, viewed_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, now())
        ON CONFLICT (city_id) DO UPDATE SET viewed_at = now()
    `
	if _, err := r.db.Exec(ctx, query,
		city.ID, city.Name, city.DisplayName, city.Latitude, city.Longitude, city.Country, city.CountryCode,
	); err != nil {
		r.logger.ErrorContext(ctx, "Failed to record recent city", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database upsert failed")
		return fmt.Errorf("failed to record recent city: %w", err)
	}

	span.SetStatus(codes.Ok, "Recent city recorded")
	return nil
}

func (r *RepositoryImpl) ListRecentCities(ctx context.Context, limit int) ([]types.RecentCity, error) {
	ctx, span := otel.Tracer("RecentsRepository").Start(ctx, "ListRecentCities", trace.WithAttributes(
		attribute.Int("limit", limit),
	))
	defer span.End()

	query := `
        SELECT city_id, name, display_name, latitude, longitude, country, country_code, viewed_at
        FROM recent_cities
        ORDER BY viewed_at DESC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query recent cities", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to query recent cities: %w", err)
	}
	defer rows.Close()

	cities := make([]types.RecentCity, 0, limit)
	for rows.Next() {
		var c types.RecentCity
		if err := rows.Scan(
			&c.ID, &c.Name, &c.DisplayName, &c.Latitude, &c.Longitude, &c.Country, &c.CountryCode, &c.ViewedAt,
		); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan recent city: %w", err)
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed reading recent cities: %w", err)
	}

	span.SetAttributes(attribute.Int("cities.count", len(cities)))
	span.SetStatus(codes.Ok, "Recent cities listed")
	return cities, nil
}
