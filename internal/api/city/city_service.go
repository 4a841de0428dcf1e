package city

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/city-explorer-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// CitySource is the lookup contract; satisfied by the nominatim Client.
type CitySource interface {
	Search(ctx context.Context, query, lang string) ([]types.City, error)
	Reverse(ctx context.Context, lat, lon float64, lang string) (*types.City, error)
}

// Service defines the business logic contract for city lookups.
type Service interface {
	SearchCities(ctx context.Context, query, lang string) ([]types.City, error)
	ReverseCity(ctx context.Context, lat, lon float64, lang string) (*types.City, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	source CitySource
}

func NewServiceImpl(source CitySource, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		source: source,
	}
}

func (s *ServiceImpl) SearchCities(ctx context.Context, query, lang string) ([]types.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "SearchCities", trace.WithAttributes(
		attribute.String("query", query),
	))
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		span.SetStatus(codes.Error, "empty query")
		return nil, fmt.Errorf("search query must not be empty")
	}

	cities, err := s.source.Search(ctx, query, lang)
	if err != nil {
		s.logger.ErrorContext(ctx, "City search failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Lookup failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("cities.count", len(cities)))
	span.SetStatus(codes.Ok, "Cities retrieved")
	return cities, nil
}

func (s *ServiceImpl) ReverseCity(ctx context.Context, lat, lon float64, lang string) (*types.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "ReverseCity")
	defer span.End()

	city, err := s.source.Reverse(ctx, lat, lon, lang)
	if err != nil {
		s.logger.ErrorContext(ctx, "Reverse city lookup failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Lookup failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "City resolved")
	return city, nil
}
