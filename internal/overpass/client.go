// Package overpass implements the POI retrieval pipeline: a pure query
// builder, a rate-limited dispatcher shared per upstream service, a
// fallback-aware transport over the Overpass mirror list and a pure
// response normalizer, composed behind the Client facade.
package overpass

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/city-explorer-api/internal/types"
)

// Client is the single POI data-access surface the API layer calls.
type Client struct {
	transport    *Transport
	logger       *slog.Logger
	queryTimeout int // seconds embedded in area search queries
}

func NewClient(transport *Transport, queryTimeout int, logger *slog.Logger) *Client {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}
	return &Client{
		transport:    transport,
		logger:       logger,
		queryTimeout: queryTimeout,
	}
}

// SearchArea returns all places of the given category within radiusM
// meters of the center. An unknown category or a (0,0) center fails fast
// without issuing network traffic. A query matching nothing returns an
// empty, non-nil slice.
func (c *Client) SearchArea(ctx context.Context, lat, lon float64, radiusM int, categoryID types.CategoryID) ([]types.Place, error) {
	ctx, span := otel.Tracer("OverpassClient").Start(ctx, "SearchArea", trace.WithAttributes(
		attribute.Float64("lat", lat),
		attribute.Float64("lon", lon),
		attribute.Int("radius_m", radiusM),
		attribute.String("category", string(categoryID)),
	))
	defer span.End()

	category, ok := CategoryByID(categoryID)
	if !ok {
		span.SetStatus(codes.Error, "unknown category")
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, categoryID)
	}
	if lat == 0 && lon == 0 {
		span.SetStatus(codes.Error, "no location")
		return nil, ErrNoLocation
	}

	query := BuildAroundQuery(lat, lon, radiusM, category.OSMTags, c.queryTimeout)
	body, err := c.transport.Execute(ctx, query)
	if err != nil {
		c.logger.ErrorContext(ctx, "Overpass area search failed",
			slog.String("category", string(categoryID)),
			slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Upstream request failed")
		return nil, fmt.Errorf("area search: %w", err)
	}

	places, err := ParseResponse(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Normalization failed")
		return nil, fmt.Errorf("area search: %w", err)
	}

	span.SetAttributes(attribute.Int("places.count", len(places)))
	span.SetStatus(codes.Ok, "Places retrieved")
	return places, nil
}

// GetPlace looks up exactly one entity. A lookup that finds nothing
// returns (nil, nil): "not found" is an outcome, not an error.
func (c *Client) GetPlace(ctx context.Context, osmType types.OSMType, osmID int64) (*types.Place, error) {
	ctx, span := otel.Tracer("OverpassClient").Start(ctx, "GetPlace", trace.WithAttributes(
		attribute.String("osm_type", string(osmType)),
		attribute.Int64("osm_id", osmID),
	))
	defer span.End()

	if _, err := types.ParseOSMType(string(osmType)); err != nil {
		span.SetStatus(codes.Error, "invalid osm type")
		return nil, err
	}

	body, err := c.transport.Execute(ctx, BuildElementQuery(osmType, osmID))
	if err != nil {
		c.logger.ErrorContext(ctx, "Overpass element lookup failed",
			slog.String("osm_type", string(osmType)),
			slog.Int64("osm_id", osmID),
			slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Upstream request failed")
		return nil, fmt.Errorf("place lookup: %w", err)
	}

	places, err := ParseResponse(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Normalization failed")
		return nil, fmt.Errorf("place lookup: %w", err)
	}
	if len(places) == 0 {
		span.SetStatus(codes.Ok, "Place not found")
		return nil, nil
	}

	span.SetStatus(codes.Ok, "Place retrieved")
	return &places[0], nil
}
