package places

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/city-explorer-api/app/observability/metrics"
	"github.com/FACorreiaa/city-explorer-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// PlaceSource is the retrieval facade contract the service composes over;
// satisfied by the overpass Client.
type PlaceSource interface {
	SearchArea(ctx context.Context, lat, lon float64, radiusM int, categoryID types.CategoryID) ([]types.Place, error)
	GetPlace(ctx context.Context, osmType types.OSMType, osmID int64) (*types.Place, error)
}

// Service defines the POI data-access contract for the handler layer. It
// adds the result-cache behavior on top of the pipeline: successful
// responses are cached by their exact query key, and concurrent identical
// queries are coalesced into one upstream call.
type Service interface {
	SearchArea(ctx context.Context, lat, lon float64, radiusM int, categoryID types.CategoryID) ([]types.Place, error)
	GetPlace(ctx context.Context, osmType types.OSMType, osmID int64) (*types.Place, error)
	Categories() []types.PlaceCategory
}

type ServiceImpl struct {
	logger     *slog.Logger
	source     PlaceSource
	categories []types.PlaceCategory
	cache      *cache.Cache
	group      singleflight.Group
	searchTTL  time.Duration
	detailTTL  time.Duration
}

// NewServiceImpl builds the service. Area searches stay fresh for
// searchTTL (~10 minutes), single-entity lookups for detailTTL (~30
// minutes) to match the differing volatility assumptions.
func NewServiceImpl(source PlaceSource, categories []types.PlaceCategory, searchTTL, detailTTL time.Duration, logger *slog.Logger) *ServiceImpl {
	maxTTL := searchTTL
	if detailTTL > maxTTL {
		maxTTL = detailTTL
	}
	return &ServiceImpl{
		logger:     logger,
		source:     source,
		categories: categories,
		cache:      cache.New(maxTTL, 10*time.Minute),
		searchTTL:  searchTTL,
		detailTTL:  detailTTL,
	}
}

func (s *ServiceImpl) Categories() []types.PlaceCategory {
	return s.categories
}

func (s *ServiceImpl) SearchArea(ctx context.Context, lat, lon float64, radiusM int, categoryID types.CategoryID) ([]types.Place, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "SearchArea")
	defer span.End()

	key := searchKey(lat, lon, radiusM, categoryID)
	span.SetAttributes(attribute.String("cache.key", key))

	if cached, found := s.cache.Get(key); found {
		if places, ok := cached.([]types.Place); ok {
			metrics.GetAppMetrics().CacheHitsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "search")))
			span.SetStatus(codes.Ok, "Served from cache")
			return places, nil
		}
	}
	metrics.GetAppMetrics().CacheMissesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "search")))

	// Coalesce concurrent identical queries: at most one in-flight
	// upstream call per key.
	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		places, err := s.source.SearchArea(ctx, lat, lon, radiusM, categoryID)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, places, s.searchTTL)
		return places, nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Pipeline search failed")
		return nil, err
	}
	if shared {
		span.AddEvent("coalesced with concurrent identical query")
	}

	span.SetStatus(codes.Ok, "Places retrieved")
	return v.([]types.Place), nil
}

func (s *ServiceImpl) GetPlace(ctx context.Context, osmType types.OSMType, osmID int64) (*types.Place, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "GetPlace")
	defer span.End()

	key := detailKey(osmType, osmID)
	span.SetAttributes(attribute.String("cache.key", key))

	if cached, found := s.cache.Get(key); found {
		if place, ok := cached.(*types.Place); ok {
			metrics.GetAppMetrics().CacheHitsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "detail")))
			span.SetStatus(codes.Ok, "Served from cache")
			return place, nil
		}
	}
	metrics.GetAppMetrics().CacheMissesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "detail")))

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		place, err := s.source.GetPlace(ctx, osmType, osmID)
		if err != nil {
			return nil, err
		}
		if place != nil {
			s.cache.Set(key, place, s.detailTTL)
		}
		return place, nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Pipeline lookup failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Lookup completed")
	return v.(*types.Place), nil
}

// searchKey is the query-key tuple identifying an area search for caching
// and dedup. Coordinates keep their full precision so two distinct
// viewports never collide.
func searchKey(lat, lon float64, radiusM int, categoryID types.CategoryID) string {
	return fmt.Sprintf("search:%s:%s:%d:%s",
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64),
		radiusM, categoryID)
}

func detailKey(osmType types.OSMType, osmID int64) string {
	return fmt.Sprintf("detail:%s:%d", osmType, osmID)
}
