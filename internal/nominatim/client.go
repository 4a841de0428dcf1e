// Package nominatim implements the city name-search lookup against the
// Nominatim geocoding service. It follows the same queueing contract as
// the Overpass pipeline (one rate-limited dispatcher per service) but has
// a single endpoint: no fallback rotation, no category logic.
package nominatim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/city-explorer-api/app/observability/metrics"
	"github.com/FACorreiaa/city-explorer-api/internal/dispatch"
	"github.com/FACorreiaa/city-explorer-api/internal/types"
)

const (
	defaultLanguage  = "en"
	searchResultCap  = 8
	reverseZoomLevel = 10 // city-level granularity
)

// Client queries the Nominatim /search and /reverse endpoints.
type Client struct {
	baseURL    string
	userAgent  string
	client     *http.Client
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
}

type Config struct {
	BaseURL        string
	UserAgent      string
	RequestTimeout int // seconds
}

func NewClient(cfg Config, dispatcher *dispatch.Dispatcher, logger *slog.Logger) *Client {
	httpClient := &http.Client{}
	if cfg.RequestTimeout > 0 {
		httpClient.Timeout = time.Duration(cfg.RequestTimeout) * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		client:     httpClient,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Search looks up candidate cities by free-text query.
func (c *Client) Search(ctx context.Context, query, lang string) ([]types.City, error) {
	ctx, span := otel.Tracer("NominatimClient").Start(ctx, "Search", trace.WithAttributes(
		attribute.String("query", query),
	))
	defer span.End()

	if lang == "" {
		lang = defaultLanguage
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("limit", strconv.Itoa(searchResultCap))
	params.Set("accept-language", lang)
	params.Set("dedupe", "1")
	params.Set("featuretype", "city")

	body, err := c.get(ctx, "/search", params)
	if err != nil {
		c.logger.ErrorContext(ctx, "Nominatim search failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Upstream request failed")
		return nil, fmt.Errorf("city search: %w", err)
	}

	cities, err := ParseSearchResults(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Parsing failed")
		return nil, fmt.Errorf("city search: %w", err)
	}

	span.SetAttributes(attribute.Int("cities.count", len(cities)))
	span.SetStatus(codes.Ok, "Cities retrieved")
	return cities, nil
}

// Reverse resolves coordinates to the containing city.
func (c *Client) Reverse(ctx context.Context, lat, lon float64, lang string) (*types.City, error) {
	ctx, span := otel.Tracer("NominatimClient").Start(ctx, "Reverse", trace.WithAttributes(
		attribute.Float64("lat", lat),
		attribute.Float64("lon", lon),
	))
	defer span.End()

	if lang == "" {
		lang = defaultLanguage
	}
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("zoom", strconv.Itoa(reverseZoomLevel))
	params.Set("accept-language", lang)

	body, err := c.get(ctx, "/reverse", params)
	if err != nil {
		c.logger.ErrorContext(ctx, "Nominatim reverse lookup failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Upstream request failed")
		return nil, fmt.Errorf("reverse lookup: %w", err)
	}

	city, err := ParseReverseResult(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Parsing failed")
		return nil, fmt.Errorf("reverse lookup: %w", err)
	}

	span.SetStatus(codes.Ok, "City resolved")
	return city, nil
}

// get routes one GET through the service's dispatcher.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.dispatcher.Submit(ctx, func(ctx context.Context) ([]byte, error) {
		start := time.Now()
		defer func() {
			m := metrics.GetAppMetrics()
			m.UpstreamRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("service", "nominatim")))
			m.UpstreamDurationSeconds.Record(ctx, time.Since(start).Seconds(),
				metric.WithAttributes(attribute.String("service", "nominatim")))
		}()

		reqURL := c.baseURL + path + "?" + params.Encode()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("building nominatim request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("nominatim request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck
			return nil, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
}
