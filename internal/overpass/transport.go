package overpass

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/city-explorer-api/app/observability/metrics"
	"github.com/FACorreiaa/city-explorer-api/internal/dispatch"
)

// Transport executes one logical Overpass request against an ordered list
// of interchangeable mirrors, routed through the service's rate-limited
// dispatcher. On a qualifying transient failure (request timeout, 429,
// 504) it rotates to the next mirror and retries the same payload exactly
// once; the rotated pointer is sticky for the rest of the session so later
// requests start on the healthy mirror.
type Transport struct {
	mirrors    []string
	current    atomic.Int32
	client     *http.Client
	dispatcher *dispatch.Dispatcher
	userAgent  string
	logger     *slog.Logger
}

// TransportConfig carries the knobs main.go reads from viper.
type TransportConfig struct {
	Mirrors        []string
	UserAgent      string
	RequestTimeout int // seconds
}

func NewTransport(cfg TransportConfig, dispatcher *dispatch.Dispatcher, logger *slog.Logger) (*Transport, error) {
	if len(cfg.Mirrors) == 0 {
		return nil, errors.New("at least one overpass mirror is required")
	}
	client := &http.Client{}
	if cfg.RequestTimeout > 0 {
		client.Timeout = time.Duration(cfg.RequestTimeout) * time.Second
	}
	return &Transport{
		mirrors:    cfg.Mirrors,
		client:     client,
		dispatcher: dispatcher,
		userAgent:  cfg.UserAgent,
		logger:     logger,
	}, nil
}

// Execute submits the query through the dispatcher and returns the raw
// response body. The internal retry happens inside the dispatched unit of
// work, so both attempts of one logical request count as a single
// dispatcher slot, matching the upstream quota model.
func (t *Transport) Execute(ctx context.Context, query string) ([]byte, error) {
	return t.dispatcher.Submit(ctx, func(ctx context.Context) ([]byte, error) {
		start := time.Now()
		defer func() {
			m := metrics.GetAppMetrics()
			m.UpstreamRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("service", "overpass")))
			m.UpstreamDurationSeconds.Record(ctx, time.Since(start).Seconds(),
				metric.WithAttributes(attribute.String("service", "overpass")))
		}()

		idx := t.current.Load()
		mirror := t.mirrors[idx]

		body, err := t.post(ctx, mirror, query)
		if err == nil {
			return body, nil
		}
		if !isTransient(err) {
			return nil, err
		}

		t.rotateFrom(idx)
		next := t.mirrors[t.current.Load()]
		t.logger.WarnContext(ctx, "Overpass mirror failed, retrying on fallback",
			slog.String("failed_mirror", mirror),
			slog.String("next_mirror", next),
			slog.Any("error", err))
		metrics.GetAppMetrics().MirrorRotationsTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("from", mirror), attribute.String("to", next)))

		// One retry only; a second failure propagates to the caller.
		return t.post(ctx, next, query)
	})
}

// CurrentMirror exposes the sticky selection, mainly for logging and tests.
func (t *Transport) CurrentMirror() string {
	return t.mirrors[t.current.Load()]
}

// rotateFrom advances the shared pointer only if it still holds the value
// observed when the failing attempt started, so two concurrent rotation
// attempts cannot double-advance past the intended next mirror.
func (t *Transport) rotateFrom(observed int32) {
	next := (observed + 1) % int32(len(t.mirrors))
	t.current.CompareAndSwap(observed, next)
}

func (t *Transport) post(ctx context.Context, mirror, query string) ([]byte, error) {
	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mirror, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request to %s: %w", mirror, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck
		return nil, &StatusError{Status: resp.StatusCode, Mirror: mirror}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading overpass response from %s: %w", mirror, err)
	}
	return body, nil
}

// isTransient reports whether a failure qualifies for mirror rotation:
// request timeouts and the 429/504 statuses. Everything else (DNS failure,
// other HTTP errors) propagates without retry.
func isTransient(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status == http.StatusTooManyRequests ||
			statusErr.Status == http.StatusGatewayTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
