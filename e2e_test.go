package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/FACorreiaa/city-explorer-api/internal/api/places"
	"github.com/FACorreiaa/city-explorer-api/internal/dispatch"
	"github.com/FACorreiaa/city-explorer-api/internal/overpass"
	"github.com/FACorreiaa/city-explorer-api/internal/types"
)

// PipelineE2ETestSuite runs the whole retrieval pipeline (dispatcher,
// fallback transport, normalizer, caching service, handler) against a
// stubbed Overpass mirror.
type PipelineE2ETestSuite struct {
	suite.Suite
	upstream     *httptest.Server
	upstreamHits atomic.Int32
	api          *httptest.Server
	dispatcher   *dispatch.Dispatcher
}

func (s *PipelineE2ETestSuite) SetupSuite() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.upstreamHits.Add(1)
		require.NoError(s.T(), r.ParseForm())
		query := r.PostForm.Get("data")

		switch {
		case strings.Contains(query, `["tourism"="museum"]`):
			io.WriteString(w, `{"version":0.6,"generator":"stub","elements":[
				{"type":"way","id":79219022,
				 "center":{"lat":48.8606111,"lon":2.337644},
				 "tags":{"name":"Louvre","name:en":"Louvre Museum","tourism":"museum",
				         "wikidata":"Q19675","website":"https://www.louvre.fr"}}
			]}`)
		case strings.Contains(query, "way(404404)"):
			io.WriteString(w, `{"version":0.6,"generator":"stub","elements":[]}`)
		default:
			io.WriteString(w, `{"version":0.6,"generator":"stub","elements":[]}`)
		}
	}))

	s.dispatcher = dispatch.New("overpass-e2e", time.Millisecond, logger)

	transport, err := overpass.NewTransport(overpass.TransportConfig{
		Mirrors:        []string{s.upstream.URL},
		UserAgent:      "e2e-test",
		RequestTimeout: 5,
	}, s.dispatcher, logger)
	require.NoError(s.T(), err)

	client := overpass.NewClient(transport, 25, logger)
	service := places.NewServiceImpl(client, overpass.Categories(), 10*time.Minute, 30*time.Minute, logger)
	handler := places.NewHandler(service, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /places/search", handler.SearchArea)
	s.api = httptest.NewServer(mux)
}

func (s *PipelineE2ETestSuite) TearDownSuite() {
	s.api.Close()
	s.dispatcher.Stop()
	s.upstream.Close()
}

func (s *PipelineE2ETestSuite) TestMuseumSearchNormalizesAndCaches() {
	url := s.api.URL + "/places/search?lat=48.8566&lon=2.3522&radius=2000&category=museums"

	resp, err := http.Get(url)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var got []types.Place
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&got))
	s.Require().Len(got, 1)

	p := got[0]
	s.Equal("way_79219022", p.ID)
	s.Equal("Louvre Museum", p.Name)
	s.Equal(types.CategoryMuseums, p.Category)
	s.InDelta(48.8606111, p.Latitude, 1e-9)
	s.InDelta(2.337644, p.Longitude, 1e-9)
	s.Equal("https://www.louvre.fr", p.Website)
	s.Contains(p.Image, "Q19675", "image falls back to the wikidata Commons entity")

	hitsAfterFirst := s.upstreamHits.Load()

	// The identical query is served from the result cache.
	resp2, err := http.Get(url)
	s.Require().NoError(err)
	resp2.Body.Close()
	s.Equal(hitsAfterFirst, s.upstreamHits.Load(), "second identical search must not reach upstream")
}

func (s *PipelineE2ETestSuite) TestInvalidCategoryFailsFast() {
	before := s.upstreamHits.Load()

	resp, err := http.Get(s.api.URL + "/places/search?lat=48.85&lon=2.35&category=nightlife")
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal(before, s.upstreamHits.Load(), "invalid category must not generate traffic")
}

func (s *PipelineE2ETestSuite) TestZeroZeroCenterFailsFast() {
	before := s.upstreamHits.Load()

	resp, err := http.Get(s.api.URL + "/places/search?lat=0&lon=0&category=museums")
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal(before, s.upstreamHits.Load())
}

func TestPipelineE2ETestSuite(t *testing.T) {
	suite.Run(t, new(PipelineE2ETestSuite))
}
