package overpass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/city-explorer-api/internal/types"
)

func TestParseResponse(t *testing.T) {
	t.Run("node with direct coordinates", func(t *testing.T) {
		body := []byte(`{
			"version": 0.6,
			"generator": "Overpass API",
			"elements": [
				{
					"type": "node",
					"id": 123456,
					"lat": 48.8606,
					"lon": 2.3376,
					"tags": {
						"name": "Louvre",
						"name:en": "Louvre Museum",
						"tourism": "museum",
						"website": "https://www.louvre.fr",
						"opening_hours": "Mo-Su 09:00-18:00"
					}
				}
			]
		}`)

		places, err := ParseResponse(body)
		require.NoError(t, err)
		require.Len(t, places, 1)

		p := places[0]
		assert.Equal(t, "node_123456", p.ID)
		assert.Equal(t, types.OSMNode, p.OSMType)
		assert.Equal(t, int64(123456), p.OSMID)
		assert.Equal(t, "Louvre Museum", p.Name, "name:en wins over name")
		assert.Equal(t, 48.8606, p.Latitude)
		assert.Equal(t, 2.3376, p.Longitude)
		assert.Equal(t, types.CategoryMuseums, p.Category)
		assert.Equal(t, "https://www.louvre.fr", p.Website)
		assert.Equal(t, "Mo-Su 09:00-18:00", p.OpeningHours)
	})

	t.Run("way falls back to centroid", func(t *testing.T) {
		body := []byte(`{"elements":[
			{"type":"way","id":42,"center":{"lat":51.5,"lon":-0.1},
			 "tags":{"name":"Hyde Park","leisure":"park"}}
		]}`)

		places, err := ParseResponse(body)
		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, 51.5, places[0].Latitude)
		assert.Equal(t, -0.1, places[0].Longitude)
		assert.Equal(t, types.CategoryParks, places[0].Category)
	})

	t.Run("direct coordinates win over centroid", func(t *testing.T) {
		body := []byte(`{"elements":[
			{"type":"node","id":1,"lat":10,"lon":20,"center":{"lat":99,"lon":99},
			 "tags":{"name":"X"}}
		]}`)

		places, err := ParseResponse(body)
		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, float64(10), places[0].Latitude)
		assert.Equal(t, float64(20), places[0].Longitude)
	})

	t.Run("excludes unusable elements", func(t *testing.T) {
		body := []byte(`{"elements":[
			{"type":"node","id":1,"lat":1,"lon":1},
			{"type":"node","id":2,"lat":1,"lon":1,"tags":{"tourism":"museum"}},
			{"type":"way","id":3,"tags":{"name":"No coordinates"}},
			{"type":"node","id":4,"lat":1,"lon":1,"tags":{"name":"Keeper"}}
		]}`)

		places, err := ParseResponse(body)
		require.NoError(t, err)
		require.Len(t, places, 1, "no-tags, no-name and no-coords elements are dropped")
		assert.Equal(t, "Keeper", places[0].Name)
	})

	t.Run("zero coordinate is legitimate", func(t *testing.T) {
		body := []byte(`{"elements":[
			{"type":"node","id":1,"lat":0,"lon":5,"tags":{"name":"Equator"}}
		]}`)

		places, err := ParseResponse(body)
		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, float64(0), places[0].Latitude)
	})

	t.Run("preserves element order", func(t *testing.T) {
		body := []byte(`{"elements":[
			{"type":"node","id":2,"lat":1,"lon":1,"tags":{"name":"B"}},
			{"type":"node","id":1,"lat":1,"lon":1,"tags":{"name":"A"}}
		]}`)

		places, err := ParseResponse(body)
		require.NoError(t, err)
		require.Len(t, places, 2)
		assert.Equal(t, "B", places[0].Name)
		assert.Equal(t, "A", places[1].Name)
	})

	t.Run("malformed body", func(t *testing.T) {
		_, err := ParseResponse([]byte("<html>rate limited</html>"))
		assert.Error(t, err)
	})

	t.Run("empty result set is not an error", func(t *testing.T) {
		places, err := ParseResponse([]byte(`{"elements":[]}`))
		require.NoError(t, err)
		assert.NotNil(t, places)
		assert.Empty(t, places)
	})
}

func TestResolveImage(t *testing.T) {
	t.Run("image tag has highest priority", func(t *testing.T) {
		img := resolveImage(map[string]string{
			"image":             "https://example.com/a.jpg",
			"wikimedia_commons": "File:Other.jpg",
			"wikidata":          "Q123",
		})
		assert.Equal(t, "https://example.com/a.jpg", img)
	})

	t.Run("falls through the wikimedia variants", func(t *testing.T) {
		img := resolveImage(map[string]string{"wikimedia:commons": "File:X.jpg"})
		assert.Equal(t, "File:X.jpg", img)
	})

	t.Run("wikidata id resolves to a Commons entity URL", func(t *testing.T) {
		img := resolveImage(map[string]string{"wikidata": "Q19675"})
		assert.Equal(t, "https://commons.wikimedia.org/wiki/Special:EntityData/Q19675.json", img)
	})

	t.Run("no image sources", func(t *testing.T) {
		assert.Empty(t, resolveImage(map[string]string{"name": "X"}))
	})
}

func TestParseElement_DescriptionPriority(t *testing.T) {
	p, ok := parseElement(Element{
		Type: "node", ID: 1,
		Lat: ptr(1.0), Lon: ptr(1.0),
		Tags: map[string]string{
			"name":           "X",
			"description":    "local",
			"description:en": "english",
		},
	})
	require.True(t, ok)
	assert.Equal(t, "english", p.Description)
}

func ptr(v float64) *float64 { return &v }
