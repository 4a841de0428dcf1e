package overpass

import (
	"encoding/json"
	"fmt"

	"github.com/FACorreiaa/city-explorer-api/internal/types"
)

// Response is the raw Overpass JSON document.
type Response struct {
	Version   float64   `json:"version"`
	Generator string    `json:"generator"`
	Elements  []Element `json:"elements"`
}

// Element is one heterogeneous geodata entity. Nodes carry lat/lon
// directly; ways and relations carry a centroid when the query asked for
// `out center`. Pointers distinguish "absent" from a legitimate zero
// coordinate.
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *Center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ParseResponse normalizes a raw Overpass body into the Place domain model.
// Output order matches input order; no sorting or deduplication happens
// here, upstream elements are already unique by id. Elements without a
// name or without resolvable coordinates are silently excluded; absence is
// not an error.
func ParseResponse(body []byte) ([]types.Place, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("malformed overpass response: %w", err)
	}

	places := make([]types.Place, 0, len(resp.Elements))
	for _, el := range resp.Elements {
		if p, ok := parseElement(el); ok {
			places = append(places, p)
		}
	}
	return places, nil
}

func parseElement(el Element) (types.Place, bool) {
	tags := el.Tags
	if len(tags) == 0 || tags["name"] == "" {
		return types.Place{}, false
	}

	osmType, err := types.ParseOSMType(el.Type)
	if err != nil {
		return types.Place{}, false
	}

	lat, lon, ok := resolveCoordinates(el)
	if !ok {
		return types.Place{}, false
	}

	return types.Place{
		ID:           types.PlaceID(osmType, el.ID),
		OSMID:        el.ID,
		OSMType:      osmType,
		Name:         firstTag(tags, "name:en", "name"),
		Latitude:     lat,
		Longitude:    lon,
		Category:     InferCategory(tags),
		Tags:         tags,
		Description:  firstTag(tags, "description:en", "description"),
		Wikipedia:    tags["wikipedia"],
		Wikidata:     tags["wikidata"],
		Website:      tags["website"],
		Phone:        tags["phone"],
		OpeningHours: tags["opening_hours"],
		Image:        resolveImage(tags),
	}, true
}

// resolveCoordinates prefers direct coordinates over the centroid.
func resolveCoordinates(el Element) (lat, lon float64, ok bool) {
	if el.Lat != nil && el.Lon != nil {
		return *el.Lat, *el.Lon, true
	}
	if el.Center != nil {
		return el.Center.Lat, el.Center.Lon, true
	}
	return 0, 0, false
}

// resolveImage picks an image reference from the possible raw tag sources
// in fixed priority order, falling back to the Wikimedia Commons entity
// document when only a wikidata id is available.
func resolveImage(tags map[string]string) string {
	if img := firstTag(tags, "image", "image:wikimedia", "wikimedia_commons", "wikimedia:commons"); img != "" {
		return img
	}
	if wd := tags["wikidata"]; wd != "" {
		return fmt.Sprintf("https://commons.wikimedia.org/wiki/Special:EntityData/%s.json", wd)
	}
	return ""
}

func firstTag(tags map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := tags[k]; v != "" {
			return v
		}
	}
	return ""
}
