package nominatim

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/FACorreiaa/city-explorer-api/internal/types"
)

// rawPlace mirrors the Nominatim jsonv2 wire format. Coordinates arrive as
// strings; the address breakdown carries the fields the City entity needs.
type rawPlace struct {
	PlaceID     int64   `json:"place_id"`
	OSMType     string  `json:"osm_type"`
	OSMID       int64   `json:"osm_id"`
	DisplayName string  `json:"display_name"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Type        string  `json:"type"`
	Importance  float64 `json:"importance"`
	Address     struct {
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		State       string `json:"state"`
		Country     string `json:"country"`
		CountryCode string `json:"country_code"`
	} `json:"address"`
}

// ParseSearchResults derives City entities from a /search response. Only
// candidates with a city-like address component (or type=="city") are
// kept.
func ParseSearchResults(body []byte) ([]types.City, error) {
	var raw []rawPlace
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("malformed nominatim response: %w", err)
	}

	cities := make([]types.City, 0, len(raw))
	for _, p := range raw {
		if p.Address.City == "" && p.Address.Town == "" && p.Address.Village == "" && p.Type != "city" {
			continue
		}
		city, err := toCity(p)
		if err != nil {
			continue
		}
		cities = append(cities, city)
	}
	return cities, nil
}

// ParseReverseResult derives a City from a /reverse response.
func ParseReverseResult(body []byte) (*types.City, error) {
	var raw rawPlace
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("malformed nominatim response: %w", err)
	}
	city, err := toCity(raw)
	if err != nil {
		return nil, err
	}
	return &city, nil
}

func toCity(p rawPlace) (types.City, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return types.City{}, fmt.Errorf("invalid latitude %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return types.City{}, fmt.Errorf("invalid longitude %q: %w", p.Lon, err)
	}

	return types.City{
		ID:          fmt.Sprintf("nominatim_%d", p.PlaceID),
		Name:        cityName(p),
		DisplayName: p.DisplayName,
		Latitude:    lat,
		Longitude:   lon,
		Country:     p.Address.Country,
		CountryCode: p.Address.CountryCode,
	}, nil
}

// cityName prefers city over town over village, falling back to the first
// comma segment of the display name.
func cityName(p rawPlace) string {
	switch {
	case p.Address.City != "":
		return p.Address.City
	case p.Address.Town != "":
		return p.Address.Town
	case p.Address.Village != "":
		return p.Address.Village
	default:
		name, _, _ := strings.Cut(p.DisplayName, ",")
		return strings.TrimSpace(name)
	}
}
