package types

import "fmt"

// OSMType is the kind of OpenStreetMap entity a place was derived from.
type OSMType string

const (
	OSMNode     OSMType = "node"
	OSMWay      OSMType = "way"
	OSMRelation OSMType = "relation"
)

// ParseOSMType validates a raw element kind coming from a URL segment or
// an Overpass payload.
func ParseOSMType(s string) (OSMType, error) {
	switch OSMType(s) {
	case OSMNode, OSMWay, OSMRelation:
		return OSMType(s), nil
	default:
		return "", fmt.Errorf("invalid osm type %q", s)
	}
}

// CategoryID identifies one of the fixed place categories.
type CategoryID string

const (
	CategoryPopular     CategoryID = "popular"
	CategoryMuseums     CategoryID = "museums"
	CategoryHistoric    CategoryID = "historic"
	CategoryAttractions CategoryID = "attractions"
	CategoryViewpoints  CategoryID = "viewpoints"
	CategoryParks       CategoryID = "parks"
	CategoryCulture     CategoryID = "culture"
	CategoryReligion    CategoryID = "religion"
	CategoryFood        CategoryID = "food"
)

// PlaceCategory is a static category definition: identity, presentation
// hints for clients and the ordered Overpass tag filters used when
// searching for places of this category.
type PlaceCategory struct {
	ID      CategoryID `json:"id"`
	Title   string     `json:"title"`
	Icon    string     `json:"icon"`
	Color   string     `json:"color"`
	OSMTags []string   `json:"osm_tags"`
}

// Place is the normalized point-of-interest entity. It is constructed
// transiently from an Overpass response; only the PlaceRef projection is
// ever persisted.
type Place struct {
	ID        string     `json:"id"` // composite, e.g. "node_123456"
	OSMID     int64      `json:"osm_id"`
	OSMType   OSMType    `json:"osm_type"`
	Name      string     `json:"name"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Category  CategoryID `json:"category"`

	// Raw source tags, retained for detail display.
	Tags map[string]string `json:"tags,omitempty"`

	// Optional enrichment fields extracted from the tags.
	Description  string `json:"description,omitempty"`
	Wikipedia    string `json:"wikipedia,omitempty"`
	Wikidata     string `json:"wikidata,omitempty"`
	Website      string `json:"website,omitempty"`
	Phone        string `json:"phone,omitempty"`
	OpeningHours string `json:"opening_hours,omitempty"`
	Image        string `json:"image,omitempty"`
}

// PlaceID builds the composite identifier used as the dedup/lookup key
// across favorites, the plan and map markers.
func PlaceID(osmType OSMType, osmID int64) string {
	return fmt.Sprintf("%s_%d", osmType, osmID)
}

// Ref returns the minimal projection of the place that the stores persist.
func (p Place) Ref() PlaceRef {
	return PlaceRef{
		ID:        p.ID,
		OSMType:   p.OSMType,
		OSMID:     p.OSMID,
		Name:      p.Name,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Category:  p.Category,
	}
}

// PlaceRef is the minimal place projection kept by the favorites and plan
// stores: identity, coordinates, name and category.
type PlaceRef struct {
	ID        string     `json:"id"`
	OSMType   OSMType    `json:"osm_type"`
	OSMID     int64      `json:"osm_id"`
	Name      string     `json:"name"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Category  CategoryID `json:"category"`
}

// Validate checks the fields a store needs before persisting a reference.
func (r PlaceRef) Validate() error {
	if _, err := ParseOSMType(string(r.OSMType)); err != nil {
		return err
	}
	if r.OSMID <= 0 {
		return fmt.Errorf("invalid osm id %d", r.OSMID)
	}
	if r.Name == "" {
		return fmt.Errorf("place name is required")
	}
	return nil
}
