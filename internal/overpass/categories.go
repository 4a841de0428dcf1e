package overpass

import (
	"strings"

	"github.com/FACorreiaa/city-explorer-api/internal/types"
)

// categories is the static category table, loaded once and never mutated.
// OSMTags holds the OverpassQL filters used when searching for a category;
// they are deliberately broader than the inference rules below so that a
// search for "popular" still surfaces a mix of sights.
var categories = []types.PlaceCategory{
	{
		ID:    types.CategoryPopular,
		Title: "Popular",
		Icon:  "star",
		Color: "#f59e0b",
		OSMTags: []string{
			`["tourism"~"attraction|museum|gallery|viewpoint"]`,
			`["historic"~"castle|monument|memorial|ruins"]`,
		},
	},
	{
		ID:      types.CategoryMuseums,
		Title:   "Museums",
		Icon:    "business",
		Color:   "#8b5cf6",
		OSMTags: []string{`["tourism"="museum"]`},
	},
	{
		ID:    types.CategoryHistoric,
		Title: "Historic",
		Icon:  "time",
		Color: "#ef4444",
		OSMTags: []string{
			`["historic"]`,
			`["tourism"~"castle|monument"]`,
		},
	},
	{
		ID:      types.CategoryAttractions,
		Title:   "Attractions",
		Icon:    "compass",
		Color:   "#ec4899",
		OSMTags: []string{`["tourism"="attraction"]`},
	},
	{
		ID:      types.CategoryViewpoints,
		Title:   "Viewpoints",
		Icon:    "eye",
		Color:   "#06b6d4",
		OSMTags: []string{`["tourism"="viewpoint"]`},
	},
	{
		ID:    types.CategoryParks,
		Title: "Parks",
		Icon:  "leaf",
		Color: "#10b981",
		OSMTags: []string{
			`["leisure"="park"]`,
			`["leisure"="garden"]`,
		},
	},
	{
		ID:    types.CategoryCulture,
		Title: "Culture",
		Icon:  "color-palette",
		Color: "#a855f7",
		OSMTags: []string{
			`["amenity"~"theatre|cinema|arts_centre"]`,
			`["tourism"="gallery"]`,
		},
	},
	{
		ID:    types.CategoryReligion,
		Title: "Religious sites",
		Icon:  "home",
		Color: "#6366f1",
		OSMTags: []string{
			`["amenity"="place_of_worship"]`,
			`["building"~"church|mosque|synagogue|temple"]`,
		},
	},
	{
		ID:      types.CategoryFood,
		Title:   "Food & drink",
		Icon:    "restaurant",
		Color:   "#f97316",
		OSMTags: []string{`["amenity"~"restaurant|cafe|fast_food"]`},
	},
}

// Categories returns the static category definitions in display order.
func Categories() []types.PlaceCategory {
	out := make([]types.PlaceCategory, len(categories))
	copy(out, categories)
	return out
}

// CategoryByID resolves a category id to its definition.
func CategoryByID(id types.CategoryID) (types.PlaceCategory, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return types.PlaceCategory{}, false
}

// categoryRule pairs a tag predicate with the category it assigns. Rules
// are evaluated in order; the first match wins.
type categoryRule struct {
	id    types.CategoryID
	match func(tags map[string]string) bool
}

// categoryRules encodes the inference priority as data so the order is
// visible and testable. tourism=museum must precede the historic check: a
// castle that is now a museum counts as a museum.
var categoryRules = []categoryRule{
	{types.CategoryMuseums, tagIs("tourism", "museum")},
	{types.CategoryViewpoints, tagIs("tourism", "viewpoint")},
	{types.CategoryAttractions, tagIs("tourism", "attraction")},
	{types.CategoryCulture, tagIs("tourism", "gallery")},
	{types.CategoryHistoric, tagPresent("historic")},
	{types.CategoryParks, tagIs("leisure", "park", "garden")},
	{types.CategoryParks, tagPresent("natural")},
	{types.CategoryCulture, tagIs("amenity", "theatre", "cinema", "arts_centre")},
	{types.CategoryReligion, tagIs("amenity", "place_of_worship")},
	{types.CategoryFood, tagIs("amenity", "restaurant", "cafe", "fast_food")},
}

// InferCategory decides the single category for a place from its raw tags,
// defaulting to the catch-all "popular" bucket.
func InferCategory(tags map[string]string) types.CategoryID {
	for _, rule := range categoryRules {
		if rule.match(tags) {
			return rule.id
		}
	}
	return types.CategoryPopular
}

func tagIs(key string, values ...string) func(map[string]string) bool {
	return func(tags map[string]string) bool {
		v, ok := tags[key]
		if !ok {
			return false
		}
		for _, want := range values {
			if v == want {
				return true
			}
		}
		return false
	}
}

func tagPresent(key string) func(map[string]string) bool {
	return func(tags map[string]string) bool {
		return strings.TrimSpace(tags[key]) != ""
	}
}
