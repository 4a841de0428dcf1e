package types

import "time"

// City is the derived entity the rest of the app consumes after a
// Nominatim lookup.
type City struct {
	ID          string  `json:"id"` // e.g. "nominatim_12345"
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
}

// RecentCity is a city the user viewed, kept most-recent-first by the
// recents store.
type RecentCity struct {
	City
	ViewedAt time.Time `json:"viewed_at"`
}
