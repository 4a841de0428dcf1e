package types

import (
	"time"

	"github.com/google/uuid"
)

// FavoritePlace is a favorited place reference with bookkeeping.
type FavoritePlace struct {
	PlaceRef
	AddedAt time.Time `json:"added_at"`
}

// PlanItem is a single entry of the multi-day visit plan.
type PlanItem struct {
	ID       uuid.UUID `json:"id"`
	Day      int       `json:"day"` // 1-based day number
	Position int       `json:"position"`
	Place    PlaceRef  `json:"place"`
	Note     string    `json:"note,omitempty"`
	AddedAt  time.Time `json:"added_at"`
}

// PlanDay groups plan items belonging to the same day, ordered by position.
type PlanDay struct {
	Day   int        `json:"day"`
	Items []PlanItem `json:"items"`
}

// AddPlanItemRequest is the payload for adding a place to a plan day.
type AddPlanItemRequest struct {
	Day   int      `json:"day"`
	Place PlaceRef `json:"place"`
	Note  string   `json:"note,omitempty"`
}

// MovePlanItemRequest moves an existing plan item to a new day/position.
type MovePlanItemRequest struct {
	Day      int `json:"day"`
	Position int `json:"position"`
}
