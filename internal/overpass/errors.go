package overpass

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCategory is returned for an area search with an unknown
	// category id. Precondition failure: no request is issued.
	ErrInvalidCategory = errors.New("unknown place category")

	// ErrNoLocation is returned for an area search at (0,0), which the app
	// uses as "no city selected yet". Precondition failure: no request is
	// issued.
	ErrNoLocation = errors.New("no location selected")
)

// StatusError is a non-2xx reply from an Overpass mirror. Statuses 429 and
// 504 qualify for one mirror rotation; everything else is terminal.
type StatusError struct {
	Status int
	Mirror string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("overpass mirror %s returned status %d", e.Mirror, e.Status)
}
