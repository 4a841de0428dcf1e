package overpass

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FACorreiaa/city-explorer-api/internal/types"
)

const (
	// DefaultQueryTimeout is the server-side timeout embedded in area
	// search queries, in seconds.
	DefaultQueryTimeout = 25

	// lookupQueryTimeout is the tighter timeout used for single-element
	// lookups, which are cheap on the Overpass side.
	lookupQueryTimeout = 10
)

// BuildAroundQuery produces an OverpassQL query requesting all entities of
// any kind (node, way, relation) within radiusM meters of the center that
// match ANY of the supplied tag filters. `out center tags` makes ways and
// relations return a centroid alongside their tags.
//
// Pure and deterministic. An empty filter list yields a structurally valid
// query with an empty union, which returns zero elements downstream.
func BuildAroundQuery(lat, lon float64, radiusM int, tagFilters []string, timeoutS int) string {
	if timeoutS <= 0 {
		timeoutS = DefaultQueryTimeout
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", timeoutS)
	for _, filter := range tagFilters {
		fmt.Fprintf(&b, "  nwr(around:%d,%s,%s)%s;\n", radiusM, formatCoord(lat), formatCoord(lon), filter)
	}
	b.WriteString(");\nout center tags;")
	return b.String()
}

// BuildElementQuery produces an OverpassQL query for exactly one entity.
func BuildElementQuery(osmType types.OSMType, osmID int64) string {
	return fmt.Sprintf("[out:json][timeout:%d];\n%s(%d);\nout center tags;", lookupQueryTimeout, osmType, osmID)
}

// formatCoord renders a coordinate with the shortest representation that
// round-trips, so no precision is lost in the query string.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
