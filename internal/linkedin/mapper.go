package linkedin

import (
	"strings"
	"time"

	"github.com/linkscout/linkscout/internal/core"
)

const profileURLPrefix = "https://www.linkedin.com/in/"

// distance codes as reported by the people-search endpoint.
var degreeByDistance = map[string]int{
	"DISTANCE_1":     1,
	"DISTANCE_2":     2,
	"DISTANCE_3":     3,
	"OUT_OF_NETWORK": 3,
}

// MapMatch converts one raw search hit into a connection record, stamping
// the producing query and the mapping time. The record id is left empty
// for the store to assign.
func MapMatch(raw core.RawMatch, searchQuery string, foundAt time.Time) core.ConnectionRecord {
	first, last := splitName(raw.Name)

	return core.ConnectionRecord{
		LinkedInURNID:    raw.UrnID,
		PublicID:         raw.PublicID,
		FirstName:        first,
		LastName:         last,
		Headline:         raw.JobTitle,
		Location:         raw.Location,
		ProfileURL:       profileURLPrefix + raw.PublicID,
		ConnectionDegree: parseDegree(raw.Distance),
		SearchQuery:      searchQuery,
		FoundAt:          foundAt.UTC(),
	}
}

// splitName parses a display name into first and last components on
// whitespace. Single-token names yield an empty last name.
func splitName(fullName string) (string, string) {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

// parseDegree maps a distance code to a connection degree, defaulting to 3
// for missing or unrecognized codes.
func parseDegree(distance string) int {
	if degree, ok := degreeByDistance[distance]; ok {
		return degree
	}
	return 3
}
