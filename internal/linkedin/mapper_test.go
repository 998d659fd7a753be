package linkedin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linkscout/linkscout/internal/core"
)

func TestSplitName(t *testing.T) {
	cases := []struct {
		name  string
		input string
		first string
		last  string
	}{
		{"two tokens", "Ada Lovelace", "Ada", "Lovelace"},
		{"single token", "Madonna", "Madonna", ""},
		{"multi-part surname", "Jose Maria Garcia", "Jose", "Maria Garcia"},
		{"surrounding whitespace", "  Grace   Hopper  ", "Grace", "Hopper"},
		{"empty", "", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first, last := splitName(tc.input)
			require.Equal(t, tc.first, first)
			require.Equal(t, tc.last, last)
		})
	}
}

func TestParseDegree(t *testing.T) {
	require.Equal(t, 1, parseDegree("DISTANCE_1"))
	require.Equal(t, 2, parseDegree("DISTANCE_2"))
	require.Equal(t, 3, parseDegree("DISTANCE_3"))
	require.Equal(t, 3, parseDegree("OUT_OF_NETWORK"))
	require.Equal(t, 3, parseDegree("SOMETHING_NEW"))
	require.Equal(t, 3, parseDegree(""))
}

func TestMapMatch(t *testing.T) {
	foundAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	raw := core.RawMatch{
		UrnID:    "ACoAAB12345",
		PublicID: "ada-lovelace",
		Name:     "Ada Lovelace",
		JobTitle: "Engineer at Analytical Engines",
		Location: "London",
		Distance: "DISTANCE_1",
	}

	record := MapMatch(raw, "golang engineer", foundAt)

	require.Empty(t, record.ID)
	require.Equal(t, "ACoAAB12345", record.LinkedInURNID)
	require.Equal(t, "ada-lovelace", record.PublicID)
	require.Equal(t, "Ada", record.FirstName)
	require.Equal(t, "Lovelace", record.LastName)
	require.Equal(t, "Engineer at Analytical Engines", record.Headline)
	require.Equal(t, "London", record.Location)
	require.Equal(t, "https://www.linkedin.com/in/ada-lovelace", record.ProfileURL)
	require.Equal(t, 1, record.ConnectionDegree)
	require.Equal(t, "golang engineer", record.SearchQuery)
	require.Equal(t, foundAt, record.FoundAt)
	require.Equal(t, "Ada Lovelace", record.FullName())
}
