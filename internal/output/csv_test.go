package output

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linkscout/linkscout/internal/core"
)

func testClock() time.Time {
	return time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
}

func TestCSVFormatter(t *testing.T) {
	formatter := &CSVFormatter{QueryInfo: "golang engineer", Clock: testClock}

	records := []core.ConnectionRecord{
		{
			FirstName:        "Ada",
			LastName:         "Lovelace",
			Headline:         "Engineer",
			Location:         "London",
			ProfileURL:       "https://www.linkedin.com/in/ada-lovelace",
			ConnectionDegree: 1,
			SearchQuery:      "golang engineer",
			FoundAt:          time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		},
	}

	rendered, err := formatter.FormatConnections(records)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	require.Len(t, lines, 3)

	// Metadata travels in a single cell ahead of the headers.
	require.Equal(t,
		"# Exported at: 2025-03-10 09:30:00 UTC | Records: 1 | Query: golang engineer",
		lines[0])
	require.Equal(t,
		"name,first_name,last_name,headline,company,title,location,profile_url,degree,search_query,found_at",
		lines[1])
	require.Equal(t,
		"Ada Lovelace,Ada,Lovelace,Engineer,,,London,https://www.linkedin.com/in/ada-lovelace,1,golang engineer,2025-03-10 09:00:00",
		lines[2])
}

func TestCSVFormatterWithoutQuery(t *testing.T) {
	formatter := &CSVFormatter{Clock: testClock}

	rendered, err := formatter.FormatConnections(nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "# Exported at: 2025-03-10 09:30:00 UTC | Records: 0", lines[0])
}

func TestCSVFormatterZeroFoundAt(t *testing.T) {
	formatter := &CSVFormatter{Clock: testClock}

	rendered, err := formatter.FormatConnections([]core.ConnectionRecord{{FirstName: "Ada"}})
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(strings.TrimRight(rendered, "\n"), ",0,,"))
}
