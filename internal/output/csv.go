package output

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/linkscout/linkscout/internal/core"
)

// csvHeaders is the column order of exported files.
var csvHeaders = []string{
	"name",
	"first_name",
	"last_name",
	"headline",
	"company",
	"title",
	"location",
	"profile_url",
	"degree",
	"search_query",
	"found_at",
}

// CSVFormatter renders connection records as CSV with a single-cell
// metadata row ahead of the column headers.
type CSVFormatter struct {
	// QueryInfo, when set, is included in the metadata row.
	QueryInfo string

	// Clock is injectable for deterministic metadata timestamps.
	Clock func() time.Time
}

// FormatConnections renders records as a CSV document.
func (f *CSVFormatter) FormatConnections(records []core.ConnectionRecord) (string, error) {
	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{f.metadata(len(records))}); err != nil {
		return "", fmt.Errorf("write csv metadata: %w", err)
	}
	if err := writer.Write(csvHeaders); err != nil {
		return "", fmt.Errorf("write csv headers: %w", err)
	}

	for _, record := range records {
		row := []string{
			record.FullName(),
			record.FirstName,
			record.LastName,
			record.Headline,
			record.CurrentCompany,
			record.CurrentTitle,
			record.Location,
			record.ProfileURL,
			strconv.Itoa(record.ConnectionDegree),
			record.SearchQuery,
			formatFoundAt(record.FoundAt),
		}
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}

	return buf.String(), nil
}

func (f *CSVFormatter) metadata(count int) string {
	exportedAt := f.now().Format("2006-01-02 15:04:05 UTC")
	parts := []string{
		"# Exported at: " + exportedAt,
		fmt.Sprintf("Records: %d", count),
	}
	if f.QueryInfo != "" {
		parts = append(parts, "Query: "+f.QueryInfo)
	}
	return strings.Join(parts, " | ")
}

func (f *CSVFormatter) now() time.Time {
	if f != nil && f.Clock != nil {
		return f.Clock().UTC()
	}
	return time.Now().UTC()
}

func formatFoundAt(at time.Time) string {
	if at.IsZero() {
		return ""
	}
	return at.UTC().Format("2006-01-02 15:04:05")
}
