package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/linkscout/linkscout/internal/core"
)

// TableFormatter renders connection records as an ASCII table.
type TableFormatter struct{}

// FormatConnections renders records as a table with a count footer.
func (f *TableFormatter) FormatConnections(records []core.ConnectionRecord) (string, error) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Name", "Headline", "Location", "Degree", "Profile"})

	for _, r := range records {
		t.AppendRow(table.Row{
			r.FullName(),
			truncate(r.Headline, 40),
			truncate(r.Location, 30),
			fmt.Sprintf("%d", r.ConnectionDegree),
			r.ProfileURL,
		})
	}

	t.AppendFooter(table.Row{
		fmt.Sprintf("%d connections", len(records)),
		"", "", "", "",
	})

	return t.Render(), nil
}

func truncate(value string, max int) string {
	if max <= 3 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}
