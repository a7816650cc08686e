package output

import (
	"strconv"
	"strings"

	"github.com/law-makers/plexport/pkg/models"
)

// BuildCSV renders records as comma-separated text. Only enabled columns are
// emitted. The index is written bare; every other value is always quoted with
// embedded quotes doubled, and uncollected values become "".
func BuildCSV(records []models.TrackRecord, cfg models.RunConfiguration) string {
	cols := cfg.Columns()

	var b strings.Builder
	headers := make([]string, len(cols))
	for i, f := range cols {
		headers[i] = f.Label()
	}
	b.WriteString(strings.Join(headers, ","))
	b.WriteString("\n")

	row := make([]string, len(cols))
	for _, rec := range records {
		for i, f := range cols {
			if f == models.FieldIndex {
				row[i] = strconv.Itoa(rec.Index)
				continue
			}
			row[i] = quote(rec.Value(f))
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\n")
	}
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
