package output

import (
	"encoding/json"

	"github.com/law-makers/plexport/pkg/models"
)

// BuildJSON renders records as an indented JSON array keyed by settings key
// (e.g. "title", "date"), limited to enabled columns.
func BuildJSON(records []models.TrackRecord, cfg models.RunConfiguration) (string, error) {
	cols := cfg.Columns()

	rows := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		row := make(map[string]interface{}, len(cols)+1)
		row["id"] = rec.ID
		for _, f := range cols {
			if f == models.FieldIndex {
				row[f.Key()] = rec.Index
				continue
			}
			row[f.Key()] = rec.Value(f)
		}
		rows = append(rows, row)
	}

	content, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", err
	}
	return string(content) + "\n", nil
}
