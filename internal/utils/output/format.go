package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/law-makers/plexport/pkg/models"
)

// Format is an export encoding
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
)

// ParseFormat resolves a format name; "" means CSV
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unsupported format: %s (must be csv, json, or md)", s)
}

// FormatFromPath picks a format from a file extension, defaulting to CSV
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".md", ".markdown":
		return FormatMarkdown
	}
	return FormatCSV
}

// Extension returns the file extension for the format including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// Render encodes records in the given format
func Render(f Format, records []models.TrackRecord, cfg models.RunConfiguration) (string, error) {
	switch f {
	case FormatJSON:
		return BuildJSON(records, cfg)
	case FormatMarkdown:
		return BuildMarkdown(records, cfg)
	case FormatCSV, "":
		return BuildCSV(records, cfg), nil
	}
	return "", fmt.Errorf("unsupported format: %s", f)
}
