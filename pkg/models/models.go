package models

import "strings"

// Field names one optional column of a playlist export
type Field int

// Column order of an export. Index is listed first and is never quoted.
const (
	FieldIndex Field = iota
	FieldTitle
	FieldArtist
	FieldAlbum
	FieldDateAdded
	FieldDuration
	FieldURL
	FieldCoverArt
	FieldExplicit
)

// AllFields lists every field in export column order
var AllFields = []Field{
	FieldIndex,
	FieldTitle,
	FieldArtist,
	FieldAlbum,
	FieldDateAdded,
	FieldDuration,
	FieldURL,
	FieldCoverArt,
	FieldExplicit,
}

var fieldKeys = map[Field]string{
	FieldIndex:     "index",
	FieldTitle:     "title",
	FieldArtist:    "artist",
	FieldAlbum:     "album",
	FieldDateAdded: "date",
	FieldDuration:  "duration",
	FieldURL:       "url",
	FieldCoverArt:  "cover",
	FieldExplicit:  "explicit",
}

var fieldLabels = map[Field]string{
	FieldIndex:     "#",
	FieldTitle:     "Title",
	FieldArtist:    "Artist",
	FieldAlbum:     "Album",
	FieldDateAdded: "Date Added",
	FieldDuration:  "Length",
	FieldURL:       "URL",
	FieldCoverArt:  "Cover Art",
	FieldExplicit:  "Explicit",
}

// Key returns the settings key of the field (e.g. "date")
func (f Field) Key() string {
	return fieldKeys[f]
}

// Label returns the human-readable column header of the field
func (f Field) Label() string {
	return fieldLabels[f]
}

// String implements fmt.Stringer
func (f Field) String() string {
	return f.Key()
}

// ParseField resolves a settings key (case-insensitive) to a Field
func ParseField(key string) (Field, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for f, k := range fieldKeys {
		if k == key {
			return f, true
		}
	}
	return 0, false
}

// RunConfiguration is the set of enabled fields for one run.
// It is read once at run start and never mutated by the scraper.
type RunConfiguration struct {
	enabled map[Field]bool
}

// NewRunConfiguration builds a configuration with the given fields enabled
func NewRunConfiguration(fields ...Field) RunConfiguration {
	cfg := RunConfiguration{enabled: make(map[Field]bool, len(fields))}
	for _, f := range fields {
		cfg.enabled[f] = true
	}
	return cfg
}

// ConfigurationFromFlags builds a configuration from a flat key→bool mapping
// such as the one kept by the settings store. Unknown keys are ignored.
func ConfigurationFromFlags(flags map[string]bool) RunConfiguration {
	var fields []Field
	for key, on := range flags {
		if !on {
			continue
		}
		if f, ok := ParseField(key); ok {
			fields = append(fields, f)
		}
	}
	return NewRunConfiguration(fields...)
}

// Enabled reports whether the field is collected and exported
func (c RunConfiguration) Enabled(f Field) bool {
	return c.enabled[f]
}

// Columns returns the enabled fields in export column order
func (c RunConfiguration) Columns() []Field {
	cols := make([]Field, 0, len(AllFields))
	for _, f := range AllFields {
		if c.enabled[f] {
			cols = append(cols, f)
		}
	}
	return cols
}

// Flags returns the configuration as a flat key→bool mapping covering all nine keys
func (c RunConfiguration) Flags() map[string]bool {
	flags := make(map[string]bool, len(AllFields))
	for _, f := range AllFields {
		flags[f.Key()] = c.enabled[f]
	}
	return flags
}

// TrackRecord is one collected playlist row
type TrackRecord struct {
	// ID is the track link href, the deduplication key
	ID string `json:"id"`
	// Index is the ordinal shown by the grid, used only for sorting
	Index int `json:"index"`
	// Fields holds values for enabled fields only
	Fields map[Field]string `json:"-"`
}

// Value returns the field value, or "" when the field was not collected
func (r TrackRecord) Value(f Field) string {
	if r.Fields == nil {
		return ""
	}
	return r.Fields[f]
}
