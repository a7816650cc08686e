package output

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/law-makers/plexport/pkg/models"
)

func sampleRecords() []models.TrackRecord {
	return []models.TrackRecord{
		{ID: "/track/A", Index: 1, Fields: map[models.Field]string{
			models.FieldTitle:     `He said "Hi"`,
			models.FieldArtist:    "One; Two",
			models.FieldAlbum:     "Album, Deluxe",
			models.FieldDateAdded: "2 days ago",
			models.FieldDuration:  "3:45",
			models.FieldURL:       "https://open.spotify.com/track/A",
			models.FieldCoverArt:  "https://i.scdn.co/image/a",
			models.FieldExplicit:  "No",
		}},
		{ID: "/track/B", Index: 2, Fields: map[models.Field]string{
			models.FieldTitle: "Song B",
		}},
	}
}

func TestBuildCSV_Escaping(t *testing.T) {
	cfg := models.NewRunConfiguration(models.FieldIndex, models.FieldTitle)
	got := BuildCSV(sampleRecords()[:1], cfg)

	want := "#,Title\n1,\"He said \"\"Hi\"\"\"\n"
	if got != want {
		t.Errorf("Unexpected CSV:\n got %q\nwant %q", got, want)
	}

	rows, err := csv.NewReader(strings.NewReader(got)).ReadAll()
	if err != nil {
		t.Fatalf("CSV reader failed: %v", err)
	}
	if rows[1][1] != `He said "Hi"` {
		t.Errorf("Round trip lost data: %q", rows[1][1])
	}
}

func TestBuildCSV_MissingFieldsAreEmptyQuoted(t *testing.T) {
	cfg := models.NewRunConfiguration(models.FieldTitle, models.FieldAlbum, models.FieldExplicit)
	got := BuildCSV(sampleRecords()[1:], cfg)

	want := "Title,Album,Explicit\n\"Song B\",\"\",\"\"\n"
	if got != want {
		t.Errorf("Unexpected CSV:\n got %q\nwant %q", got, want)
	}
}

func TestBuildCSV_ColumnGating(t *testing.T) {
	records := sampleRecords()

	// Every subset of the nine flags
	for mask := 0; mask < 1<<len(models.AllFields); mask++ {
		var fields []models.Field
		for i, f := range models.AllFields {
			if mask&(1<<i) != 0 {
				fields = append(fields, f)
			}
		}
		cfg := models.NewRunConfiguration(fields...)
		out := BuildCSV(records, cfg)

		reader := csv.NewReader(strings.NewReader(out))
		reader.FieldsPerRecord = -1
		rows, err := reader.ReadAll()
		if err != nil {
			t.Fatalf("mask %d: CSV reader failed: %v", mask, err)
		}
		if len(fields) == 0 {
			continue
		}
		if len(rows) != len(records)+1 {
			t.Fatalf("mask %d: expected %d rows, got %d", mask, len(records)+1, len(rows))
		}
		for i, row := range rows {
			if len(row) != len(fields) {
				t.Fatalf("mask %d row %d: expected %d fields, got %d", mask, i, len(fields), len(row))
			}
		}
	}
}

func TestBuildCSV_FixedColumnOrder(t *testing.T) {
	cfg := models.NewRunConfiguration(models.AllFields...)
	header := strings.SplitN(BuildCSV(nil, cfg), "\n", 2)[0]

	want := "#,Title,Artist,Album,Date Added,Length,URL,Cover Art,Explicit"
	if header != want {
		t.Errorf("Expected header %q, got %q", want, header)
	}
}

func TestBuildJSON(t *testing.T) {
	cfg := models.NewRunConfiguration(models.FieldIndex, models.FieldTitle, models.FieldAlbum)
	out, err := BuildJSON(sampleRecords(), cfg)
	if err != nil {
		t.Fatalf("BuildJSON failed: %v", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0]["title"] != `He said "Hi"` || rows[0]["index"] != float64(1) {
		t.Errorf("Unexpected first row: %v", rows[0])
	}
	if _, ok := rows[0]["artist"]; ok {
		t.Error("Expected disabled artist column to be omitted")
	}
	if rows[1]["album"] != "" {
		t.Errorf("Expected empty album for B, got %v", rows[1]["album"])
	}
}

func TestBuildMarkdown(t *testing.T) {
	cfg := models.NewRunConfiguration(models.FieldIndex, models.FieldTitle, models.FieldDuration)
	out, err := BuildMarkdown(sampleRecords(), cfg)
	if err != nil {
		t.Fatalf("BuildMarkdown failed: %v", err)
	}

	for _, want := range []string{"Title", "Length", "Song B", "3:45", "|"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected markdown to contain %q:\n%s", want, out)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"out.csv":      FormatCSV,
		"out.JSON":     FormatJSON,
		"notes.md":     FormatMarkdown,
		"no-extension": FormatCSV,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %s, want %s", path, got, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestFileSink_DefaultsToSuggestedName(t *testing.T) {
	dir := t.TempDir()
	sink := &FileSink{Path: dir}
	cfg := models.NewRunConfiguration(models.FieldIndex, models.FieldTitle)

	if err := sink.Export(context.Background(), sampleRecords(), cfg); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	want := filepath.Join(dir, SuggestedFilename)
	if sink.Written() != want {
		t.Errorf("Expected %s, got %s", want, sink.Written())
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "#,Title\n1,") {
		t.Errorf("Unexpected content: %q", data)
	}
}

func TestFileSink_FormatFromExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlist.json")
	sink := &FileSink{Path: path}

	if err := sink.Export(context.Background(), sampleRecords(), models.NewRunConfiguration(models.FieldTitle)); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Errorf("Expected JSON output, got %q", data)
	}
}
