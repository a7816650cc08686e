package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/law-makers/plexport/pkg/models"
)

// trackRow renders a grid row shaped like the web player's playlist rows
func trackRow(index int, id, title, album, dateAdded, duration string, artists ...string) string {
	var artistLinks []string
	for i, a := range artists {
		artistLinks = append(artistLinks, fmt.Sprintf(`<a href="/artist/%d">%s</a>`, i, a))
	}
	return fmt.Sprintf(`
<div role="row" aria-rowindex="%d">
  <div role="gridcell"><span>%d</span></div>
  <div role="gridcell">
    <img src="https://i.scdn.co/image/%s.jpg">
    <div><a href="%s"><div>%s</div></a>
      <span>%s</span></div>
  </div>
  <div role="gridcell"><a href="/album/x">%s</a></div>
  <div role="gridcell"><span>%s</span></div>
  <div role="gridcell"><div>%s</div></div>
</div>`, index+1, index, strings.TrimPrefix(id, "/track/"), id, title, strings.Join(artistLinks, ", "), album, dateAdded, duration)
}

func grid(rows ...string) string {
	return `<div role="grid" aria-label="Playlist">` + strings.Join(rows, "") + `</div>`
}

func allFields() models.RunConfiguration {
	return models.NewRunConfiguration(models.AllFields...)
}

func mustParse(t *testing.T, p *Parser, html string, cfg models.RunConfiguration, known func(string) bool) Batch {
	t.Helper()
	doc, err := ParseSnapshot(html)
	if err != nil {
		t.Fatalf("ParseSnapshot failed: %v", err)
	}
	return p.ParseDocument(doc, cfg, known)
}

func TestParse_AllFields(t *testing.T) {
	p := NewParser(Options{TrackBaseURL: "https://open.spotify.com"})
	html := grid(trackRow(1, "/track/A", "Song A", "Album A", "Mar 4, 2023", "3:45", "Artist One", "Artist Two"))

	batch := mustParse(t, p, html, allFields(), nil)

	if batch.MaxIndex != 1 {
		t.Errorf("Expected max index 1, got %d", batch.MaxIndex)
	}
	if len(batch.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(batch.Records))
	}

	rec := batch.Records[0]
	want := map[models.Field]string{
		models.FieldTitle:     "Song A",
		models.FieldArtist:    "Artist One; Artist Two",
		models.FieldAlbum:     "Album A",
		models.FieldDateAdded: "Mar 4, 2023",
		models.FieldDuration:  "3:45",
		models.FieldURL:       "https://open.spotify.com/track/A",
		models.FieldCoverArt:  "https://i.scdn.co/image/A.jpg",
		models.FieldExplicit:  "No",
	}
	for f, v := range want {
		if got := rec.Value(f); got != v {
			t.Errorf("%s: expected %q, got %q", f, v, got)
		}
	}
	if rec.ID != "/track/A" || rec.Index != 1 {
		t.Errorf("Unexpected identity %q / index %d", rec.ID, rec.Index)
	}
}

func TestParse_LocalizedDateAdded(t *testing.T) {
	p := NewParser(Options{TrackBaseURL: "https://open.spotify.com"})
	html := grid(trackRow(1, "/track/X", "Song", "", "15 декабря 2023 г.", "3:45", "Artist"))
	cfg := models.NewRunConfiguration(models.FieldDateAdded, models.FieldDuration)

	batch := mustParse(t, p, html, cfg, nil)
	if len(batch.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(batch.Records))
	}
	rec := batch.Records[0]
	if got := rec.Value(models.FieldDateAdded); got != "15 декабря 2023 г." {
		t.Errorf("Expected localized date, got %q", got)
	}
	if got := rec.Value(models.FieldDuration); got != "3:45" {
		t.Errorf("Expected duration 3:45, got %q", got)
	}
}

func TestParse_FieldsGatedByConfiguration(t *testing.T) {
	p := NewParser(Options{TrackBaseURL: "https://open.spotify.com"})
	html := grid(trackRow(1, "/track/A", "Song A", "Album A", "2 days ago", "3:45", "Artist"))

	batch := mustParse(t, p, html, models.NewRunConfiguration(models.FieldTitle), nil)
	if len(batch.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(batch.Records))
	}

	fields := batch.Records[0].Fields
	if len(fields) != 1 {
		t.Errorf("Expected only the title field, got %v", fields)
	}
	if fields[models.FieldTitle] != "Song A" {
		t.Errorf("Unexpected title %q", fields[models.FieldTitle])
	}
}

func TestParse_IndexCountsWithoutTrackLink(t *testing.T) {
	p := NewParser(Options{})
	html := grid(
		trackRow(1, "/track/A", "Song A", "Album", "", "3:00", "X"),
		`<div role="row"><div role="gridcell">7</div><div role="gridcell">Podcast episode</div></div>`,
	)

	batch := mustParse(t, p, html, allFields(), nil)
	if batch.MaxIndex != 7 {
		t.Errorf("Expected max index 7 from link-less row, got %d", batch.MaxIndex)
	}
	if len(batch.Records) != 1 {
		t.Errorf("Expected link-less row to produce no record, got %d records", len(batch.Records))
	}
}

func TestParse_NonNumericIndexSkipped(t *testing.T) {
	p := NewParser(Options{})
	html := grid(
		`<div role="row"><div role="gridcell">Title</div><div role="gridcell"><a href="/track/H">Header</a></div></div>`,
	)

	batch := mustParse(t, p, html, allFields(), nil)
	if batch.MaxIndex != -1 {
		t.Errorf("Expected max index -1, got %d", batch.MaxIndex)
	}
	if len(batch.Records) != 0 {
		t.Errorf("Expected no records for a row without index, got %d", len(batch.Records))
	}
	if batch.Rows != 1 {
		t.Errorf("Expected 1 row seen, got %d", batch.Rows)
	}
}

func TestParse_IdempotentRescan(t *testing.T) {
	p := NewParser(Options{})
	html := grid(
		trackRow(0, "/track/A", "Song A", "Album", "", "3:00", "X"),
		trackRow(1, "/track/B", "Song B", "Album", "", "3:10", "Y"),
	)
	cfg := allFields()

	collected := make(map[string]models.TrackRecord)
	known := func(id string) bool { _, ok := collected[id]; return ok }

	for pass := 0; pass < 2; pass++ {
		batch := mustParse(t, p, html, cfg, known)
		if pass == 1 && len(batch.Records) != 0 {
			t.Errorf("Second pass produced %d new records", len(batch.Records))
		}
		for _, r := range batch.Records {
			collected[r.ID] = r
		}
	}

	if len(collected) != 2 {
		t.Errorf("Expected 2 collected records, got %d", len(collected))
	}
}

func TestParse_DuplicateWithinSnapshot(t *testing.T) {
	p := NewParser(Options{})
	html := grid(
		trackRow(3, "/track/A", "Song A", "Album", "", "3:00", "X"),
		trackRow(4, "/track/A", "Song A again", "Album", "", "3:00", "X"),
	)

	batch := mustParse(t, p, html, allFields(), nil)
	if len(batch.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(batch.Records))
	}
	if batch.Records[0].Value(models.FieldTitle) != "Song A" {
		t.Errorf("Expected first sighting to win, got %q", batch.Records[0].Value(models.FieldTitle))
	}
	if batch.MaxIndex != 4 {
		t.Errorf("Expected duplicate row to still count toward max index, got %d", batch.MaxIndex)
	}
}

func TestParse_ExplicitAndMissingPieces(t *testing.T) {
	p := NewParser(Options{PageURL: "https://open.spotify.com/playlist/p"})
	html := grid(`
<div role="row">
  <div role="gridcell">12</div>
  <div role="gridcell">
    <img src="/img/cover.png">
    <a href="/track/E">Loud</a>
    <span aria-label="Explicit">E</span>
  </div>
</div>`)

	batch := mustParse(t, p, html, allFields(), nil)
	if len(batch.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(batch.Records))
	}
	rec := batch.Records[0]

	if rec.Value(models.FieldExplicit) != "Yes" {
		t.Errorf("Expected explicit Yes, got %q", rec.Value(models.FieldExplicit))
	}
	if rec.Value(models.FieldCoverArt) != "https://open.spotify.com/img/cover.png" {
		t.Errorf("Expected resolved cover URL, got %q", rec.Value(models.FieldCoverArt))
	}
	for _, f := range []models.Field{models.FieldArtist, models.FieldAlbum, models.FieldDuration, models.FieldDateAdded} {
		v, ok := rec.Fields[f]
		if !ok || v != "" {
			t.Errorf("%s: expected present empty value, got %q (present=%v)", f, v, ok)
		}
	}
}

func TestRowIndex(t *testing.T) {
	tests := []struct {
		cell string
		want int
	}{
		{"1", 1},
		{"  42 ", 42},
		{"12abc", 12},
		{"", -1},
		{"abc", -1},
		{"-3", -3},
		{"99999999999999999999999", -1},
		{"123456789012345678901234567890 rows", -1},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			doc, err := ParseSnapshot(`<div role="row"><div role="gridcell">` + tt.cell + `</div></div>`)
			if err != nil {
				t.Fatal(err)
			}
			if got := RowIndex(doc.Find(RowSelector)); got != tt.want {
				t.Errorf("RowIndex(%q) = %d, want %d", tt.cell, got, tt.want)
			}
		})
	}
}

func TestMaxIndex(t *testing.T) {
	doc, err := ParseSnapshot(grid(
		trackRow(5, "/track/A", "A", "", "", "", "X"),
		trackRow(9, "/track/B", "B", "", "", "", "X"),
		trackRow(2, "/track/C", "C", "", "", "", "X"),
	))
	if err != nil {
		t.Fatal(err)
	}
	if got := MaxIndex(doc.Find(RowSelector)); got != 9 {
		t.Errorf("Expected 9, got %d", got)
	}
}
