package extract

import (
	"testing"

	"github.com/law-makers/plexport/pkg/models"
)

func TestDefaultCellRules(t *testing.T) {
	rc := CellContext{Title: "Song", Artist: "Band", Album: "Best of, Vol. 2"}

	tests := []struct {
		text string
		want models.Field
		ok   bool
	}{
		{"3:45", models.FieldDuration, true},
		{"12:05", models.FieldDuration, true},
		{"1:02:03", 0, false},
		{"2 weeks ago", models.FieldDateAdded, true},
		{"Jan 2, 2021", models.FieldDateAdded, true},
		{"2019", models.FieldDateAdded, true},
		{"Best of, Vol. 2", 0, false},
		{"A very long line, with a comma in it", 0, false},
		{"Plain text", 0, false},
		{"15 декабря 2023 г.", models.FieldDateAdded, true},
		// 24 characters matches and 25 does not, whatever the byte length
		{"Added on the 1st, 2020 x", models.FieldDateAdded, true},
		{"Added on the 1st, 2020 xy", 0, false},
		{"добавлено 1 марта 2020 г", models.FieldDateAdded, true},
		{"добавлено 1 марта 2020 г.", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			found := classifyCells([]string{tt.text}, DefaultCellRules, rc)
			if !tt.ok {
				if len(found) != 0 {
					t.Errorf("Expected no match, got %v", found)
				}
				return
			}
			if found[tt.want] != tt.text {
				t.Errorf("Expected %s to claim %q, got %v", tt.want, tt.text, found)
			}
		})
	}
}

func TestClassifyCells_FirstMatchWins(t *testing.T) {
	found := classifyCells([]string{"1", "5 days ago", "3:10", "Mar 1, 2020", "4:00"}, DefaultCellRules, CellContext{})

	if found[models.FieldDuration] != "3:10" {
		t.Errorf("Expected first duration 3:10, got %q", found[models.FieldDuration])
	}
	if found[models.FieldDateAdded] != "5 days ago" {
		t.Errorf("Expected first date '5 days ago', got %q", found[models.FieldDateAdded])
	}
}

func TestClassifyCells_DateEqualToTitleIsDropped(t *testing.T) {
	// Known gap: a date whose text equals the title is never read as a date.
	found := classifyCells([]string{"May 1, 2020"}, DefaultCellRules, CellContext{Title: "May 1, 2020"})
	if _, ok := found[models.FieldDateAdded]; ok {
		t.Errorf("Expected date equal to title to be dropped, got %v", found)
	}
}

func TestParser_CustomRules(t *testing.T) {
	bpm := CellRule{
		Field: models.FieldDuration,
		Match: func(text string, _ CellContext) bool { return text == "128 BPM" },
	}
	p := NewParser(Options{Rules: []CellRule{bpm}})

	batch := mustParse(t, p, grid(trackRow(1, "/track/A", "A", "", "", "128 BPM", "X")),
		models.NewRunConfiguration(models.FieldDuration), nil)
	if len(batch.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(batch.Records))
	}
	if got := batch.Records[0].Value(models.FieldDuration); got != "128 BPM" {
		t.Errorf("Expected custom rule value, got %q", got)
	}
}
