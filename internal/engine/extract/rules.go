package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/law-makers/plexport/pkg/models"
)

// MaxDateLength bounds the length, in characters, of a cell that may be read as a date
const MaxDateLength = 25

var (
	durationPattern = regexp.MustCompile(`^\d+:\d+$`)
	yearPattern     = regexp.MustCompile(`\b\d{4}\b`)
)

// CellContext carries the values already read from the row's links, which
// some cell rules compare against.
type CellContext struct {
	Title  string
	Artist string
	Album  string
}

// CellRule classifies the trimmed text of one grid cell.
// Rules are evaluated in order and the first match claims the cell.
type CellRule struct {
	Field models.Field
	Match func(text string, rc CellContext) bool
}

// DurationRule matches "m:ss" style track lengths
var DurationRule = CellRule{
	Field: models.FieldDuration,
	Match: func(text string, _ CellContext) bool {
		return durationPattern.MatchString(text)
	},
}

// DateAddedRule matches relative ("3 days ago") and absolute ("Mar 4, 2023")
// dates. A date equal to the title, artist or album text is not recognised.
var DateAddedRule = CellRule{
	Field: models.FieldDateAdded,
	Match: func(text string, rc CellContext) bool {
		if text == rc.Album || text == rc.Title || text == rc.Artist {
			return false
		}
		if utf8.RuneCountInString(text) >= MaxDateLength {
			return false
		}
		return strings.Contains(text, "ago") ||
			yearPattern.MatchString(text) ||
			strings.Contains(text, ",")
	},
}

// DefaultCellRules is the priority order used by NewParser
var DefaultCellRules = []CellRule{DurationRule, DateAddedRule}

// classifyCells runs rules over cell texts and returns the first claimed
// text per field.
func classifyCells(texts []string, rules []CellRule, rc CellContext) map[models.Field]string {
	found := make(map[models.Field]string)
	for _, text := range texts {
		for _, rule := range rules {
			if !rule.Match(text, rc) {
				continue
			}
			if _, ok := found[rule.Field]; !ok {
				found[rule.Field] = text
			}
			break
		}
	}
	return found
}
