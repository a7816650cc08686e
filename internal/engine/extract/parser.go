// Package extract reads track records out of the rendered rows of a playlist grid.
//
// The parser works on an HTML snapshot of the rows currently materialized by
// the page. Every heuristic failure degrades to an empty value; nothing in this
// package aborts a run.
package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	urlutil "github.com/law-makers/plexport/internal/utils/url"
	"github.com/law-makers/plexport/pkg/models"
)

// Selectors used against a row snapshot
const (
	RowSelector       = `div[role="row"]`
	CellSelector      = `div[role="gridcell"]`
	TrackLinkSelector = `a[href*="/track/"]`
	ArtistSelector    = `a[href*="/artist/"]`
	AlbumSelector     = `a[href*="/album/"]`
	ExplicitSelector  = `[aria-label="Explicit"], [title="Explicit"]`
	ArtistSeparator   = "; "
)

// Options configures a Parser
type Options struct {
	// TrackBaseURL is prefixed to the track href to build the URL field
	TrackBaseURL string
	// PageURL resolves relative cover image sources
	PageURL string
	// Rules overrides DefaultCellRules when non-nil
	Rules []CellRule
}

// Parser extracts TrackRecords from rendered rows
type Parser struct {
	baseURL string
	pageURL string
	rules   []CellRule
}

// Batch is the result of parsing one snapshot
type Batch struct {
	// MaxIndex is the highest row index among all rendered rows, -1 if none parsed
	MaxIndex int
	// Records holds rows whose identity was not already known, in DOM order
	Records []models.TrackRecord
	// Rows is the number of rendered rows seen
	Rows int
}

// NewParser creates a Parser
func NewParser(opts Options) *Parser {
	rules := opts.Rules
	if rules == nil {
		rules = DefaultCellRules
	}
	return &Parser{
		baseURL: strings.TrimRight(opts.TrackBaseURL, "/"),
		pageURL: opts.PageURL,
		rules:   rules,
	}
}

// Parse evaluates every rendered row. known reports identities that are already
// collected; those rows only contribute to MaxIndex.
func (p *Parser) Parse(rows *goquery.Selection, cfg models.RunConfiguration, known func(id string) bool) Batch {
	batch := Batch{MaxIndex: -1}
	seen := make(map[string]struct{})

	rows.Each(func(_ int, row *goquery.Selection) {
		batch.Rows++

		index := RowIndex(row)
		if index == -1 {
			return
		}
		if index > batch.MaxIndex {
			batch.MaxIndex = index
		}

		link := row.Find(TrackLinkSelector).First()
		id, ok := link.Attr("href")
		if !ok || id == "" {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		if known != nil && known(id) {
			return
		}
		seen[id] = struct{}{}

		batch.Records = append(batch.Records, p.record(row, link, id, index, cfg))
	})

	return batch
}

// ParseDocument is Parse over all rows found in doc
func (p *Parser) ParseDocument(doc *goquery.Document, cfg models.RunConfiguration, known func(id string) bool) Batch {
	return p.Parse(doc.Find(RowSelector), cfg, known)
}

func (p *Parser) record(row, link *goquery.Selection, id string, index int, cfg models.RunConfiguration) models.TrackRecord {
	rec := models.TrackRecord{
		ID:     id,
		Index:  index,
		Fields: make(map[models.Field]string),
	}

	var rc CellContext
	if cfg.Enabled(models.FieldTitle) {
		rc.Title = visibleText(link)
		rec.Fields[models.FieldTitle] = rc.Title
	}
	if cfg.Enabled(models.FieldArtist) {
		var artists []string
		row.Find(ArtistSelector).Each(func(_ int, a *goquery.Selection) {
			artists = append(artists, visibleText(a))
		})
		rc.Artist = strings.Join(artists, ArtistSeparator)
		rec.Fields[models.FieldArtist] = rc.Artist
	}
	if cfg.Enabled(models.FieldAlbum) {
		rc.Album = visibleText(row.Find(AlbumSelector).First())
		rec.Fields[models.FieldAlbum] = rc.Album
	}

	if cfg.Enabled(models.FieldDateAdded) || cfg.Enabled(models.FieldDuration) {
		var texts []string
		row.Find(CellSelector).Each(func(_ int, cell *goquery.Selection) {
			texts = append(texts, visibleText(cell))
		})
		found := classifyCells(texts, p.rules, rc)
		for _, f := range []models.Field{models.FieldDuration, models.FieldDateAdded} {
			if cfg.Enabled(f) {
				rec.Fields[f] = found[f]
			}
		}
	}

	if cfg.Enabled(models.FieldURL) {
		rec.Fields[models.FieldURL] = p.baseURL + id
	}
	if cfg.Enabled(models.FieldCoverArt) {
		cover := ""
		if src, ok := row.Find("img").First().Attr("src"); ok && src != "" {
			cover = src
			if p.pageURL != "" {
				cover = urlutil.ResolveURL(p.pageURL, src)
			}
		}
		rec.Fields[models.FieldCoverArt] = cover
	}
	if cfg.Enabled(models.FieldExplicit) {
		explicit := "No"
		if row.Find(ExplicitSelector).Length() > 0 {
			explicit = "Yes"
		}
		rec.Fields[models.FieldExplicit] = explicit
	}

	return rec
}

// MaxIndex returns the highest parsable row index, or -1
func MaxIndex(rows *goquery.Selection) int {
	maxIndex := -1
	rows.Each(func(_ int, row *goquery.Selection) {
		if i := RowIndex(row); i > maxIndex {
			maxIndex = i
		}
	})
	return maxIndex
}

// RowIndex reads the ordinal from the row's first cell, -1 when absent or not numeric
func RowIndex(row *goquery.Selection) int {
	cell := row.Find(CellSelector).First()
	if cell.Length() == 0 {
		return -1
	}
	n, ok := leadingInt(visibleText(cell))
	if !ok {
		return -1
	}
	return n
}

// leadingInt parses an optional sign followed by decimal digits at the start
// of s. A digit run too long for an int is not a number.
func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// visibleText approximates innerText: source whitespace collapsed and trimmed
func visibleText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
