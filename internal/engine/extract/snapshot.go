package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseSnapshot parses the outer HTML of the rendered rows into a document
func ParseSnapshot(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse row snapshot: %w", err)
	}
	return doc, nil
}
