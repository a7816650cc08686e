package output

import (
	"bytes"
	"strconv"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/law-makers/plexport/pkg/models"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// BuildMarkdown renders records as a GitHub-flavored Markdown table
func BuildMarkdown(records []models.TrackRecord, cfg models.RunConfiguration) (string, error) {
	table, err := renderTable(records, cfg)
	if err != nil {
		return "", err
	}

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	mdStr, err := converter.ConvertString(table)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(mdStr) + "\n", nil
}

// renderTable builds an HTML table of the enabled columns
func renderTable(records []models.TrackRecord, cfg models.RunConfiguration) (string, error) {
	cols := cfg.Columns()

	table := element(atom.Table)
	thead := element(atom.Thead)
	headRow := element(atom.Tr)
	for _, f := range cols {
		headRow.AppendChild(cell(atom.Th, f.Label()))
	}
	thead.AppendChild(headRow)
	table.AppendChild(thead)

	tbody := element(atom.Tbody)
	for _, rec := range records {
		tr := element(atom.Tr)
		for _, f := range cols {
			value := rec.Value(f)
			if f == models.FieldIndex {
				value = strconv.Itoa(rec.Index)
			}
			tr.AppendChild(cell(atom.Td, value))
		}
		tbody.AppendChild(tr)
	}
	table.AppendChild(tbody)

	var buf bytes.Buffer
	if err := html.Render(&buf, table); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func cell(a atom.Atom, text string) *html.Node {
	n := element(a)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
