// Package contents derives the table of contents and full-text search
// results from a deck. Neither changes position; callers hand the selected
// Position to the navigator.
package contents

import (
	"fmt"

	"github.com/metcalfc/folio/internal/deck"
)

// Row is one slide entry in the table of contents.
type Row struct {
	Position deck.Position
	Number   string // "section.slide", 1-based
	Title    string
}

// Group is one section of the table of contents.
type Group struct {
	Section int
	Name    string
	Rows    []Row
}

// TOC builds one group per section and one row per slide.
func TOC(d *deck.Deck) []Group {
	groups := make([]Group, 0, d.Len())
	for si, sec := range d.Sections() {
		g := Group{
			Section: si,
			Name:    sec.Name,
			Rows:    make([]Row, 0, len(sec.Slides)),
		}
		for i, s := range sec.Slides {
			g.Rows = append(g.Rows, Row{
				Position: deck.Position{Section: si, Slide: i},
				Number:   Number(deck.Position{Section: si, Slide: i}),
				Title:    s.Title,
			})
		}
		groups = append(groups, g)
	}
	return groups
}

// Number formats p as "section.slide", both 1-based.
func Number(p deck.Position) string {
	return fmt.Sprintf("%d.%d", p.Section+1, p.Slide+1)
}

// Flatten returns all rows in deck order, which is convenient for
// cursor-driven lists.
func Flatten(groups []Group) []Row {
	var rows []Row
	for _, g := range groups {
		rows = append(rows, g.Rows...)
	}
	return rows
}
