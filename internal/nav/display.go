package nav

import (
	"fmt"

	"github.com/metcalfc/folio/internal/deck"
)

// Annotation labels a slide by its 1-based global number.
type Annotation struct {
	Slide int    `koanf:"slide" yaml:"slide"`
	Label string `koanf:"label" yaml:"label"`
}

// Annotations maps 1-based global slide numbers to labels.
type Annotations map[int]string

// NewAnnotations indexes an ordered annotation list. Later entries for the
// same slide win.
func NewAnnotations(list []Annotation) Annotations {
	a := make(Annotations, len(list))
	for _, e := range list {
		if e.Slide < 1 {
			continue
		}
		a[e.Slide] = e.Label
	}
	return a
}

// Dot is one entry of the dot rail.
type Dot struct {
	Global  int
	Active  bool
	Special bool
	Tooltip string
}

// SectionLink is one entry of the section navigation bar.
type SectionLink struct {
	Index   int
	Name    string
	Active  bool
	Current string // "page" on the active link, mirrors aria-current
}

// Snapshot is the complete position-dependent display state. It is derived
// from the deck, the position and the annotations only.
type Snapshot struct {
	Position     deck.Position
	Global       int
	Number       int
	Total        int
	Counter      string
	Percent      float64
	Dots         []Dot
	CanPrev      bool
	CanNext      bool
	Links        []SectionLink
	Fragment     string
	SectionName  string
	SlideTitle   string
	SlideNumber  string
	SectionSlide string // e.g. "2 / 3" within the current section
}

// Sync derives the display state for position p. On an empty deck or an
// invalid position every control is disabled and the percentage is zero.
func Sync(d *deck.Deck, p deck.Position, ann Annotations) Snapshot {
	total := d.Total()
	g := d.ToGlobal(p)

	snap := Snapshot{
		Position: p,
		Global:   g,
		Total:    total,
		Counter:  fmt.Sprintf("0 / %d", total),
	}
	if g < 0 {
		snap.Links = links(d, -1)
		return snap
	}

	snap.Number = g + 1
	snap.Counter = fmt.Sprintf("%d / %d", snap.Number, total)
	snap.Dots = Rail(total, g, ann)
	snap.Percent = 100 * float64(g+1) / float64(total)
	snap.CanPrev = g > 0
	snap.CanNext = g < total-1
	snap.Links = links(d, p.Section)
	snap.Fragment = Fragment(p)
	snap.SectionName = d.SectionName(p.Section)
	snap.SlideNumber = p.String()
	snap.SectionSlide = fmt.Sprintf("%d / %d", p.Slide+1, d.SectionLen(p.Section))
	if s, ok := d.Slide(p); ok {
		snap.SlideTitle = s.Title
	}
	return snap
}

// Rail builds the dot rail for a deck of total slides with the given active
// global index. It always returns a fresh slice.
func Rail(total, active int, ann Annotations) []Dot {
	dots := make([]Dot, total)
	for i := range dots {
		label, special := ann[i+1]
		dots[i] = Dot{
			Global:  i,
			Active:  i == active,
			Special: special,
			Tooltip: label,
		}
	}
	return dots
}

func links(d *deck.Deck, active int) []SectionLink {
	out := make([]SectionLink, d.Len())
	for i, s := range d.Sections() {
		out[i] = SectionLink{Index: i, Name: s.Name}
		if i == active {
			out[i].Active = true
			out[i].Current = "page"
		}
	}
	return out
}
