// Package deck holds the two-level (section, slide) index of a presentation
// and the mapping between hierarchical and flat slide addresses.
package deck

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultTitle is used for slides without a heading.
const DefaultTitle = "Untitled"

var (
	// ErrSparseSection is returned when section indices skip a value.
	ErrSparseSection = errors.New("section indices are not dense")
	// ErrSparseSlide is returned when slide indices inside a section skip a value.
	ErrSparseSlide = errors.New("slide indices are not dense")
	// ErrDuplicateSlide is returned when two slides claim the same coordinates.
	ErrDuplicateSlide = errors.New("duplicate slide coordinates")
	// ErrNegativeIndex is returned for negative section or slide indices.
	ErrNegativeIndex = errors.New("negative slide coordinates")
)

// Slide is the smallest navigable unit of a deck.
type Slide struct {
	Section  int
	Index    int
	Title    string
	Body     string // plain text, used for search
	Markdown string // renderable content
	Widget   string // embedded widget name, empty for none
}

// Section is a named, ordered, non-empty group of slides.
type Section struct {
	Name   string
	Slides []Slide
}

// Position addresses a slide by section and slide index.
type Position struct {
	Section int
	Slide   int
}

func (p Position) String() string {
	return fmt.Sprintf("%d.%d", p.Section+1, p.Slide+1)
}

// Deck is the immutable, ordered collection of sections.
type Deck struct {
	sections []Section
	offsets  []int // offsets[s] = number of slides before section s
	total    int
}

// Build groups slides into sections. Section and slide indices must form
// dense ranges starting at zero. names supplies section names by position;
// missing or blank names fall back to "Section N".
//
// An empty slide list yields an empty deck on which navigation is inert.
func Build(slides []Slide, names []string) (*Deck, error) {
	if len(slides) == 0 {
		return &Deck{}, nil
	}

	grouped := make(map[int][]Slide)
	maxSection := -1
	for _, s := range slides {
		if s.Section < 0 || s.Index < 0 {
			return nil, fmt.Errorf("%w: section %d slide %d", ErrNegativeIndex, s.Section, s.Index)
		}
		grouped[s.Section] = append(grouped[s.Section], s)
		if s.Section > maxSection {
			maxSection = s.Section
		}
	}

	d := &Deck{
		sections: make([]Section, 0, maxSection+1),
		offsets:  make([]int, 0, maxSection+1),
	}
	for si := 0; si <= maxSection; si++ {
		group, ok := grouped[si]
		if !ok {
			return nil, fmt.Errorf("%w: section %d is missing", ErrSparseSection, si)
		}
		sort.SliceStable(group, func(a, b int) bool { return group[a].Index < group[b].Index })
		for i, s := range group {
			if s.Index == i {
				if strings.TrimSpace(s.Title) == "" {
					group[i].Title = DefaultTitle
				}
				continue
			}
			if s.Index < i {
				return nil, fmt.Errorf("%w: section %d slide %d", ErrDuplicateSlide, si, s.Index)
			}
			return nil, fmt.Errorf("%w: section %d is missing slide %d", ErrSparseSlide, si, i)
		}

		d.offsets = append(d.offsets, d.total)
		d.sections = append(d.sections, Section{
			Name:   sectionName(names, si),
			Slides: group,
		})
		d.total += len(group)
	}
	return d, nil
}

// Renumber assigns dense coordinates to slides in order, starting a new
// section whenever the section value changes. Loaders that discover slides
// positionally use it to guarantee Build succeeds.
func Renumber(slides []Slide) []Slide {
	out := make([]Slide, len(slides))
	section, index := -1, 0
	prev := 0
	for i, s := range slides {
		if i == 0 || s.Section != prev {
			section++
			index = 0
		}
		prev = s.Section
		s.Section = section
		s.Index = index
		index++
		out[i] = s
	}
	return out
}

func sectionName(names []string, i int) string {
	if i < len(names) {
		if n := strings.TrimSpace(names[i]); n != "" {
			return n
		}
	}
	return fmt.Sprintf("Section %d", i+1)
}

// Sections returns the sections in order. Callers must not modify the result.
func (d *Deck) Sections() []Section { return d.sections }

// Len returns the number of sections.
func (d *Deck) Len() int { return len(d.sections) }

// Total returns the number of slides across all sections.
func (d *Deck) Total() int { return d.total }

// Empty reports whether the deck has no slides.
func (d *Deck) Empty() bool { return d.total == 0 }

// SectionLen returns the number of slides in section s, or 0 if s does not exist.
func (d *Deck) SectionLen(s int) int {
	if s < 0 || s >= len(d.sections) {
		return 0
	}
	return len(d.sections[s].Slides)
}

// Valid reports whether p addresses an existing slide.
func (d *Deck) Valid(p Position) bool {
	return p.Slide >= 0 && p.Slide < d.SectionLen(p.Section)
}

// Slide returns the slide at p.
func (d *Deck) Slide(p Position) (Slide, bool) {
	if !d.Valid(p) {
		return Slide{}, false
	}
	return d.sections[p.Section].Slides[p.Slide], true
}

// SectionName returns the display name of section s.
func (d *Deck) SectionName(s int) string {
	if s < 0 || s >= len(d.sections) {
		return ""
	}
	return d.sections[s].Name
}

// Last returns the position of the final slide. On an empty deck it
// returns the zero Position, which is not Valid.
func (d *Deck) Last() Position {
	if d.Empty() {
		return Position{}
	}
	s := len(d.sections) - 1
	return Position{Section: s, Slide: len(d.sections[s].Slides) - 1}
}
