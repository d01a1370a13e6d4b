package deck

import "sort"

// ToGlobal maps p to its zero-based position in the flattened deck.
// It returns -1 when p does not address a slide.
func (d *Deck) ToGlobal(p Position) int {
	if !d.Valid(p) {
		return -1
	}
	return d.offsets[p.Section] + p.Slide
}

// FromGlobal maps a flattened index back to a position. Indices outside
// [0, Total()) clamp to the last slide of the last section, so stale
// indices from the UI still land somewhere sensible.
func (d *Deck) FromGlobal(g int) Position {
	if d.Empty() {
		return Position{}
	}
	if g < 0 || g >= d.total {
		return d.Last()
	}
	// First section whose start is past g, minus one.
	s := sort.Search(len(d.offsets), func(i int) bool { return d.offsets[i] > g }) - 1
	return Position{Section: s, Slide: g - d.offsets[s]}
}
