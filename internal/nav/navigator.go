// Package nav owns the current slide position, the display state derived
// from it, and address fragment routing.
package nav

import (
	"go.uber.org/zap"

	"github.com/metcalfc/folio/internal/deck"
)

// Listener receives the display state after every committed transition.
type Listener func(Snapshot)

// Navigator is the single owner of the current position. All transitions go
// through GoTo, which either commits a valid position and notifies listeners
// or leaves everything untouched.
//
// A Navigator is not safe for concurrent use; the UI event loop serializes
// access.
type Navigator struct {
	deck      *deck.Deck
	ann       Annotations
	pos       deck.Position
	snap      Snapshot
	listeners []Listener
	log       *zap.Logger
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithAnnotations sets the special-slide annotations used for the dot rail.
func WithAnnotations(a Annotations) Option {
	return func(n *Navigator) { n.ann = a }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(n *Navigator) {
		if l != nil {
			n.log = l
		}
	}
}

// New creates a Navigator positioned at the first slide.
func New(d *deck.Deck, opts ...Option) *Navigator {
	n := &Navigator{
		deck: d,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.snap = Sync(n.deck, n.pos, n.ann)
	return n
}

// Deck returns the deck being navigated.
func (n *Navigator) Deck() *deck.Deck { return n.deck }

// Position returns the current position.
func (n *Navigator) Position() deck.Position { return n.pos }

// Global returns the current flattened index, or -1 on an empty deck.
func (n *Navigator) Global() int { return n.deck.ToGlobal(n.pos) }

// Snapshot returns the display state for the current position.
func (n *Navigator) Snapshot() Snapshot { return n.snap }

// Current returns the slide at the current position.
func (n *Navigator) Current() (deck.Slide, bool) { return n.deck.Slide(n.pos) }

// Subscribe registers a listener for committed transitions.
func (n *Navigator) Subscribe(l Listener) {
	n.listeners = append(n.listeners, l)
}

// GoTo moves to the given slide. It returns false, with no side effects, if
// the target does not exist.
func (n *Navigator) GoTo(section, slide int) bool {
	target := deck.Position{Section: section, Slide: slide}
	if !n.deck.Valid(target) {
		n.log.Debug("rejected transition",
			zap.Int("section", section),
			zap.Int("slide", slide))
		return false
	}
	n.commit(target)
	return true
}

// Next advances one slide, crossing into the next section when needed.
func (n *Navigator) Next() bool {
	p := n.pos
	switch {
	case p.Slide < n.deck.SectionLen(p.Section)-1:
		return n.GoTo(p.Section, p.Slide+1)
	case p.Section < n.deck.Len()-1:
		return n.GoTo(p.Section+1, 0)
	}
	return false
}

// Prev retreats one slide, moving to the last slide of the previous section
// when needed.
func (n *Navigator) Prev() bool {
	p := n.pos
	switch {
	case p.Slide > 0:
		return n.GoTo(p.Section, p.Slide-1)
	case p.Section > 0:
		return n.GoTo(p.Section-1, n.deck.SectionLen(p.Section-1)-1)
	}
	return false
}

// GoToSection moves to the first slide of section s.
func (n *Navigator) GoToSection(s int) bool {
	return n.GoTo(s, 0)
}

// GoToGlobal moves to a flattened index. Out of range indices land on the
// last slide.
func (n *Navigator) GoToGlobal(g int) bool {
	p := n.deck.FromGlobal(g)
	return n.GoTo(p.Section, p.Slide)
}

// First moves to the first slide of the deck.
func (n *Navigator) First() bool { return n.GoTo(0, 0) }

// Last moves to the last slide of the deck.
func (n *Navigator) Last() bool {
	p := n.deck.Last()
	return n.GoTo(p.Section, p.Slide)
}

// Reload replaces the deck, keeping the current position when it still
// exists and otherwise clamping by global index. Listeners are always
// notified because the derived state depends on the deck.
func (n *Navigator) Reload(d *deck.Deck) {
	g := n.deck.ToGlobal(n.pos)
	n.deck = d
	target := n.pos
	if !d.Valid(target) {
		target = d.FromGlobal(g)
	}
	n.log.Info("deck reloaded",
		zap.Int("sections", d.Len()),
		zap.Int("slides", d.Total()),
		zap.Stringer("position", target))
	n.commit(target)
}

func (n *Navigator) commit(p deck.Position) {
	n.pos = p
	n.snap = Sync(n.deck, n.pos, n.ann)
	n.log.Debug("transition",
		zap.Stringer("position", p),
		zap.Int("global", n.snap.Global))
	for _, l := range n.listeners {
		l(n.snap)
	}
}
