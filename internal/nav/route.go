package nav

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/metcalfc/folio/internal/deck"
)

var fragmentRe = regexp.MustCompile(`^section-(\d+)-slide-(\d+)$`)

// Fragment formats p as an address fragment, without the leading '#'.
func Fragment(p deck.Position) string {
	return fmt.Sprintf("section-%d-slide-%d", p.Section, p.Slide)
}

// ParseFragment parses "section-N-slide-M", with or without a leading '#'.
func ParseFragment(s string) (deck.Position, bool) {
	m := fragmentRe.FindStringSubmatch(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if m == nil {
		return deck.Position{}, false
	}
	section, err := strconv.Atoi(m[1])
	if err != nil {
		return deck.Position{}, false
	}
	slide, err := strconv.Atoi(m[2])
	if err != nil {
		return deck.Position{}, false
	}
	return deck.Position{Section: section, Slide: slide}, true
}

// Router feeds address fragments into a Navigator and keeps a
// back/forward history of the fragments it has seen committed.
type Router struct {
	nav     *Navigator
	history *History
	log     *zap.Logger
	routing bool
}

// NewRouter attaches a router to n. The router records every committed
// transition so Back and Forward can replay them.
func NewRouter(n *Navigator, limit int, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Router{
		nav:     n,
		history: NewHistory(limit),
		log:     log,
	}
	r.history.Push(Fragment(n.Position()))
	n.Subscribe(func(s Snapshot) {
		if r.routing || s.Fragment == "" {
			return
		}
		r.history.Push(s.Fragment)
	})
	return r
}

// Route navigates to the slide named by fragment. Malformed fragments,
// fragments naming missing slides and fragments equal to the current
// position are ignored.
func (r *Router) Route(fragment string) bool {
	p, ok := ParseFragment(fragment)
	if !ok {
		r.log.Debug("ignored malformed fragment", zap.String("fragment", fragment))
		return false
	}
	if p == r.nav.Position() {
		return false
	}
	return r.nav.GoTo(p.Section, p.Slide)
}

// Back routes to the previous fragment in history.
func (r *Router) Back() bool {
	return r.replay(r.history.Back)
}

// Forward routes to the next fragment in history.
func (r *Router) Forward() bool {
	return r.replay(r.history.Forward)
}

func (r *Router) replay(step func() (string, bool)) bool {
	for {
		frag, ok := step()
		if !ok {
			return false
		}
		// Entries can go stale after a reload; skip over them.
		r.routing = true
		moved := r.Route(frag)
		r.routing = false
		if moved {
			return true
		}
	}
}

// History is a bounded browser-style history of fragments.
type History struct {
	entries []string
	cursor  int
	limit   int
}

// NewHistory creates a history holding at most limit entries. A limit below
// one means 100.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = 100
	}
	return &History{cursor: -1, limit: limit}
}

// Push records a new entry, discarding any forward entries. Pushing the
// current entry again is a no-op.
func (h *History) Push(fragment string) {
	if h.cursor >= 0 && h.entries[h.cursor] == fragment {
		return
	}
	h.entries = append(h.entries[:h.cursor+1], fragment)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
	h.cursor = len(h.entries) - 1
}

// Back moves the cursor back one entry.
func (h *History) Back() (string, bool) {
	if h.cursor <= 0 {
		return "", false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Forward moves the cursor forward one entry.
func (h *History) Forward() (string, bool) {
	if h.cursor >= len(h.entries)-1 {
		return "", false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }
