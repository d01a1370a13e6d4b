package contents

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/metcalfc/folio/internal/deck"
)

const (
	// SnippetBefore is the number of characters kept before a match.
	SnippetBefore = 60
	// SnippetAfter is the number of characters kept after the match start.
	SnippetAfter = 100
	// Ellipsis marks a clipped snippet edge.
	Ellipsis = "..."
)

// State describes what a search result list should display.
type State int

const (
	// StatePrompt means the query was blank.
	StatePrompt State = iota
	// StateEmpty means nothing matched.
	StateEmpty
	// StateFound means at least one slide matched.
	StateFound
)

// Results is the outcome of a search.
type Results struct {
	Query string
	State State
	Hits  []Hit
}

// Message returns the placeholder text for non-Found states.
func (r Results) Message() string {
	switch r.State {
	case StatePrompt:
		return "Enter a search term..."
	case StateEmpty:
		return "No results found"
	}
	return ""
}

// Hit is a matching slide.
type Hit struct {
	Position    deck.Position
	SectionName string
	Number      string
	Title       string
	Snippet     Snippet
}

// Heading is the one-line description of the hit, e.g. "Intro 1.2: Title".
func (h Hit) Heading() string {
	return h.SectionName + " " + h.Number + ": " + h.Title
}

// Span is a half-open byte range within Snippet.Text.
type Span struct {
	Start, End int
}

// Snippet is a window of slide text around the first match.
type Snippet struct {
	Text       string
	Highlights []Span
}

// Render returns Text with every highlighted span passed through mark.
func (s Snippet) Render(mark func(string) string) string {
	var b strings.Builder
	last := 0
	for _, h := range s.Highlights {
		b.WriteString(s.Text[last:h.Start])
		b.WriteString(mark(s.Text[h.Start:h.End]))
		last = h.End
	}
	b.WriteString(s.Text[last:])
	return b.String()
}

// Search matches query case-insensitively as a literal substring against
// the body of every slide, in deck order.
func Search(d *deck.Deck, query string) Results {
	res := Results{Query: query}
	if strings.TrimSpace(query) == "" {
		res.State = StatePrompt
		return res
	}

	for si, sec := range d.Sections() {
		for i, s := range sec.Slides {
			start, _ := indexFold(s.Body, query, 0)
			if start < 0 {
				continue
			}
			p := deck.Position{Section: si, Slide: i}
			res.Hits = append(res.Hits, Hit{
				Position:    p,
				SectionName: sec.Name,
				Number:      Number(p),
				Title:       s.Title,
				Snippet:     makeSnippet(s.Body, start, query),
			})
		}
	}

	res.State = StateEmpty
	if len(res.Hits) > 0 {
		res.State = StateFound
	}
	return res
}

func makeSnippet(body string, match int, query string) Snippet {
	runes := []rune(body)
	at := utf8.RuneCountInString(body[:match])

	start := max(0, at-SnippetBefore)
	end := min(len(runes), at+SnippetAfter)

	core := string(runes[start:end])
	prefix := ""
	if start > 0 {
		prefix = Ellipsis
	}
	text := prefix + core
	if end < len(runes) {
		text += Ellipsis
	}

	var spans []Span
	for from := 0; from < len(core); {
		i, n := indexFold(core, query, from)
		if i < 0 {
			break
		}
		spans = append(spans, Span{Start: len(prefix) + i, End: len(prefix) + i + n})
		from = i + n
	}
	return Snippet{Text: text, Highlights: spans}
}

// indexFold returns the byte offset and byte length of the first
// case-insensitive occurrence of substr in s at or after from, or -1.
func indexFold(s, substr string, from int) (int, int) {
	if substr == "" {
		return -1, 0
	}
	for i := from; i < len(s); {
		if n := prefixFold(s[i:], substr); n > 0 {
			return i, n
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return -1, 0
}

// prefixFold reports the byte length of the prefix of s that equals prefix
// under simple case folding, or 0 if there is none.
func prefixFold(s, prefix string) int {
	n := 0
	for _, pr := range prefix {
		if n >= len(s) {
			return 0
		}
		sr, size := utf8.DecodeRuneInString(s[n:])
		if !foldEqual(sr, pr) {
			return 0
		}
		n += size
	}
	return n
}

func foldEqual(a, b rune) bool {
	if a == b {
		return true
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}
