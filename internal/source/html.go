package source

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/metcalfc/folio/internal/deck"
)

// HTMLFormat implements Format for HTML decks. Slides are elements with
// the "slide" class carrying integer data-section and data-slide
// attributes. Section names come from ".nav-link" elements in order.
type HTMLFormat struct{}

func init() {
	Register(&HTMLFormat{})
}

func (f *HTMLFormat) Name() string         { return "HTML" }
func (f *HTMLFormat) Extensions() []string { return []string{".html", ".htm"} }

func (f *HTMLFormat) Load(filename string) (*Document, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	root, err := html.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return parseHTMLDeck(root)
}

func parseHTMLDeck(root *html.Node) (*Document, error) {
	doc := &Document{}
	if t := findFirst(root, atom.Title); t != nil {
		doc.Title = textContent(t)
	}

	var slideNodes []*html.Node
	walkElements(root, func(n *html.Node) bool {
		switch {
		case hasClass(n, "nav-link"):
			doc.SectionNames = append(doc.SectionNames, textContent(n))
			return false
		case hasClass(n, "slide"):
			slideNodes = append(slideNodes, n)
			return false
		}
		return true
	})

	positional := true
	for _, n := range slideNodes {
		if _, ok := attr(n, "data-section"); ok {
			positional = false
			break
		}
	}

	for i, n := range slideNodes {
		s := slideFromNode(n)
		if positional {
			s.Index = i
		} else {
			var err error
			if s.Section, err = intAttr(n, "data-section"); err != nil {
				return nil, fmt.Errorf("slide %d: %w", i+1, err)
			}
			if s.Index, err = intAttr(n, "data-slide"); err != nil {
				return nil, fmt.Errorf("slide %d: %w", i+1, err)
			}
		}
		doc.Slides = append(doc.Slides, s)
	}
	return doc, nil
}

func slideFromNode(n *html.Node) deck.Slide {
	s := deck.Slide{Body: normalizeSpace(blockText(n))}
	if h := findFirst(n, atom.H1); h != nil {
		s.Title = textContent(h)
	} else if h := findFirst(n, atom.H2); h != nil {
		s.Title = textContent(h)
	}
	s.Markdown = strings.Join(markdownBlocks(n), "\n\n")

	walkElements(n, func(c *html.Node) bool {
		id, _ := attr(c, "id")
		switch {
		case id == "grade-scale-body":
			s.Widget = WidgetGrades
		case id == "definition1":
			s.Widget = WidgetScorer
		case s.Widget == "":
			if w, ok := attr(c, "data-widget"); ok {
				s.Widget = w
			}
		}
		return true
	})
	return s
}

func intAttr(n *html.Node, key string) (int, error) {
	v, ok := attr(n, key)
	if !ok {
		return 0, fmt.Errorf("missing %s attribute", key)
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return i, nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// walkElements calls fn for every element below n in document order.
// Returning false from fn skips the element's children.
func walkElements(n *html.Node, fn func(*html.Node) bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			if !fn(c) {
				continue
			}
		}
		walkElements(c, fn)
	}
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	walkElements(n, func(c *html.Node) bool {
		if found != nil {
			return false
		}
		if c.DataAtom == a {
			found = c
			return false
		}
		return true
	})
	return found
}

func skipped(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Template, atom.Noscript:
		return true
	}
	return false
}

// textContent returns the text below n with whitespace collapsed.
func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && skipped(n) {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Li, atom.Tr, atom.Pre,
		atom.Blockquote, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Table, atom.Ul, atom.Ol, atom.Br, atom.Header, atom.Footer:
		return true
	}
	return false
}

// blockText returns the text below n with one line per block element.
func blockText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && skipped(n) {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
		switch {
		case n.Type != html.ElementNode:
		case isBlock(n.DataAtom):
			buf.WriteByte('\n')
		case n.DataAtom == atom.Td || n.DataAtom == atom.Th:
			buf.WriteByte(' ')
		}
	}
	extract(n)
	return buf.String()
}

// markdownBlocks renders the block structure below n as Markdown
// paragraphs, enough for terminal display.
func markdownBlocks(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				if t := strings.Join(strings.Fields(c.Data), " "); t != "" {
					out = append(out, t)
				}
				continue
			}
			if c.Type != html.ElementNode || skipped(c) {
				continue
			}
			switch c.DataAtom {
			case atom.H1:
				out = append(out, "# "+textContent(c))
			case atom.H2:
				out = append(out, "## "+textContent(c))
			case atom.H3, atom.H4, atom.H5, atom.H6:
				out = append(out, "### "+textContent(c))
			case atom.P, atom.Blockquote:
				if t := textContent(c); t != "" {
					if c.DataAtom == atom.Blockquote {
						t = "> " + t
					}
					out = append(out, t)
				}
			case atom.Ul, atom.Ol:
				var items []string
				for li := c.FirstChild; li != nil; li = li.NextSibling {
					if li.DataAtom == atom.Li {
						items = append(items, "- "+textContent(li))
					}
				}
				if len(items) > 0 {
					out = append(out, strings.Join(items, "\n"))
				}
			case atom.Pre:
				out = append(out, "```\n"+strings.TrimRight(rawText(c), "\n")+"\n```")
			case atom.Tr:
				var cells []string
				for td := c.FirstChild; td != nil; td = td.NextSibling {
					if td.DataAtom == atom.Td || td.DataAtom == atom.Th {
						cells = append(cells, textContent(td))
					}
				}
				if len(cells) > 0 {
					out = append(out, strings.Join(cells, " | "))
				}
			case atom.Textarea, atom.Input, atom.Button, atom.Select:
				// interactive controls are rendered by widgets
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return out
}

func rawText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}
