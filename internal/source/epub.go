package source

import (
	"fmt"
	"path"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/metcalfc/folio/internal/deck"
)

// EPUBFormat implements Format for EPUB files. Every spine document is a
// section named from the NCX table of contents, split into slides at
// level-one and level-two headings.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }

func (f *EPUBFormat) Load(filename string) (*Document, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, fmt.Errorf("no rootfiles found in epub")
	}

	book := rc.Rootfiles[0]
	titles := buildTOCHrefMap(filename, book)

	doc := &Document{Title: book.Title}
	section := 0
	for i, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			continue
		}
		root, err := html.Parse(r)
		r.Close()
		if err != nil {
			continue
		}

		slides := splitSlides(root)
		if len(slides) == 0 {
			continue
		}
		for j := range slides {
			slides[j].Section = section
			slides[j].Index = j
		}
		doc.Slides = append(doc.Slides, slides...)

		name := fmt.Sprintf("Section %d", i+1)
		if t, ok := titles[ref.Item.HREF]; ok {
			name = t
		} else if t, ok := titles[path.Base(ref.Item.HREF)]; ok {
			name = t
		} else if slides[0].Title != "" {
			name = slides[0].Title
		}
		doc.SectionNames = append(doc.SectionNames, name)
		section++
	}
	return doc, nil
}

// splitSlides cuts the body of an XHTML document into slides at h1 and
// h2 headings. Content before the first heading forms its own slide.
func splitSlides(root *html.Node) []deck.Slide {
	body := findFirst(root, atom.Body)
	if body == nil {
		body = root
	}

	var groups [][]*html.Node
	var current []*html.Node
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.DataAtom == atom.H1 || c.DataAtom == atom.H2:
				if len(current) > 0 {
					groups = append(groups, current)
				}
				current = []*html.Node{c}
			case c.Type == html.ElementNode && containsHeading(c):
				collect(c)
			default:
				current = append(current, c)
			}
		}
	}
	collect(body)
	if len(current) > 0 {
		groups = append(groups, current)
	}

	var slides []deck.Slide
	for _, g := range groups {
		container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
		for _, n := range g {
			n.Parent.RemoveChild(n)
			container.AppendChild(n)
		}
		s := slideFromNode(container)
		if s.Body == "" {
			continue
		}
		slides = append(slides, s)
	}
	return slides
}

func containsHeading(n *html.Node) bool {
	return findFirst(n, atom.H1) != nil || findFirst(n, atom.H2) != nil
}
