package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/metcalfc/folio/internal/deck"
)

// MarkdownFormat implements Format for Markdown decks.
//
// A level-one heading opens a section and its title slide. A level-two
// heading or a thematic break line ("---", "***", "___") opens a new slide
// in the current section. Fenced code is never split.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown", ".txt"} }

func (f *MarkdownFormat) Load(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return parseMarkdown(data), nil
}

// ReadMarkdown loads a Markdown deck from r, for decks piped on stdin.
func ReadMarkdown(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	return parseMarkdown(data), nil
}

var (
	// headerRegex matches ATX headers (# to ######)
	headerRegex = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)
	ruleRegex   = regexp.MustCompile(`^\s{0,3}(-{3,}|\*{3,}|_{3,})\s*$`)
	fenceRegex  = regexp.MustCompile("^\\s{0,3}(`{3,}|~{3,})")
	widgetRegex = regexp.MustCompile(`<!--\s*widget:\s*([\w-]+)\s*-->`)
)

type mdSegment struct {
	section int
	lines   []string
}

func parseMarkdown(src []byte) *Document {
	var (
		segments []mdSegment
		names    = map[int]string{}
		current  *mdSegment
		section  = -1
		fence    string
	)

	open := func() {
		if section < 0 {
			section = 0
		}
		segments = append(segments, mdSegment{section: section})
		current = &segments[len(segments)-1]
	}

	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if fence != "" {
			if strings.HasPrefix(strings.TrimSpace(line), fence) {
				fence = ""
			}
			current.lines = append(current.lines, line)
			continue
		}

		switch {
		case fenceRegex.MatchString(line):
			fence = fenceRegex.FindStringSubmatch(line)[1]
		case ruleRegex.MatchString(line):
			open()
			continue
		default:
			if match := headerRegex.FindStringSubmatch(line); match != nil {
				switch len(match[1]) {
				case 1:
					section++
					names[section] = strings.TrimSpace(match[2])
					open()
				case 2:
					open()
				}
			}
		}

		if current == nil {
			open()
		}
		current.lines = append(current.lines, line)
	}

	md := goldmark.New()
	doc := &Document{}
	var slides []deck.Slide
	for _, seg := range segments {
		raw := strings.TrimSpace(strings.Join(seg.lines, "\n"))
		if raw == "" {
			continue
		}
		title, body := markdownText(md, []byte(raw))
		s := deck.Slide{
			Section:  seg.section,
			Title:    title,
			Body:     body,
			Markdown: widgetRegex.ReplaceAllString(raw, ""),
		}
		if m := widgetRegex.FindStringSubmatch(raw); m != nil {
			s.Widget = m[1]
		}
		slides = append(slides, s)
	}

	doc.Slides = deck.Renumber(slides)
	prev := -1
	for i, s := range slides {
		if i == 0 || s.Section != prev {
			doc.SectionNames = append(doc.SectionNames, names[s.Section])
		}
		prev = s.Section
	}
	return doc
}

// markdownText walks the goldmark AST of a slide and returns the title
// (first h1, else first h2) and the plain text body.
func markdownText(md goldmark.Markdown, src []byte) (string, string) {
	root := md.Parser().Parse(text.NewReader(src))

	var h1, h2 string
	var out bytes.Buffer
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && out.Len() > 0 {
				out.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			t := inlineText(node, src)
			if node.Level == 1 && h1 == "" {
				h1 = t
			} else if node.Level == 2 && h2 == "" {
				h2 = t
			}
		case *ast.Text:
			out.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				out.WriteByte(' ')
			}
		case *ast.String:
			out.Write(node.Value)
		case *ast.AutoLink:
			out.Write(node.Label(src))
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				out.Write(seg.Value(src))
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	title := h1
	if title == "" {
		title = h2
	}
	return title, normalizeSpace(out.String())
}

func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}

// normalizeSpace collapses runs of whitespace inside each line and drops
// blank lines.
func normalizeSpace(s string) string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if f := strings.Fields(l); len(f) > 0 {
			lines = append(lines, strings.Join(f, " "))
		}
	}
	return strings.Join(lines, "\n")
}
