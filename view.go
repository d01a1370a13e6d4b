//go:build !gui

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/metcalfc/folio/internal/contents"
	"github.com/metcalfc/folio/internal/deck"
	"github.com/metcalfc/folio/internal/source"
	"github.com/metcalfc/folio/internal/widgets/grades"
	"github.com/metcalfc/folio/internal/widgets/scorer"
)

// Rows reserved around the slide body: section bar and progress on top,
// dot rail, status and help at the bottom.
const (
	headerRows = 2
	footerRows = 3
)

const (
	dotActive  = "●"
	dotNormal  = "○"
	dotSpecial = "◆"
)

type palette struct {
	text    lipgloss.Color
	muted   lipgloss.Color
	accent  lipgloss.Color
	special lipgloss.Color
	warn    lipgloss.Color
	good    lipgloss.Color
	mark    lipgloss.Color
}

var (
	darkPalette = palette{
		text:    lipgloss.Color("#EEEEEE"),
		muted:   lipgloss.Color("#888888"),
		accent:  lipgloss.Color("#7D56F4"),
		special: lipgloss.Color("#FFAA00"),
		warn:    lipgloss.Color("#FF5F5F"),
		good:    lipgloss.Color("#00D787"),
		mark:    lipgloss.Color("#FFD700"),
	}
	lightPalette = palette{
		text:    lipgloss.Color("#222222"),
		muted:   lipgloss.Color("#666666"),
		accent:  lipgloss.Color("#5A3FC0"),
		special: lipgloss.Color("#C06000"),
		warn:    lipgloss.Color("#C00000"),
		good:    lipgloss.Color("#008040"),
		mark:    lipgloss.Color("#FFE066"),
	}
)

type styles struct {
	link       lipgloss.Style
	activeLink lipgloss.Style
	title      lipgloss.Style
	muted      lipgloss.Style
	status     lipgloss.Style
	selected   lipgloss.Style
	dot        lipgloss.Style
	activeDot  lipgloss.Style
	specialDot lipgloss.Style
	highlight  lipgloss.Style
	changed    lipgloss.Style
	warn       lipgloss.Style
	good       lipgloss.Style
	label      lipgloss.Style
}

func newStyles(dark bool) styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}
	return styles{
		link:       lipgloss.NewStyle().Foreground(p.muted),
		activeLink: lipgloss.NewStyle().Foreground(p.text).Background(p.accent).Bold(true),
		title:      lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		muted:      lipgloss.NewStyle().Foreground(p.muted),
		status:     lipgloss.NewStyle().Foreground(p.muted),
		selected:   lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		dot:        lipgloss.NewStyle().Foreground(p.muted),
		activeDot:  lipgloss.NewStyle().Foreground(p.accent),
		specialDot: lipgloss.NewStyle().Foreground(p.special),
		highlight:  lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(p.mark),
		changed:    lipgloss.NewStyle().Foreground(p.special).Bold(true),
		warn:       lipgloss.NewStyle().Foreground(p.warn),
		good:       lipgloss.NewStyle().Foreground(p.good),
		label:      lipgloss.NewStyle().Foreground(p.special).Italic(true),
	}
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	st := newStyles(m.session.Prefs.Dark)
	snap := m.session.Nav.Snapshot()

	var b strings.Builder
	b.WriteString(m.linksView(st))
	b.WriteString("\n")
	b.WriteString(" " + m.progress.ViewAs(snap.Percent/100))
	b.WriteString("\n")

	body := m.bodyHeight()
	var middle string
	switch m.overlay {
	case overlayTOC:
		middle = m.tocView(st, body)
	case overlaySearch:
		middle = m.searchView(st, body)
	case overlayHelp:
		middle = "\n" + m.help.FullHelpView(m.keys.FullHelp())
	case overlayGoto:
		middle = m.gotoView(st)
	default:
		middle = m.slideView(st)
	}
	b.WriteString(fit(middle, body))

	b.WriteString(m.railView(st))
	b.WriteString("\n")
	b.WriteString(m.statusView(st))
	b.WriteString("\n")
	b.WriteString(" " + m.help.View(m.keys))
	return b.String()
}

func (m model) bodyHeight() int {
	return max(1, m.height-headerRows-footerRows)
}

func (m model) railRow() int {
	return m.height - footerRows
}

// fit pads or clips s to exactly n lines, each followed by a newline.
func fit(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n") + "\n"
}

func linkLabel(i int, name string) string {
	return fmt.Sprintf(" %d %s ", i+1, name)
}

func (m model) linksView(st styles) string {
	var b strings.Builder
	for _, l := range m.session.Nav.Snapshot().Links {
		label := linkLabel(l.Index, l.Name)
		if l.Active {
			b.WriteString(st.activeLink.Render(label))
		} else {
			b.WriteString(st.link.Render(label))
		}
	}
	return b.String()
}

// linkAt maps a column on the section bar to a section index.
func (m model) linkAt(x int) (int, bool) {
	col := 0
	for _, l := range m.session.Nav.Snapshot().Links {
		w := lipgloss.Width(linkLabel(l.Index, l.Name))
		if x >= col && x < col+w {
			return l.Index, true
		}
		col += w
	}
	return 0, false
}

// railWindow returns the range of dots that fits the terminal, keeping the
// active dot in view. Every dot takes two cells after a one cell margin.
func (m model) railWindow(total, active int) (int, int) {
	n := max(1, (m.width-2)/2)
	if total <= n {
		return 0, total
	}
	start := min(max(0, active-n/2), total-n)
	return start, start + n
}

func (m model) railView(st styles) string {
	snap := m.session.Nav.Snapshot()
	start, end := m.railWindow(len(snap.Dots), snap.Global)

	var b strings.Builder
	b.WriteString(" ")
	for _, d := range snap.Dots[start:end] {
		switch {
		case d.Active:
			b.WriteString(st.activeDot.Render(dotActive))
		case d.Special:
			b.WriteString(st.specialDot.Render(dotSpecial))
		default:
			b.WriteString(st.dot.Render(dotNormal))
		}
		b.WriteString(" ")
	}
	return b.String()
}

// dotAt maps a column on the dot rail to a global slide index.
func (m model) dotAt(x int) (int, bool) {
	snap := m.session.Nav.Snapshot()
	start, end := m.railWindow(len(snap.Dots), snap.Global)
	if x < 1 {
		return 0, false
	}
	g := start + (x-1)/2
	if g >= end {
		return 0, false
	}
	return g, true
}

func (m model) statusView(st styles) string {
	snap := m.session.Nav.Snapshot()
	parts := []string{
		snap.SectionName + " (" + snap.SectionSlide + ")",
		snap.SlideNumber,
		snap.SlideTitle,
		snap.Counter,
		fmt.Sprintf("%.0f%%", snap.Percent),
		m.session.Prefs.Percent(),
	}
	line := st.status.Render(" " + strings.Join(parts, " · "))

	for _, d := range snap.Dots {
		if d.Active && d.Tooltip != "" {
			line += " " + st.label.Render(d.Tooltip)
			break
		}
	}
	if m.status != "" {
		line += "  " + st.warn.Render(m.status)
	}
	return line
}

func (m model) slideView(st styles) string {
	s, ok := m.current()
	if !ok {
		return ""
	}
	out := m.renderMarkdown(s)

	switch s.Widget {
	case source.WidgetGrades:
		out += "\n" + m.gradesView(st)
	case source.WidgetScorer:
		out += "\n" + m.scorerView(st)
	}
	return out
}

// renderMarkdown renders slide content with glamour, caching by theme and
// wrap width. A renderer failure falls back to the plain body.
func (m model) renderMarkdown(s deck.Slide) string {
	theme := m.session.Prefs.Theme()
	wrap := m.session.Prefs.Width(m.width-4, 20)
	key := fmt.Sprintf("%s/%d/%s", theme, wrap, s.Markdown)
	if out, ok := m.rendered[key]; ok {
		return out
	}

	src := s.Markdown
	if src == "" {
		src = s.Body
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return src
	}
	out, err := r.Render(src)
	if err != nil {
		return src
	}
	m.rendered[key] = out
	return out
}

func (m model) gradesView(st styles) string {
	rows := m.grades.Rows()
	cells := make([][]grades.Cell, len(rows))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.muted).
		Headers("Mark", "UG", "PGT", "Singapore", "GPA")
	for i, r := range rows {
		cells[i] = []grades.Cell{r.Mark, r.UG, r.PGT, r.Singapore, r.GPA}
		t.Row(r.Mark.String(), r.UG.String(), r.PGT.String(), r.Singapore.String(), r.GPA.String())
	}
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return st.title.Padding(0, 1)
		case row < len(cells) && cells[row][col].Changed:
			return st.changed.Padding(0, 1)
		}
		return cellStyle
	})

	header := st.title.Render("  Interval "+m.grades.Label()) +
		st.muted.Render("   ,/. adjust  a percentage/absolute")
	return header + "\n" + t.Render()
}

func (m model) scorerView(st styles) string {
	var b strings.Builder
	if m.editing < 0 {
		b.WriteString(st.muted.Render("  e to edit definitions, tab to switch, esc to finish"))
		b.WriteString("\n")
	}
	for i, ed := range m.editors {
		b.WriteString(ed.View())
		b.WriteString("\n")
		b.WriteString(scoreLine(st, ed.Value()))
		if i < len(m.editors)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func scoreLine(st styles, text string) string {
	counter, over := scorer.Counter(text)
	if over {
		counter = st.warn.Render(counter)
	} else {
		counter = st.muted.Render(counter)
	}

	score := scorer.Score(text)
	band := scorer.Band(score)
	label := fmt.Sprintf("Score %d (%s)", score, band)
	switch band {
	case "good":
		label = st.good.Render(label)
	case "low":
		label = st.warn.Render(label)
	default:
		label = st.changed.Render(label)
	}
	return "  " + counter + "  " + label
}

// window returns the range of n items to show with sel in view.
func window(total, sel, n int) (int, int) {
	if total <= n {
		return 0, total
	}
	start := min(max(0, sel-n/2), total-n)
	return start, start + n
}

func (m model) tocView(st styles, height int) string {
	var b strings.Builder
	b.WriteString(st.title.Render(" Table of Contents"))
	b.WriteString("\n\n")

	start, end := window(len(m.toc), m.tocSel, max(1, height-2))
	section := -1
	for i := start; i < end; i++ {
		r := m.toc[i]
		if r.Position.Section != section {
			section = r.Position.Section
			b.WriteString(" " + st.muted.Render(m.session.Nav.Deck().SectionName(section)) + "\n")
		}
		title := r.Title
		if title == "" {
			title = deck.DefaultTitle
		}
		line := fmt.Sprintf("   %-6s %s", r.Number, title)
		if i == m.tocSel {
			line = st.selected.Render(" ›" + line[2:])
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m model) searchView(st styles, height int) string {
	var b strings.Builder
	b.WriteString(" " + m.search.View())
	b.WriteString("\n\n")

	if m.results.State != contents.StateFound {
		b.WriteString(" " + st.muted.Render(m.results.Message()))
		return b.String()
	}

	mark := func(s string) string { return st.highlight.Render(s) }
	start, end := window(len(m.results.Hits), m.resultSel, max(1, (height-2)/3))
	for i := start; i < end; i++ {
		h := m.results.Hits[i]
		heading := "   " + h.Heading()
		if i == m.resultSel {
			heading = st.selected.Render(" › " + h.Heading())
		}
		b.WriteString(heading + "\n")
		b.WriteString("     " + h.Snippet.Render(mark) + "\n\n")
	}
	return b.String()
}

func (m model) gotoView(st styles) string {
	total := m.session.Nav.Deck().Total()
	return "\n " + st.title.Render("Go to slide") + "\n\n " + m.prompt.View() + "\n\n " +
		st.muted.Render(fmt.Sprintf("Enter section-N-slide-M or a number from 1 to %d", total))
}
