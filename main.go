//go:build !gui

package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/metcalfc/folio/internal/contents"
	"github.com/metcalfc/folio/internal/deck"
	"github.com/metcalfc/folio/internal/present"
	"github.com/metcalfc/folio/internal/source"
	"github.com/metcalfc/folio/internal/widgets/grades"
)

type overlay int

const (
	overlayNone overlay = iota
	overlayTOC
	overlaySearch
	overlayHelp
	overlayGoto
)

// reloadMsg is sent by the file watcher when the deck changes on disk.
type reloadMsg struct{}

type model struct {
	session *present.Session
	keys    keyMap
	help    help.Model
	overlay overlay

	search    textinput.Model
	results   contents.Results
	resultSel int

	toc    []contents.Row
	tocSel int

	prompt textinput.Model

	grades  *grades.Calculator
	editors []textarea.Model
	editing int

	progress progress.Model
	rendered map[string]string

	status   string
	width    int
	height   int
	quitting bool
}

func newModel(s *present.Session, st startup) model {
	search := textinput.New()
	search.Placeholder = "Search slides..."
	search.Prompt = "/ "

	prompt := textinput.New()
	prompt.Placeholder = "section-1-slide-0 or slide number"
	prompt.Prompt = ": "

	editors := make([]textarea.Model, 2)
	for i := range editors {
		ta := textarea.New()
		ta.Placeholder = fmt.Sprintf("Definition %d...", i+1)
		ta.ShowLineNumbers = false
		ta.SetHeight(3)
		ta.SetWidth(60)
		editors[i] = ta
	}

	m := model{
		session:  s,
		keys:     newKeyMap(),
		help:     help.New(),
		search:   search,
		results:  contents.Search(s.Nav.Deck(), ""),
		prompt:   prompt,
		grades:   grades.NewCalculator(),
		editors:  editors,
		editing:  -1,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		rendered: make(map[string]string),
		width:    80,
		height:   24,
	}
	m.toc = contents.Flatten(contents.TOC(s.Nav.Deck()))
	m.progress.Width = m.width - 2
	if st.toc {
		m.openTOC()
	}
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = max(10, msg.Width-2)
		for i := range m.editors {
			m.editors[i].SetWidth(min(72, max(20, msg.Width-6)))
		}
		m.rendered = make(map[string]string)
		return m, nil

	case reloadMsg:
		if err := m.session.Reload(); err != nil {
			m.status = "Reload failed: " + err.Error()
			return m, nil
		}
		m.status = "Reloaded"
		m.toc = contents.Flatten(contents.TOC(m.session.Nav.Deck()))
		m.tocSel = min(m.tocSel, max(0, len(m.toc)-1))
		m.runSearch()
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.click(msg.X, msg.Y)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// Focused inputs receive every key except the ones that leave them.
	if m.editing >= 0 {
		return m.updateEditor(msg)
	}
	switch m.overlay {
	case overlaySearch:
		return m.updateSearch(msg)
	case overlayGoto:
		return m.updateGoto(msg)
	case overlayTOC:
		if handled := m.updateTOC(msg); handled {
			return m, nil
		}
	}

	nav := m.session.Nav
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Close):
		m.closeAll()

	case key.Matches(msg, m.keys.Next):
		nav.Next()

	case key.Matches(msg, m.keys.Prev):
		nav.Prev()

	case key.Matches(msg, m.keys.First):
		nav.First()

	case key.Matches(msg, m.keys.Last):
		nav.Last()

	case key.Matches(msg, m.keys.Section):
		nav.GoToSection(int(msg.String()[0] - '1'))

	case key.Matches(msg, m.keys.Back):
		m.session.Router.Back()

	case key.Matches(msg, m.keys.Forward):
		m.session.Router.Forward()

	case key.Matches(msg, m.keys.TOC):
		if m.overlay == overlayTOC {
			m.overlay = overlayNone
		} else {
			m.openTOC()
		}

	case key.Matches(msg, m.keys.Search):
		m.overlay = overlaySearch
		m.runSearch()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Goto):
		m.overlay = overlayGoto
		m.prompt.Reset()
		return m, m.prompt.Focus()

	case key.Matches(msg, m.keys.Help):
		if m.overlay == overlayHelp {
			m.overlay = overlayNone
		} else {
			m.overlay = overlayHelp
		}

	case key.Matches(msg, m.keys.Theme):
		m.session.Prefs.ToggleTheme()

	case key.Matches(msg, m.keys.Bigger):
		m.session.Prefs.Increase()

	case key.Matches(msg, m.keys.Smaller):
		m.session.Prefs.Decrease()

	case key.Matches(msg, m.keys.Interval) && m.widget() == source.WidgetGrades:
		if msg.String() == "," {
			m.grades.Decrease()
		} else {
			m.grades.Increase()
		}

	case key.Matches(msg, m.keys.Kind) && m.widget() == source.WidgetGrades:
		m.grades.ToggleKind()

	case key.Matches(msg, m.keys.Edit) && m.widget() == source.WidgetScorer:
		m.editing = 0
		return m, m.editors[0].Focus()
	}

	return m, nil
}

func (m model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.blurEditors()
		return m, nil
	case key.Matches(msg, m.keys.Switch):
		m.editors[m.editing].Blur()
		m.editing = (m.editing + 1) % len(m.editors)
		return m, m.editors[m.editing].Focus()
	}
	var cmd tea.Cmd
	m.editors[m.editing], cmd = m.editors[m.editing].Update(msg)
	return m, cmd
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeAll()
		return m, nil
	case tea.KeyUp:
		if m.resultSel > 0 {
			m.resultSel--
		}
		return m, nil
	case tea.KeyDown:
		if m.resultSel < len(m.results.Hits)-1 {
			m.resultSel++
		}
		return m, nil
	case tea.KeyEnter:
		if m.resultSel < len(m.results.Hits) {
			p := m.results.Hits[m.resultSel].Position
			m.session.Nav.GoTo(p.Section, p.Slide)
			m.closeAll()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.runSearch()
	return m, cmd
}

func (m model) updateGoto(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeAll()
		return m, nil
	case tea.KeyEnter:
		input := m.prompt.Value()
		if !m.session.Jump(input) && input != "" {
			m.status = fmt.Sprintf("No slide %q", input)
		}
		m.closeAll()
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// updateTOC handles list movement while the contents are open. Other keys
// fall through to the normal shortcuts.
func (m *model) updateTOC(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.tocSel > 0 {
			m.tocSel--
		}
	case key.Matches(msg, m.keys.Down):
		if m.tocSel < len(m.toc)-1 {
			m.tocSel++
		}
	case key.Matches(msg, m.keys.Select):
		if m.tocSel < len(m.toc) {
			p := m.toc[m.tocSel].Position
			m.session.Nav.GoTo(p.Section, p.Slide)
		}
		m.overlay = overlayNone
	default:
		return false
	}
	return true
}

func (m *model) openTOC() {
	m.overlay = overlayTOC
	pos := m.session.Nav.Position()
	for i, r := range m.toc {
		if r.Position == pos {
			m.tocSel = i
			break
		}
	}
}

func (m *model) runSearch() {
	m.results = contents.Search(m.session.Nav.Deck(), m.search.Value())
	if m.resultSel >= len(m.results.Hits) {
		m.resultSel = 0
	}
}

func (m *model) closeAll() {
	m.overlay = overlayNone
	m.search.Blur()
	m.prompt.Blur()
	m.blurEditors()
}

func (m *model) blurEditors() {
	for i := range m.editors {
		m.editors[i].Blur()
	}
	m.editing = -1
}

// widget names the interactive widget on the current slide.
func (m model) widget() string {
	s, ok := m.session.Nav.Current()
	if !ok {
		return ""
	}
	return s.Widget
}

func (m model) current() (deck.Slide, bool) {
	return m.session.Nav.Current()
}

// click routes a left click on the section bar or the dot rail.
func (m *model) click(x, y int) {
	switch y {
	case 0:
		if i, ok := m.linkAt(x); ok {
			m.session.Nav.GoToSection(i)
		}
	case m.railRow():
		if g, ok := m.dotAt(x); ok {
			m.session.Nav.GoToGlobal(g)
		}
	}
}

func runPresenter(s *present.Session, st startup) error {
	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	if s.Path == "" {
		opts = append(opts, tea.WithInputTTY())
	}
	p := tea.NewProgram(newModel(s, st), opts...)

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	if s.Config.Watch {
		g.Go(func() error {
			if err := s.Watch(ctx, func() { p.Send(reloadMsg{}) }); err != nil {
				s.Log.Warn("watch stopped", zap.Error(err))
			}
			return nil
		})
	}
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		return err
	})

	return g.Wait()
}
