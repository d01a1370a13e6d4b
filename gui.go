//go:build gui

package main

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/metcalfc/folio/internal/contents"
	"github.com/metcalfc/folio/internal/deck"
	"github.com/metcalfc/folio/internal/nav"
	"github.com/metcalfc/folio/internal/present"
	"github.com/metcalfc/folio/internal/source"
	"github.com/metcalfc/folio/internal/widgets/grades"
	"github.com/metcalfc/folio/internal/widgets/scorer"
)

// deckTheme forces the light or dark variant and scales text sizes.
type deckTheme struct {
	variant fyne.ThemeVariant
	scale   float32
}

func newDeckTheme(s *present.Session) *deckTheme {
	t := &deckTheme{variant: theme.VariantLight, scale: float32(s.Prefs.Scale)}
	if s.Prefs.Dark {
		t.variant = theme.VariantDark
	}
	return t
}

func (t *deckTheme) Color(n fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(n, t.variant)
}

func (t *deckTheme) Font(s fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(s)
}

func (t *deckTheme) Icon(n fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(n)
}

func (t *deckTheme) Size(n fyne.ThemeSizeName) float32 {
	size := theme.DefaultTheme().Size(n)
	switch n {
	case theme.SizeNameText, theme.SizeNameHeadingText, theme.SizeNameSubHeadingText:
		return size * t.scale
	}
	return size
}

func createGradesTable(calc *grades.Calculator) *widget.Table {
	headers := []string{"Mark", "UG", "PGT", "Singapore", "GPA"}
	t := widget.NewTable(
		func() (int, int) { return len(grades.Scale) + 1, len(headers) },
		func() fyne.CanvasObject { return widget.NewLabel("00 → 00") },
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			if id.Row == 0 {
				label.TextStyle.Bold = true
				label.Importance = widget.MediumImportance
				label.SetText(headers[id.Col])
				return
			}
			r := calc.Rows()[id.Row-1]
			cell := []grades.Cell{r.Mark, r.UG, r.PGT, r.Singapore, r.GPA}[id.Col]
			label.TextStyle.Bold = false
			label.Importance = widget.MediumImportance
			if cell.Changed {
				label.Importance = widget.WarningImportance
			}
			label.SetText(cell.String())
		},
	)
	for i, w := range []float32{90, 140, 140, 110, 110} {
		t.SetColumnWidth(i, w)
	}
	return t
}

func createScorer() fyne.CanvasObject {
	var rows []fyne.CanvasObject
	for i := range 2 {
		entry := widget.NewMultiLineEntry()
		entry.SetPlaceHolder(fmt.Sprintf("Definition %d...", i+1))
		entry.Wrapping = fyne.TextWrapWord
		entry.SetMinRowsVisible(3)

		counter := widget.NewLabel("")
		score := widget.NewLabel("")
		update := func(text string) {
			c, over := scorer.Counter(text)
			counter.SetText(c)
			counter.Importance = widget.MediumImportance
			if over {
				counter.Importance = widget.DangerImportance
			}
			counter.Refresh()

			n := scorer.Score(text)
			score.SetText(fmt.Sprintf("Score %d (%s)", n, scorer.Band(n)))
			switch scorer.Band(n) {
			case "good":
				score.Importance = widget.SuccessImportance
			case "low":
				score.Importance = widget.DangerImportance
			default:
				score.Importance = widget.WarningImportance
			}
			score.Refresh()
		}
		entry.OnChanged = update
		update("")

		rows = append(rows, entry, container.NewHBox(counter, score))
	}
	return container.NewVBox(rows...)
}

// presenter holds the window and the widgets that follow the navigator.
type presenter struct {
	app     fyne.App
	window  fyne.Window
	session *present.Session
	keys    keyMap

	toc     []contents.Row
	results contents.Results

	body        *widget.RichText
	slideArea   *container.Scroll
	progress    *widget.ProgressBar
	statusLabel *widget.Label
	sectionBar  *fyne.Container
	dotRail     *fyne.Container
	prevBtn     *widget.Button
	nextBtn     *widget.Button
	gradesPanel fyne.CanvasObject
	scorerPanel fyne.CanvasObject

	tocList       *widget.List
	resultList    *widget.List
	searchEntry   *widget.Entry
	searchMessage *widget.Label
	gotoEntry     *widget.Entry
	tabs          *container.AppTabs
	split         *container.Split

	help     dialog.Dialog
	helpOpen bool
}

const (
	tabContents = iota
	tabSearch
)

func newPresenter(a fyne.App, s *present.Session, st startup) *presenter {
	a.Settings().SetTheme(newDeckTheme(s))

	title := "folio"
	if s.Title != "" {
		title = s.Title + " - folio"
	}
	p := &presenter{
		app:     a,
		window:  a.NewWindow(title),
		session: s,
		keys:    newKeyMap(),
	}
	calc := grades.NewCalculator()

	p.body = widget.NewRichTextFromMarkdown("")
	p.body.Wrapping = fyne.TextWrapWord

	p.progress = widget.NewProgressBar()
	p.progress.Max = 100
	p.progress.TextFormatter = func() string {
		return s.Nav.Snapshot().Counter
	}

	p.statusLabel = widget.NewLabel("")
	p.statusLabel.Alignment = fyne.TextAlignCenter
	p.statusLabel.Truncation = fyne.TextTruncateEllipsis

	p.sectionBar = container.NewHBox()
	p.dotRail = container.NewHBox()

	p.prevBtn = widget.NewButton("‹ Prev", func() { s.Nav.Prev() })
	p.nextBtn = widget.NewButton("Next ›", func() { s.Nav.Next() })

	// Grade widget
	gradeTable := createGradesTable(calc)
	intervalLabel := widget.NewLabel(calc.Label())
	kindGroup := widget.NewRadioGroup([]string{grades.Percentage.String(), grades.Absolute.String()}, nil)
	kindGroup.Horizontal = true
	kindGroup.SetSelected(calc.Kind.String())
	refreshGrades := func() {
		intervalLabel.SetText(calc.Label())
		gradeTable.Refresh()
	}
	kindGroup.OnChanged = func(v string) {
		if v != "" && v != calc.Kind.String() {
			calc.ToggleKind()
			refreshGrades()
		}
	}
	p.gradesPanel = container.NewBorder(
		container.NewHBox(
			widget.NewButton("−", func() { calc.Decrease(); refreshGrades() }),
			intervalLabel,
			widget.NewButton("+", func() { calc.Increase(); refreshGrades() }),
			kindGroup,
		),
		nil, nil, nil,
		container.NewGridWrap(fyne.NewSize(600, 480), gradeTable),
	)
	p.gradesPanel.Hide()

	p.scorerPanel = createScorer()
	p.scorerPanel.Hide()

	// Contents and search side panel
	p.tocList = widget.NewList(
		func() int { return len(p.toc) },
		func() fyne.CanvasObject { return widget.NewLabel("Title") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			r := p.toc[id]
			name := r.Title
			if name == "" {
				name = deck.DefaultTitle
			}
			indent := "    "
			if r.Position.Slide == 0 {
				indent = ""
			}
			obj.(*widget.Label).SetText(indent + r.Number + "  " + name)
		},
	)
	p.tocList.OnSelected = p.activateTOC

	p.searchMessage = widget.NewLabel("")
	p.resultList = widget.NewList(
		func() int { return len(p.results.Hits) },
		func() fyne.CanvasObject {
			return container.NewVBox(widget.NewLabel("Heading"), widget.NewLabel("Snippet"))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			h := p.results.Hits[id]
			vbox := obj.(*fyne.Container)
			heading := vbox.Objects[0].(*widget.Label)
			heading.TextStyle.Bold = true
			heading.SetText(h.Heading())
			snippet := vbox.Objects[1].(*widget.Label)
			snippet.Truncation = fyne.TextTruncateEllipsis
			snippet.SetText(h.Snippet.Render(func(m string) string { return "«" + m + "»" }))
		},
	)
	p.resultList.OnSelected = p.activateResult
	p.searchEntry = widget.NewEntry()
	p.searchEntry.SetPlaceHolder("Search slides...")
	p.searchEntry.OnChanged = p.runSearch

	p.tabs = container.NewAppTabs(
		container.NewTabItem("Contents", p.tocList),
		container.NewTabItem("Search", container.NewBorder(
			container.NewVBox(p.searchEntry, p.searchMessage), nil, nil, nil, p.resultList)),
	)

	p.gotoEntry = widget.NewEntry()
	p.gotoEntry.SetPlaceHolder("section-1-slide-0 or slide number")
	p.gotoEntry.OnSubmitted = p.submitGoto

	p.slideArea = container.NewVScroll(container.NewVBox(p.body, p.gradesPanel, p.scorerPanel))

	viewer := container.NewBorder(
		container.NewVBox(container.NewHScroll(p.sectionBar), p.progress),
		container.NewVBox(
			container.NewHScroll(p.dotRail),
			container.NewBorder(nil, nil, p.prevBtn, container.NewHBox(p.gotoEntry, p.nextBtn), p.statusLabel),
		),
		nil, nil,
		p.slideArea,
	)

	p.split = container.NewHSplit(p.tabs, viewer)
	p.split.Offset = 0.3
	if !st.toc {
		p.tabs.Hide()
	}

	p.help = dialog.NewCustom("Shortcuts", "Close", p.helpView(), p.window)
	p.help.SetOnClosed(func() { p.helpOpen = false })

	s.Nav.Subscribe(p.update)
	p.refreshIndex()
	p.update(s.Nav.Snapshot())

	p.window.Canvas().SetOnTypedKey(p.typedKey)
	p.window.Canvas().SetOnTypedRune(p.typedRune)
	p.window.SetOnClosed(func() {
		if err := s.Save(); err != nil {
			s.Log.Warn("save bookmark", zap.Error(err))
		}
	})

	p.window.Resize(fyne.NewSize(1024, 720))
	p.window.SetContent(p.split)
	return p
}

// helpView lists every binding of the key map, one group per column.
func (p *presenter) helpView() fyne.CanvasObject {
	var columns []fyne.CanvasObject
	for _, group := range p.keys.FullHelp() {
		var rows []fyne.CanvasObject
		for _, b := range group {
			k := widget.NewLabelWithStyle(b.Help().Key, fyne.TextAlignTrailing, fyne.TextStyle{Monospace: true})
			rows = append(rows, k, widget.NewLabel(b.Help().Desc))
		}
		columns = append(columns, container.NewGridWithColumns(2, rows...))
	}
	return container.NewHBox(columns...)
}

// activateTOC moves to a contents row and closes the panel. The selection is
// cleared so the same row can be chosen again later.
func (p *presenter) activateTOC(id widget.ListItemID) {
	if id < len(p.toc) {
		pos := p.toc[id].Position
		p.session.Nav.GoTo(pos.Section, pos.Slide)
	}
	p.tocList.UnselectAll()
	p.closePanels()
}

func (p *presenter) activateResult(id widget.ListItemID) {
	if id < len(p.results.Hits) {
		pos := p.results.Hits[id].Position
		p.session.Nav.GoTo(pos.Section, pos.Slide)
	}
	p.resultList.UnselectAll()
	p.closePanels()
}

func (p *presenter) runSearch(q string) {
	p.results = contents.Search(p.session.Nav.Deck(), q)
	p.searchMessage.SetText(p.results.Message())
	p.resultList.UnselectAll()
	p.resultList.Refresh()
}

// togglePanel shows the side panel on tab, or hides it when tab is already
// showing.
func (p *presenter) togglePanel(tab int) {
	if p.tabs.Visible() && p.tabs.SelectedIndex() == tab {
		p.closePanels()
		return
	}
	p.tabs.Show()
	p.tabs.SelectIndex(tab)
	if tab == tabSearch {
		p.window.Canvas().Focus(p.searchEntry)
	}
	p.split.Refresh()
}

func (p *presenter) closePanels() {
	p.tabs.Hide()
	p.split.Refresh()
	p.window.Canvas().Unfocus()
}

func (p *presenter) toggleHelp() {
	if p.helpOpen {
		p.help.Hide()
		return
	}
	p.helpOpen = true
	p.help.Show()
}

func (p *presenter) submitGoto(text string) {
	if !p.session.Jump(text) && strings.TrimSpace(text) != "" {
		p.statusLabel.SetText(fmt.Sprintf("No slide %q", text))
	}
	p.gotoEntry.SetText("")
	p.window.Canvas().Unfocus()
}

func (p *presenter) update(snap nav.Snapshot) {
	slide, ok := p.session.Nav.Current()
	if !ok {
		return
	}
	md := slide.Markdown
	if md == "" {
		md = slide.Body
	}
	p.body.ParseMarkdown(md)
	p.slideArea.ScrollToTop()

	p.progress.SetValue(snap.Percent)

	parts := []string{
		snap.SectionName + " (" + snap.SectionSlide + ")",
		snap.SlideNumber,
		snap.SlideTitle,
		snap.Counter,
		p.session.Prefs.Percent(),
	}
	status := strings.Join(parts, " · ")
	for _, d := range snap.Dots {
		if d.Active && d.Tooltip != "" {
			status += " · " + d.Tooltip
		}
	}
	p.statusLabel.SetText(status)

	if snap.CanPrev {
		p.prevBtn.Enable()
	} else {
		p.prevBtn.Disable()
	}
	if snap.CanNext {
		p.nextBtn.Enable()
	} else {
		p.nextBtn.Disable()
	}

	p.sectionBar.Objects = nil
	for _, l := range snap.Links {
		idx := l.Index
		b := widget.NewButton(fmt.Sprintf("%d %s", idx+1, l.Name), func() { p.session.Nav.GoToSection(idx) })
		b.Importance = widget.LowImportance
		if l.Active {
			b.Importance = widget.HighImportance
		}
		p.sectionBar.Objects = append(p.sectionBar.Objects, b)
	}
	p.sectionBar.Refresh()

	p.dotRail.Objects = nil
	for _, d := range snap.Dots {
		g := d.Global
		label := "○"
		importance := widget.LowImportance
		switch {
		case d.Active:
			label, importance = "●", widget.HighImportance
		case d.Special:
			label, importance = "◆", widget.WarningImportance
		}
		b := widget.NewButton(label, func() { p.session.Nav.GoToGlobal(g) })
		b.Importance = importance
		p.dotRail.Objects = append(p.dotRail.Objects, b)
	}
	p.dotRail.Refresh()

	p.gradesPanel.Hide()
	p.scorerPanel.Hide()
	switch slide.Widget {
	case source.WidgetGrades:
		p.gradesPanel.Show()
	case source.WidgetScorer:
		p.scorerPanel.Show()
	}

	for i, r := range p.toc {
		if r.Position == snap.Position {
			p.tocList.ScrollTo(i)
			break
		}
	}
}

func (p *presenter) refreshIndex() {
	p.toc = contents.Flatten(contents.TOC(p.session.Nav.Deck()))
	p.tocList.Refresh()
	p.runSearch(p.searchEntry.Text)
}

func (p *presenter) reload() {
	if err := p.session.Reload(); err != nil {
		p.statusLabel.SetText("Reload failed: " + err.Error())
		return
	}
	p.refreshIndex()
}

func (p *presenter) applyTheme() {
	p.app.Settings().SetTheme(newDeckTheme(p.session))
	p.update(p.session.Nav.Snapshot())
}

func (p *presenter) typedKey(key *fyne.KeyEvent) {
	nav := p.session.Nav
	switch key.Name {
	case fyne.KeyRight, fyne.KeySpace:
		nav.Next()
	case fyne.KeyLeft, fyne.KeyBackspace:
		nav.Prev()
	case fyne.KeyHome:
		nav.First()
	case fyne.KeyEnd:
		nav.Last()
	case fyne.KeyEscape:
		if p.helpOpen {
			p.help.Hide()
		}
		p.closePanels()
	}
}

func (p *presenter) typedRune(r rune) {
	s := p.session
	switch r {
	case 'l':
		s.Nav.Next()
	case 'h':
		s.Nav.Prev()
	case '[':
		s.Router.Back()
	case ']':
		s.Router.Forward()
	case 't', 'T':
		p.togglePanel(tabContents)
	case 's', 'S':
		p.togglePanel(tabSearch)
	case ':':
		p.window.Canvas().Focus(p.gotoEntry)
	case '?':
		p.toggleHelp()
	case 'd', 'D':
		s.Prefs.ToggleTheme()
		p.applyTheme()
	case '+', '=':
		if s.Prefs.Increase() {
			p.applyTheme()
		}
	case '-', '_':
		if s.Prefs.Decrease() {
			p.applyTheme()
		}
	case 'f', 'F':
		p.window.SetFullScreen(!p.window.FullScreen())
	case 'q', 'Q':
		p.app.Quit()
	default:
		if r >= '1' && r <= '7' {
			s.Nav.GoToSection(int(r - '1'))
		}
	}
}

func runPresenter(s *present.Session, st startup) error {
	p := newPresenter(app.New(), s, st)

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	defer func() {
		cancel()
		g.Wait()
	}()
	if s.Config.Watch {
		g.Go(func() error {
			err := s.Watch(ctx, func() { fyne.Do(p.reload) })
			if err != nil {
				s.Log.Warn("watch stopped", zap.Error(err))
			}
			return nil
		})
	}

	p.window.ShowAndRun()
	return nil
}
