//go:build gui

package main

import (
	"fmt"
	"strings"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metcalfc/folio/internal/deck"
)

func newTestPresenter(t *testing.T, body string, st startup) *presenter {
	t.Helper()
	s, _ := openSession(t, body)
	return newPresenter(test.NewTempApp(t), s, st)
}

func TestPresenterTOCActivation(t *testing.T) {
	p := newTestPresenter(t, testDeck, startup{toc: true})
	require.True(t, p.tabs.Visible())
	require.Len(t, p.toc, 5)

	p.tocList.Select(3)
	assert.Equal(t, deck.Position{Section: 1, Slide: 1}, p.session.Nav.Position())
	assert.False(t, p.tabs.Visible(), "activating a row closes the panel")

	p.typedKey(&fyne.KeyEvent{Name: fyne.KeyRight})
	assert.Equal(t, deck.Position{Section: 1, Slide: 2}, p.session.Nav.Position())

	// The same row can be chosen again.
	p.typedRune('t')
	require.True(t, p.tabs.Visible())
	p.tocList.Select(3)
	assert.Equal(t, deck.Position{Section: 1, Slide: 1}, p.session.Nav.Position())
	assert.False(t, p.tabs.Visible())
}

func TestPresenterSearchActivation(t *testing.T) {
	p := newTestPresenter(t, testDeck, startup{})

	p.typedRune('s')
	require.True(t, p.tabs.Visible())
	assert.Equal(t, tabSearch, p.tabs.SelectedIndex())

	p.searchEntry.SetText("Definitions")
	require.Len(t, p.results.Hits, 1)

	p.resultList.Select(0)
	assert.Equal(t, deck.Position{Section: 1, Slide: 1}, p.session.Nav.Position())
	assert.False(t, p.tabs.Visible())

	p.session.Nav.First()
	p.typedRune('s')
	p.resultList.Select(0)
	assert.Equal(t, deck.Position{Section: 1, Slide: 1}, p.session.Nav.Position())
}

func TestPresenterPanelToggle(t *testing.T) {
	p := newTestPresenter(t, testDeck, startup{})
	assert.False(t, p.tabs.Visible())

	p.typedRune('t')
	assert.True(t, p.tabs.Visible())
	assert.Equal(t, tabContents, p.tabs.SelectedIndex())

	p.typedRune('s')
	assert.True(t, p.tabs.Visible(), "switching tabs keeps the panel open")
	assert.Equal(t, tabSearch, p.tabs.SelectedIndex())

	p.typedRune('s')
	assert.False(t, p.tabs.Visible())

	p.typedRune('t')
	p.typedKey(&fyne.KeyEvent{Name: fyne.KeyEscape})
	assert.False(t, p.tabs.Visible())
}

func TestPresenterHelp(t *testing.T) {
	p := newTestPresenter(t, testDeck, startup{})
	overlays := p.window.Canvas().Overlays()

	p.typedRune('?')
	assert.True(t, p.helpOpen)
	assert.NotNil(t, overlays.Top())

	p.typedRune('?')
	assert.False(t, p.helpOpen)
	assert.Nil(t, overlays.Top())

	p.typedRune('?')
	p.typedKey(&fyne.KeyEvent{Name: fyne.KeyEscape})
	assert.False(t, p.helpOpen)
	assert.Nil(t, overlays.Top())
}

func TestPresenterKeys(t *testing.T) {
	p := newTestPresenter(t, testDeck, startup{})
	at := func() deck.Position { return p.session.Nav.Position() }

	p.typedRune('l')
	assert.Equal(t, deck.Position{Section: 0, Slide: 1}, at())
	p.typedKey(&fyne.KeyEvent{Name: fyne.KeyEnd})
	assert.Equal(t, deck.Position{Section: 1, Slide: 2}, at())
	assert.True(t, p.nextBtn.Disabled())
	p.typedRune('h')
	assert.Equal(t, deck.Position{Section: 1, Slide: 1}, at())
	p.typedKey(&fyne.KeyEvent{Name: fyne.KeyHome})
	assert.Equal(t, deck.Position{}, at())
	assert.True(t, p.prevBtn.Disabled())
	p.typedRune('2')
	assert.Equal(t, deck.Position{Section: 1}, at())
	p.typedRune('[')
	assert.Equal(t, deck.Position{}, at())
	p.typedRune(']')
	assert.Equal(t, deck.Position{Section: 1}, at())
}

func TestPresenterSectionDigitsStopAtSeven(t *testing.T) {
	var body strings.Builder
	for i := range 8 {
		fmt.Fprintf(&body, "# Part %d\ntext\n\n", i+1)
	}
	p := newTestPresenter(t, body.String(), startup{})

	p.typedRune('7')
	assert.Equal(t, deck.Position{Section: 6}, p.session.Nav.Position())
	p.typedRune('8')
	assert.Equal(t, deck.Position{Section: 6}, p.session.Nav.Position())
}

func TestPresenterGoto(t *testing.T) {
	p := newTestPresenter(t, testDeck, startup{})
	assert.Contains(t, p.statusLabel.Text, "Intro (1 / 2)")

	p.submitGoto("section-0-slide-0")
	assert.NotContains(t, p.statusLabel.Text, "No slide")

	p.submitGoto("4")
	assert.Equal(t, deck.Position{Section: 1, Slide: 1}, p.session.Nav.Position())
	assert.Contains(t, p.statusLabel.Text, "Work (2 / 3)")
	assert.Empty(t, p.gotoEntry.Text)

	p.submitGoto("99")
	assert.Equal(t, `No slide "99"`, p.statusLabel.Text)
	assert.Equal(t, deck.Position{Section: 1, Slide: 1}, p.session.Nav.Position())
}

func TestPresenterReload(t *testing.T) {
	s, path := openSession(t, testDeck)
	p := newPresenter(test.NewTempApp(t), s, startup{})

	writeFile(t, path, testDeck+"\n## Encore\nOne more.\n")
	p.reload()
	assert.Len(t, p.toc, 6)

	writeFile(t, path, "\n")
	p.reload()
	assert.True(t, strings.HasPrefix(p.statusLabel.Text, "Reload failed"))
	assert.Len(t, p.toc, 6)
}
