package present

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metcalfc/folio/internal/deck"
)

const talk = `# Intro
Hello.

## Agenda
Things.

# Work
<!-- widget: grades -->
Grades.

## Scorer
<!-- widget: scorer -->
Definitions.

## Wrap
Bye.
`

func setup(t *testing.T, body string) (string, Options) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	path := filepath.Join(dir, "talk.md")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path, Options{Path: path, StateDir: filepath.Join(dir, "state")}
}

func TestOpen(t *testing.T) {
	_, opts := setup(t, talk)

	s, err := Open(opts)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "talk", s.Title)
	assert.Equal(t, 5, s.Nav.Deck().Total())
	assert.Equal(t, "Work", s.Nav.Deck().SectionName(1))
	assert.Equal(t, deck.Position{}, s.Nav.Position())
	assert.True(t, s.Prefs.Dark)
}

func TestOpenConfigOverrides(t *testing.T) {
	path, opts := setup(t, talk)
	cfg := "sections: [Welcome]\ntheme: light\nannotations:\n  - slide: 3\n    label: Grade tool\n"
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "folio.yaml"), []byte(cfg), 0644))
	opts.Scale = 1.2

	s, err := Open(opts)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "Welcome", s.Nav.Deck().SectionName(0))
	assert.Equal(t, "Work", s.Nav.Deck().SectionName(1))
	assert.False(t, s.Prefs.Dark)
	assert.InDelta(t, 1.2, s.Prefs.Scale, 1e-9)
	assert.True(t, s.Nav.Snapshot().Dots[2].Special)
}

func TestOpenInvalidConfig(t *testing.T) {
	_, opts := setup(t, talk)
	opts.Theme = "sepia"

	_, err := Open(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestOpenEmptyDeck(t *testing.T) {
	_, opts := setup(t, "\n\n")

	_, err := Open(opts)
	assert.ErrorIs(t, err, ErrEmptyDeck)
}

func TestOpenStdin(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	s, err := Open(Options{Stdin: strings.NewReader("# Piped\none\n## Two\ntwo\n")})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 2, s.Nav.Deck().Total())
	assert.NoError(t, s.Save())
	assert.NoError(t, s.Reload())
}

func TestOpenAt(t *testing.T) {
	_, opts := setup(t, talk)
	opts.At = "#section-1-slide-2"

	s, err := Open(opts)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, deck.Position{Section: 1, Slide: 2}, s.Nav.Position())
}

func TestOpenAtInvalidIsIgnored(t *testing.T) {
	_, opts := setup(t, talk)
	opts.At = "section-9-slide-0"

	s, err := Open(opts)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, deck.Position{}, s.Nav.Position())
}

func TestJump(t *testing.T) {
	_, opts := setup(t, talk)
	s, err := Open(opts)
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, s.Jump("4"))
	assert.Equal(t, deck.Position{Section: 1, Slide: 1}, s.Nav.Position())

	assert.True(t, s.Jump(" section-0-slide-1 "))
	assert.Equal(t, deck.Position{Section: 0, Slide: 1}, s.Nav.Position())

	assert.False(t, s.Jump("0"))
	assert.False(t, s.Jump("6"))
	assert.False(t, s.Jump("nonsense"))
	assert.False(t, s.Jump("section-0-slide-2"))
	assert.Equal(t, deck.Position{Section: 0, Slide: 1}, s.Nav.Position())

	// The current slide is a valid target, by fragment or by number.
	assert.True(t, s.Jump("section-0-slide-1"))
	assert.True(t, s.Jump("2"))
	assert.Equal(t, deck.Position{Section: 0, Slide: 1}, s.Nav.Position())

	assert.True(t, s.Router.Back())
	assert.Equal(t, deck.Position{Section: 1, Slide: 1}, s.Nav.Position())
}

func TestResolve(t *testing.T) {
	_, opts := setup(t, talk)
	s, err := Open(opts)
	require.NoError(t, err)
	defer s.Close()

	tests := []struct {
		input string
		want  deck.Position
		ok    bool
	}{
		{"1", deck.Position{}, true},
		{"5", deck.Position{Section: 1, Slide: 2}, true},
		{"#section-1-slide-0", deck.Position{Section: 1}, true},
		{" section-0-slide-1 ", deck.Position{Slide: 1}, true},
		{"0", deck.Position{}, false},
		{"-3", deck.Position{}, false},
		{"section-2-slide-0", deck.Position{}, false},
		{"", deck.Position{}, false},
	}
	for _, tt := range tests {
		got, ok := s.Resolve(tt.input)
		assert.Equal(t, tt.ok, ok, "Resolve(%q)", tt.input)
		assert.Equal(t, tt.want, got, "Resolve(%q)", tt.input)
	}
}

func TestResumeAndFresh(t *testing.T) {
	_, opts := setup(t, talk)

	s, err := Open(opts)
	require.NoError(t, err)
	require.True(t, s.Jump("section-1-slide-1"))
	require.NoError(t, s.Close())

	opts.Resume = true
	s, err = Open(opts)
	require.NoError(t, err)
	assert.Equal(t, deck.Position{Section: 1, Slide: 1}, s.Nav.Position())
	require.NoError(t, s.Close())

	opts.Resume = false
	s, err = Open(opts)
	require.NoError(t, err)
	assert.Equal(t, deck.Position{}, s.Nav.Position(), "bookmarks only apply with Resume")
	s.Nav.Last()
	s.closeLog()

	opts.Fresh = true
	s, err = Open(opts)
	require.NoError(t, err)
	s.closeLog()

	opts.Fresh, opts.Resume = false, true
	s, err = Open(opts)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, deck.Position{}, s.Nav.Position())
}

func TestReload(t *testing.T) {
	path, opts := setup(t, talk)
	s, err := Open(opts)
	require.NoError(t, err)
	defer s.Close()

	require.True(t, s.Jump("5"))

	require.NoError(t, os.WriteFile(path, []byte("# Short\nOnly two.\n## Second\nslide\n"), 0644))
	require.NoError(t, s.Reload())
	assert.Equal(t, 2, s.Nav.Deck().Total())
	assert.Equal(t, deck.Position{Section: 0, Slide: 1}, s.Nav.Position())

	require.NoError(t, os.WriteFile(path, []byte(""), 0644))
	assert.ErrorIs(t, s.Reload(), ErrEmptyDeck)
	assert.Equal(t, 2, s.Nav.Deck().Total())
}
